package word

import "time"

// Word 是词库中的一个词条
type Word struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Word      string    `gorm:"uniqueIndex;not null;type:varchar(255)" json:"word"`
	CreatedAt time.Time `json:"-"`
}

// TableName implements the GORM tabler interface.
func (Word) TableName() string { return "words" }

// WordUsed 记录某个词在某一天已经被使用过
// (word, used_on) 唯一，重复插入视为成功
type WordUsed struct {
	ID        uint   `gorm:"primarykey"`
	WordID    *uint  `gorm:"index"`
	Word      string `gorm:"not null;type:varchar(255);uniqueIndex:ux_words_used_word_day,priority:1"`
	UsedOn    string `gorm:"not null;type:varchar(10);uniqueIndex:ux_words_used_word_day,priority:2"`
	CreatedAt time.Time
}

// TableName implements the GORM tabler interface.
func (WordUsed) TableName() string { return "words_used" }

// Pick 是一次选词的结果。来自精选备用词表的词没有ID。
type Pick struct {
	ID   *uint  `json:"id"`
	Word string `json:"word"`
}

// Key 返回用于去重的小写形式
func (p Pick) Key() string {
	return normalize(p.Word)
}
