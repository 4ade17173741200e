package game

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidDate 表示日期不是 YYYY-MM-DD 格式
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")

// Game 是某一天的完整游戏
type Game struct {
	GameID    string    `json:"gameId"`
	Date      string    `json:"date"`
	Rounds    []Round   `json:"rounds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record 是游戏在数据库中的持久化形式，每天最多一条
type Record struct {
	ID        string `gorm:"primarykey;type:varchar(36)"`
	GameDate  string `gorm:"uniqueIndex;not null;type:varchar(10)"`
	Payload   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName implements the GORM tabler interface.
func (Record) TableName() string { return "games" }

func (r Record) decode() (Game, error) {
	var g Game
	if err := json.Unmarshal([]byte(r.Payload), &g); err != nil {
		return Game{}, err
	}
	return g, nil
}

// ParseDate 校验并规范化 YYYY-MM-DD 格式的日期
func ParseDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(time.DateOnly), nil
}
