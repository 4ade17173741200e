package word

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 封装了 words 与 words_used 两张表的访问
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建一个新的词库仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PickUnused 随机返回一个从未被使用过的词；词库耗尽时返回nil
func (r *Repository) PickUnused(ctx context.Context) (*Word, error) {
	var words []Word
	err := r.db.WithContext(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM words_used wu
			WHERE wu.word_id = words.id OR wu.word = LOWER(words.word)
		)`).
		Order("RANDOM()").
		Limit(1).
		Find(&words).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询未使用的词: %w", err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	return &words[0], nil
}

// MarkUsed 记录一个词在date当天已被使用。重复记录是无操作。
func (r *Repository) MarkUsed(ctx context.Context, pick Pick, date string) error {
	record := WordUsed{
		WordID: pick.ID,
		Word:   pick.Key(),
		UsedOn: date,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}, {Name: "used_on"}},
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("无法记录已使用的词 %q: %w", pick.Word, err)
	}
	return nil
}

// IsUsed 判断一个词是否在任意一天被使用过
func (r *Repository) IsUsed(ctx context.Context, word string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&WordUsed{}).Where("word = ?", normalize(word)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsedOn 返回date当天被使用的词
func (r *Repository) UsedOn(ctx context.Context, date string) ([]string, error) {
	var words []string
	err := r.db.WithContext(ctx).Model(&WordUsed{}).Where("used_on = ?", date).Order("id asc").Pluck("word", &words).Error
	return words, err
}

// Import 批量导入词条，已存在的词会被跳过，返回实际新增的数量
func (r *Repository) Import(ctx context.Context, words []string) (int, error) {
	seen := make(map[string]bool, len(words))
	batch := make([]Word, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[normalize(w)] {
			continue
		}
		seen[normalize(w)] = true
		batch = append(batch, Word{Word: w})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}},
		DoNothing: true,
	}).CreateInBatches(&batch, 500)
	if result.Error != nil {
		return 0, fmt.Errorf("导入词条失败: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// Count 返回词库中的词条总数
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Word{}).Count(&count).Error
	return count, err
}
