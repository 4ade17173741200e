package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/urble-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	insertMaxRetry = 3
	insertDelay    = 50 * time.Millisecond
)

// Store 负责游戏的持久化
type Store struct {
	db *gorm.DB
}

// NewStore 创建游戏仓库
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get 返回date当天已保存的游戏；不存在时返回nil
func (s *Store) Get(ctx context.Context, date string) (*Game, error) {
	var record Record
	err := s.db.WithContext(ctx).Where("game_date = ?", date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法读取 %s 的游戏: %w", date, err)
	}
	g, err := record.decode()
	if err != nil {
		return nil, fmt.Errorf("无法解析 %s 的游戏数据: %w", date, err)
	}
	return &g, nil
}

// InsertIfAbsent 仅在当天还没有游戏时写入g，并返回最终保存的那一份。
// created 为false时说明已有游戏胜出，g被丢弃。
func (s *Store) InsertIfAbsent(ctx context.Context, g Game) (stored Game, created bool, err error) {
	payload, err := json.Marshal(g)
	if err != nil {
		return Game{}, false, fmt.Errorf("无法序列化游戏: %w", err)
	}
	record := Record{
		ID:        g.GameID,
		GameDate:  g.Date,
		Payload:   string(payload),
		CreatedAt: g.CreatedAt,
	}

	var rows int64
	for i := 0; i < insertMaxRetry; i++ {
		result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_date"}},
			DoNothing: true,
		}).Create(&record)
		err, rows = result.Error, result.RowsAffected

		if err == nil || !database.IsRetryableError(err) {
			break
		}
		time.Sleep(insertDelay)
	}
	if err != nil {
		return Game{}, false, fmt.Errorf("无法保存 %s 的游戏: %w", g.Date, err)
	}

	existing, err := s.Get(ctx, g.Date)
	if err != nil {
		return Game{}, false, err
	}
	if existing == nil {
		return Game{}, false, fmt.Errorf("保存后仍找不到 %s 的游戏", g.Date)
	}
	return *existing, rows == 1, nil
}

// Migrate 负责自动迁移games表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("无法迁移games表: %w", err)
	}
	fmt.Println("Game数据库表迁移成功。")
	return nil
}
