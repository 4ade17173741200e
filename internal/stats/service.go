package stats

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// historyLimit 是汇总中返回的最近成绩条数
const historyLimit = 30

// Activator 在玩家第一次记录成绩时激活该玩家
type Activator interface {
	ActivateUser(ctx context.Context, uuid string) error
}

// Service 负责记录和汇总玩家成绩
type Service struct {
	db    *gorm.DB
	users Activator
}

// NewService 创建成绩服务
func NewService(db *gorm.DB, users Activator) *Service {
	return &Service{db: db, users: users}
}

// Record 记录userID在date当天的成绩。同一天已有成绩时保留第一次的结果，
// created 为false。
func (s *Service) Record(ctx context.Context, userID, date, gameID string, score, rounds int) (created bool, err error) {
	if s.users != nil {
		if err := s.users.ActivateUser(ctx, userID); err != nil {
			return false, err
		}
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_uuid"}, {Name: "game_date"}},
		DoNothing: true,
	}).Create(&Result{
		UserUUID: userID,
		GameDate: date,
		GameID:   gameID,
		Score:    score,
		Rounds:   rounds,
	})
	if result.Error != nil {
		return false, fmt.Errorf("无法记录 %s 在 %s 的成绩: %w", userID, date, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Summary 汇总userID的全部成绩。today 用于计算当前连胜：
// 今天或昨天有成绩时连续天数才算作进行中。
func (s *Service) Summary(ctx context.Context, userID, today string) (Summary, error) {
	var results []Result
	err := s.db.WithContext(ctx).
		Where("user_uuid = ?", userID).
		Order("game_date DESC").
		Find(&results).Error
	if err != nil {
		return Summary{}, fmt.Errorf("无法读取 %s 的成绩: %w", userID, err)
	}
	return summarize(results, today), nil
}

// summarize 要求results按日期降序排列
func summarize(results []Result, today string) Summary {
	sum := Summary{History: make([]HistoryEntry, 0, min(len(results), historyLimit))}
	for i, r := range results {
		sum.Played++
		sum.TotalScore += r.Score
		if r.Rounds > 0 && r.Score == r.Rounds {
			sum.Perfect++
		}
		if i < historyLimit {
			sum.History = append(sum.History, HistoryEntry{Date: r.GameDate, Score: r.Score, Rounds: r.Rounds})
		}
	}

	dates := make([]time.Time, 0, len(results))
	for _, r := range results {
		if t, err := time.Parse(time.DateOnly, r.GameDate); err == nil {
			dates = append(dates, t)
		}
	}
	sum.CurrentStreak, sum.MaxStreak = streaks(dates, today)
	return sum
}

// streaks 计算当前和历史最长连续天数，dates按降序排列且不重复
func streaks(dates []time.Time, today string) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].Sub(dates[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	t, err := time.Parse(time.DateOnly, today)
	if err != nil {
		return 0, longest
	}
	if gap := t.Sub(dates[0]); gap < 0 || gap > 24*time.Hour {
		return 0, longest
	}
	current = 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].Sub(dates[i]) != 24*time.Hour {
			break
		}
		current++
	}
	return current, longest
}

// Migrate 负责自动迁移results表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Result{}); err != nil {
		return fmt.Errorf("无法迁移results表: %w", err)
	}
	fmt.Println("Stats数据库表迁移成功。")
	return nil
}
