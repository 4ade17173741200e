package game

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/urble-backend/internal/platform/metadata"
	"github.com/SlpAus/urble-backend/pkg/lifecycle"
	"gorm.io/gorm"
)

// NextMidnight 返回now之后loc时区的下一个零点
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// Scheduler 在每天零点预先生成当天的游戏。
// 它只是预热，读取路径上的按需构建才是正确性的保证。
type Scheduler struct {
	svc *Service
	db  *gorm.DB
	now func() time.Time
}

// NewScheduler 创建每日调度器；db用于记录最近一次调度的日期
func NewScheduler(svc *Service, db *gorm.DB) *Scheduler {
	return &Scheduler{svc: svc, db: db, now: time.Now}
}

// RunOnce 确保date当天的游戏存在，并记录到metadata
func (s *Scheduler) RunOnce(ctx context.Context, date string) error {
	g, created, err := s.svc.EnsureGame(ctx, date)
	if err != nil {
		return fmt.Errorf("无法生成 %s 的游戏: %w", date, err)
	}
	if created {
		fmt.Printf("每日调度器: 已生成 %s 的游戏 (%s)。\n", date, g.GameID)
	} else {
		fmt.Printf("每日调度器: %s 的游戏已存在，跳过生成。\n", date)
	}

	if s.db != nil {
		if err := metadata.SetLastScheduledGameDate(ctx, s.db, date); err != nil {
			return fmt.Errorf("无法记录调度日期: %w", err)
		}
	}
	return nil
}

// Prewarm 立即确保今天的游戏存在
func (s *Scheduler) Prewarm(ctx context.Context) error {
	return s.RunOnce(ctx, s.svc.Today())
}

// Start 是调度器的主循环，直到handle收到停机信号才返回
func (s *Scheduler) Start(handle *lifecycle.Handle) {
	fmt.Printf("每日调度器已启动 (时区: %s)。\n", s.svc.Location())

	for {
		next := NextMidnight(s.now(), s.svc.Location())
		if err := handle.SleepUntil(next); err != nil {
			fmt.Println("每日调度器: 休眠被中断，正在关闭...")
			return
		}

		date := next.Format(time.DateOnly)
		if err := s.RunOnce(handle.Ctx(), date); err != nil {
			if handle.Err() != nil {
				return
			}
			fmt.Printf("每日调度器错误: %v\n", err)
		}
	}
}
