package game

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/urble-backend/internal/word"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// WordPicker 为某天的游戏挑选一个不重复的词，并记录为已使用
type WordPicker interface {
	PickForGame(ctx context.Context, date string, chosen map[string]bool) (word.Pick, error)
}

// RoundMaker 为一个词构建一轮游戏
type RoundMaker interface {
	Build(ctx context.Context, word string) Round
}

// Service 负责按日期组装、保存和读取游戏
type Service struct {
	store  *Store
	picker WordPicker
	maker  RoundMaker
	rounds int
	loc    *time.Location
	now    func() time.Time

	// inflight 合并同一进程内对同一天的并发构建
	inflight singleflight.Group
}

// NewService 创建游戏服务
func NewService(store *Store, picker WordPicker, maker RoundMaker, rounds int, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:  store,
		picker: picker,
		maker:  maker,
		rounds: rounds,
		loc:    loc,
		now:    time.Now,
	}
}

// Location 返回计算“今天”所用的时区
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today 返回配置时区下今天的日期
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(time.DateOnly)
}

// Get 返回date当天已保存的游戏，不会触发构建
func (s *Service) Get(ctx context.Context, date string) (*Game, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, date)
}

// BuildGameForDate 返回date当天的游戏；不存在时构建并保存。
// 已存在的游戏原样返回，永远不会被重新生成或覆盖。
func (s *Service) BuildGameForDate(ctx context.Context, date string) (Game, error) {
	g, _, err := s.EnsureGame(ctx, date)
	return g, err
}

// TodayGame 返回今天的游戏
func (s *Service) TodayGame(ctx context.Context) (Game, error) {
	return s.BuildGameForDate(ctx, s.Today())
}

type ensureResult struct {
	game    Game
	created bool
}

// EnsureGame 与 BuildGameForDate 相同，额外报告本次调用是否创建了新游戏
func (s *Service) EnsureGame(ctx context.Context, date string) (Game, bool, error) {
	date, err := ParseDate(date)
	if err != nil {
		return Game{}, false, err
	}

	// 一个请求被取消不应中断其他等待同一结果的请求
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.inflight.Do(date, func() (any, error) {
		existing, err := s.store.Get(buildCtx, date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return ensureResult{game: *existing}, nil
		}

		fresh, err := s.assemble(buildCtx, date)
		if err != nil {
			return nil, err
		}
		stored, created, err := s.store.InsertIfAbsent(buildCtx, fresh)
		if err != nil {
			return nil, err
		}
		if !created {
			fmt.Printf("游戏服务: %s 的游戏已由其他进程创建，丢弃本次生成的 %s\n", date, fresh.GameID)
		} else {
			fmt.Printf("游戏服务: 已创建 %s 的游戏 %s\n", date, stored.GameID)
		}
		return ensureResult{game: stored, created: created}, nil
	})
	if err != nil {
		return Game{}, false, err
	}

	result := v.(ensureResult)
	return result.game, result.created, nil
}

// assemble 依次为每一轮选词并构建，得到一个尚未保存的游戏
func (s *Service) assemble(ctx context.Context, date string) (Game, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Game{}, fmt.Errorf("无法生成游戏ID: %w", err)
	}

	chosen := make(map[string]bool, s.rounds)
	rounds := make([]Round, 0, s.rounds)
	for i := 0; i < s.rounds; i++ {
		pick, err := s.picker.PickForGame(ctx, date, chosen)
		if err != nil {
			return Game{}, fmt.Errorf("第 %d 轮选词失败: %w", i+1, err)
		}
		rounds = append(rounds, s.maker.Build(ctx, pick.Word))
	}

	return Game{
		GameID:    id.String(),
		Date:      date,
		Rounds:    rounds,
		CreatedAt: s.now().UTC(),
	}, nil
}
