// Package app 根据配置组装所有领域服务，供HTTP服务器和命令行工具共用。
package app

import (
	"context"
	"fmt"

	"github.com/SlpAus/urble-backend/internal/daily"
	"github.com/SlpAus/urble-backend/internal/definition"
	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/internal/platform/config"
	"github.com/SlpAus/urble-backend/internal/platform/database"
	"github.com/SlpAus/urble-backend/internal/platform/health"
	"github.com/SlpAus/urble-backend/internal/platform/startup"
	"github.com/SlpAus/urble-backend/internal/stats"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/SlpAus/urble-backend/internal/word"
	"github.com/SlpAus/urble-backend/pkg/token"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App 持有一个进程内所有已组装好的服务
type App struct {
	Config *config.Config
	DB     *gorm.DB

	Words       *word.Repository
	Definitions *definition.Service
	Games       *game.Service
	Scheduler   *game.Scheduler
	Daily       *daily.Service
	Users       *user.Service
	Stats       *stats.Service
	Signer      *token.Signer
	Health      *health.Checker
}

// New 根据配置组装服务。rdb 可以为nil，此时所有缓存都退回到进程内存。
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	loc, err := cfg.Game.Location()
	if err != nil {
		return nil, err
	}

	// --- 释义 ---
	var primary definition.Cache
	if rdb != nil {
		primary = definition.NewRedisCache(rdb)
	}
	cache, err := definition.NewTieredCache(primary, definition.NewMemoryCache(), database.IsRedisHealthy)
	if err != nil {
		return nil, err
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.Definitions.RatePerSecond), cfg.Definitions.Burst)
	client := definition.NewClient(cfg.Definitions.BaseURL, cfg.Definitions.Timeout, limiter)
	definitions := definition.NewService(client, cache, cfg.Definitions.CacheTTL)

	// --- 游戏 ---
	words := word.NewRepository(db)
	selector, err := word.NewSelector(words, cfg.Game.FallbackWords, nil)
	if err != nil {
		return nil, err
	}
	builder := game.NewRoundBuilder(definitions, cfg.Game.ChoicesPerRound, nil)
	games := game.NewService(game.NewStore(db), selector, builder, cfg.Game.Rounds, loc)

	// --- 用户 ---
	users := user.NewService(db, rdb, database.IsRedisHealthy)

	var secret []byte
	if cfg.Server.TokenSecret != "" {
		secret = []byte(cfg.Server.TokenSecret)
	}

	a := &App{
		Config:      cfg,
		DB:          db,
		Words:       words,
		Definitions: definitions,
		Games:       games,
		Scheduler:   game.NewScheduler(games, db),
		Daily:       daily.NewService(definitions, cfg.Game.FallbackWords, cfg.Game.Rounds, cfg.Game.ChoicesPerRound, loc),
		Users:       users,
		Stats:       stats.NewService(db, users),
		Signer:      token.NewSigner(secret),
	}
	a.Health = health.NewChecker(rdb, func(ctx context.Context) error {
		return startup.RebuildCache(ctx, users)
	})
	fmt.Printf("服务组装完成 (每局 %d 轮, 每轮 %d 个选项, 时区 %s)。\n", cfg.Game.Rounds, cfg.Game.ChoicesPerRound, loc)
	return a, nil
}
