package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/urble-backend/api"
	"github.com/SlpAus/urble-backend/internal/app"
	"github.com/SlpAus/urble-backend/internal/platform/config"
	"github.com/SlpAus/urble-backend/internal/platform/database"
	"github.com/SlpAus/urble-backend/internal/platform/shutdown"
	"github.com/SlpAus/urble-backend/internal/platform/startup"
	"github.com/SlpAus/urble-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	gin.SetMode(cfg.Server.Mode)

	if err := database.InitDB(cfg.Database.DSN, cfg.Database.LogLevel); err != nil {
		panic(fmt.Sprintf("数据库连接失败: %v", err))
	}
	ctx := context.Background()
	database.InitRedis(ctx, cfg.Redis)

	// 1. 迁移数据表并导入精选词表
	if err := startup.InitializeApplication(ctx, database.DB, cfg.Game.FallbackWords); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	a, err := app.New(cfg, database.DB, database.RDB)
	if err != nil {
		panic(fmt.Sprintf("服务组装失败: %v", err))
	}

	// 2. 记录初始Run ID并预热用户缓存
	a.Health.InitializeRunID(ctx)
	if err := a.Users.WarmupCache(ctx); err != nil {
		fmt.Printf("警告: 用户缓存预热失败: %v\n", err)
	}

	// 3. 预先生成今天的游戏；失败不影响启动，读取时会按需生成
	if cfg.Game.Prewarm {
		if err := a.Scheduler.Prewarm(ctx); err != nil {
			fmt.Printf("警告: 预生成今日游戏失败: %v\n", err)
		}
	}

	// 4. 启动后台服务
	gracefulManager := lifecycle.NewManager()
	forcefulManager := lifecycle.NewManager()
	if err := gracefulManager.Go("daily-scheduler", a.Scheduler.Start); err != nil {
		panic(err)
	}
	if err := gracefulManager.Go("redis-health", a.Health.Start); err != nil {
		panic(err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(r, a)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.OnShutdown("redis", database.CloseRedis)
	coordinator.OnShutdown("database", database.CloseDB)
	coordinator.ListenForSignalsAndShutdown(server)
}
