package api

import (
	"github.com/SlpAus/urble-backend/internal/app"
	"github.com/SlpAus/urble-backend/internal/daily"
	"github.com/SlpAus/urble-backend/internal/definition"
	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/internal/platform/health"
	"github.com/SlpAus/urble-backend/internal/session"
	"github.com/SlpAus/urble-backend/internal/stats"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, a *app.App) {
	gameHandler := game.NewHandler(a.Games)
	dailyHandler := daily.NewHandler(a.Daily)
	definitionHandler := definition.NewHandler(a.Definitions)
	sessionHandler := session.NewHandler(a.Games, a.Signer, a.Stats)
	statsHandler := stats.NewHandler(a.Stats, a.Games.Today)
	healthHandler := health.NewHandler(a.DB, a.Health)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Status)

		// 释义查询
		api.GET("/word/define", definitionHandler.Define)

		// 游戏相关的路由组
		gameRoutes := api.Group("/game")
		{
			gameRoutes.GET("/today", gameHandler.GetToday)
			gameRoutes.POST("/create", gameHandler.Create)
			gameRoutes.GET("/daily-words", dailyHandler.GetDailyWords)
			gameRoutes.GET("/:date", gameHandler.GetByDate)
		}

		// 会话：开始时分发用户cookie，结束时记录成绩
		sessionRoutes := api.Group("/session", user.EnsureUserCookieMiddleware())
		{
			sessionRoutes.POST("", sessionHandler.Start)
			sessionRoutes.POST("/advance", sessionHandler.Advance)
		}

		api.GET("/stats", user.LoadUserMiddleware(), statsHandler.GetStats)
	}
}
