package game

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 暴露游戏相关的接口
type Handler struct {
	svc *Service
}

// NewHandler 创建游戏接口的处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateGameRequest 是 POST /game/create 的请求体
type CreateGameRequest struct {
	Date string `json:"date" binding:"required"`
}

// GetToday 返回今天的游戏，不存在时立即生成
func (h *Handler) GetToday(c *gin.Context) {
	g, err := h.svc.TodayGame(c.Request.Context())
	if err != nil {
		fmt.Printf("获取今日游戏失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取今日游戏失败"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// Create 为任意日期生成游戏；已存在时返回已保存的那一份
func (h *Handler) Create(c *gin.Context) {
	var body CreateGameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 date 字段"})
		return
	}

	g, err := h.svc.BuildGameForDate(c.Request.Context(), body.Date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fmt.Printf("生成 %s 的游戏失败: %v\n", body.Date, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成游戏失败"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetByDate 只读地返回某天已保存的游戏
func (h *Handler) GetByDate(c *gin.Context) {
	date := c.Param("date")
	g, err := h.svc.Get(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据库查询失败"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到 %s 的游戏", date)})
		return
	}
	c.JSON(http.StatusOK, g)
}
