package daily

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/gin-gonic/gin"
)

// Handler 暴露每日词语接口
type Handler struct {
	svc *Service
}

// NewHandler 创建每日词语处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// DailyWordsResponse 是 GET /game/daily-words 的响应
type DailyWordsResponse struct {
	Date   string       `json:"date"`
	Rounds []game.Round `json:"rounds"`
}

// GetDailyWords 返回指定日期（默认今天）的每日词语
func (h *Handler) GetDailyWords(c *gin.Context) {
	date := c.DefaultQuery("date", h.svc.Today())
	rounds, err := h.svc.Build(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, game.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fmt.Printf("生成每日词语失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
		return
	}
	c.JSON(http.StatusOK, DailyWordsResponse{Date: date, Rounds: rounds})
}
