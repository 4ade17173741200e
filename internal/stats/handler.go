package stats

import (
	"fmt"
	"net/http"

	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// Handler 暴露玩家统计接口
type Handler struct {
	svc   *Service
	today func() string
}

// NewHandler 创建统计处理器；today 返回配置时区下今天的日期
func NewHandler(svc *Service, today func() string) *Handler {
	return &Handler{svc: svc, today: today}
}

// GetStats 返回当前玩家的汇总统计。没有用户ID时返回空统计。
func (h *Handler) GetStats(c *gin.Context) {
	userID := user.FromContext(c)
	if userID == "" {
		c.JSON(http.StatusOK, Summary{History: []HistoryEntry{}})
		return
	}

	sum, err := h.svc.Summary(c.Request.Context(), userID, h.today())
	if err != nil {
		fmt.Printf("获取用户 %s 的统计失败: %v\n", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计失败"})
		return
	}
	c.JSON(http.StatusOK, sum)
}
