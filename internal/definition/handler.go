package definition

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler 暴露释义查询接口
type Handler struct {
	svc *Service
}

// NewHandler 创建释义接口的处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Define 原样转发释义服务对term的响应
// 释义服务不可用时返回空列表，而不是错误
func (h *Handler) Define(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少查询参数 term"})
		return
	}

	body, err := h.svc.Lookup(c.Request.Context(), term)
	if err != nil {
		body = emptyResponse
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
