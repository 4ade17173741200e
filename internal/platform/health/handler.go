package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler 暴露健康检查接口
type Handler struct {
	db      *gorm.DB
	checker *Checker
}

// NewHandler 创建健康检查处理器
func NewHandler(db *gorm.DB, checker *Checker) *Handler {
	return &Handler{db: db, checker: checker}
}

// Status 报告数据库和Redis的状态。数据库不可用时返回503，
// Redis只是缓存，不可用时仍返回200。
func (h *Handler) Status(c *gin.Context) {
	dbStatus := "ok"
	if err := h.pingDB(c.Request.Context()); err != nil {
		dbStatus = "down"
	}

	code := http.StatusOK
	if dbStatus != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"database": dbStatus,
		"redis":    h.checker.State().String(),
	})
}

func (h *Handler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
