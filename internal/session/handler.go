package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/SlpAus/urble-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// GameSource 提供会话所需的游戏
type GameSource interface {
	TodayGame(ctx context.Context) (game.Game, error)
	Get(ctx context.Context, date string) (*game.Game, error)
}

// Recorder 在一局结束时记录成绩
type Recorder interface {
	Record(ctx context.Context, userID, date, gameID string, score, rounds int) (bool, error)
}

// Handler 暴露会话接口。服务端不保存会话，进度全部保存在签名token中。
type Handler struct {
	games    GameSource
	signer   *token.Signer
	recorder Recorder
}

// NewHandler 创建会话处理器；recorder 可以为nil
func NewHandler(games GameSource, signer *token.Signer, recorder Recorder) *Handler {
	return &Handler{games: games, signer: signer, recorder: recorder}
}

// AdvanceRequest 是 POST /session/advance 的请求体
type AdvanceRequest struct {
	Token string `json:"token" binding:"required"`
	Event Event  `json:"event" binding:"required"`
}

// Response 是会话接口的统一响应
type Response struct {
	Token   string   `json:"token"`
	View    View     `json:"view"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

func (h *Handler) respond(c *gin.Context, s Session, g game.Game, outcome *Outcome) {
	tok, err := h.signer.Sign(s)
	if err != nil {
		fmt.Printf("会话签名失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
		return
	}
	c.JSON(http.StatusOK, Response{Token: tok, View: Project(s, g), Outcome: outcome})
}

// Start 为今天的游戏创建一个新会话
func (h *Handler) Start(c *gin.Context) {
	g, err := h.games.TodayGame(c.Request.Context())
	if err != nil {
		fmt.Printf("创建会话时获取今日游戏失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取今日游戏失败"})
		return
	}
	h.respond(c, New(g), g, nil)
}

// Advance 校验token，应用事件并返回新的token
func (h *Handler) Advance(c *gin.Context) {
	var body AdvanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	// 1. 还原会话
	var s Session
	if err := h.signer.Verify(body.Token, &s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. 读取会话对应的游戏，只读，不会触发构建
	g, err := h.games.Get(c.Request.Context(), s.Date)
	if err != nil {
		fmt.Printf("读取 %s 的游戏失败: %v\n", s.Date, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据库查询失败"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到 %s 的游戏", s.Date)})
		return
	}

	// 3. 应用事件
	next, outcome, err := Advance(s, *g, body.Event)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownChoice), errors.Is(err, ErrGameMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
		}
		return
	}

	// 4. 一局结束时记录成绩；失败不影响本次响应
	if outcome.Finished && h.recorder != nil {
		if userID := user.FromContext(c); userID != "" {
			if _, err := h.recorder.Record(c.Request.Context(), userID, next.Date, next.GameID, next.Score, next.Total); err != nil {
				fmt.Printf("记录用户 %s 的成绩失败: %v\n", userID, err)
			}
		}
	}

	h.respond(c, next, *g, &outcome)
}
