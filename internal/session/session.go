// Package session 把一局游戏的进度建模为不可变的值：
// 每个事件通过 Advance 产生一个新的 Session，渲染只依赖于当前值。
package session

import (
	"errors"
	"fmt"

	"github.com/SlpAus/urble-backend/internal/game"
)

// Phase 是一局游戏在界面上所处的阶段
type Phase string

const (
	PhaseSplash  Phase = "splash"
	PhaseIntroAd Phase = "intro_ad"
	PhasePlaying Phase = "playing"
	PhaseOutroAd Phase = "outro_ad"
	PhaseResult  Phase = "result"
)

// EventType 是驱动阶段转换的事件
type EventType string

const (
	EventStart  EventType = "start"
	EventSkipAd EventType = "skip_ad"
	EventAnswer EventType = "answer"
)

var (
	// ErrInvalidTransition 表示事件在当前阶段不被允许
	ErrInvalidTransition = errors.New("当前阶段不允许该操作")
	// ErrUnknownChoice 表示提交的选项不属于当前这一轮
	ErrUnknownChoice = errors.New("选项不存在")
	// ErrGameMismatch 表示会话与给定的游戏不对应
	ErrGameMismatch = errors.New("会话与游戏不匹配")
)

// Event 是客户端提交的一个动作
type Event struct {
	Type     EventType `json:"type" binding:"required"`
	ChoiceID string    `json:"choiceId,omitempty"`
}

// Answer 是一轮的作答记录
type Answer struct {
	ChoiceID string `json:"choiceId"`
	Correct  bool   `json:"correct"`
}

// Session 是一局游戏的完整进度
type Session struct {
	GameID  string   `json:"gameId"`
	Date    string   `json:"date"`
	Phase   Phase    `json:"phase"`
	Round   int      `json:"round"`
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Answers []Answer `json:"answers"`
}

// Outcome 描述一次 Advance 的附带结果，仅在作答时有意义
type Outcome struct {
	Answered        bool   `json:"answered"`
	Correct         bool   `json:"correct"`
	CorrectChoiceID string `json:"correctChoiceId,omitempty"`
	Finished        bool   `json:"finished"`
}

// New 为g创建一个处于开场阶段的会话
func New(g game.Game) Session {
	return Session{
		GameID:  g.GameID,
		Date:    g.Date,
		Phase:   PhaseSplash,
		Total:   len(g.Rounds),
		Answers: []Answer{},
	}
}

// Advance 根据事件计算下一个会话。s 本身不会被修改。
//
//	splash   --start-->   intro_ad
//	intro_ad --skip_ad--> playing
//	playing  --answer-->  playing | outro_ad (最后一轮)
//	outro_ad --skip_ad--> result
func Advance(s Session, g game.Game, ev Event) (Session, Outcome, error) {
	if s.GameID != g.GameID {
		return s, Outcome{}, ErrGameMismatch
	}

	next := s
	next.Answers = append([]Answer(nil), s.Answers...)

	switch {
	case s.Phase == PhaseSplash && ev.Type == EventStart:
		next.Phase = PhaseIntroAd
		return next, Outcome{}, nil

	case s.Phase == PhaseIntroAd && ev.Type == EventSkipAd:
		next.Phase = PhasePlaying
		if s.Total == 0 {
			next.Phase = PhaseOutroAd
		}
		return next, Outcome{}, nil

	case s.Phase == PhasePlaying && ev.Type == EventAnswer:
		if s.Round < 0 || s.Round >= len(g.Rounds) {
			return s, Outcome{}, fmt.Errorf("%w: 第 %d 轮不存在", ErrInvalidTransition, s.Round+1)
		}
		round := g.Rounds[s.Round]
		if _, ok := round.FindChoice(ev.ChoiceID); !ok {
			return s, Outcome{}, ErrUnknownChoice
		}

		correct := ev.ChoiceID == round.CorrectChoiceID
		next.Answers = append(next.Answers, Answer{ChoiceID: ev.ChoiceID, Correct: correct})
		if correct {
			next.Score++
		}
		next.Round++
		if next.Round >= s.Total {
			next.Phase = PhaseOutroAd
		}
		return next, Outcome{
			Answered:        true,
			Correct:         correct,
			CorrectChoiceID: round.CorrectChoiceID,
		}, nil

	case s.Phase == PhaseOutroAd && ev.Type == EventSkipAd:
		next.Phase = PhaseResult
		return next, Outcome{Finished: true}, nil
	}

	return s, Outcome{}, fmt.Errorf("%w: %s 阶段不能处理 %q", ErrInvalidTransition, s.Phase, ev.Type)
}
