package session

import "github.com/SlpAus/urble-backend/internal/game"

// ChoiceView 是展示给玩家的选项，不包含答案
type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RoundView 是当前一轮的展示内容
type RoundView struct {
	Index   int          `json:"index"`
	Word    string       `json:"word"`
	Choices []ChoiceView `json:"choices"`
}

// View 是会话的无状态投影，客户端只根据它渲染
type View struct {
	Phase   Phase      `json:"phase"`
	Round   *RoundView `json:"round,omitempty"`
	Score   int        `json:"score"`
	Total   int        `json:"total"`
	Answers []Answer   `json:"answers,omitempty"`
}

// Project 根据会话和对应的游戏生成展示内容。
// 进行中只暴露当前一轮；作答记录在结束阶段才返回。
func Project(s Session, g game.Game) View {
	v := View{Phase: s.Phase, Score: s.Score, Total: s.Total}

	if s.Phase == PhasePlaying && s.Round >= 0 && s.Round < len(g.Rounds) {
		r := g.Rounds[s.Round]
		choices := make([]ChoiceView, len(r.Choices))
		for i, c := range r.Choices {
			choices[i] = ChoiceView{ID: c.ID, Text: c.Text}
		}
		v.Round = &RoundView{Index: s.Round, Word: r.Word, Choices: choices}
	}
	if s.Phase == PhaseResult {
		v.Answers = s.Answers
	}
	return v
}
