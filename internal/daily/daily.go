// Package daily 生成不依赖数据库的“每日词语”：同一天、同一词表，任何实例得到的题目都相同。
package daily

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/pkg/shuffle"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups 限制同时进行的释义查询数量
const maxConcurrentLookups = 4

// choiceNamespace 用于从 (日期, 轮次, 序号) 派生稳定的选项ID
var choiceNamespace = uuid.MustParse("6f1c7a52-3f0e-4d8b-9a51-2b7d3c0e9f14")

// Service 根据日期从精选词表中确定性地选出每日词语并生成题目
type Service struct {
	definer game.Definer
	pool    []string
	rounds  int
	choices int
	loc     *time.Location
	now     func() time.Time
}

// NewService 创建每日词语服务
func NewService(definer game.Definer, pool []string, rounds, choices int, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		definer: definer,
		pool:    dedupe(pool),
		rounds:  rounds,
		choices: choices,
		loc:     loc,
		now:     time.Now,
	}
}

// Today 返回配置时区下今天的日期
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(time.DateOnly)
}

// Words 返回date当天被选中的词，不查询释义
func (s *Service) Words(date string) ([]string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, game.ErrInvalidDate
	}
	shuffled := shuffle.Shuffle(s.pool, shuffle.IntSeed(shuffle.DateSeed(t)))
	n := min(s.rounds, len(shuffled))
	return shuffled[:n], nil
}

// Build 生成date当天的每日题目。
// 正确答案取最有用的真实释义，查不到时使用合成句；
// 干扰项取自当天其他词的正确答案，不足时用其他词的合成句补齐。
func (s *Service) Build(ctx context.Context, date string) ([]game.Round, error) {
	date, err := game.ParseDate(date)
	if err != nil {
		return nil, err
	}
	words, err := s.Words(date)
	if err != nil {
		return nil, err
	}

	answers := make([]game.Choice, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, w := range words {
		g.Go(func() error {
			answers[i] = s.answer(gctx, w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rounds := make([]game.Round, len(words))
	for i, w := range words {
		rounds[i] = s.round(date, i, w, answers)
	}
	return rounds, nil
}

func (s *Service) answer(ctx context.Context, word string) game.Choice {
	best := game.Choice{Text: game.SyntheticDefinition(word)}
	var bestScore int
	for _, d := range s.definer.Define(ctx, word) {
		text := d.Clean()
		if text == "" {
			continue
		}
		if !best.IsReal || d.Helpfulness() > bestScore {
			best = game.Choice{Text: text, IsReal: true}
			bestScore = d.Helpfulness()
		}
	}
	return best
}

func (s *Service) round(date string, index int, word string, answers []game.Choice) game.Round {
	correct := answers[index]
	seen := map[string]bool{correct.Text: true}

	var others []game.Choice
	for j, a := range answers {
		if j != index && !seen[a.Text] {
			seen[a.Text] = true
			others = append(others, a)
		}
	}
	for _, w := range s.pool {
		text := game.SyntheticDefinition(w)
		if w != word && !seen[text] {
			seen[text] = true
			others = append(others, game.Choice{Text: text})
		}
	}

	roundKey := date + "#" + strconv.Itoa(index)
	others = shuffle.Shuffle(others, shuffle.StringSeed(roundKey+"/distractors"))
	choices := []game.Choice{correct}
	for _, c := range others {
		if len(choices) >= s.choices {
			break
		}
		choices = append(choices, c)
	}

	for k := range choices {
		choices[k].ID = uuid.NewSHA1(choiceNamespace, []byte(fmt.Sprintf("%s#%d", roundKey, k))).String()
	}
	correctID := choices[0].ID
	choices = shuffle.Shuffle(choices, shuffle.StringSeed(roundKey))

	return game.Round{Word: word, Choices: choices, CorrectChoiceID: correctID}
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
