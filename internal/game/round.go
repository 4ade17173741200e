package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/SlpAus/urble-backend/internal/definition"
	"github.com/google/uuid"
)

// Choice 是一轮中的一个候选释义。IsReal 表示文本来自真实释义。
type Choice struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	IsReal bool   `json:"isReal"`
}

// Round 是一轮猜词：一个词和固定数量的候选释义，其中一个是正确答案
type Round struct {
	Word            string   `json:"word"`
	Choices         []Choice `json:"choices"`
	CorrectChoiceID string   `json:"correctChoiceId"`
}

// Definer 查询一个词的释义。失败时返回空列表。
type Definer interface {
	Define(ctx context.Context, term string) []definition.Definition
}

// distractorTemplates 是干扰项的模板，%s 会被替换为当前的词
var distractorTemplates = []string{
	"A dance move that went viral for about a week in 2009.",
	"What you call the last slice of pizza nobody wants to take.",
	"Slang for pretending to be busy when your boss walks by.",
	"A compliment reserved for someone with unusually shiny shoes.",
	"The sound a group chat makes when everyone leaves it on read.",
	"Calling dibs on the front seat before anyone reaches the car.",
	"An excuse used to leave a party without saying goodbye.",
	"When \"%s\" is said to end an argument you are losing.",
	"A nickname for the friend who always forgets their wallet.",
	"Describes food that is technically edible but emotionally disappointing.",
}

// SyntheticDefinition 是找不到真实释义时使用的正确答案
func SyntheticDefinition(word string) string {
	return fmt.Sprintf("A slang term related to %s.", word)
}

// RoundBuilder 根据词的释义构建一轮游戏
type RoundBuilder struct {
	definer Definer
	choices int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoundBuilder 创建一个构建器。rng为nil时使用随机种子。
func NewRoundBuilder(definer Definer, choicesPerRound int, rng *rand.Rand) *RoundBuilder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RoundBuilder{definer: definer, choices: choicesPerRound, rng: rng}
}

func (b *RoundBuilder) distractor(word string) string {
	b.mu.Lock()
	tpl := distractorTemplates[b.rng.IntN(len(distractorTemplates))]
	b.mu.Unlock()
	if strings.Contains(tpl, "%s") {
		return fmt.Sprintf(tpl, word)
	}
	return tpl
}

// realTexts 按有用程度从高到低返回清洗后的释义文本
func realTexts(defs []definition.Definition) []string {
	sorted := make([]definition.Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Helpfulness() > sorted[j].Helpfulness()
	})

	texts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		if text := d.Clean(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// Build 为word构建一轮：最有用的真实释义作为正确答案，
// 第二条真实释义（如有）作为不计分的真实选项，其余位置用模板干扰项补齐。
func (b *RoundBuilder) Build(ctx context.Context, word string) Round {
	texts := realTexts(b.definer.Define(ctx, word))

	correct := Choice{ID: uuid.NewString(), Text: SyntheticDefinition(word)}
	if len(texts) > 0 {
		correct = Choice{ID: uuid.NewString(), Text: texts[0], IsReal: true}
	}

	choices := make([]Choice, 0, b.choices)
	choices = append(choices, correct)
	if len(texts) >= 2 && len(choices) < b.choices {
		choices = append(choices, Choice{ID: uuid.NewString(), Text: texts[1], IsReal: true})
	}
	for len(choices) < b.choices {
		choices = append(choices, Choice{ID: uuid.NewString(), Text: b.distractor(word)})
	}

	b.mu.Lock()
	b.rng.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
	b.mu.Unlock()

	return Round{Word: word, Choices: choices, CorrectChoiceID: correct.ID}
}

// Validate 检查一轮是否恰好有n个选项、选项ID唯一且正确答案存在
func (r Round) Validate(n int) error {
	if len(r.Choices) != n {
		return fmt.Errorf("round %q: expected %d choices, got %d", r.Word, n, len(r.Choices))
	}
	ids := make(map[string]bool, len(r.Choices))
	matches := 0
	for _, c := range r.Choices {
		if c.ID == "" || ids[c.ID] {
			return fmt.Errorf("round %q: duplicate or empty choice id %q", r.Word, c.ID)
		}
		ids[c.ID] = true
		if c.ID == r.CorrectChoiceID {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("round %q: correct choice id %q not found", r.Word, r.CorrectChoiceID)
	}
	return nil
}

// FindChoice 按ID查找选项
func (r Round) FindChoice(id string) (Choice, bool) {
	for _, c := range r.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
