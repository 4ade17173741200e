package word

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
)

// maxPickAttempts 是在单局游戏内为避免重复而重新选词的最大次数
const maxPickAttempts = 10

// Selector 负责为每日游戏挑选词语
type Selector struct {
	repo     *Repository
	fallback []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector 创建选词器。rng为nil时使用随机种子。
func NewSelector(repo *Repository, fallback []string, rng *rand.Rand) (*Selector, error) {
	if len(fallback) == 0 {
		return nil, errors.New("精选备用词表不能为空")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{repo: repo, fallback: fallback, rng: rng}, nil
}

func (s *Selector) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// PickUnusedWord 返回一个从未使用过的词；词库耗尽时从精选备用词表中均匀随机选择
func (s *Selector) PickUnusedWord(ctx context.Context) (Pick, error) {
	w, err := s.repo.PickUnused(ctx)
	if err != nil {
		return Pick{}, err
	}
	if w != nil {
		id := w.ID
		return Pick{ID: &id, Word: w.Word}, nil
	}
	return Pick{Word: s.fallback[s.intN(len(s.fallback))]}, nil
}

// PickForGame 为date当天的游戏选出一个在chosen中不存在的词，并立即记录为已使用。
// 重试耗尽后退回到第一个未被选中的备用词；备用词也全部用尽时返回第一个备用词。
func (s *Selector) PickForGame(ctx context.Context, date string, chosen map[string]bool) (Pick, error) {
	var accepted *Pick
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		candidate, err := s.PickUnusedWord(ctx)
		if err != nil {
			return Pick{}, err
		}
		if !chosen[candidate.Key()] {
			accepted = &candidate
			break
		}
	}

	if accepted == nil {
		fallback := Pick{Word: s.fallback[0]}
		for _, w := range s.fallback {
			if !chosen[normalize(w)] {
				fallback = Pick{Word: w}
				break
			}
		}
		accepted = &fallback
	}

	chosen[accepted.Key()] = true
	if err := s.repo.MarkUsed(ctx, *accepted, date); err != nil {
		return Pick{}, err
	}
	return *accepted, nil
}
