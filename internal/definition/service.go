package definition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyTerm 表示查询词为空
var ErrEmptyTerm = errors.New("查询词不能为空")

// Service 是带缓存的释义查询服务
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
}

// NewService 创建释义服务。cache为nil时使用进程内缓存。
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Service{fetcher: fetcher, cache: cache, ttl: ttl}
}

func cacheKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Lookup 返回term的原始释义响应，优先读取缓存
// 只有格式正确的响应才会被缓存
func (s *Service) Lookup(ctx context.Context, term string) ([]byte, error) {
	key := cacheKey(term)
	if key == "" {
		return nil, ErrEmptyTerm
	}

	if body, ok := s.cache.Get(ctx, key); ok {
		return body, nil
	}

	body, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, err := parseResponse(body); err != nil {
		return nil, fmt.Errorf("释义响应格式错误: %w", err)
	}

	s.cache.Set(ctx, key, body, s.ttl)
	return body, nil
}

// Define 返回term的释义列表。任何失败都退化为空列表。
func (s *Service) Define(ctx context.Context, term string) []Definition {
	body, err := s.Lookup(ctx, term)
	if err != nil {
		if !errors.Is(err, ErrEmptyTerm) {
			fmt.Printf("释义查询降级: term=%q, err=%v\n", term, err)
		}
		return nil
	}
	list, err := parseResponse(body)
	if err != nil {
		return nil
	}

	result := make([]Definition, 0, len(list))
	for _, d := range list {
		if strings.TrimSpace(d.Definition) != "" {
			result = append(result, d)
		}
	}
	return result
}
