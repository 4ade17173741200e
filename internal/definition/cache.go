package definition

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 缓存释义服务的原始响应
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// --- 进程内缓存 ---

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache 是一个带过期时间的进程内缓存
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 顺带清理过期条目，避免无限增长
	now := m.now()
	for k, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
}

// --- Redis缓存 ---

// redisKeyPrefix 是释义缓存在Redis中的键名前缀
const redisKeyPrefix = "urble:define:"

// RedisCache 把释义缓存到Redis，依赖Redis自身的过期机制
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache 创建Redis缓存
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	// 缓存写入失败只影响命中率
	_ = r.rdb.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

// --- 分层缓存 ---

// TieredCache 在Redis健康时使用Redis，否则退回到进程内缓存
type TieredCache struct {
	primary   Cache
	secondary Cache
	healthy   func() bool
}

// NewTieredCache 创建分层缓存。primary为nil时始终使用secondary。
func NewTieredCache(primary, secondary Cache, healthy func() bool) (*TieredCache, error) {
	if secondary == nil {
		return nil, errors.New("分层缓存需要一个进程内缓存")
	}
	if healthy == nil {
		healthy = func() bool { return true }
	}
	return &TieredCache{primary: primary, secondary: secondary, healthy: healthy}, nil
}

func (t *TieredCache) active() Cache {
	if t.primary != nil && t.healthy() {
		return t.primary
	}
	return t.secondary
}

func (t *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	return t.active().Get(ctx, key)
}

func (t *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.active().Set(ctx, key, value, ttl)
}
