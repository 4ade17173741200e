package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SlpAus/urble-backend/internal/platform/database"
	"github.com/SlpAus/urble-backend/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// Checker 定期探测Redis，维护健康状态。检测到Redis重启时调用rebuild重新预热缓存。
// 状态变化会同步到 database.UpdateStatus，供缓存层选择Redis或进程内存。
type Checker struct {
	rdb     *redis.Client
	rebuild func(ctx context.Context) error
	status  *statusManager
	update  func(bool)
}

// NewChecker 创建健康检查器。rdb为nil时状态固定为 disabled。
func NewChecker(rdb *redis.Client, rebuild func(ctx context.Context) error) *Checker {
	initial := StateDegraded
	if rdb == nil {
		initial = StateDisabled
	} else if database.IsRedisHealthy() {
		initial = StateHealthy
	}
	return &Checker{
		rdb:     rdb,
		rebuild: rebuild,
		status:  newStatusManager(initial),
		update:  database.UpdateStatus,
	}
}

// State 返回当前的健康状态
func (c *Checker) State() State {
	return c.status.State()
}

// probe 探测Redis的连通性和run_id。不支持INFO的服务器返回空run_id。
func (c *Checker) probe(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return false, ""
	}
	info, err := c.rdb.Info(ctx, "server").Result()
	if err != nil {
		return true, ""
	}
	if m := runIDPattern.FindStringSubmatch(info); len(m) == 2 {
		return true, m[1]
	}
	return true, ""
}

// InitializeRunID 在应用启动时执行一次，记录初始的run_id
func (c *Checker) InitializeRunID(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if connected, runID := c.probe(ctx); connected && runID != "" {
		c.status.SetInitialRunID(runID)
		fmt.Printf("获取初始Redis Run ID成功: %s\n", runID)
	}
}

// PerformCheck 执行一次完整的健康检查和可能的修复操作
func (c *Checker) PerformCheck(ctx context.Context) {
	if c.rdb == nil {
		return
	}

	connected, runID := c.probe(ctx)
	if c.status.Assess(connected, runID) {
		fmt.Println("健康检查: 正在触发缓存热重建...")
		err := c.rebuild(ctx)
		if err != nil {
			fmt.Printf("健康检查错误: 缓存热重建失败: %v\n", err)
		}
		_, after := c.probe(ctx)
		c.status.MarkRebuildComplete(err == nil, after)
	}
	c.update(c.status.State() == StateHealthy)
}

// Start 是健康检查的主循环，直到handle收到停机信号才返回
func (c *Checker) Start(handle *lifecycle.Handle) {
	if c.rdb == nil {
		fmt.Println("Redis 未启用，健康检查器不运行。")
		return
	}
	fmt.Println("Redis健康检查器已启动。")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			return
		}
		c.PerformCheck(handle.Ctx())
	}
}
