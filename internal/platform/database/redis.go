package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/urble-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例；未启用Redis时为nil
var RDB *redis.Client

// InitRedis 初始化与Redis数据库的连接
// Redis只承担缓存职责，连接失败时标记为不健康而不是退出
func InitRedis(ctx context.Context, cfg config.RedisConfig) {
	if !cfg.Enabled {
		fmt.Println("Redis 未启用，释义缓存将使用进程内存。")
		UpdateStatus(false)
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := RDB.Ping(ctx).Err(); err != nil {
		fmt.Printf("警告: 无法连接到Redis (%s): %v\n", cfg.Address, err)
		UpdateStatus(false)
		return
	}

	UpdateStatus(true)
	fmt.Println("Redis 连接成功！")
}

// CloseRedis 关闭Redis客户端
func CloseRedis() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
