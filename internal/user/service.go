package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service 负责用户的激活与查询
type Service struct {
	db      *gorm.DB
	rdb     *redis.Client
	healthy func() bool
}

// NewService 创建用户服务。rdb可以为nil；healthy为nil时视为Redis始终可用。
func NewService(db *gorm.DB, rdb *redis.Client, healthy func() bool) *Service {
	if healthy == nil {
		healthy = func() bool { return true }
	}
	return &Service{db: db, rdb: rdb, healthy: healthy}
}

func (s *Service) cacheEnabled() bool {
	return s.rdb != nil && s.healthy()
}

// CreateProvisionalUser 生成一个临时的、尚未持久化的新用户UUID。
// 这个UUID将被设置到cookie中，但此时尚未被“激活”。
func CreateProvisionalUser() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsValidUUID 检查字符串是否为合法的UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// IsUserActivated 检查一个UUID是否已经激活。优先查询Redis缓存，未命中时查询数据库。
func (s *Service) IsUserActivated(ctx context.Context, uuidStr string) (bool, error) {
	if uuidStr == "" {
		return false, nil
	}
	if s.cacheEnabled() {
		exists, err := s.rdb.SIsMember(ctx, KnownUsersKey, uuidStr).Result()
		if err == nil && exists {
			return true, nil
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("uuid = ?", uuidStr).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询用户 %s 失败: %w", uuidStr, err)
	}
	return count > 0, nil
}

// ActivateUser 把一个临时UUID持久化。重复激活不是错误。
// 数据库写入成功后再尝试写入Redis缓存，缓存失败只打印警告。
func (s *Service) ActivateUser(ctx context.Context, uuidStr string) error {
	if !IsValidUUID(uuidStr) {
		return fmt.Errorf("无效的用户ID: %q", uuidStr)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&User{UUID: uuidStr}).Error
	if err != nil {
		return fmt.Errorf("无法创建用户 %s: %w", uuidStr, err)
	}

	if s.cacheEnabled() {
		if err := s.rdb.SAdd(ctx, KnownUsersKey, uuidStr).Err(); err != nil {
			fmt.Printf("警告: 无法将用户 %s 添加到Redis缓存: %v\n", uuidStr, err)
		}
	}
	return nil
}

// WarmupCache 从数据库加载所有已激活的用户UUID，并预热到Redis的Set中
func (s *Service) WarmupCache(ctx context.Context) error {
	if !s.cacheEnabled() {
		fmt.Println("Redis不可用，跳过用户缓存预热。")
		return nil
	}

	var uuids []string
	// 1. 从数据库读取所有用户的UUID
	if err := s.db.WithContext(ctx).Model(&User{}).Pluck("uuid", &uuids).Error; err != nil {
		return fmt.Errorf("无法读取用户UUID: %w", err)
	}
	if len(uuids) == 0 {
		fmt.Println("无现有用户数据，无需预热用户缓存。")
		return nil
	}

	members := make([]any, len(uuids))
	for i, u := range uuids {
		members[i] = u
	}

	// 2. 使用Pipeline先清空旧缓存，再一次性添加所有成员
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, KnownUsersKey)
	pipe.SAdd(ctx, KnownUsersKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("预热用户UUID到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个用户UUID到Redis。\n", len(uuids))
	return nil
}
