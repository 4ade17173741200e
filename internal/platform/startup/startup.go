package startup

import (
	"context"
	"fmt"

	"github.com/SlpAus/urble-backend/internal/game"
	"github.com/SlpAus/urble-backend/internal/platform/metadata"
	"github.com/SlpAus/urble-backend/internal/stats"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/SlpAus/urble-backend/internal/word"
	"gorm.io/gorm"
)

// Migrations 按依赖顺序列出所有模块的迁移函数
var Migrations = []func(*gorm.DB) error{
	metadata.Migrate,
	word.Migrate,
	game.Migrate,
	user.Migrate,
	stats.Migrate,
}

// InitializeApplication 是应用启动时执行的总入口：迁移所有表，并在首次启动时导入精选词表
func InitializeApplication(ctx context.Context, db *gorm.DB, fallbackWords []string) error {
	fmt.Println("开始应用初始化...")

	for _, migrate := range Migrations {
		if err := migrate(db); err != nil {
			return err
		}
	}
	if err := SeedFallbackWords(ctx, db, fallbackWords); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// SeedFallbackWords 把精选词表导入词库，只在第一次启动时执行。
// 之后精选词表只作为词库耗尽时的备用来源。
func SeedFallbackWords(ctx context.Context, db *gorm.DB, fallbackWords []string) error {
	seeded, err := metadata.IsFallbackSeeded(ctx, db)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Println("精选词表已导入过，跳过。")
		return nil
	}

	added, err := word.NewRepository(db).Import(ctx, fallbackWords)
	if err != nil {
		return err
	}
	if err := metadata.MarkFallbackSeeded(ctx, db); err != nil {
		return err
	}
	fmt.Printf("已将 %d 个精选词导入词库。\n", added)
	return nil
}

// RebuildCache 在Redis重启后重新预热缓存
func RebuildCache(ctx context.Context, users *user.Service) error {
	fmt.Println("开始缓存热重建...")
	if err := users.WarmupCache(ctx); err != nil {
		return err
	}
	fmt.Println("缓存热重建完成。")
	return nil
}
