package word

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate 负责自动迁移词库相关的表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Word{}, &WordUsed{}); err != nil {
		return fmt.Errorf("无法迁移words表: %w", err)
	}
	fmt.Println("Word数据库表迁移成功。")
	return nil
}
