package user

import (
	"time"
)

// User 是一个已激活的玩家。UUID 来自客户端Cookie，
// 第一次完成游戏并记录成绩时才会写入数据库。
type User struct {
	UUID string `gorm:"primarykey;type:varchar(36)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
