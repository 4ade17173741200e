package stats

import "time"

// Result 是一个玩家某一天的最终成绩，每个玩家每天只记录一次
type Result struct {
	ID        uint   `gorm:"primarykey"`
	UserUUID  string `gorm:"type:varchar(36);not null;uniqueIndex:ux_results_user_date"`
	GameDate  string `gorm:"type:varchar(10);not null;uniqueIndex:ux_results_user_date"`
	GameID    string `gorm:"type:varchar(36)"`
	Score     int    `gorm:"not null"`
	Rounds    int    `gorm:"not null"`
	CreatedAt time.Time
}

// TableName implements the GORM tabler interface.
func (Result) TableName() string { return "results" }

// HistoryEntry 是成绩历史中的一条
type HistoryEntry struct {
	Date   string `json:"date"`
	Score  int    `json:"score"`
	Rounds int    `json:"rounds"`
}

// Summary 是一个玩家的汇总统计
type Summary struct {
	Played        int            `json:"played"`
	Perfect       int            `json:"perfect"`
	TotalScore    int            `json:"totalScore"`
	CurrentStreak int            `json:"currentStreak"`
	MaxStreak     int            `json:"maxStreak"`
	History       []HistoryEntry `json:"history"`
}
