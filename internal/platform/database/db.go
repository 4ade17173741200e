package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的数据库连接，由 InitDB 初始化
var DB *gorm.DB

// IsPostgresDSN 判断连接串是否指向Postgres
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

// Open 根据DSN打开SQLite或Postgres连接
func Open(dsn, logLevel string) (*gorm.DB, error) {
	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  parseLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	if IsPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if !IsPostgresDSN(dsn) {
		// SQLite只允许单个写入者
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("无法获取底层数据库连接: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// InitDB 初始化全局数据库连接
func InitDB(dsn, logLevel string) error {
	db, err := Open(dsn, logLevel)
	if err != nil {
		return err
	}
	DB = db
	if IsPostgresDSN(dsn) {
		fmt.Println("Postgres 数据库连接成功！")
	} else {
		fmt.Printf("SQLite 数据库连接成功！(%s)\n", dsn)
	}
	return nil
}

// CloseDB 关闭全局数据库连接
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
