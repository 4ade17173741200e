package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// 内嵌时区数据库，精简镜像中可能没有 /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Game        GameConfig        `mapstructure:"game"`
	Definitions DefinitionsConfig `mapstructure:"definitions"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
	// TokenSecret 用于签名会话令牌；为空时在启动时随机生成
	TokenSecret string `mapstructure:"tokenSecret"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了持久化存储的配置
// DSN 以 postgres:// 开头时使用Postgres，否则视为SQLite文件路径
type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"logLevel"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig 定义了每日游戏的生成参数
type GameConfig struct {
	Rounds          int      `mapstructure:"rounds"`
	ChoicesPerRound int      `mapstructure:"choicesPerRound"`
	Timezone        string   `mapstructure:"timezone"`
	FallbackWords   []string `mapstructure:"fallbackWords"`
	// Prewarm 为true时，启动时立即生成当天的游戏
	Prewarm bool `mapstructure:"prewarm"`
}

// DefinitionsConfig 定义了外部释义服务的配置
type DefinitionsConfig struct {
	BaseURL       string        `mapstructure:"baseURL"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cacheTTL"`
	RatePerSecond float64       `mapstructure:"ratePerSecond"`
	Burst         int           `mapstructure:"burst"`
}

// DefaultFallbackWords 是内置的精选备用词表
var DefaultFallbackWords = []string{
	"rizz", "yeet", "sus", "bussin", "no cap", "drip", "simp", "stan",
	"salty", "ghosting", "flex", "lowkey", "highkey", "vibe check", "goat",
	"sheesh", "mid", "ratio", "bet", "slaps",
}

// Location 解析配置的时区
func (g GameConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.Game.Rounds < 1 {
		return fmt.Errorf("game.rounds 必须至少为1，当前为 %d", c.Game.Rounds)
	}
	if c.Game.ChoicesPerRound < 2 {
		return fmt.Errorf("game.choicesPerRound 必须至少为2，当前为 %d", c.Game.ChoicesPerRound)
	}
	if _, err := c.Game.Location(); err != nil {
		return err
	}
	if len(c.Game.FallbackWords) == 0 {
		return errors.New("game.fallbackWords 不能为空")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn 不能为空")
	}
	if c.Definitions.Timeout <= 0 {
		return errors.New("definitions.timeout 必须为正数")
	}
	if c.Definitions.RatePerSecond <= 0 || c.Definitions.Burst < 1 {
		return errors.New("definitions.ratePerSecond 和 definitions.burst 必须为正数")
	}
	if len(c.Server.Cors.AllowedOrigins) == 0 {
		return errors.New("server.cors.allowedOrigins 不能为空")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.dsn", "urble.db")
	v.SetDefault("database.logLevel", "silent")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("game.rounds", 5)
	v.SetDefault("game.choicesPerRound", 4)
	v.SetDefault("game.timezone", "UTC")
	v.SetDefault("game.fallbackWords", DefaultFallbackWords)
	v.SetDefault("game.prewarm", true)
	v.SetDefault("definitions.baseURL", "https://api.urbandictionary.com")
	v.SetDefault("definitions.timeout", 8*time.Second)
	v.SetDefault("definitions.cacheTTL", 10*time.Minute)
	v.SetDefault("definitions.ratePerSecond", 5.0)
	v.SetDefault("definitions.burst", 5)
}

// bindAliases 把较短的历史环境变量名绑定到配置键上
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"game.rounds":          {"GAME_ROUNDS", "ROUNDS"},
		"game.choicesPerRound": {"GAME_CHOICESPERROUND", "CHOICES_PER_ROUND"},
		"game.timezone":        {"GAME_TIMEZONE", "TIMEZONE"},
		"game.fallbackWords":   {"GAME_FALLBACKWORDS", "FALLBACK_WORDS"},
		"database.dsn":         {"DATABASE_DSN", "DATABASE_URL"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// splitList 处理以逗号分隔的环境变量形式的列表
func splitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 配置文件是可选的，缺失时使用默认值与环境变量
func LoadConfig() (*Config, error) {
	// .env 文件不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return nil, fmt.Errorf("无法绑定环境变量: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
		fmt.Println("未找到配置文件，使用默认配置与环境变量。")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}
	cfg.Game.FallbackWords = splitList(cfg.Game.FallbackWords)
	cfg.Server.Cors.AllowedOrigins = splitList(cfg.Server.Cors.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
