package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 应用全部配置
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Sync     SyncConfig
	Log      LogConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN 组装 postgres 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// AuthConfig 身份提供方配置
// ProviderURL 非空时，激活/找回密码请求转发给外部身份服务
type AuthConfig struct {
	ProviderURL string
}

// StorageConfig feed 快照归档存储
// Provider 为空表示不归档
type StorageConfig struct {
	Provider  string // "s3" | "local" | ""
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	BasePath  string
	LocalDir  string
}

// SyncConfig 定时目录同步
type SyncConfig struct {
	Enabled     bool
	Cron        string // robfig/cron 表达式
	Concurrency int
	HTTPTimeout time.Duration
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string // debug/info/warn/error
	Format string // json/console
}

// ==================== 加载 ====================

// Load 读取配置：默认值 < config.yaml < RETAIL_ 前缀环境变量
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "retail-procurement")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "retail")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.secretkey", "retail-secret-key-change-in-production")
	v.SetDefault("jwt.accesstokenttl", 2*time.Hour)
	v.SetDefault("jwt.refreshtokenttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "retail-procurement")

	v.SetDefault("auth.providerurl", "")

	v.SetDefault("storage.provider", "")
	v.SetDefault("storage.basepath", "feeds")
	v.SetDefault("storage.localdir", "./data/feeds")

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.cron", "@hourly")
	v.SetDefault("sync.concurrency", 3)
	v.SetDefault("sync.httptimeout", 20*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件可选，找不到就用默认值 + 环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}
