package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Image    ImageConfig    `mapstructure:"image"`
	Content  ContentConfig  `mapstructure:"content"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	SignupRate      float64       `mapstructure:"signup_rate"` // 每秒允许的报名请求（按 IP）
	SignupBurst     int           `mapstructure:"signup_burst"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// RedisConfig 列表缓存配置，Addr 为空时禁用缓存
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig 图片存储配置
type StorageConfig struct {
	Root          string        `mapstructure:"root"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	CacheControl  string        `mapstructure:"cache_control"`
	OrphanGrace   time.Duration `mapstructure:"orphan_grace"`
}

// ImageConfig 图片压缩参数
type ImageConfig struct {
	MaxEdge int `mapstructure:"max_edge"`
	Quality int `mapstructure:"quality"`
}

// ContentConfig 内容规则
type ContentConfig struct {
	NewsCap         int           `mapstructure:"news_cap"`
	TimeZone        string        `mapstructure:"time_zone"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
	CleanupWorkers  int           `mapstructure:"cleanup_workers"`
	CleanupQueue    int           `mapstructure:"cleanup_queue"`
}

// AuthConfig 管理端 JWT 校验（令牌由外部身份服务签发）
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	AdminRole string `mapstructure:"admin_role"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

// SentryConfig 错误上报
type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// TracingConfig OTLP 链路追踪，Endpoint 为空时不导出
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Location 返回内容所在时区，用于计算“今天”
func (c ContentConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// Load 从 ./config.yaml、./config/config.yaml 与 APP_* 环境变量加载配置
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile 从指定文件加载配置；path 为空时按默认路径查找
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查无法靠默认值修复的配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Content.NewsCap < 1 {
		return fmt.Errorf("content.news_cap must be >= 1, got %d", c.Content.NewsCap)
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be in [1,100], got %d", c.Image.Quality)
	}
	if _, err := c.Content.Location(); err != nil {
		return fmt.Errorf("content.time_zone: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.signup_rate", 0.2)
	v.SetDefault("server.signup_burst", 3)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:nousrire.db?_foreign_keys=on")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("storage.root", "./data/blobs")
	v.SetDefault("storage.public_base_url", "http://localhost:8080")
	v.SetDefault("storage.cache_control", "public, max-age=31536000")
	v.SetDefault("storage.orphan_grace", 10*time.Minute)

	v.SetDefault("image.max_edge", 1600)
	v.SetDefault("image.quality", 80)

	v.SetDefault("content.news_cap", 3)
	v.SetDefault("content.time_zone", "Europe/Paris")
	v.SetDefault("content.janitor_interval", time.Hour)
	v.SetDefault("content.cleanup_workers", 2)
	v.SetDefault("content.cleanup_queue", 256)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.admin_role", "admin")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.service_name", "nousrire-site")
	v.SetDefault("tracing.sample_ratio", 1.0)
}
