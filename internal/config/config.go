package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	TwoGIS     TwoGISConfig     `yaml:"twogis"`
	Realtime   RealtimeConfig   `yaml:"realtime"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Janitor    JanitorConfig    `yaml:"janitor"`
	Backup     BackupConfig     `yaml:"backup"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port         int           `yaml:"port"`
	StaticDir    string        `yaml:"static_dir"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StorageConfig struct {
	Backend        string `yaml:"backend"`
	DataDir        string `yaml:"data_dir"`
	SQLitePath     string `yaml:"sqlite_path"`
	SeedVenuesPath string `yaml:"seed_venues_path"`
	FallbackToFile bool   `yaml:"fallback_to_file"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type TwoGISConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	City     string        `yaml:"city"`
	Query    string        `yaml:"query"`
	PageSize int           `yaml:"page_size"`
	RPMLimit int           `yaml:"rpm_limit"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RealtimeConfig struct {
	SendBuffer   int           `yaml:"send_buffer"`
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteWait    time.Duration `yaml:"write_wait"`
	ReadLimit    int64         `yaml:"read_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type JanitorConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type TelegramConfig struct {
	BotToken   string           `yaml:"bot_token"`
	OwnerChats map[string]int64 `yaml:"owner_chats"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables still win.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return errors.New("redis.address is required for redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if c.Janitor.Enabled && c.Janitor.StaleAfter <= 0 {
		return errors.New("janitor.stale_after must be positive")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "tutfree"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "./data"
	}

	if c.TwoGIS.BaseURL == "" {
		c.TwoGIS.BaseURL = "https://catalog.api.2gis.com/3.0/items"
	}
	if c.TwoGIS.City == "" {
		c.TwoGIS.City = "almaty"
	}
	if c.TwoGIS.Query == "" {
		c.TwoGIS.Query = "service"
	}
	if c.TwoGIS.PageSize == 0 {
		c.TwoGIS.PageSize = 20
	}
	if c.TwoGIS.RPMLimit == 0 {
		c.TwoGIS.RPMLimit = 60
	}
	if c.TwoGIS.CacheTTL == 0 {
		c.TwoGIS.CacheTTL = 2 * time.Minute
	}
	if c.TwoGIS.Timeout == 0 {
		c.TwoGIS.Timeout = 10 * time.Second
	}

	if c.Realtime.SendBuffer == 0 {
		c.Realtime.SendBuffer = 64
	}
	if c.Realtime.PingInterval == 0 {
		c.Realtime.PingInterval = 30 * time.Second
	}
	if c.Realtime.WriteWait == 0 {
		c.Realtime.WriteWait = 5 * time.Second
	}
	if c.Realtime.ReadLimit == 0 {
		c.Realtime.ReadLimit = 64 << 10
	}

	if c.Janitor.Interval == 0 {
		c.Janitor.Interval = 10 * time.Minute
	}
	if c.Janitor.StaleAfter == 0 {
		c.Janitor.StaleAfter = 2 * time.Hour
	}

	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "./backups"
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
