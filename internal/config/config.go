// Package config содержит конфигурацию и загрузчик настроек.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Inventory InventoryConfig `yaml:"inventory"`
	Cache     CacheConfig     `yaml:"cache"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DatabaseConfig содержит настройки подключения к БД
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

// AuthConfig содержит настройки выпуска и проверки токенов.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	Issuer     string        `yaml:"issuer"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
	LoginRate  float64       `yaml:"login_rate"`
	LoginBurst int           `yaml:"login_burst"`
}

// InventoryConfig содержит параметры выдачи списков.
type InventoryConfig struct {
	MaxPageSize int `yaml:"max_page_size"`
}

// CacheConfig содержит настройки кеша позиций.
type CacheConfig struct {
	Driver        string        `yaml:"driver"`
	MaxItems      int           `yaml:"max_items"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

// KafkaConfig содержит настройки Kafka
type KafkaConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Brokers          []string      `yaml:"brokers"`
	EventsTopic      string        `yaml:"events_topic"`
	ImportTopic      string        `yaml:"import_topic"`
	GroupID          string        `yaml:"group_id"`
	DLQTopic         string        `yaml:"dlq_topic"`
	DLQMaxRetries    int           `yaml:"dlq_max_retries"`
	DLQBackoff       time.Duration `yaml:"dlq_backoff"`
	DLQBackoffCap    time.Duration `yaml:"dlq_backoff_cap"`
	DLQBackoffJitter bool          `yaml:"dlq_backoff_jitter"`
}

// TelemetryConfig содержит настройки трассировки и метрик.
type TelemetryConfig struct {
	ServiceName      string  `yaml:"service_name"`
	Environment      string  `yaml:"environment"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint"`
	OTLPInsecure     bool    `yaml:"otlp_insecure"`
	TracesEnabled    bool    `yaml:"traces_enabled"`
	MetricsEnabled   bool    `yaml:"metrics_enabled"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio"`
	MetricsPath      string  `yaml:"metrics_path"`
}

// LogConfig содержит настройки логирования.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig загружает конфигурацию: .env, затем файл CONFIG_PATH, затем переменные окружения.
// Отсутствие файла config.yaml по умолчанию не является ошибкой.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	applyEnv(&cfg)
	normalizeConfig(&cfg)
	return &cfg, nil
}

// Validate проверяет обязательные параметры.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) must be set")
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers must be set when kafka is enabled")
	}
	return nil
}

// Address возвращает адрес сервера в формате host:port
func (s *ServerConfig) Address() string {
	if s.Host == "" {
		return fmt.Sprintf(":%d", s.Port)
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Драйверы кеша позиций.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            5000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			DSN:            "",
			MigrationsPath: "file://./migrations",
		},
		Auth: AuthConfig{
			Issuer:     "inventory",
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
			LoginRate:  1,
			LoginBurst: 5,
		},
		Inventory: InventoryConfig{
			MaxPageSize: 100,
		},
		Cache: CacheConfig{
			Driver:    CacheDriverMemory,
			MaxItems:  10000,
			TTL:       5 * time.Minute,
			RedisAddr: "localhost:6379",
		},
		Kafka: KafkaConfig{
			Enabled:          false,
			Brokers:          []string{"localhost:9092"},
			EventsTopic:      "inventory.items",
			ImportTopic:      "inventory.items.import",
			GroupID:          "inventory-import",
			DLQTopic:         "inventory.items.import.dlq",
			DLQMaxRetries:    3,
			DLQBackoff:       500 * time.Millisecond,
			DLQBackoffCap:    5 * time.Second,
			DLQBackoffJitter: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:      "inventory",
			Environment:      "local",
			OTLPEndpoint:     "localhost:4318",
			OTLPInsecure:     true,
			TracesEnabled:    false,
			MetricsEnabled:   true,
			TraceSampleRatio: 1.0,
			MetricsPath:      "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "file://./migrations"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "inventory"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.BcryptCost <= 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Auth.LoginRate <= 0 {
		cfg.Auth.LoginRate = 1
	}
	if cfg.Auth.LoginBurst <= 0 {
		cfg.Auth.LoginBurst = 5
	}
	if cfg.Inventory.MaxPageSize <= 0 {
		cfg.Inventory.MaxPageSize = 100
	}
	cfg.Cache.Driver = strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = CacheDriverMemory
	}
	if cfg.Cache.MaxItems <= 0 {
		cfg.Cache.MaxItems = 10000
	}
	if cfg.Cache.TTL < 0 {
		cfg.Cache.TTL = 0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "inventory"
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = "localhost:4318"
	}
	if cfg.Telemetry.TraceSampleRatio <= 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		cfg.Telemetry.TraceSampleRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
	if cfg.Kafka.DLQTopic == "" && cfg.Kafka.ImportTopic != "" {
		cfg.Kafka.DLQTopic = cfg.Kafka.ImportTopic + ".dlq"
	}
	if cfg.Kafka.DLQMaxRetries < 0 {
		cfg.Kafka.DLQMaxRetries = 0
	}
	if cfg.Kafka.DLQBackoff < 0 {
		cfg.Kafka.DLQBackoff = 0
	}
	if cfg.Kafka.DLQBackoffCap < 0 {
		cfg.Kafka.DLQBackoffCap = 0
	}
}
