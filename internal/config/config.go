package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv     string
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Tracing    TracingConfig
	Reconciler ReconcilerConfig
	LogLevel   string
}

type ServerConfig struct {
	Port    string
	Timeout time.Duration
}

type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" is accepted for tests.
	Path string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWTSecret signs access tokens; it must come from the environment.
	JWTSecret string
	TokenTTL  time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

type ReconcilerConfig struct {
	Workers       int
	QueueSize     int
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional outside development; environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf(".env dosyası yüklenemedi: %w", err)
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_TIMEOUT", 30*time.Second)
	viper.SetDefault("DB_PATH", "toolhub.db")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_TTL", 24*time.Hour)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_ENDPOINT", "localhost:4317")
	viper.SetDefault("RECONCILER_WORKERS", 2)
	viper.SetDefault("RECONCILER_QUEUE_SIZE", 128)
	viper.SetDefault("RECONCILER_SWEEP_INTERVAL", 15*time.Minute)
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config

	cfg.AppEnv = viper.GetString("APP_ENV")
	cfg.Server.Port = viper.GetString("SERVER_PORT")
	cfg.Server.Timeout = viper.GetDuration("SERVER_TIMEOUT")

	cfg.Database.Path = viper.GetString("DB_PATH")

	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")
	cfg.Redis.Password = viper.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = viper.GetInt("REDIS_DB")

	cfg.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.Auth.TokenTTL = viper.GetDuration("JWT_TTL")

	cfg.Tracing.Enabled = viper.GetBool("TRACING_ENABLED")
	cfg.Tracing.Endpoint = viper.GetString("TRACING_ENDPOINT")

	cfg.Reconciler.Workers = viper.GetInt("RECONCILER_WORKERS")
	cfg.Reconciler.QueueSize = viper.GetInt("RECONCILER_QUEUE_SIZE")
	cfg.Reconciler.SweepInterval = viper.GetDuration("RECONCILER_SWEEP_INTERVAL")

	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET ortam değişkeni tanımlı değil")
	}

	return &cfg, nil
}
