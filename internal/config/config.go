package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// MarketplaceURL is the single base URL of the remote marketplace API; every
	// endpoint path is appended to it.
	MarketplaceURL     string
	MarketplaceTimeout time.Duration

	// SessionStore selects where console sessions survive restarts: postgres or memory.
	SessionStore string

	KafkaBrokers    []string
	KafkaTopicAudit string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	timeout, err := time.ParseDuration(getEnv("MARKETPLACE_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("config: MARKETPLACE_API_TIMEOUT: %w", err)
	}
	cfg := &Config{
		AppHost:            getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:           firstEnv("APP_PORT", "HTTP_PORT", "8098"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MarketplaceURL:     strings.TrimRight(getEnv("MARKETPLACE_API_URL", "http://localhost:5000/api"), "/"),
		MarketplaceTimeout: timeout,
		SessionStore:       strings.ToLower(getEnv("SESSION_STORE", SessionStorePostgres)),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicAudit:    getEnv("KAFKA_TOPIC_AUDIT", "admin.audit"),
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "admin_console")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.MarketplaceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("config: MARKETPLACE_API_URL must be an absolute URL")
	}
	switch c.SessionStore {
	case SessionStorePostgres:
		if c.DB.Host == "" || c.DB.Database == "" {
			return errors.New("config: DB_HOST and DB_DATABASE are required")
		}
		if c.AppEnv == "production" && c.DB.Password == "" {
			return errors.New("config: in production DB_PASSWORD is required")
		}
	case SessionStoreMemory:
	default:
		return fmt.Errorf("config: SESSION_STORE must be %q or %q", SessionStorePostgres, SessionStoreMemory)
	}
	if c.MarketplaceTimeout <= 0 {
		return errors.New("config: MARKETPLACE_API_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) UsesDatabase() bool {
	return c.SessionStore == SessionStorePostgres
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// NewLogger builds a production logger in production and a development one otherwise.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if c.AppEnv == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
