package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted by Server.Store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Server holds the settings of the long-running commands (serve, mcp).
// Command-line flags take precedence over these values.
type Server struct {
	Port         int           `env:"LECTERN_PORT" envDefault:"8080"`
	Store        string        `env:"LECTERN_STORE" envDefault:"file"`
	SessionDir   string        `env:"LECTERN_SESSION_DIR"`
	RedisAddr    string        `env:"LECTERN_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string        `env:"LECTERN_REDIS_PASSWORD"`
	RedisDB      int           `env:"LECTERN_REDIS_DB" envDefault:"0"`
	RedisPrefix  string        `env:"LECTERN_REDIS_PREFIX" envDefault:"lectern:session:"`
	SessionTTL   time.Duration `env:"LECTERN_SESSION_TTL" envDefault:"24h"`
	SQLitePath   string        `env:"LECTERN_SQLITE_PATH" envDefault:".lectern/sessions.db"`
	OTelEndpoint string        `env:"LECTERN_OTEL_ENDPOINT"`

	// EncryptionKeys are base64 AES-256 keys. The first seals new records,
	// the rest only open old ones.
	EncryptionKeys []string `env:"LECTERN_ENCRYPTION_KEYS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer returns the Server settings from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.Store {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return cfg, fmt.Errorf("unknown store %q (want memory, file, redis or sqlite)", cfg.Store)
	}
	return cfg, nil
}
