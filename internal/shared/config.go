package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. KEDOO_STORE_BACKEND.
const EnvPrefix = "kedoo"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file and the environment.
type Config struct {
	Store    StoreConfig    `toml:"store" envconfig:"store"`
	Database DatabaseConfig `toml:"database" envconfig:"database"`
	Redis    RedisConfig    `toml:"redis" envconfig:"redis"`
	Server   ServerConfig   `toml:"server" envconfig:"server"`
	Log      LogConfig      `toml:"log" envconfig:"log"`
}

// StoreConfig selects the record store backend.
//
// Backend is one of memory, file, sqlite or redis. Path is used by the file backend.
type StoreConfig struct {
	Backend string `toml:"backend" split_words:"true"`
	Path    string `toml:"path" split_words:"true"`
}

// DatabaseConfig contains SQLite connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" split_words:"true"`
	MaxOpenConns int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns int    `toml:"max_idle_conns" split_words:"true"`
}

// RedisConfig contains Redis connection settings for the redis backend.
type RedisConfig struct {
	Addr       string `toml:"addr" split_words:"true"`
	Password   string `toml:"password" split_words:"true"`
	DB         int    `toml:"db" split_words:"true"`
	Prefix     string `toml:"prefix" split_words:"true"`
	MaxRetries int    `toml:"max_retries" split_words:"true"`
}

// ServerConfig contains local API server settings.
type ServerConfig struct {
	Host      string  `toml:"host" split_words:"true"`
	Port      int     `toml:"port" split_words:"true"`
	RateLimit float64 `toml:"rate_limit" split_words:"true"`
	Burst     int     `toml:"burst" split_words:"true"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

// Addr returns the host:port the API server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the file backend", ErrInvalidConfig)
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite backend", ErrInvalidConfig)
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// ApplyEnv overlays KEDOO_* environment variables onto config.
//
// A .env file in the working directory is loaded first when present; variables already set win over it.
func ApplyEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ResolveConfig loads path when it exists, falls back to defaults otherwise, and applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config, ".env"); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
