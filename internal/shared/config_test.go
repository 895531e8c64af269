package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Store.Backend != "sqlite" {
			t.Errorf("expected sqlite backend, got %s", config.Store.Backend)
		}

		if config.Database.Path != "./kedoo.db" {
			t.Errorf("expected database path ./kedoo.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Redis.Prefix != "kedoo:" {
			t.Errorf("expected redis prefix kedoo:, got %s", config.Redis.Prefix)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[store]
backend = "file"
path = "/custom/kedoo.json"

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Store.Backend != "file" {
			t.Errorf("expected file backend, got %s", config.Store.Backend)
		}
		if config.Store.Path != "/custom/kedoo.json" {
			t.Errorf("expected store path /custom/kedoo.json, got %s", config.Store.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Server.Host != "127.0.0.1" {
			t.Errorf("keys missing from the file should keep defaults, got host %q", config.Server.Host)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("KEDOO_STORE_BACKEND", "redis")
		t.Setenv("KEDOO_REDIS_ADDR", "redis.local:6380")
		t.Setenv("KEDOO_SERVER_PORT", "4000")

		config := DefaultConfig()
		if err := ApplyEnv(config, ""); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.Store.Backend != "redis" {
			t.Errorf("expected redis backend, got %s", config.Store.Backend)
		}
		if config.Redis.Addr != "redis.local:6380" {
			t.Errorf("expected redis addr override, got %s", config.Redis.Addr)
		}
		if config.Server.Port != 4000 {
			t.Errorf("expected port 4000, got %d", config.Server.Port)
		}
		if config.Database.Path != "./kedoo.db" {
			t.Errorf("unset variables should not touch config, got %s", config.Database.Path)
		}
	})

	t.Run("ApplyEnv ignores unprefixed variables", func(t *testing.T) {
		t.Setenv("PATH", "/usr/bin:/bin")
		t.Setenv("HOST", "evil.example")
		t.Setenv("DB", "7")
		t.Setenv("BACKEND", "redis")

		config := DefaultConfig()
		if err := ApplyEnv(config, ""); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		defaults := DefaultConfig()
		if config.Database.Path != defaults.Database.Path || config.Store.Path != defaults.Store.Path {
			t.Errorf("PATH leaked into config: database=%s store=%s", config.Database.Path, config.Store.Path)
		}
		if config.Server.Host != defaults.Server.Host {
			t.Errorf("HOST leaked into config: %s", config.Server.Host)
		}
		if config.Redis.DB != defaults.Redis.DB {
			t.Errorf("DB leaked into config: %d", config.Redis.DB)
		}
		if config.Store.Backend != defaults.Store.Backend {
			t.Errorf("BACKEND leaked into config: %s", config.Store.Backend)
		}
	})

	t.Run("ApplyEnv splits multi-word fields", func(t *testing.T) {
		t.Setenv("KEDOO_DATABASE_MAX_OPEN_CONNS", "3")
		t.Setenv("KEDOO_SERVER_RATE_LIMIT", "2.5")
		t.Setenv("KEDOO_REDIS_MAX_RETRIES", "9")

		config := DefaultConfig()
		if err := ApplyEnv(config, ""); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}
		if config.Database.MaxOpenConns != 3 || config.Server.RateLimit != 2.5 || config.Redis.MaxRetries != 9 {
			t.Errorf("unexpected overrides: %+v %+v %+v", config.Database, config.Server, config.Redis)
		}
	})

	t.Run("ApplyEnv from dotenv file", func(t *testing.T) {
		dotenv := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(dotenv, []byte("KEDOO_LOG_LEVEL=debug\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("KEDOO_LOG_LEVEL") })

		config := DefaultConfig()
		if err := ApplyEnv(config, dotenv); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level from .env, got %s", config.Log.Level)
		}
	})

	t.Run("ApplyEnv with missing dotenv file", func(t *testing.T) {
		config := DefaultConfig()
		if err := ApplyEnv(config, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("missing .env should be ignored, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
			want   error
		}{
			{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, ErrUnknownBackend},
			{"file without path", func(c *Config) { c.Store.Backend = "file"; c.Store.Path = "" }, ErrInvalidConfig},
			{"redis without addr", func(c *Config) { c.Store.Backend = "redis"; c.Redis.Addr = "" }, ErrInvalidConfig},
			{"memory", func(c *Config) { c.Store.Backend = "memory" }, nil},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				err := config.Validate()
				if tt.want == nil && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				if tt.want != nil && !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}
