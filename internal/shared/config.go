package shared

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the explicit server configuration, resolved once at startup.
// Resolution order: defaults, then an optional TOML file, then environment
// variables. Validate runs after resolution and fails fast, so handlers never
// have to check for a missing secret per request.
type Config struct {
	Addr       string `toml:"addr"`
	Driver     string `toml:"driver"`  // "sqlite" (default), "pgx", or "postgres"
	DBPath     string `toml:"db_path"` // sqlite backend
	DSN        string `toml:"dsn"`     // postgres backends
	APIKey     string `toml:"api_key"`
	WebhookURL string `toml:"webhook_url"` // optional chat automation hook
}

// Defaults returns the baseline configuration before file and env overrides.
func Defaults() Config {
	return Config{
		Addr:   ":8080",
		Driver: "sqlite",
		DBPath: "./data/todobase.db",
	}
}

// LoadConfig resolves the configuration. path names a TOML file; when empty,
// ./todobase.toml is used if it exists.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat("todobase.toml"); err == nil {
			path = "todobase.toml"
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Addr, "TODO_ADDR")
	setFromEnv(&cfg.Driver, "TODO_DB_DRIVER")
	setFromEnv(&cfg.DBPath, "TODO_DB_PATH")
	setFromEnv(&cfg.DSN, "TODO_DB_DSN")
	setFromEnv(&cfg.APIKey, "TODO_API_KEY")
	setFromEnv(&cfg.WebhookURL, "TODO_WEBHOOK_URL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations the server cannot safely run with.
// An empty API key is a hard error: the auth guard treats a missing secret as
// deny-all, which would lock out every client.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set TODO_API_KEY or api_key)")
	}
	switch c.Driver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite driver")
		}
	case "pgx", "postgres":
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the %s driver", c.Driver)
		}
	default:
		return fmt.Errorf("unknown db driver %q (want sqlite, pgx, or postgres)", c.Driver)
	}
	return nil
}
