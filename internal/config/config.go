// Package config loads the server configuration from the environment.
//
// Variables:
//
//	STORE_URI   document store, e.g. mongodb://localhost:27017/devconnector
//	            or sqlite:data/devconnector.db (falls back to MONGO_URI)
//	SECRET_KEY  HS256 signing secret, at least 16 characters
//	PORT        listen port, default 5000
//	APP_ENV     development | production, default development
//	LOG_LEVEL   debug | info | warn | error, default info
//
// Outside production a .env file in the working directory is loaded first.
// Variables already set in the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort = 5000
	DefaultEnv  = "development"
)

// StoreKind selects the repository backend.
type StoreKind string

const (
	StoreMongo  StoreKind = "mongo"
	StoreSQLite StoreKind = "sqlite"
)

// Config is the validated server configuration.
type Config struct {
	Port      int
	Env       string
	LogLevel  slog.Level
	SecretKey string

	StoreURI  string
	StoreKind StoreKind
	// SQLitePath is the file path (or ":memory:") when StoreKind is StoreSQLite.
	SQLitePath string
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (outside production) and then the process environment.
// envFile may be empty to use ".env".
func Load(envFile string) (Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		if envFile == "" {
			envFile = ".env"
		}
		// A missing file is fine; real deployments set the environment directly.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, usually os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port: DefaultPort,
		Env:  DefaultEnv,
	}

	if env := strings.ToLower(strings.TrimSpace(getenv("APP_ENV"))); env != "" {
		cfg.Env = env
	}

	if raw := getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid PORT %q", raw)
		}
		cfg.Port = port
	}

	level, err := ParseLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	cfg.SecretKey = getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return Config{}, errors.New("config: SECRET_KEY is required")
	}
	if len(cfg.SecretKey) < 16 {
		return Config{}, errors.New("config: SECRET_KEY must be at least 16 characters")
	}

	cfg.StoreURI = getenv("STORE_URI")
	if cfg.StoreURI == "" {
		cfg.StoreURI = getenv("MONGO_URI")
	}
	if cfg.StoreURI == "" {
		return Config{}, errors.New("config: STORE_URI (or MONGO_URI) is required")
	}

	kind, path, err := ParseStoreURI(cfg.StoreURI)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreKind = kind
	cfg.SQLitePath = path

	return cfg, nil
}

// ParseStoreURI picks the backend from the URI scheme. For sqlite URIs it
// also returns the database path.
func ParseStoreURI(uri string) (StoreKind, string, error) {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return StoreMongo, "", nil
	case strings.HasPrefix(uri, "sqlite:"):
		path := strings.TrimPrefix(uri, "sqlite:")
		path = strings.TrimPrefix(path, "//")
		if path == "" {
			return "", "", fmt.Errorf("config: sqlite store URI %q has no path", uri)
		}
		return StoreSQLite, path, nil
	default:
		return "", "", fmt.Errorf("config: unsupported store URI %q (want mongodb:// or sqlite:)", uri)
	}
}

// ParseLevel maps LOG_LEVEL to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
