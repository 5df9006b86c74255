package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct, populated from the
// environment (plus an optional .env file) once at bootstrap and bound into
// the container as the "config" identity.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Mail    MailConfig
	Storage StorageConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type DBConfig struct {
	Driver string // "sqlite"
	DSN    string // e.g. ":memory:" or a file path
}

type MailConfig struct {
	Host string
	Port string
	From string
}

type StorageConfig struct {
	Dir string // blob storage root
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		DB: DBConfig{
			Driver: env("DB_DRIVER", "sqlite"),
			DSN:    env("DB_DSN", ":memory:"),
		},
		Mail: MailConfig{
			Host: env("MAIL_HOST", "localhost"),
			Port: env("MAIL_PORT", "587"),
			From: env("MAIL_FROM_ADDRESS", "noreply@example.com"),
		},
		Storage: StorageConfig{
			Dir: env("STORAGE_DIR", os.TempDir()),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
