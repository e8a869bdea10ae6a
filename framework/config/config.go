package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Inspector InspectorConfig
}

type AppConfig struct {
	Name            string
	Env             string // local | production | testing
	Debug           bool
	Port            string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// InspectorConfig controls the HTTP view of the container.
type InspectorConfig struct {
	Enabled bool
	Prefix  string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:            Get("APP_NAME", "locator"),
			Env:             Get("APP_ENV", "local"),
			Debug:           GetBool("APP_DEBUG", false),
			Port:            Get("APP_PORT", "8000"),
			ShutdownTimeout: time.Duration(GetInt("APP_SHUTDOWN_TIMEOUT", 5)) * time.Second,
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
		},
		Inspector: InspectorConfig{
			Enabled: GetBool("INSPECTOR_ENABLED", true),
			Prefix:  Get("INSPECTOR_PREFIX", "/container"),
		},
	}
}

// Get returns the env value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns key as an int. Unset or unparsable values give fallback.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}
	return i
}

// GetBool returns key as a bool. Unset or unparsable values give fallback.
func GetBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}
	return b
}
