package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// Admin surface.
	AdminBasePath string
	RequireAuth   bool
	AdminKey      string
	AdminKeyHash  string // optional bcrypt hash checked instead of AdminKey
	AllowBearer   bool   // accept fleet-issued HS256 bearer tokens

	// Host services.
	NotifyURLs    []string // shoutrrr URLs notified on freeze/alarm events
	AlarmPollSpec string   // cron spec for the due-alarm poller
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:   getEnv("WARDEN_ENV", "development"),
		HTTPPort:      getEnv("WARDEN_HTTP_PORT", "8080"),
		DatabasePath:  getEnv("WARDEN_DB_PATH", filepath.Join("data", "warden.db")),
		AdminBasePath: getEnv("WARDEN_ADMIN_BASE_PATH", "/admin"),
		RequireAuth:   getEnvBool("WARDEN_REQUIRE_AUTH", false),
		AdminKey:      getEnv("WARDEN_ADMIN_KEY", ""),
		AdminKeyHash:  getEnv("WARDEN_ADMIN_KEY_HASH", ""),
		AllowBearer:   getEnvBool("WARDEN_ALLOW_BEARER", false),
		NotifyURLs:    getEnvList("WARDEN_NOTIFY_URLS"),
		AlarmPollSpec: getEnv("WARDEN_ALARM_POLL", "@every 30s"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}

	return parsed
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
