package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

const (
	defaultBackend       = BackendSQLite
	defaultManagementURL = "https://api.supabase.com"
	defaultSQLitePath    = "quiz.db"
	defaultAddr          = ":8080"
	defaultHTTPTimeout   = 10 * time.Second
	defaultSessionTTL    = 30 * time.Minute
)

type Config struct {
	Backend string

	SupabaseURL         string
	SupabaseAnonKey     string
	SupabaseProjectRef  string
	SupabaseAccessToken string
	ManagementURL       string

	DatabaseURL string
	SQLitePath  string

	Addr        string
	HTTPTimeout time.Duration
	// SessionTTL is how long the service keeps an untouched session.
	SessionTTL time.Duration
}

// Load reads .env files (when present) and then the process environment.
// Like FromEnv it does not validate; callers apply flag overrides first and
// then call Validate.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Backend:             strings.ToLower(envOrDefault("QUIZ_BACKEND", defaultBackend)),
		SupabaseURL:         envOrDefault("SUPABASE_URL", ""),
		SupabaseAnonKey:     envOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseProjectRef:  envOrDefault("SUPABASE_PROJECT_REF", ""),
		SupabaseAccessToken: envOrDefault("SUPABASE_ACCESS_TOKEN", ""),
		ManagementURL:       envOrDefault("SUPABASE_MANAGEMENT_URL", defaultManagementURL),
		DatabaseURL:         envOrDefault("DATABASE_URL", ""),
		SQLitePath:          envOrDefault("SQLITE_PATH", defaultSQLitePath),
		Addr:                envOrDefault("ADDR", defaultAddr),
	}

	var err error
	if cfg.HTTPTimeout, err = durationOrDefault("HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationOrDefault("SESSION_TTL", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs to connect.
// Wake settings stay optional; without them the wake action reports itself
// as not configured.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("backend %s requires SUPABASE_URL and SUPABASE_ANON_KEY", c.Backend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("backend %s requires DATABASE_URL", c.Backend)
		}
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown QUIZ_BACKEND %q", c.Backend)
	}
	return nil
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := envOrDefault(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, value)
	}
	return value, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
