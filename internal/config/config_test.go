package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"QUIZ_BACKEND",
	"SUPABASE_URL",
	"SUPABASE_ANON_KEY",
	"SUPABASE_PROJECT_REF",
	"SUPABASE_ACCESS_TOKEN",
	"SUPABASE_MANAGEMENT_URL",
	"DATABASE_URL",
	"SQLITE_PATH",
	"ADDR",
	"HTTP_TIMEOUT",
	"SESSION_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.SQLitePath != "quiz.db" || cfg.Addr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ManagementURL != "https://api.supabase.com" {
		t.Fatalf("ManagementURL = %q", cfg.ManagementURL)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected durations: %s, %s", cfg.HTTPTimeout, cfg.SessionTTL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZ_BACKEND", "Supabase")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SUPABASE_PROJECT_REF", "abc")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("ADDR", ":9090")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Backend != BackendSupabase || cfg.SupabaseProjectRef != "abc" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HTTPTimeout != 3*time.Second || cfg.SessionTTL != 5*time.Minute || cfg.Addr != ":9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFromEnvRejectsBadDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "HTTP_TIMEOUT", value: "soon"},
		{key: "HTTP_TIMEOUT", value: "-1s"},
		{key: "HTTP_TIMEOUT", value: "0s"},
		{key: "SESSION_TTL", value: "forever"},
		{key: "SESSION_TTL", value: "-5m"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "sqlite", cfg: Config{Backend: BackendSQLite}},
		{name: "memory", cfg: Config{Backend: BackendMemory}},
		{name: "supabase", cfg: Config{Backend: BackendSupabase, SupabaseURL: "https://x", SupabaseAnonKey: "anon"}},
		{name: "postgres", cfg: Config{Backend: BackendPostgres, DatabaseURL: "postgres://localhost/quiz"}},
		{name: "unknown backend", cfg: Config{Backend: "mongo"}, wantErr: true},
		{name: "supabase without key", cfg: Config{Backend: BackendSupabase, SupabaseURL: "https://x"}, wantErr: true},
		{name: "postgres without url", cfg: Config{Backend: BackendPostgres}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tc.cfg)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestFromEnvDefersValidationToFlagOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZ_BACKEND", "supabase")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected supabase without keys to fail validation")
	}

	cfg.Backend = BackendMemory
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate after override failed: %v", err)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables already present, so unset these.
	os.Unsetenv("QUIZ_BACKEND")
	os.Unsetenv("SQLITE_PATH")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("QUIZ_BACKEND=memory\nSQLITE_PATH=other.db\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("QUIZ_BACKEND")
		os.Unsetenv("SQLITE_PATH")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.SQLitePath != "other.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadToleratesMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}
