package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
jwt:
  secret: from-file
feed:
  default_page_size: 5
  max_page_size: 50
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2,")
	t.Setenv("RECONCILE_ENABLED", "false")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.Feed.DefaultPageSize != 5 || cfg.Feed.MaxPageSize != 50 {
		t.Errorf("feed sizes = %d/%d, want 5/50", cfg.Feed.DefaultPageSize, cfg.Feed.MaxPageSize)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[1] != "10.0.0.2" {
		t.Errorf("trusted proxies = %v", cfg.Server.TrustedProxies)
	}
	if cfg.Reconcile.Enabled {
		t.Error("reconcile should be disabled by env")
	}
	if cfg.Database.DBName != "collabhub" {
		t.Errorf("default db name = %q", cfg.Database.DBName)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "server:\n  port: \"8080\"\n"},
		{"bad interval", "jwt:\n  secret: s\nreconcile:\n  interval: soon\n"},
		{"page sizes", "jwt:\n  secret: s\nfeed:\n  default_page_size: 20\n  max_page_size: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("JWT_SECRET")
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSetFieldFromEnv_Invalid(t *testing.T) {
	var cfg Config
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	if err := processStructFields(&cfg); err == nil {
		t.Fatal("expected error for non-numeric int")
	}
}
