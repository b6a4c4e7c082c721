//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("should read yaml and apply defaults", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		t.Setenv("BOT_TOKEN", "")
		path := writeConfig(t, "bot:\n  token: yaml-token\nsession:\n  ttl: 5m\nexchange:\n  timeout: 3s\n")

		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Bot.Token != "yaml-token" {
			t.Errorf("expected token from yaml, got %q", cfg.Bot.Token)
		}
		if cfg.Session.TTL != 5*time.Minute {
			t.Errorf("expected session ttl 5m, got %v", cfg.Session.TTL)
		}
		if cfg.Exchange.Timeout != 3*time.Second {
			t.Errorf("expected exchange timeout 3s, got %v", cfg.Exchange.Timeout)
		}
		if cfg.Bot.Workers != 4 || cfg.Bot.Language != "en" || cfg.Admin.Port != 8080 {
			t.Errorf("defaults not applied: %+v", cfg.Bot)
		}
		if cfg.Exchange.BybitURL != DefaultBybitURL || cfg.Exchange.HuobiURL != DefaultHuobiURL {
			t.Errorf("exchange defaults not applied: %+v", cfg.Exchange)
		}
		if !cfg.Runtime.Dev {
			t.Error("expected dev flag to be carried into runtime config")
		}
	})

	t.Run("environment token overrides yaml", func(t *testing.T) {
		t.Setenv("TOKEN", "env-token")
		path := writeConfig(t, "bot:\n  token: yaml-token\n")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Bot.Token != "env-token" {
			t.Errorf("expected env token, got %q", cfg.Bot.Token)
		}
	})

	t.Run("missing file is fine when token is in environment", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		t.Setenv("BOT_TOKEN", "env-only")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Bot.Token != "env-only" {
			t.Errorf("expected env token, got %q", cfg.Bot.Token)
		}
	})

	t.Run("missing token is an error", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		t.Setenv("BOT_TOKEN", "")
		path := writeConfig(t, "log:\n  level: debug\n")

		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected error for missing token")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Setenv("TOKEN", "x")
		path := writeConfig(t, "bot: [unclosed\n")

		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
