package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Orders.PerPage != 10 {
		t.Fatalf("unexpected per page %d", cfg.Orders.PerPage)
	}
	if cfg.Currency.Symbol != "₹" || cfg.Currency.Locale != "en" {
		t.Fatalf("unexpected currency %#v", cfg.Currency)
	}
	if cfg.Stock.DangerThreshold != 10 || cfg.Stock.WarningThreshold != 20 {
		t.Fatalf("unexpected thresholds %#v", cfg.Stock)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GROCERY_API_BASE_URL", "https://store.example.com")
	t.Setenv("GROCERY_API_KEY", "secret")
	t.Setenv("GROCERY_API_TIMEOUT", "3s")
	t.Setenv("GROCERY_ORDERS_PER_PAGE", "25")
	t.Setenv("GROCERY_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://store.example.com" || cfg.API.Key != "secret" {
		t.Fatalf("unexpected api config %#v", cfg.API)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Orders.PerPage != 25 {
		t.Fatalf("unexpected per page %d", cfg.Orders.PerPage)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api_base_url: http://10.0.0.4:5000\ncurrency_symbol: $\nstock_danger_threshold: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.4:5000" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Currency.Symbol != "$" {
		t.Fatalf("unexpected symbol %q", cfg.Currency.Symbol)
	}
	if cfg.Stock.DangerThreshold != 5 {
		t.Fatalf("unexpected danger threshold %d", cfg.Stock.DangerThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.Stock.WarningThreshold != 20 {
		t.Fatalf("unexpected warning threshold %d", cfg.Stock.WarningThreshold)
	}
}

func TestLoadEnvironmentBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: http://file.example.com\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GROCERY_API_BASE_URL", "http://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://env.example.com" {
		t.Fatalf("expected env to win, got %q", cfg.API.BaseURL)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("GROCERY_API_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
