package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "propgraph.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9093" || !cfg.MetricsEnabled || cfg.Recommend.Knows != "Knows" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
http_addr: "127.0.0.1:8080"
log_level: debug
log_format: json
read_timeout: 2s
recommend:
  person_category: User
  item_category: Book
  knows: Follows
  consumed: Read
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:8080" || cfg.ReadTimeout != 2*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.WriteTimeout != 15*time.Second {
		t.Errorf("missing field should keep its default, got %v", cfg.WriteTimeout)
	}
	if cfg.Recommend.ItemCategory != "Book" {
		t.Errorf("nested override not applied: %+v", cfg.Recommend)
	}
	if lvl, _ := cfg.SlogLevel(); lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", lvl)
	}

	var buf bytes.Buffer
	cfg.NewLogger(&buf).Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON log line, got %q", buf.String())
	}
}

func TestLoadConfigStrict(t *testing.T) {
	path := writeConfig(t, "http_adr: \":1\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown field should be rejected")
	}

	path = writeConfig(t, "log_level: loud\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid log level should be rejected")
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should be an error")
	}
}
