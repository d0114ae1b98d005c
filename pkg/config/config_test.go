package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8000" {
		t.Errorf("expected :8000, got %s", cfg.Listen)
	}
	if cfg.Source != DefaultSourceURL {
		t.Errorf("unexpected source: %s", cfg.Source)
	}
	if cfg.AuthEnabled() {
		t.Error("expected auth disabled with no keys")
	}
	if cfg.Audit.RetentionDays != 30 {
		t.Errorf("expected 30 day retention, got %d", cfg.Audit.RetentionDays)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_MATCH_KEY", "k-test-123")

	content := `
listen: ":9090"
source: "https://example.test/matches.json"
api_keys:
  - ${TEST_MATCH_KEY}
  - k-second
audit:
  db_path: "audit.db"
  retention_days: 7
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.Source != "https://example.test/matches.json" {
		t.Errorf("unexpected source: %s", cfg.Source)
	}
	if len(cfg.APIKeys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(cfg.APIKeys))
	}
	if cfg.APIKeys[0] != "k-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.APIKeys[0])
	}
	if !cfg.AuthEnabled() {
		t.Error("expected auth enabled")
	}
	if cfg.Audit.DBPath != "audit.db" {
		t.Errorf("unexpected audit db path: %s", cfg.Audit.DBPath)
	}
	if cfg.Audit.RetentionDays != 7 {
		t.Errorf("expected 7 day retention, got %d", cfg.Audit.RetentionDays)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_KEYS", "alpha, beta ,,gamma")
	t.Setenv("MATCHES_SOURCE_URL", "https://mirror.test/matches.json")
	t.Setenv("AUDIT_DB", "/tmp/audit.db")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Listen != ":9000" {
		t.Errorf("expected :9000, got %s", cfg.Listen)
	}
	if len(cfg.APIKeys) != 3 {
		t.Fatalf("expected 3 keys, got %d: %v", len(cfg.APIKeys), cfg.APIKeys)
	}
	if cfg.APIKeys[1] != "beta" {
		t.Errorf("expected trimmed key, got %q", cfg.APIKeys[1])
	}
	if cfg.Source != "https://mirror.test/matches.json" {
		t.Errorf("unexpected source: %s", cfg.Source)
	}
	if cfg.Audit.DBPath != "/tmp/audit.db" {
		t.Errorf("unexpected audit db: %s", cfg.Audit.DBPath)
	}
}
