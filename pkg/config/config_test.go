package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("WRITE_API_URL", "http://write.internal:8000")
	t.Setenv("READ_API_URL", "http://read.internal:8001")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("PAGE_LIMIT", "50")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SESSION_FILE", filepath.Join(tmp, "session.json"))
	t.Setenv("DOWNLOAD_DIR", filepath.Join(tmp, "downloads"))
	t.Setenv("SANDBOX_DATABASE_URL", filepath.Join(tmp, "sandbox.db"))

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if c.WriteAPIURL != "http://write.internal:8000" || c.ReadAPIURL != "http://read.internal:8001" {
		t.Fatalf("unexpected backend urls: %s %s", c.WriteAPIURL, c.ReadAPIURL)
	}
	if c.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", c.HTTPTimeout)
	}
	if c.PageLimit != 50 {
		t.Fatalf("expected page limit 50, got %d", c.PageLimit)
	}
	if c.SessionFile != filepath.Join(tmp, "session.json") {
		t.Fatalf("expected session file under %s, got %s", tmp, c.SessionFile)
	}
	if !c.IsDevelopment() {
		t.Fatalf("test env should count as development")
	}
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("WRITE_API_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for WRITE_API_URL")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
