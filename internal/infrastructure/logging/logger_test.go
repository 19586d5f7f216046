package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger_WritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gateway.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "debug")

	logger, err := NewLogger("erede-gateway", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("hello")
	_ = logger.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := NewLogger("erede-gateway", "test"); err == nil {
		t.Fatalf("expected error for invalid LOG_LEVEL")
	}
}
