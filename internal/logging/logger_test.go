package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "compdash.log")
	if err := Init("debug", file); err != nil {
		t.Fatalf("Init: %v", err)
	}

	L().Info("poll tick failed", zap.String("resource", "metrics"))
	Sync()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "poll tick failed") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestLBeforeInitIsNop(t *testing.T) {
	// Must not panic even if Init was never called.
	L().Debug("silent")
}

func TestInitBadLevelFallsBack(t *testing.T) {
	file := filepath.Join(t.TempDir(), "compdash.log")
	if err := Init("loud", file); err != nil {
		t.Fatalf("Init with bad level should still succeed: %v", err)
	}
}
