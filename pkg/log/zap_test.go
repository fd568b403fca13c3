package log_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"query-gateway/pkg/log"
)

func TestInit_FileSinkCarriesRequestID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")
	logger := log.Init(log.ZapConfig{
		Level:    "debug",
		Mode:     log.ModeProduction,
		Encoding: log.EncodingJSON,
		FilePath: path,
	})

	ctx := log.WithRequestID(context.Background(), "req-42")
	logger.Infof(ctx, "resolved %d question(s)", 3)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(raw)
	if !strings.Contains(line, `"request_id":"req-42"`) {
		t.Errorf("expected request id in log line, got %s", line)
	}
	if !strings.Contains(line, "resolved 3 question(s)") {
		t.Errorf("expected formatted message in log line, got %s", line)
	}
}

func TestInit_LevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")
	logger := log.Init(log.ZapConfig{Level: "warn", Mode: log.ModeProduction, Encoding: log.EncodingJSON, FilePath: path})

	logger.Debug(context.Background(), "hidden")
	logger.Warn(context.Background(), "shown")

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "hidden") {
		t.Errorf("debug entry should be filtered at warn level")
	}
	if !strings.Contains(string(raw), "shown") {
		t.Errorf("warn entry missing")
	}
}

func TestRequestID_Empty(t *testing.T) {
	if got := log.RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}
