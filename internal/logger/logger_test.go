package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dbsmedya/objectgraph/internal/config"
)

// newObserved returns a Logger backed by an in-memory core.
func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return wrap(zap.New(core)), logs
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := levelOf(tt.input)
			if level.String() != tt.expected {
				t.Errorf("levelOf(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{"json stdout", &config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"text stderr", &config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}},
		{"file output", &config.LoggingConfig{Level: "warn", Format: "json", Output: filepath.Join(dir, "log.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil logger without error")
			}
			_ = logger.Sync()
		})
	}
}

func TestNewDefaultAndNop(t *testing.T) {
	if NewDefault() == nil {
		t.Fatal("NewDefault() returned nil")
	}

	nop := NewNop()
	if nop == nil {
		t.Fatal("NewNop() returned nil")
	}
	nop.Info("discarded")
	if err := nop.Sync(); err != nil {
		t.Errorf("Nop Sync() error = %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	logger, logs := newObserved(zapcore.DebugLevel)

	logger.WithSeed("adunit", "536873591").
		WithStrategy("bfs").
		WithNode(3, "account", "9").
		Info("expanding")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	want := map[string]interface{}{
		"seed_type": "adunit",
		"seed_id":   "536873591",
		"strategy":  "bfs",
		"node":      int64(3),
		"type":      "account",
		"id":        "9",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v (%T), want %v", k, fields[k], fields[k], v)
		}
	}
}

func TestContextHelpers_DoNotMutateParent(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	_ = logger.WithSeed("site", "1")
	logger.Info("plain")

	if _, ok := logs.All()[0].ContextMap()["seed_type"]; ok {
		t.Error("WithSeed must return a new logger instance")
	}
}

func TestWithFields(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.WithFields(map[string]interface{}{"lookups": 12, "limit_reached": true}).Info("done")

	fields := logs.All()[0].ContextMap()
	if fields["lookups"] != int64(12) {
		t.Errorf("lookups = %v", fields["lookups"])
	}
	if fields["limit_reached"] != true {
		t.Errorf("limit_reached = %v", fields["limit_reached"])
	}
}

func TestWithRequest(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.WithRequest("").Info("untagged")
	logger.WithRequest("host/abc-000001").Info("tagged")

	entries := logs.All()
	if _, ok := entries[0].ContextMap()["request_id"]; ok {
		t.Error("empty request id must not add a field")
	}
	if got := entries[1].ContextMap()["request_id"]; got != "host/abc-000001" {
		t.Errorf("request_id = %v", got)
	}
}

func TestEncoderFor(t *testing.T) {
	for _, format := range []string{"json", "text", "unknown"} {
		if encoderFor(format) == nil {
			t.Errorf("encoderFor(%q) returned nil", format)
		}
	}
}

func TestSinkFor(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", ""} {
		sink, err := sinkFor(output)
		if err != nil || sink == nil {
			t.Errorf("sinkFor(%q) = %v, %v", output, sink, err)
		}
	}

	if _, err := sinkFor(filepath.Join(t.TempDir(), "out.log")); err != nil {
		t.Errorf("sinkFor(file) error = %v", err)
	}

	if _, err := sinkFor(filepath.Join(t.TempDir(), "missing", "out.log")); err == nil {
		t.Error("sinkFor() should fail for a file in a missing directory")
	}
}

func TestNewFailsOnUnopenableOutput(t *testing.T) {
	_, err := New(&config.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "out.log")})
	if err == nil {
		t.Fatal("New() should fail when the log file cannot be opened")
	}
}

func TestLoggingOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger-test.json")

	logger, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("traversal started")
	logger.Debug("filtered out at info level")
	logger.WithSeed("site", "1610870269").Warn("dangling reference")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "traversal started") {
		t.Error("log file should contain 'traversal started'")
	}
	if strings.Contains(contentStr, "filtered out") {
		t.Error("debug entry should be filtered at info level")
	}
	if !strings.Contains(contentStr, "1610870269") {
		t.Error("log file should contain seed context")
	}
}
