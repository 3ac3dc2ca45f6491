package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger(level, format)
	t.Cleanup(func() { logger = nil })

	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("installing wheel") },
			contains: []string{"installing wheel", "level=INFO"},
		},
		{
			name:     "debug hidden at info",
			level:    "info",
			logFn:    func() { Debug("moved file") },
			excludes: []string{"moved file"},
		},
		{
			name:     "debug shown at debug",
			level:    "debug",
			logFn:    func() { Debug("moved file", Fields{"path": "demo/__init__.py"}) },
			contains: []string{"moved file", "level=DEBUG", "path=demo/__init__.py"},
		},
		{
			name:     "warn with fields",
			level:    "warn",
			logFn:    func() { Warn("skipping entry point", Fields{"name": "bad", "line": 3}) },
			contains: []string{"skipping entry point", "level=WARN", "name=bad", "line=3"},
		},
		{
			name:     "success marker",
			level:    "info",
			logFn:    func() { Success("installed demo") },
			contains: []string{"installed demo", "status=success"},
		},
		{
			name:     "unknown level falls back to info",
			level:    "chatty",
			logFn:    func() { Infof("built %d wheels", 2) },
			contains: []string{"built 2 wheels"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Error("build failed", Fields{"package": "demo"})
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &record))
	assert.Equal(t, "build failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "demo", record["package"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
