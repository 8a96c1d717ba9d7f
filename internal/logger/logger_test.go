package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() {
		Close()
		Logger = nil
	})

	if _, err := os.Stat(filepath.Join(configDir, "logs")); os.IsNotExist(err) {
		t.Error("log directory was not created")
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("store opened", "backend", "sqlite")
	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "store opened") {
		t.Errorf("log file does not contain message: %q", data)
	}
}

func TestInitWriterLevels(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	InitWriter(&buf, false)
	Debug("hidden detail")
	Warn("visible warning", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(out, "visible warning") || !strings.Contains(out, "key=value") {
		t.Errorf("warning not written as expected: %q", out)
	}

	buf.Reset()
	InitWriter(&buf, true)
	Debug("now shown")
	if !strings.Contains(buf.String(), "now shown") {
		t.Error("debug message missing in debug mode")
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
