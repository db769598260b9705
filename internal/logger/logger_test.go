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

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if _, err := os.Stat(filepath.Dir(LogPath(configDir))); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}

	Info("plan generated", "user", "ana", "days", 30)
	if _, err := os.Stat(LogPath(configDir)); err != nil {
		t.Errorf("log file was not written: %v", err)
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/cfg")
	if got != filepath.Join("/tmp/cfg", "logs", "cyclefit.log") {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestSetOutput_Levels(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	SetOutput(&buf, false)
	Debug("hidden")
	Info("carry-over appended", "count", 2)
	Warn("backup failed")
	Error("save failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message written at info level")
	}
	for _, want := range []string{"carry-over appended", "count=2", "backup failed", "save failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	SetOutput(&buf, true)
	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug message missing in debug mode")
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
