package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, "NONE"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"none", LevelNone},
		{"off", LevelNone},
		{"invalid", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_TextFormat_SortedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatText, Output: &buf})
	logger.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.Info("dispatch", Fields{"user": "42", "command": ".generate"})

	got := strings.TrimSpace(buf.String())
	want := `2026-01-02 03:04:05.000 INFO  dispatch command=.generate user=42`
	if got != want {
		t.Errorf("text line = %q, want %q", got, want)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Error("backend failed", errors.New("exit status 2"), Fields{"subcommand": "resume"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Level != "ERROR" {
		t.Errorf("Level = %q, want %q", entry.Level, "ERROR")
	}
	if entry.Error != "exit status 2" {
		t.Errorf("Error = %q, want %q", entry.Error, "exit status 2")
	}
	if entry.Fields["subcommand"] != "resume" {
		t.Errorf("Fields[subcommand] = %v, want %q", entry.Fields["subcommand"], "resume")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Error("messages below Warn should be filtered out")
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Error("Warn and Error messages should be present")
	}
}

func TestLogger_NoneLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelNone, Output: &buf})

	logger.Error("error", nil)
	if buf.Len() > 0 {
		t.Error("No messages should be logged at None level")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.WithFields(Fields{"component": "installer"}).Info("step", Fields{"step": 3})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Fields["component"] != "installer" {
		t.Error("Expected preset field 'component'")
	}
	if entry.Fields["step"] != float64(3) {
		t.Error("Expected additional field 'step'")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "genpod.log")

	logger, closer, err := OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	logger.Info("first")
	logger.Debug("filtered")
	closer.Close()

	logger, closer, err = OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatalf("OpenFile() reopen error = %v", err)
	}
	logger.Info("second")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "first") || !strings.Contains(content, "second") {
		t.Errorf("log should be appended across opens, got %q", content)
	}
	if strings.Contains(content, "filtered") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { SetDefault(nil) })

	SetDefault(New(Options{Level: LevelDebug, Output: &buf}))
	Component("session").Info("login", Fields{"user": "42"})

	if !strings.Contains(buf.String(), "component=session") {
		t.Errorf("component field missing: %q", buf.String())
	}

	SetDefault(nil)
	Info("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Error("SetDefault(nil) should install a discarding logger")
	}
}
