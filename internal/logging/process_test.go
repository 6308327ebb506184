package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"OPENAI_API_KEY", true},
		{"anthropic_api_key", true},
		{"GITHUB_TOKEN", true},
		{"DB_PASSWORD", true},
		{"AWS_SECRET_ACCESS_KEY", true},
		{"GENPOD_CONFIG", false},
		{"VIRTUAL_ENV", false},
		{"PATH", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isSensitiveKey(tt.key); got != tt.want {
				t.Errorf("isSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestTruncateTail(t *testing.T) {
	if got := truncateTail("hello", 10); got != "hello" {
		t.Errorf("truncateTail() = %q, want unchanged", got)
	}

	got := truncateTail(strings.Repeat("a", 50)+"END", 3)
	if got != "[truncated]...END" {
		t.Errorf("truncateTail() = %q, want the last bytes kept", got)
	}
}

func TestProcessLogger_LogStart_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	pl := NewProcessLogger(New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf}))

	pl.LogStart("abc", "python", []string{"main.py", "resume", "42"}, "/opt/genpod", map[string]string{
		"OPENAI_API_KEY": "sk-live",
		"GENPOD_CONFIG":  "/cfg.yaml",
	})

	if strings.Contains(buf.String(), "sk-live") {
		t.Fatal("secret value leaked into the log")
	}

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Fields["args"] != "main.py resume 42" {
		t.Errorf("args = %v, want %q", entry.Fields["args"], "main.py resume 42")
	}
	env := entry.Fields["env"].(map[string]interface{})
	if env["OPENAI_API_KEY"] != "[REDACTED]" {
		t.Errorf("OPENAI_API_KEY = %v, want redacted", env["OPENAI_API_KEY"])
	}
	if env["GENPOD_CONFIG"] != "/cfg.yaml" {
		t.Errorf("GENPOD_CONFIG = %v, want %q", env["GENPOD_CONFIG"], "/cfg.yaml")
	}
}

func TestProcessLogger_LogExit(t *testing.T) {
	var buf bytes.Buffer
	pl := NewProcessLogger(New(Options{Level: LevelInfo, Output: &buf}))
	pl.SetMaxOutputSize(5)

	pl.LogExit("ok", 0, time.Second, "ignored output")
	if !strings.Contains(buf.String(), "INFO") || strings.Contains(buf.String(), "ignored") {
		t.Errorf("success should log at INFO without output, got %q", buf.String())
	}

	buf.Reset()
	pl.LogExit("bad", 2, time.Second, "Traceback: boom")
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("failure should log at WARN, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "exit_code=2") {
		t.Errorf("failure should record the exit code, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[truncated]... boom") {
		t.Errorf("failure should record the output tail, got %q", buf.String())
	}
}
