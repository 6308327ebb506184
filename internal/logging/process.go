package logging

import (
	"strings"
	"time"
)

// sensitiveMarkers flag environment variables whose values must not be logged
var sensitiveMarkers = []string{"KEY", "TOKEN", "SECRET", "PASSWORD", "PASSWD", "CREDENTIAL"}

// ProcessLogger records external process runs (backend, venv, pip)
type ProcessLogger struct {
	logger        *Logger
	maxOutputSize int
}

// NewProcessLogger creates a new process logger. A nil logger writes to
// whatever the default logger is at the time of each entry.
func NewProcessLogger(logger *Logger) *ProcessLogger {
	return &ProcessLogger{
		logger:        logger,
		maxOutputSize: 2000,
	}
}

func (p *ProcessLogger) target() *Logger {
	if p.logger == nil {
		return Default()
	}
	return p.logger
}

// SetMaxOutputSize sets how much of a process's output tail is logged
func (p *ProcessLogger) SetMaxOutputSize(size int) {
	p.maxOutputSize = size
}

// LogStart logs a process about to run. Only env entries in extraEnv are
// logged, with sensitive values redacted.
func (p *ProcessLogger) LogStart(id, name string, args []string, dir string, extraEnv map[string]string) {
	fields := Fields{
		"id":      id,
		"command": name,
		"args":    strings.Join(args, " "),
	}
	if dir != "" {
		fields["dir"] = dir
	}
	if len(extraEnv) > 0 {
		env := make(map[string]string, len(extraEnv))
		for k, v := range extraEnv {
			if isSensitiveKey(k) {
				env[k] = "[REDACTED]"
			} else {
				env[k] = v
			}
		}
		fields["env"] = env
	}
	p.target().Debug("process start", fields)
}

// LogExit logs a finished process
func (p *ProcessLogger) LogExit(id string, exitCode int, duration time.Duration, output string) {
	fields := Fields{
		"id":          id,
		"exit_code":   exitCode,
		"duration_ms": duration.Milliseconds(),
	}

	if exitCode != 0 {
		if output != "" {
			fields["output_tail"] = truncateTail(output, p.maxOutputSize)
		}
		p.target().Warn("process exited with failure", fields)
		return
	}
	p.target().Info("process exited", fields)
}

// LogError logs a process that could not be started
func (p *ProcessLogger) LogError(id, name string, err error) {
	p.target().Error("process failed to start", err, Fields{
		"id":      id,
		"command": name,
	})
}

// isSensitiveKey checks if an environment variable name looks like a secret
func isSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// truncateTail keeps the last maxSize bytes of s
func truncateTail(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	return "[truncated]..." + s[len(s)-maxSize:]
}
