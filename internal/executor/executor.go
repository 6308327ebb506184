package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/logging"
)

// Command describes one process to run
type Command struct {
	// ID correlates log entries for this run
	ID   string
	Name string
	Args []string
	Dir  string

	// Env entries override or extend the inherited environment
	Env map[string]string

	// Stdin, Stdout and Stderr are passed through. Nil Stdout or Stderr
	// means output is only captured.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ExecutionResult holds the result of a finished process
type ExecutionResult struct {
	Command   string
	ExitCode  int
	Output    string
	Duration  time.Duration
	Truncated bool
}

// IsSuccess returns true if the process exited with status 0
func (r *ExecutionResult) IsSuccess() bool {
	return r.ExitCode == 0
}

// FormatResult formats the result for display
func (r *ExecutionResult) FormatResult() string {
	var sb strings.Builder
	if r.Output != "" {
		if r.Truncated {
			sb.WriteString("[output truncated]\n")
		}
		sb.WriteString(r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			sb.WriteString("\n")
		}
	}
	if r.ExitCode != 0 {
		fmt.Fprintf(&sb, "Exit code: %d\n", r.ExitCode)
	}
	return sb.String()
}

// Executor runs processes with os/exec
type Executor struct {
	maxOutput int
	environ   func() []string
	log       *logging.ProcessLogger
}

// NewExecutor creates a new executor with the default capture limit
func NewExecutor() *Executor {
	return &Executor{
		maxOutput: constants.MaxCapturedOutput,
		environ:   os.Environ,
		log:       logging.NewProcessLogger(nil),
	}
}

// SetMaxOutput sets how many trailing bytes of output are kept
func (e *Executor) SetMaxOutput(n int) {
	e.maxOutput = n
}

// SetLogger replaces the process logger
func (e *Executor) SetLogger(l *logging.ProcessLogger) {
	e.log = l
}

// Run executes cmd and blocks until it exits. There is no timeout beyond
// ctx cancellation.
func (e *Executor) Run(ctx context.Context, c Command) (*ExecutionResult, error) {
	proc := exec.CommandContext(ctx, c.Name, c.Args...)
	proc.Dir = c.Dir
	if len(c.Env) > 0 {
		proc.Env = MergeEnv(e.environ(), c.Env)
	}
	proc.Stdin = c.Stdin

	tail := newTailBuffer(e.maxOutput)
	proc.Stdout = tee(c.Stdout, tail)
	proc.Stderr = tee(c.Stderr, tail)

	e.log.LogStart(c.ID, c.Name, c.Args, c.Dir, c.Env)
	start := time.Now()
	err := proc.Run()
	duration := time.Since(start)

	result := &ExecutionResult{
		Command:   c.String(),
		Output:    tail.String(),
		Duration:  duration,
		Truncated: tail.Truncated(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			e.log.LogExit(c.ID, result.ExitCode, duration, result.Output)
			return result, nil
		}
		e.log.LogError(c.ID, c.Name, err)
		return nil, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	e.log.LogExit(c.ID, 0, duration, result.Output)
	return result, nil
}

func tee(w io.Writer, tail *tailBuffer) io.Writer {
	if w == nil {
		return tail
	}
	return io.MultiWriter(w, tail)
}

// MergeEnv applies overrides to a KEY=VALUE environment list. Existing
// keys are replaced in place; new keys are appended in sorted order.
func MergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if !seen[key] {
				merged = append(merged, key+"="+v)
				seen[key] = true
			}
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overrides[k])
	}
	return merged
}
