package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/executor"
	"github.com/genpod/genpod-cli/internal/logging"
)

// Invoker runs one backend subcommand
type Invoker interface {
	Invoke(ctx context.Context, subcommand string, args ...string) (*Result, error)
}

// Ensure concrete type implements the interface
var _ Invoker = (*ProcessInvoker)(nil)

// Result is the outcome of a backend run
type Result struct {
	InvocationID string
	Subcommand   string
	Args         []string
	ExitCode     int

	// Output is the tail of combined stdout and stderr
	Output   string
	Duration time.Duration
}

// Success returns true if the backend exited with status 0
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// ProcessInvoker runs `python main.py <subcommand> <args...>` in the
// backend home. The child inherits stdin and streams to the console.
type ProcessInvoker struct {
	runtime *Runtime
	exec    executor.CommandExecutor
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	lookupEnv func(string) (string, bool)
	newID     func() string
	log       *logging.FieldLogger
}

// NewInvoker creates a ProcessInvoker
func NewInvoker(rt *Runtime, exec executor.CommandExecutor, stdin io.Reader, stdout, stderr io.Writer) *ProcessInvoker {
	return &ProcessInvoker{
		runtime:   rt,
		exec:      exec,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		lookupEnv: os.LookupEnv,
		newID:     uuid.NewString,
		log:       logging.Component("backend"),
	}
}

// Invoke blocks until the backend exits. Failing to start is an error;
// a non-zero exit is returned as a Result.
func (p *ProcessInvoker) Invoke(ctx context.Context, subcommand string, args ...string) (*Result, error) {
	id := p.newID()
	argv := append([]string{constants.BackendEntrypoint, subcommand}, args...)

	env, err := p.environment(id)
	if err != nil {
		return nil, err
	}

	p.log.Info("invoking backend", logging.Fields{
		"id":         id,
		"subcommand": subcommand,
		"args":       args,
	})

	res, err := p.exec.Run(ctx, executor.Command{
		ID:     id,
		Name:   p.runtime.Python(),
		Args:   argv,
		Dir:    p.runtime.Home(),
		Env:    env,
		Stdin:  p.stdin,
		Stdout: p.stdout,
		Stderr: p.stderr,
	})
	if err != nil {
		p.log.Error("backend did not start", err, logging.Fields{"id": id})
		return nil, fmt.Errorf("failed to run backend %s: %w", subcommand, err)
	}

	p.log.Info("backend finished", logging.Fields{
		"id":          id,
		"exit_code":   res.ExitCode,
		"duration_ms": res.Duration.Milliseconds(),
	})

	return &Result{
		InvocationID: id,
		Subcommand:   subcommand,
		Args:         args,
		ExitCode:     res.ExitCode,
		Output:       res.Output,
		Duration:     res.Duration,
	}, nil
}

// environment builds the overrides for the child: values from the
// backend's .env fill in unset variables, then the venv and invocation id
// are applied on top.
func (p *ProcessInvoker) environment(id string) (map[string]string, error) {
	env := make(map[string]string)

	dotenv, err := readDotEnv(filepath.Join(p.runtime.Home(), constants.BackendDotEnv))
	if err != nil {
		return nil, err
	}
	for k, v := range dotenv {
		if _, set := p.lookupEnv(k); !set {
			env[k] = v
		}
	}

	for k, v := range p.runtime.Overrides() {
		env[k] = v
	}
	env[constants.EnvInvocationID] = id
	return env, nil
}

// readDotEnv parses a .env file; a missing file yields no values
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}
