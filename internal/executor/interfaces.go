// Package executor runs external processes while streaming their output
// and keeping a bounded tail of it for the caller.
package executor

import "context"

// CommandExecutor defines the interface for running processes.
// This interface enables dependency injection and easier testing.
type CommandExecutor interface {
	// Run starts the command, waits for it, and returns its result.
	// A non-zero exit is reported in the result, not as an error.
	Run(ctx context.Context, cmd Command) (*ExecutionResult, error)
}

// Ensure concrete type implements the interface
var _ CommandExecutor = (*Executor)(nil)
