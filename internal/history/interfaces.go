// Package history provides REPL input history persistence.
package history

// HistoryManager defines the interface for managing input history.
// This interface enables dependency injection and easier testing.
type HistoryManager interface {
	// Load reads the history from disk
	Load() error

	// Save writes the history to disk
	Save() error

	// Add records an input line, reporting whether it was kept
	Add(line string) bool

	// Entries returns the lines, oldest first
	Entries() []string

	// Clear removes all history
	Clear()
}

// Ensure concrete type implements the interface
var _ HistoryManager = (*History)(nil)
