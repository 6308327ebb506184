package history

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genpod/genpod-cli/internal/constants"
)

// History is a newline-delimited list of past input lines
type History struct {
	path    string
	max     int
	entries []string
}

// NewHistory creates a history stored at path
func NewHistory(path string) *History {
	return &History{
		path: path,
		max:  constants.MaxHistoryEntries,
	}
}

// SetMax changes the number of entries kept
func (h *History) SetMax(n int) {
	h.max = n
	h.trim()
}

// Load reads the history file. A missing file is an empty history.
func (h *History) Load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.entries = nil
			return nil
		}
		return fmt.Errorf("failed to read history: %w", err)
	}

	h.entries = nil
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}
	return nil
}

// Save writes the history file
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(h.path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Add appends a line. Blank lines and repeats of the previous line are
// dropped.
func (h *History) Add(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, "\r\n") {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return false
	}
	h.entries = append(h.entries, line)
	h.trim()
	return true
}

// Entries returns a copy of the lines, oldest first
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes all entries from memory
func (h *History) Clear() {
	h.entries = nil
}

func (h *History) trim() {
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.max:]...)
	}
}
