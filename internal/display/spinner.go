package display

import (
	"io"

	"github.com/briandowns/spinner"

	"github.com/genpod/genpod-cli/internal/constants"
)

// Spinner shows progress while a long step runs. It only animates when
// writing to a terminal; otherwise Start prints the message once.
type Spinner struct {
	s       *spinner.Spinner
	out     io.Writer
	message string
	active  bool
}

// NewSpinner creates a spinner with the given message
func NewSpinner(out io.Writer, message string) *Spinner {
	sp := &Spinner{out: out, message: message}
	if IsTerminal(out) {
		sp.s = spinner.New(spinner.CharSets[14], constants.SpinnerInterval, spinner.WithWriter(out))
		sp.s.Suffix = " " + message
	}
	return sp
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.active {
		return
	}
	sp.active = true
	if sp.s == nil {
		io.WriteString(sp.out, "  "+sp.message+"\n")
		return
	}
	sp.s.Start()
}

// Stop ends the animation and erases the spinner line
func (sp *Spinner) Stop() {
	if !sp.active {
		return
	}
	sp.active = false
	if sp.s != nil {
		sp.s.Stop()
	}
}

// Animated reports whether the spinner draws frames
func (sp *Spinner) Animated() bool {
	return sp.s != nil
}
