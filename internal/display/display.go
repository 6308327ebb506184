// Package display handles all terminal output formatting.
//
// Every status line carries a glyph so outcomes are readable without color:
//
//	✓ success   ✗ failure   ℹ info   ⚠ warning
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/genpod/genpod-cli/internal/constants"
)

// Status glyphs
const (
	GlyphSuccess = "✓"
	GlyphFailure = "✗"
	GlyphInfo    = "ℹ"
	GlyphWarn    = "⚠"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	bannerColor  = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

const banner = `   ____            ____           _
  / ___| ___ _ __ |  _ \ ___   __| |
 | |  _ / _ \ '_ \| |_) / _ \ / _` + "`" + ` |
 | |_| |  __/ | | |  __/ (_) | (_| |
  \____|\___|_| |_|_|   \___/ \__,_|`

// defaultWidth is used when the terminal size is unknown
const defaultWidth = 80

// Printer writes glyph-prefixed status lines to a writer
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Success prints a green ✓ line
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(successColor, GlyphSuccess, format, args...)
}

// Failure prints a red ✗ line
func (p *Printer) Failure(format string, args ...interface{}) {
	p.line(failureColor, GlyphFailure, format, args...)
}

// Info prints a cyan ℹ line
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(infoColor, GlyphInfo, format, args...)
}

// Warn prints a yellow ⚠ line
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line(warnColor, GlyphWarn, format, args...)
}

// Println prints a plain line
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// Printf prints plain formatted text
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) line(c *color.Color, glyph, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.Fprintf(p.out, "%s %s\n", glyph, msg)
}

// Banner prints the startup banner with the version and a usage hint
func (p *Printer) Banner() {
	bannerColor.Fprintln(p.out, banner)
	fmt.Fprintln(p.out)
	dimColor.Fprintf(p.out, "  version %s - type .help for commands, .exit to quit\n", constants.Version)
	fmt.Fprintln(p.out)
}

// Clear clears the terminal using ANSI escape codes
func (p *Printer) Clear() {
	fmt.Fprint(p.out, "\033[H\033[2J")
}

// Rule prints a horizontal separator sized to the terminal
func (p *Printer) Rule() {
	dimColor.Fprintln(p.out, strings.Repeat("─", TerminalWidth(p.out)))
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w interface{}) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of w, or 80 when unknown
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
