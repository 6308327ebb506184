// Package ui reads line-oriented answers from the user.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/genpod/genpod-cli/internal/display"
)

// ErrInputClosed is returned when input ends before an answer is read
var ErrInputClosed = errors.New("input closed")

// Prompter asks questions on out and reads answers from in.
// A single Prompter should own the reader so buffered input is not lost.
type Prompter struct {
	in      *bufio.Reader
	out     io.Writer
	printer *display.Printer
}

// NewPrompter creates a Prompter
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Prompter{
		in:      br,
		out:     out,
		printer: display.NewPrinter(out),
	}
}

// Reader exposes the buffered reader so line loops can share it
func (p *Prompter) Reader() *bufio.Reader {
	return p.in
}

// ReadLine reads one line without the trailing newline. A final line
// without a newline is returned normally; EOF with nothing read returns
// ErrInputClosed.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrInputClosed
			}
		} else {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints label and returns the trimmed answer
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskDefault asks with a default shown in brackets. Empty input accepts it.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired asks until a non-empty answer is given
func (p *Prompter) AskRequired(label string) (string, error) {
	for {
		answer, err := p.Ask(label + ": ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.printer.Warn("%s is required", label)
	}
}
