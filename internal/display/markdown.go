package display

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal, wrapped at width
// columns. Colors are only emitted when styled is true.
func RenderMarkdown(content string, width int, styled bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}
	if width <= 0 {
		width = defaultWidth
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Markdown renders content to the printer's writer, falling back to the
// raw text if rendering fails.
func (p *Printer) Markdown(content string) {
	out, err := RenderMarkdown(content, TerminalWidth(p.out), IsTerminal(p.out))
	if err != nil {
		fmt.Fprintln(p.out, content)
		return
	}
	fmt.Fprint(p.out, out)
}
