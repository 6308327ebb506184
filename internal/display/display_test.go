package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestPrinter_Glyphs(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{"success", func(p *Printer) { p.Success("Logged in as user %s", "42") }, "✓ Logged in as user 42\n"},
		{"failure", func(p *Printer) { p.Failure("Backend exited with status %d", 2) }, "✗ Backend exited with status 2\n"},
		{"info", func(p *Printer) { p.Info("Not logged in") }, "ℹ Not logged in\n"},
		{"warn", func(p *Printer) { p.Warn("requirements.txt not found") }, "⚠ requirements.txt not found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewPrinter(&buf))
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrinter_Banner(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Banner()

	if !strings.Contains(buf.String(), "version") || !strings.Contains(buf.String(), ".help") {
		t.Errorf("banner should mention version and .help, got %q", buf.String())
	}
}

func TestPrinter_Clear(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Clear()

	if buf.String() != "\033[H\033[2J" {
		t.Errorf("Clear() wrote %q", buf.String())
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	if TerminalWidth(&bytes.Buffer{}) != defaultWidth {
		t.Error("non-terminal width should fall back to the default")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Commands\n\n- `.generate` start a project\n", 60, false)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "Commands") || !strings.Contains(out, ".generate") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestSpinner_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, "Creating virtual environment...")

	if sp.Animated() {
		t.Fatal("spinner should not animate on a non-terminal writer")
	}
	sp.Start()
	sp.Start()
	sp.Stop()
	sp.Stop()

	if strings.Count(buf.String(), "Creating virtual environment...") != 1 {
		t.Errorf("message should be printed once, got %q", buf.String())
	}
}
