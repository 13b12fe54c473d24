// Package output renders CLI results as styled text for terminals, plain
// text for pipes, or JSON for machine consumption.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the rendering style.
type Mode string

const (
	ModeAuto Mode = "auto" // styled on a TTY, plain otherwise
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

// Renderer writes formatted command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	json   bool
	styled bool
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut}
	switch mode {
	case ModeJSON:
		r.json = true
	case ModeText:
	default: // ModeAuto and anything unrecognized
		r.styled = isTerminal(out) && !termenv.EnvNoColor()
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

// JSON reports whether the renderer is in JSON mode. Commands with
// structured results check this and emit through WriteJSON instead of the
// text helpers.
func (r *Renderer) JSON() bool { return r.json }

// Out returns the underlying output writer, for table renderers that mirror
// output themselves.
func (r *Renderer) Out() io.Writer { return r.out }

// WriteJSON encodes v onto the output writer with indentation.
func (r *Renderer) WriteJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header prints a section heading.
func (r *Renderer) Header(s string) {
	if r.styled {
		s = headerStyle.Render(s)
	}
	_, _ = fmt.Fprintln(r.out, s)
}

// Println prints a plain line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf prints formatted text.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// StatusLine prints an aligned label/value pair.
func (r *Renderer) StatusLine(label, value string) {
	if r.styled {
		label = labelStyle.Render(label)
	}
	_, _ = fmt.Fprintf(r.out, "  %-12s %s\n", label, value)
}

// Success prints a positive outcome line.
func (r *Renderer) Success(s string) {
	line := "✓ " + s
	if r.styled {
		line = successStyle.Render(line)
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// Warning prints a non-fatal problem to the error writer.
func (r *Renderer) Warning(s string) {
	line := "! " + s
	if r.styled {
		line = warningStyle.Render(line)
	}
	_, _ = fmt.Fprintln(r.errOut, line)
}

// Error prints a fatal problem to the error writer.
func (r *Renderer) Error(s string) {
	line := "✗ " + s
	if r.styled {
		line = errorStyle.Render(line)
	}
	_, _ = fmt.Fprintln(r.errOut, line)
}
