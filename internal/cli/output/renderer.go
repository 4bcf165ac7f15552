// Package output renders command results for terminals, pipes and tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // text on a terminal, markdown otherwise
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes results to out and diagnostics to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	tty    bool
	styles *Styles
}

// NewRenderer creates a renderer. An empty or unknown mode means ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}
	tty := isTerminal(out)

	lr := lipgloss.NewRenderer(out)
	if !tty {
		lr = lipgloss.NewRenderer(out, termenv.WithProfile(termenv.Ascii))
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		tty:    tty,
		styles: newStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}

// Mode returns the configured mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// EffectiveMode resolves ModeAuto against the output stream.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.tty {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the text styles. They render plain text when the output is
// not a terminal.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the result stream.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the diagnostics stream.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to the result stream.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the result stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes formatted text to the diagnostics stream.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header, as a box table in text mode and as a
// markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// Title converts s to English title case.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
