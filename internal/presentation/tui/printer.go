package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes command outcomes, colored when the target is a terminal.
type Printer struct {
	w   io.Writer
	out *termenv.Output
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	opts := []termenv.OutputOption{}
	if !IsTerminal(w) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &Printer{w: w, out: termenv.NewOutput(w, opts...)}
}

// Styled reports whether the printer emits colors.
func (p *Printer) Styled() bool {
	return p.out.Profile != termenv.Ascii
}

// Success prints a green check line.
func (p *Printer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.w, p.out.String("✔ "+msg).Foreground(p.out.Color("#22c55e")))
}

// Failure prints a red cross line. Validation errors are shown with their
// element path highlighted.
func (p *Printer) Failure(err error) {
	var verr *document.ValidationError
	if errors.As(err, &verr) {
		path := p.out.String(verr.Path).Bold()
		fmt.Fprintf(p.w, "%s %s: %s\n", p.out.String("✘ invalid").Foreground(p.out.Color("#ef4444")), path, verr.Reason)
		return
	}
	fmt.Fprintln(p.w, p.out.String("✘ "+err.Error()).Foreground(p.out.Color("#ef4444")))
}

// Raw writes data unchanged.
func (p *Printer) Raw(data []byte) {
	_, _ = p.w.Write(data)
}
