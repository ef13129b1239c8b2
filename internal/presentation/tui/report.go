package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/muesli/termenv"
)

// ReportPrinter writes validation reports as colored text.
type ReportPrinter struct {
	out *termenv.Output
}

// NewReportPrinter detects the color profile of w.
func NewReportPrinter(w io.Writer) *ReportPrinter {
	return &ReportPrinter{out: termenv.NewOutput(w)}
}

// NewPlainReportPrinter never emits escape sequences.
func NewPlainReportPrinter(w io.Writer) *ReportPrinter {
	return &ReportPrinter{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

// Print writes one report headed by name.
func (p *ReportPrinter) Print(name string, r *domain.Report) {
	if r.OK {
		ok := p.out.String("✔ ").Foreground(p.out.Color("#22c55e")).Bold()
		fmt.Fprintf(p.out, "%s%s: ok\n", ok, name)
		return
	}

	fail := p.out.String("✘ ").Foreground(p.out.Color("#ef4444")).Bold()
	fmt.Fprintf(p.out, "%s%s: %d %s\n", fail, name, len(r.Errors), plural(len(r.Errors), "violation"))
	for _, msg := range r.Errors {
		fmt.Fprintf(p.out, "  - %s\n", p.out.String(msg).Faint())
	}
}

// PrintError writes a failure that prevented validation.
func (p *ReportPrinter) PrintError(name string, err error) {
	label := p.out.String("! ").Foreground(p.out.Color("#f59e0b")).Bold()
	fmt.Fprintf(p.out, "%s%s: %v\n", label, name, err)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
