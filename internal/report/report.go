// Package report prints diagnostics and run summaries for the command line,
// styled with a theme when one is given.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/theme"
)

// Printer writes human-readable output. A Printer with a nil theme writes
// plain text. Printer implements diag.Sink so diagnostics can be shown as
// soon as they are produced.
type Printer struct {
	w  io.Writer
	th *theme.Theme
}

// New returns a Printer writing to w.
func New(w io.Writer, th *theme.Theme) *Printer {
	return &Printer{w: w, th: th}
}

// Summary describes a finished conversion.
type Summary struct {
	Output      string
	Tables      int
	Statements  int
	ForeignKeys int
	Dropped     int
	Diagnostics []diag.Diagnostic
}

func (p *Printer) style(pick func(*theme.Theme) lipgloss.Style, s string) string {
	if p.th == nil {
		return s
	}
	return pick(p.th).Render(s)
}

// Report prints d as a single warning line.
func (p *Printer) Report(d diag.Diagnostic) {
	fmt.Fprintln(p.w, p.Diagnostic(d))
}

// Diagnostic renders d without a trailing newline.
func (p *Printer) Diagnostic(d diag.Diagnostic) string {
	var b strings.Builder
	b.WriteString(p.style(warning, "Warning:"))
	b.WriteByte(' ')
	if d.Line > 0 {
		b.WriteString(p.style(location, fmt.Sprintf("line %d:", d.Line)))
		b.WriteByte(' ')
	}
	b.WriteString(d.Format(func(s string) string { return p.style(ident, s) }))
	if d.Suggestion != "" {
		b.WriteByte(' ')
		b.WriteString(p.style(hint, fmt.Sprintf("(did you mean %s?)", d.Suggestion)))
	}
	return b.String()
}

// Summary prints what a run produced.
func (p *Printer) Summary(s Summary) {
	dest := s.Output
	if dest == "" {
		dest = "stdout"
	}
	fmt.Fprintln(p.w, p.style(success, fmt.Sprintf("Wrote %s (%s, %s) to %s",
		plural(s.Statements, "statement"), plural(s.Tables, "table"), plural(s.ForeignKeys, "foreign key"), dest)))

	if s.Dropped > 0 {
		fmt.Fprintln(p.w, p.style(warning, fmt.Sprintf("Dropped %s", plural(s.Dropped, "column"))))
	}
	if counts := countKinds(s.Diagnostics); len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, kc := range counts {
			parts = append(parts, fmt.Sprintf("%d %s", kc.n, p.style(kind, kc.kind.String())))
		}
		fmt.Fprintf(p.w, "%s: %s\n",
			p.style(muted, plural(len(s.Diagnostics), "diagnostic")), strings.Join(parts, ", "))
	}
}

// Applied prints the outcome of applying statements to a database.
func (p *Printer) Applied(target string, executed int) {
	fmt.Fprintln(p.w, p.style(success, fmt.Sprintf("Applied %s to %s", plural(executed, "statement"), target)))
}

// Error prints err as a single error line.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "%s %v\n", p.style(errorText, "Error:"), err)
}

type kindCount struct {
	kind diag.Kind
	n    int
}

// countKinds groups diagnostics by kind in Kind order.
func countKinds(items []diag.Diagnostic) []kindCount {
	byKind := map[diag.Kind]int{}
	for _, d := range items {
		byKind[d.Kind]++
	}
	var out []kindCount
	for k := diag.DuplicateTable; k <= diag.UnresolvedType; k++ {
		if n := byKind[k]; n > 0 {
			out = append(out, kindCount{k, n})
		}
	}
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func warning(t *theme.Theme) lipgloss.Style   { return t.WarningText }
func location(t *theme.Theme) lipgloss.Style  { return t.DiagLocation }
func ident(t *theme.Theme) lipgloss.Style     { return t.DiagIdent }
func hint(t *theme.Theme) lipgloss.Style      { return t.DiagHint }
func kind(t *theme.Theme) lipgloss.Style      { return t.DiagKind }
func success(t *theme.Theme) lipgloss.Style   { return t.SuccessText }
func muted(t *theme.Theme) lipgloss.Style     { return t.MutedText }
func errorText(t *theme.Theme) lipgloss.Style { return t.ErrorText }
