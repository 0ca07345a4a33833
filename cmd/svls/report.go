package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"go.lsp.dev/protocol"
)

type reporter struct {
	w       io.Writer
	errSev  *color.Color
	warnSev *color.Color
	caret   *color.Color
	loc     *color.Color
}

func newReporter(w io.Writer, colored bool) *reporter {
	r := &reporter{
		w:       w,
		errSev:  color.New(color.FgRed, color.Bold),
		warnSev: color.New(color.FgYellow, color.Bold),
		caret:   color.New(color.FgGreen, color.Bold),
		loc:     color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.errSev, r.warnSev, r.caret, r.loc} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// report prints one diagnostic as
//
//	path:line:col: severity[code]: message
//
// followed by the source line and a caret underline. Lines and columns are
// printed 1-based; columns count bytes like the diagnostics do.
func (r *reporter) report(path, text string, d protocol.Diagnostic) {
	start := d.Range.Start
	sev := r.warnSev.Sprint("warning")
	if d.Severity == protocol.DiagnosticSeverityError {
		sev = r.errSev.Sprint("error")
	}
	if code, ok := d.Code.(string); ok && code != "" {
		sev += "[" + code + "]"
	}
	loc := r.loc.Sprintf("%s:%d:%d:", path, start.Line+1, start.Character+1)
	fmt.Fprintf(r.w, "%s %s: %s\n", loc, sev, d.Message)

	line, ok := sourceLine(text, int(start.Line))
	if !ok {
		return
	}
	fmt.Fprintf(r.w, "  %s\n", line)
	fmt.Fprintf(r.w, "  %s\n", r.caret.Sprint(underline(line, int(start.Character), int(d.Range.End.Character))))
}

func sourceLine(text string, n int) (string, bool) {
	lines := strings.Split(text, "\n")
	if n < 0 || n >= len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n], "\r"), true
}

// underline builds a caret line for the bytes [from, to) of line. Padding
// keeps tabs and follows display width, so wide runes stay aligned.
func underline(line string, from, to int) string {
	from = clamp(from, 0, len(line))
	to = clamp(to, from, len(line))

	var b strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	b.WriteString(strings.Repeat("^", max(1, runewidth.StringWidth(line[from:to]))))
	return b.String()
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
