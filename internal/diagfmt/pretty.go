package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"trebuchet/internal/diag"
	"trebuchet/internal/source"
)

type palette struct {
	err, warn, info, code, caret, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgBlue),
		gutter: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.caret, p.note, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку источника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		var sb strings.Builder
		if pos := position(d.Primary, fs, opts.PathMode); pos != "" {
			sb.WriteString(pos)
			sb.WriteString(": ")
		}
		sb.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
		sb.WriteString(" ")
		sb.WriteString(p.code.Sprint(d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
		writeSnippet(&sb, d.Primary, fs, p)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				sb.WriteString("  ")
				sb.WriteString(p.note.Sprint("note:"))
				if pos := position(n.Span, fs, opts.PathMode); pos != "" {
					sb.WriteString(" " + pos + ":")
				}
				sb.WriteString(" " + n.Msg + "\n")
			}
		}
		fmt.Fprint(w, sb.String())
	}
}

// writeSnippet prints the first line of span with a caret underline.
// Columns are measured in display cells so wide runes stay aligned.
func writeSnippet(sb *strings.Builder, span source.Span, fs *source.FileSet, p palette) {
	f, ok := fs.Lookup(span.File)
	if !ok {
		return
	}
	start, _ := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	prefix := strings.ReplaceAll(line[:col], "\t", "    ")
	rest := line[col:]
	if n := int(span.Len()); n < len(rest) {
		rest = rest[:n]
	}

	width := runewidth.StringWidth(strings.ReplaceAll(rest, "\t", "    "))
	if width < 1 {
		width = 1
	}
	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(sb, "  %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), strings.ReplaceAll(line, "\t", "    "))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(sb, "  %s %s %s%s\n", pad, p.gutter.Sprint("|"),
		strings.Repeat(" ", runewidth.StringWidth(prefix)), p.caret.Sprint(underline))
}
