package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"walter/internal/diag"
	"walter/internal/source"
)

// BugHint follows every internal diagnostic.
const BugHint = "this is a bug in walter, please report it"

type palette struct {
	sev   map[diag.Severity]*color.Color
	frame *color.Color
	mark  *color.Color
	msg   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgBlue, color.Bold),
		},
		frame: mk(color.FgBlue, color.Bold),
		mark:  mk(color.FgRed, color.Bold),
		msg:   mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.msg
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее):
//
//	error[SEM3005]: use of undefined function 'foo'
//	 --> main.rl:1:1
//	  |
//	1 | foo()
//	  | ^^^^^
//	  |
//	  = Use of undefined function
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	head := p.severity(d.Severity).Sprintf("%s[%s]", d.Severity, d.Code.ID())
	fmt.Fprintf(w, "%s%s %s\n", head, p.msg.Sprint(":"), p.msg.Sprint(d.Error()))

	pad := " "
	if hasLocation(d.Primary, fs) {
		f := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		lineNo := strconv.FormatUint(uint64(start.Line), 10)
		pad = strings.Repeat(" ", len(lineNo))
		code := f.GetLine(start.Line)
		fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, p.frame.Sprint("-->"), formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
		fmt.Fprintf(w, "%s %s\n", pad, p.frame.Sprint("|"))
		fmt.Fprintf(w, "%s %s %s\n", p.frame.Sprint(lineNo), p.frame.Sprint("|"), code)
		fmt.Fprintf(w, "%s %s %s%s\n", pad, p.frame.Sprint("|"), indentFor(code, start.Col), p.mark.Sprint(caret(code, start, end)))
		fmt.Fprintf(w, "%s %s\n", pad, p.frame.Sprint("|"))
	}
	fmt.Fprintf(w, "%s %s %s\n", pad, p.frame.Sprint("="), d.Code.Title())
	for _, n := range d.Notes {
		where := ""
		if hasLocation(n.Span, fs) {
			pos, _ := fs.Resolve(n.Span)
			where = fmt.Sprintf(" (%s:%d:%d)", formatPath(fs.Get(n.Span.File).Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col)
		}
		fmt.Fprintf(w, "%s %s note: %s%s\n", pad, p.frame.Sprint("="), n.Msg, where)
	}
	if d.Code.IsInternal() {
		fmt.Fprintf(w, "%s %s %s\n", pad, p.frame.Sprint("="), p.mark.Sprint(BugHint))
	}
}

// indentFor keeps tabs so the caret lines up under the source text.
func indentFor(line string, col uint32) string {
	prefix := line
	if n := int(col) - 1; n >= 0 && n < len(line) {
		prefix = line[:n]
	}
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

// caret underlines the span on its first line, at least one column wide.
func caret(line string, start, end source.LineCol) string {
	from := int(start.Col) - 1
	if from > len(line) {
		from = len(line)
	}
	to := len(line)
	if end.Line == start.Line && int(end.Col)-1 <= len(line) {
		to = int(end.Col) - 1
	}
	width := 1
	if to > from {
		width = runewidth.StringWidth(line[from:to])
	}
	return strings.Repeat("^", max(width, 1))
}
