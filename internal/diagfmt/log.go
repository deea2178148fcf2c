package diagfmt

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Logger prints levelled lines for the command line: "error: ...",
// "warning: ...", "info: ...".
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
	err   *color.Color
	warn  *color.Color
	info  *color.Color
	colon *color.Color
}

// NewLogger writes to out. quiet drops info lines.
func NewLogger(out io.Writer, useColor, quiet bool) *Logger {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &Logger{
		out:   out,
		quiet: quiet,
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgBlue, color.Bold),
		colon: mk(color.Bold),
	}
}

func (l *Logger) line(c *color.Color, level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s%s %s\n", c.Sprint(level), l.colon.Sprint(":"), fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) { l.line(l.err, "error", format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.line(l.warn, "warning", format, args...) }

func (l *Logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(l.info, "info", format, args...)
}

// Writer returns the destination, for callers that render their own output.
func (l *Logger) Writer() io.Writer { return l.out }
