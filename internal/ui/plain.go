package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"walter/internal/buildpipeline"
)

// LineSink prints one line per finished step, for terminals without the
// interactive renderer.
type LineSink struct {
	mu  sync.Mutex
	Out io.Writer
}

func (s *LineSink) OnEvent(ev buildpipeline.Event) {
	if s == nil || s.Out == nil {
		return
	}
	switch ev.Status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached, buildpipeline.StatusError:
	default:
		return
	}
	subject := string(ev.Stage)
	if ev.File != "" {
		subject += " " + ev.File
	}
	line := fmt.Sprintf("%-8s %s", ev.Status, subject)
	if ev.Elapsed > 0 {
		line += fmt.Sprintf(" (%s)", ev.Elapsed.Round(time.Microsecond))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.Out, line)
}
