package trace

import (
	"io"
	"sync"
	"time"
)

// streamTracer writes events immediately to an io.Writer.
type streamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format Format
	start  time.Time
}

func newStreamTracer(w io.Writer, closer io.Closer, level Level, format Format) *streamTracer {
	return &streamTracer{w: w, closer: closer, level: level, format: format, start: time.Now()}
}

func (t *streamTracer) Emit(ev *Event) {
	if ev == nil {
		return
	}
	if !t.level.ShouldEmit(ev.Scope) && !ev.Failed() {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	// trace output never fails the build
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *streamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func (t *streamTracer) Level() Level { return t.level }

func (t *streamTracer) Enabled() bool { return t.level > LevelOff }
