package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

func nextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// Span tracks one timed operation.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  spanRef
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under the current span of ctx and returns a context
// carrying it. The span is always usable; it records nothing when tracing
// is off.
func Begin(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	s := &Span{tracer: t, parent: currentSpan(ctx), scope: scope, name: name, started: time.Now()}
	if !t.Enabled() {
		return ctx, s
	}
	s.id = nextSpanID()
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent.id,
		Depth:    s.parent.depth,
		Name:     name,
	})
	return context.WithValue(ctx, spanCtxKey{}, spanRef{id: s.id, depth: s.parent.depth + 1}), s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	return s.finish(detail, nil)
}

// EndErr closes the span, recording err when it is not nil.
func (s *Span) EndErr(err error) time.Duration {
	return s.finish("", err)
}

func (s *Span) finish(detail string, err error) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	if s.tracer == nil || !s.tracer.Enabled() {
		return dur
	}
	ev := &Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent.id,
		Depth:    s.parent.depth,
		Name:     s.name,
		Detail:   detail,
		Dur:      dur,
		Extra:    s.extra,
	}
	if err != nil {
		ev.Err = err.Error()
	}
	s.tracer.Emit(ev)
	return dur
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// Point records an instant event under the current span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() {
		return
	}
	parent := currentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent.id,
		Depth:    parent.depth,
		Name:     name,
		Detail:   detail,
	})
}
