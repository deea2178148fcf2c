package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanCtxKey struct{}

// spanRef is the innermost open span of a context.
type spanRef struct {
	id    uint64
	depth int
}

func currentSpan(ctx context.Context) spanRef {
	if ctx == nil {
		return spanRef{}
	}
	if sc, ok := ctx.Value(spanCtxKey{}).(spanRef); ok {
		return sc
	}
	return spanRef{}
}
