package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event. Lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI command
	ScopeStage                    // resolve, lower, link, emit, native
	ScopeModule                   // one module or unit
	ScopeDetail                   // cache lookups, tool invocations
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeStage:
		return "stage"
	case ScopeModule:
		return "module"
	case ScopeDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	// Depth is the number of enclosing spans.
	Depth  int
	Name   string // e.g. "lower", "module:utils/a"
	Detail string
	// Err is set on failed span ends and error points.
	Err   string
	Dur   time.Duration
	Extra map[string]string
}

// Failed reports whether the event carries an error.
func (e *Event) Failed() bool { return e.Err != "" }
