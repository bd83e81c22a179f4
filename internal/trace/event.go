package trace

import "time"

// Kind says whether an event opens or closes a span.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of a span. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // one extraction
	ScopePhase                    // recover, walk, resolve, index
	ScopeFile                     // one file of a directory scan
	ScopeAttempt                  // one parse attempt of the repair loop
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeFile:
		return "file"
	case ScopeAttempt:
		return "attempt"
	default:
		return "unknown"
	}
}

// Event is one line of trace output.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer on emit
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // "extract", "file", "parse-attempt", ...
	Detail   string
	Dur      time.Duration     // end events only
	Attrs    map[string]string // end events only
}
