package observ

import (
	"fmt"
	"strings"
	"time"
)

// Event is sent to a Hook when a phase starts and again when it ends.
type Event struct {
	Phase   string
	Done    bool
	Elapsed time.Duration // set when Done
	Note    string        // set when Done
}

// Hook observes phase boundaries as they happen.
type Hook func(Event)

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
	done  bool
}

// Timer records the phases of one extraction in the order they start. Not
// safe for concurrent use; a directory scan keeps one Timer per file.
type Timer struct {
	phases []phase
	hook   Hook
}

// NewTimer returns a Timer reporting to hook, which may be nil.
func NewTimer(hook Hook) *Timer {
	return &Timer{phases: make([]phase, 0, 3), hook: hook}
}

// Start opens a phase. The returned func closes it with a note; only the
// first call counts.
func (t *Timer) Start(name string) func(note string) {
	i := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	if t.hook != nil {
		t.hook(Event{Phase: name})
	}
	return func(note string) {
		p := &t.phases[i]
		if p.done {
			return
		}
		p.done = true
		p.dur = time.Since(p.start)
		p.note = note
		if t.hook != nil {
			t.hook(Event{Phase: name, Done: true, Elapsed: p.dur, Note: note})
		}
	}
}

// PhaseReport is one finished phase, as serialized by --timings.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists the phases; one still open is reported with zero duration.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	for i, p := range t.phases {
		ms := millis(p.dur)
		r.TotalMS += ms
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: ms, Note: p.note}
	}
	return r
}

// Summary renders the report as an aligned table ending with the total.
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

// Sum складывает отчёты по именам фаз, сохраняя порядок первого появления.
// Notes are dropped.
func Sum(reports ...Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
