package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format selects how a Writer renders events.
type Format uint8

const (
	FormatAuto   Format = iota // NDJSON for .ndjson/.jsonl/.json paths, text otherwise
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat reads a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one line including the trailing newline.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		// Event содержит только строки и числа, ошибки быть не может
		data, _ := json.Marshal(ev)
		return append(data, '\n')
	}
	return appendText(nil, ev)
}

func (ev *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time     string            `json:"time"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id,omitempty"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail,omitempty"`
		DurMS    float64           `json:"dur_ms,omitempty"`
		Attrs    map[string]string `json:"attrs,omitempty"`
	}{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		DurMS:    ms(ev.Dur),
		Attrs:    ev.Attrs,
	})
}

// appendText renders
//
//	15:04:05.000 #12   → recover
//	15:04:05.003 #19   ← recover 2.914ms (2 attempts) {k=v}
//
// indented two spaces per scope below the driver.
func appendText(b []byte, ev *Event) []byte {
	b = ev.Time.AppendFormat(b, "15:04:05.000")
	b = fmt.Appendf(b, " #%-4d", ev.Seq)
	for range int(ev.Scope) - 1 {
		b = append(b, "  "...)
	}
	arrow := "→"
	if ev.Kind == KindSpanEnd {
		arrow = "←"
	}
	b = fmt.Appendf(b, "%s %s", arrow, ev.Name)
	if ev.Kind == KindSpanEnd {
		b = fmt.Appendf(b, " %.3fms", ms(ev.Dur))
	}
	if ev.Detail != "" {
		b = fmt.Appendf(b, " (%s)", ev.Detail)
	}
	if len(ev.Attrs) > 0 {
		pairs := make([]string, 0, len(ev.Attrs))
		for _, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
			pairs = append(pairs, k+"="+ev.Attrs[k])
		}
		b = fmt.Appendf(b, " {%s}", strings.Join(pairs, ", "))
	}
	return append(b, '\n')
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
