package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Tracer receives span events. Emit must be safe for concurrent use: a
// directory scan emits from every worker.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close writes out anything buffered and closes a sink the tracer opened.
	Close() error
}

// Config describes where trace events go.
type Config struct {
	Level  Level
	Format Format
	// Output wins over Path. The tracer never closes it.
	Output io.Writer
	// Path is a file to create; "" and "-" mean stderr.
	Path string
}

// New builds a tracer for cfg, Nop when the level is off.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.Path)
	}
	switch {
	case cfg.Output != nil:
		return NewWriter(cfg.Output, cfg.Level, format), nil
	case cfg.Path == "" || cfg.Path == "-":
		return NewWriter(os.Stderr, cfg.Level, format), nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("trace output: %w", err)
	}
	t := NewWriter(f, cfg.Level, format)
	t.closer = f
	return t, nil
}

func formatForPath(path string) Format {
	for _, ext := range []string{".ndjson", ".jsonl", ".json"} {
		if strings.HasSuffix(path, ext) {
			return FormatNDJSON
		}
	}
	return FormatText
}

// Writer formats each event as one line. Lines reach the underlying writer
// whole; a file sink is buffered until Close.
type Writer struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	closer io.Closer
	level  Level
	format Format
	seq    uint64
}

// NewWriter returns a tracer writing to w. The caller keeps ownership of w.
func NewWriter(w io.Writer, level Level, format Format) *Writer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Writer{buf: bufio.NewWriter(w), level: level, format: format}
}

func (t *Writer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	// ошибки записи трассы не должны ронять скан
	_, _ = t.buf.Write(FormatEvent(ev, t.format))
	if t.closer == nil {
		_ = t.buf.Flush()
	}
}

func (t *Writer) Level() Level { return t.level }

func (t *Writer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.buf.Flush()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
		t.closer = nil
	}
	return err
}
