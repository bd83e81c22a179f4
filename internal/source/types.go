package source

import "fmt"

type (
	// FileFlags encodes metadata about how a source file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileTranscoded: a coding declaration named a non-UTF-8 encoding and
	// the text was converted.
	FileTranscoded
)

// Span is a byte range [Start, End) into a Buffer's text.
type Span struct {
	Start uint32
	End   uint32
}

// Pos is a zero-based (line, column) pair. Col counts Unicode code points.
type Pos struct {
	Line int `json:"line" yaml:"line" msgpack:"line"`
	Col  int `json:"character" yaml:"character" msgpack:"character"`
}

// Less orders positions lexicographically by (Line, Col).
func (p Pos) Less(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Range is a half-open [Start, End) pair of positions.
type Range struct {
	Start Pos `json:"start" yaml:"start" msgpack:"start"`
	End   Pos `json:"end" yaml:"end" msgpack:"end"`
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// File captures a loaded source file and the buffer built from it.
type File struct {
	Path   string
	Buffer *Buffer
	// Hash is taken over the normalized UTF-8 text.
	Hash  [32]byte
	Flags FileFlags
	// Encoding is the declared coding when the file was transcoded.
	Encoding string
}
