package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pyrefs/internal/source"
)

// CheckRangeInvariants runs the range invariants every reported range must hold:
// 1) start lies strictly before end
// 2) both ends lie inside the buffer
// 3) neither end sits on whitespace padding (end follows a non-blank rune)
func CheckRangeInvariants(buf *source.Buffer, ranges []source.Range) error {
	if buf == nil {
		return fmt.Errorf("nil buffer")
	}
	lenText, err := safecast.Conv[uint32](len(buf.Text()))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	for i, r := range ranges {
		if !r.Start.Less(r.End) {
			return fmt.Errorf("range %d is empty or inverted: %v-%v", i, r.Start, r.End)
		}
		if r.Start.Line < 0 || r.Start.Col < 0 || r.End.Line >= buf.LineCount() {
			return fmt.Errorf("range %d outside buffer: %v-%v", i, r.Start, r.End)
		}
		if r.End.Col > buf.LineLen(r.End.Line) {
			return fmt.Errorf("range %d ends past its line: %v (line length %d)", i, r.End, buf.LineLen(r.End.Line))
		}
		if off := buf.Offset(r.End); off > lenText {
			return fmt.Errorf("range %d end beyond text: %d > %d", i, off, lenText)
		}
		// 3) the rune before end is significant
		if r.End.Col == 0 {
			return fmt.Errorf("range %d ends at column 0: %v", i, r.End)
		}
		last, ok := buf.RuneAt(source.Pos{Line: r.End.Line, Col: r.End.Col - 1})
		if !ok || source.IsSpace(last) {
			return fmt.Errorf("range %d ends after whitespace: %v", i, r.End)
		}
	}
	return nil
}
