// Package quickscan finds import references line by line with regular
// expressions, without tokenizing or parsing. It is the fast path behind
// --quick: multi-line statements and computed dynamic-import arguments are
// out of its reach.
package quickscan

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"pyrefs/internal/source"
	"pyrefs/internal/xref"
)

var (
	importRe = regexp.MustCompile(`^import\s+(.+)$`)
	fromRe   = regexp.MustCompile(`^from\s+(\.*[\w.]*)\s+import\b`)
	dynRe    = regexp.MustCompile(`(?:\bimportlib\s*\.\s*)?\b(?:__import__|import_module)\(\s*(?:name\s*=\s*)?(?:'([\w.]+)'|"([\w.]+)")\s*(\))?`)
	nameRe   = regexp.MustCompile(`^[\w.]+$`)
)

// Scan returns the references found in buf, statement by statement.
func Scan(buf *source.Buffer) []xref.Reference {
	var refs []xref.Reference
	var inString string // открывающая тройная кавычка
	for n, line := range buf.Lines() {
		code, still := stripStrings(line, inString)
		inString = still
		if code == "" {
			continue
		}
		for _, seg := range statements(code) {
			refs = append(refs, scanStatement(line, n, seg)...)
		}
		for _, m := range dynRe.FindAllStringSubmatchIndex(code, -1) {
			var name string
			if m[2] >= 0 {
				name = code[m[2]:m[3]]
			} else {
				name = code[m[4]:m[5]]
			}
			end := m[1]
			if m[6] < 0 {
				// без закрывающей скобки диапазон кончается на строке
				end = max(m[3], m[5])
				end++
			}
			refs = append(refs, xref.Reference{
				Name:  name,
				Kind:  xref.KindDynamic,
				Range: lineRange(line, n, m[0], end),
			})
		}
	}
	return refs
}

type segment struct {
	text  string
	start int // byte offset in the line
}

// statements splits a line on ';' and trims each part.
func statements(code string) []segment {
	var out []segment
	off := 0
	for part := range strings.SplitSeq(code, ";") {
		lead := len(part) - len(strings.TrimLeft(part, " \t\f"))
		text := strings.TrimRight(part[lead:], " \t\f\\")
		if text != "" {
			out = append(out, segment{text: text, start: off + lead})
		}
		off += len(part) + 1
	}
	return out
}

func scanStatement(line string, n int, seg segment) []xref.Reference {
	r := lineRange(line, n, seg.start, seg.start+len(seg.text))
	if m := fromRe.FindStringSubmatch(seg.text); m != nil {
		if m[1] == "" {
			return nil
		}
		return []xref.Reference{{Name: m[1], Kind: xref.KindFrom, Range: r}}
	}
	m := importRe.FindStringSubmatch(seg.text)
	if m == nil {
		return nil
	}
	var refs []xref.Reference
	for item := range strings.SplitSeq(m[1], ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 || !nameRe.MatchString(fields[0]) {
			continue
		}
		refs = append(refs, xref.Reference{Name: fields[0], Kind: xref.KindImport, Range: r})
	}
	return refs
}

func lineRange(line string, n, from, to int) source.Range {
	return source.Range{
		Start: source.Pos{Line: n, Col: utf8.RuneCountInString(line[:from])},
		End:   source.Pos{Line: n, Col: utf8.RuneCountInString(line[:to])},
	}
}

// stripStrings blanks comments and the bodies of triple-quoted strings,
// keeping byte offsets. open is the triple quote left open by the previous
// line; the returned one is still open at the end of this line.
// Single-quoted strings are kept so dynamic-import arguments stay visible.
func stripStrings(line, open string) (string, string) {
	b := []byte(line)
	i := 0
	for i < len(b) {
		if open != "" {
			j := strings.Index(line[i:], open)
			end := len(b)
			if j >= 0 {
				end = i + j + 3
			}
			for k := i; k < end; k++ {
				b[k] = ' '
			}
			if j < 0 {
				return strings.TrimRight(string(b), " "), open
			}
			i = end
			open = ""
			continue
		}
		switch c := b[i]; {
		case c == '#':
			for k := i; k < len(b); k++ {
				b[k] = ' '
			}
			i = len(b)
		case strings.HasPrefix(line[i:], `"""`), strings.HasPrefix(line[i:], `'''`):
			open = line[i : i+3]
			for k := i; k < i+3; k++ {
				b[k] = ' '
			}
			i += 3
		case c == '\'' || c == '"':
			// обычная строка: пропускаем до парной кавычки
			j := i + 1
			for j < len(b) && b[j] != c {
				if b[j] == '\\' {
					j++
				}
				j++
			}
			i = min(j+1, len(b))
		default:
			i++
		}
	}
	return strings.TrimRight(string(b), " "), open
}
