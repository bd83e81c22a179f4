package source

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// codingLine matches a coding declaration ("# -*- coding: latin-1 -*-",
// "# vim: set fileencoding=cp1252 :"). It only counts on line one or two.
var codingLine = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

// normalized is the text a Buffer is built from, plus what had to change.
type normalized struct {
	text     []byte
	flags    FileFlags
	encoding string
}

// normalize strips a UTF-8 BOM, decodes a declared non-UTF-8 encoding and
// folds CRLF to LF. Lone CR is kept. An unknown or undecodable encoding
// leaves the bytes as they are; the lexer then reports what it cannot read.
func normalize(content []byte) normalized {
	var n normalized
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		// с BOM файл обязан быть UTF-8, объявление не смотрим
		content = rest
		n.flags |= FileHadBOM
	} else if name := declaredCoding(content); name != "" {
		if dec, ok := decodeAs(content, name); ok {
			content = dec
			n.flags |= FileTranscoded
			n.encoding = name
		}
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		n.flags |= FileNormalizedCRLF
	}
	n.text = content
	return n
}

// declaredCoding returns the lowercased encoding named on the first two
// lines, "" when there is none.
func declaredCoding(content []byte) string {
	for range 2 {
		line, rest, _ := bytes.Cut(content, []byte("\n"))
		if m := codingLine.FindSubmatch(line); m != nil {
			return strings.ToLower(string(m[1]))
		}
		// объявление на второй строке действует, только если первая пустая или комментарий
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 && trimmed[0] != '#' {
			return ""
		}
		content = rest
	}
	return ""
}

func decodeAs(content []byte, name string) ([]byte, bool) {
	switch strings.ReplaceAll(name, "_", "-") {
	case "utf-8", "utf8", "utf-8-sig", "ascii", "us-ascii":
		return nil, false
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		// "latin-1" → "latin1", "iso-8859-15" is already a label
		enc, err = htmlindex.Get(strings.NewReplacer("-", "", "_", "").Replace(name))
		if err != nil {
			return nil, false
		}
	}
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, false
	}
	return out, true
}

// IsSpace matches Python's str.isspace for a single character.
func IsSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r)
}
