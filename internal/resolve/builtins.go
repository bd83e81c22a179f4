package resolve

import (
	_ "embed"
	"strings"
)

//go:embed builtins.txt
var builtinList string

// BuiltinSet holds top-level standard-library and built-in module names.
type BuiltinSet struct {
	names map[string]struct{}
}

// DefaultBuiltins returns the embedded standard-library set plus extra.
func DefaultBuiltins(extra ...string) *BuiltinSet {
	s := &BuiltinSet{names: make(map[string]struct{}, 320)}
	for line := range strings.Lines(builtinList) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.names[line] = struct{}{}
	}
	for _, name := range extra {
		s.names[TopLevel(name)] = struct{}{}
	}
	return s
}

// NewBuiltinSet builds a set from names only, without the embedded list.
func NewBuiltinSet(names ...string) *BuiltinSet {
	s := &BuiltinSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.names[TopLevel(name)] = struct{}{}
	}
	return s
}

// Contains reports whether module's top-level package is in the set.
// Relative names never are.
func (s *BuiltinSet) Contains(module string) bool {
	if s == nil || strings.HasPrefix(module, ".") {
		return false
	}
	_, ok := s.names[TopLevel(module)]
	return ok
}

func (s *BuiltinSet) Len() int { return len(s.names) }

// TopLevel returns the first segment of a dotted module name.
func TopLevel(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}
