package trace

import (
	"fmt"
	"strings"
)

// Level is how deep into a run tracing looks. Each level shows one more
// Scope than the previous one.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // driver and phases
	LevelDetail       // plus files of a directory scan
	LevelDebug        // plus every parse attempt
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value; case is ignored.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Deepest returns the finest scope shown at l, 0 when tracing is off.
func (l Level) Deepest() Scope {
	if l == LevelOff {
		return 0
	}
	return min(Scope(l)+1, ScopeAttempt)
}

// ShouldEmit reports whether spans of scope are shown at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return scope != 0 && scope <= l.Deepest()
}
