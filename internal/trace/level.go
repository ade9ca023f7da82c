package trace

import (
	"fmt"
	"strings"
)

// Level controls how much is traced. Past LevelError each level admits the
// scope of the same rank and everything coarser.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // nothing streamed; the ring is still dumped on a crash
	LevelPass        // build stages and passes
	LevelUnit        // plus one span per unit
	LevelFn          // plus one span per analyzed or specialized function
)

var levelNames = [...]string{"off", "error", "pass", "unit", "fn"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return l > LevelError && scope <= Scope(l)
}
