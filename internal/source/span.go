package source

import "fmt"

// Span locates a node in a document: one line and a column range on it.
// The zero Span denotes a program-level location (no document).
type Span struct {
	File   FileID `msgpack:"file" yaml:"file"`
	Line   uint32 `msgpack:"line" yaml:"line"`   // 1-based
	Col    uint32 `msgpack:"col" yaml:"col"`     // 1-based, inclusive
	EndCol uint32 `msgpack:"end" yaml:"endcol"` // exclusive
}

// NoSpan marks program-level diagnostics.
var NoSpan = Span{}

// IsProgram reports whether the span carries no source location.
func (s Span) IsProgram() bool {
	return s == Span{}
}

func (s Span) Len() uint32 {
	if s.EndCol <= s.Col {
		return 0
	}
	return s.EndCol - s.Col
}

func (s Span) String() string {
	if s.IsProgram() {
		return "<program>"
	}
	return fmt.Sprintf("%d:%d:%d-%d", s.File, s.Line, s.Col, s.EndCol)
}

// Cover widens s to include other when both sit on the same line of the same file.
func (s Span) Cover(other Span) Span {
	if s.File != other.File || s.Line != other.Line {
		return s
	}
	if other.Col < s.Col {
		s.Col = other.Col
	}
	if other.EndCol > s.EndCol {
		s.EndCol = other.EndCol
	}
	return s
}
