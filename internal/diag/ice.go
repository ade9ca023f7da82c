package diag

import "fmt"

// ICE is an internal compiler error: a broken invariant inside the compiler
// itself. It is never produced by user input, valid or not.
type ICE struct {
	Msg string
}

func (e *ICE) Error() string {
	return "internal compiler error: " + e.Msg
}

// CompilerError halts the current build by panicking with *ICE. Only the
// process boundary (driver) recovers it.
func CompilerError(format string, args ...any) {
	panic(&ICE{Msg: fmt.Sprintf(format, args...)})
}

// AsICE extracts an *ICE from a recovered panic value.
func AsICE(r any) (*ICE, bool) {
	ice, ok := r.(*ICE)
	return ice, ok
}
