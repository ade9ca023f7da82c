package mono

import (
	"strings"

	"chad/internal/diag"
	"chad/internal/types"
)

type visitState uint8

const (
	unseen visitState = iota
	visiting
	emitted
)

// typeSet is the closed set of concrete types the program declares, kept
// in emission order: a struct follows the types of its fields, a pointer
// follows its pointee. A pointer back into a struct still being visited is
// fine (the struct is declared ahead), its pointee is queued instead.
type typeSet struct {
	in      *types.Interner
	state   map[types.TypeID]visitState
	order   []types.TypeID
	pending []types.TypeID
	// path holds the structs being visited by value, for the cycle report.
	path []types.TypeID
}

func newTypeSet(in *types.Interner) *typeSet {
	return &typeSet{in: in, state: make(map[types.TypeID]visitState)}
}

// Add registers id and everything it needs.
func (s *typeSet) Add(id types.TypeID) {
	if id == types.NoTypeID || s.state[id] == emitted {
		return
	}
	s.visit(id)
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		if s.state[next] == unseen {
			s.visit(next)
		}
	}
}

// Ordered returns the registered types in emission order.
func (s *typeSet) Ordered() []types.TypeID {
	return append([]types.TypeID(nil), s.order...)
}

func (s *typeSet) visit(id types.TypeID) {
	switch s.state[id] {
	case emitted:
		return
	case visiting:
		s.cycle(id)
	}
	in := s.in
	tt := in.MustLookup(id)
	switch tt.Kind {
	case types.KindPtr, types.KindLink:
		s.indirect(tt.Elem)
	case types.KindFn:
		info, _ := in.FnInfo(id)
		for _, p := range info.Params {
			s.indirect(p)
		}
		s.indirect(info.Result)
	case types.KindStruct:
		s.state[id] = visiting
		s.path = append(s.path, id)
		for _, f := range in.Fields(id) {
			s.visit(f.Type)
		}
		if info, ok := in.StructInfo(id); ok {
			for _, a := range info.Args {
				s.indirect(a)
			}
		}
		s.path = s.path[:len(s.path)-1]
	}
	s.state[id] = emitted
	s.order = append(s.order, id)
}

// indirect handles a type reached through a pointer, a reference or a
// function signature.
func (s *typeSet) indirect(id types.TypeID) {
	switch s.state[id] {
	case emitted:
	case visiting:
		s.pending = append(s.pending, id)
	default:
		s.visit(id)
	}
}

func (s *typeSet) cycle(id types.TypeID) {
	start := 0
	for i, p := range s.path {
		if p == id {
			start = i
			break
		}
	}
	names := make([]string, 0, len(s.path)-start+1)
	for _, p := range s.path[start:] {
		names = append(names, s.in.String(p))
	}
	names = append(names, s.in.String(id))
	diag.CompilerError("mono: %s contains itself by value (%s)", s.in.String(id), strings.Join(names, " -> "))
}
