package types

import (
	"testing"

	"chad/internal/source"
)

func TestApplicableIsDirectional(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.Applicable(b.AmbigInt, b.F64, false, true) {
		t.Fatalf("integer literal must be applicable to f64")
	}
	if in.Applicable(b.F64, b.AmbigInt, false, true) {
		t.Fatalf("f64 must not be applicable to an integer literal")
	}
	if in.Applicable(b.AmbigFloat, b.I32, false, true) {
		t.Fatalf("float literal must not be applicable to i32")
	}
	if !in.Applicable(b.AmbigNil, in.Ptr(b.U8, false), false, true) {
		t.Fatalf("nil literal must be applicable to a pointer")
	}
}

func TestUnionInjectionIsSingleShot(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	str, _ := in.RegisterTemplate("core", "str", ModeStruct, nil, nil, source.NoSpan)
	strT := in.Struct(str.ID, nil, nil)
	u := in.Union(b.I32, strT)

	if !in.Applicable(b.I32, u, false, true) {
		t.Fatalf("i32 must inject into i32 | str")
	}
	if got := in.InjectVariant(b.I32, u, GenericMap{}, ConstMap{}, false); got != 0 {
		t.Fatalf("expected variant 0, got %d", got)
	}
	if got := in.InjectVariant(strT, u, GenericMap{}, ConstMap{}, false); got != 1 {
		t.Fatalf("expected variant 1, got %d", got)
	}
	if in.Applicable(b.Bool, u, false, true) {
		t.Fatalf("bool is neither variant")
	}
	if in.Applicable(u, b.I32, false, true) {
		t.Fatalf("a union must not unwrap implicitly")
	}
	if in.Applicable(b.I32, u, false, false) {
		t.Fatalf("injection must respect allowUnionInjection=false")
	}
}

func TestUnionInjectionNotNested(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u := in.Union(b.I32, b.Nil)
	if in.Applicable(in.Ptr(b.I32, false), in.Ptr(u, false), false, true) {
		t.Fatalf("*i32 must not be applicable to *(i32 | nil)")
	}
}

func TestGenericBindsOnce(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	T := in.Generic("T")
	gm := GenericMap{}
	cm := ConstMap{}
	if !in.ApplicableStateful(b.I32, T, gm, cm, true, true) {
		t.Fatalf("first occurrence must bind")
	}
	if gm["T"] != b.I32 {
		t.Fatalf("T bound to %s", in.String(gm["T"]))
	}
	if in.ApplicableStateful(b.Bool, T, gm, cm, true, true) {
		t.Fatalf("rebinding T to bool must fail")
	}
	if !in.ApplicableStateful(b.I32, T, gm, cm, true, true) {
		t.Fatalf("same type must satisfy the existing binding")
	}
}

func TestGenericWithoutHeaderOnlyMatchesItself(t *testing.T) {
	in := NewInterner()
	T := in.Generic("T")
	if in.Applicable(in.Builtins().I32, T, false, true) {
		t.Fatalf("i32 must not satisfy T outside a header match")
	}
	if !in.Applicable(T, T, false, true) {
		t.Fatalf("T must satisfy T")
	}
	if in.Applicable(T, in.Generic("K"), false, true) {
		t.Fatalf("T must not satisfy K")
	}
}

func TestAmbiguousBindingRefines(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	T := in.Generic("T")
	gm := GenericMap{}
	cm := ConstMap{}
	if !in.ApplicableStateful(b.AmbigInt, T, gm, cm, true, true) {
		t.Fatalf("literal must bind T")
	}
	if !in.ApplicableStateful(b.I64, T, gm, cm, true, true) {
		t.Fatalf("i64 must be compatible with an integer literal binding")
	}
	if gm["T"] != b.I64 {
		t.Fatalf("binding must be refined to i64, got %s", in.String(gm["T"]))
	}
}

func TestConstGenericCapture(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	vec, _ := in.RegisterTemplate("main", "vec", ModeStruct, []string{"T"}, []string{"N"}, source.NoSpan)
	T := in.Generic("T")
	concrete := in.Struct(vec.ID, []TypeID{b.I32}, []string{"4"})
	template := in.Struct(vec.ID, []TypeID{T}, []string{AnyConst})

	gm := GenericMap{}
	cm := ConstMap{}
	if !in.ApplicableStateful(concrete, template, gm, cm, true, true) {
		t.Fatalf("vec[i32, 4] must match vec[T, N]")
	}
	if gm["T"] != b.I32 || cm["N"] != "4" {
		t.Fatalf("bindings: T=%s N=%q", in.String(gm["T"]), cm["N"])
	}
	// another occurrence of N elsewhere in the signature
	ret := in.Ptr(template, false)
	if got := in.String(in.Substitute(ret, gm, cm)); got != "*vec[i32, 4]" {
		t.Fatalf("re-substitution: got %s", got)
	}
	other := in.Struct(vec.ID, []TypeID{b.I32}, []string{"8"})
	if in.ApplicableStateful(other, template, gm, cm, true, true) {
		t.Fatalf("N already captured as 4; 8 must not match")
	}
}

func TestFnTypesMatchExactly(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	T := in.Generic("T")
	sub := in.Fn([]TypeID{b.I32}, b.Bool)
	if !in.ApplicableStateful(sub, in.Fn([]TypeID{T}, b.Bool), GenericMap{}, ConstMap{}, true, true) {
		t.Fatalf("fn(i32) => bool must match fn(T) => bool")
	}
	if in.Applicable(sub, in.Fn([]TypeID{b.I64}, b.Bool), false, true) {
		t.Fatalf("parameter types must match exactly")
	}
	lit := in.Fn([]TypeID{b.AmbigInt}, b.Bool)
	if in.Applicable(lit, sub, false, true) {
		t.Fatalf("fn types get no literal leniency")
	}
}

func TestVariadicTargetAcceptsAnything(t *testing.T) {
	in := NewInterner()
	if !in.Applicable(in.Builtins().Char, in.Builtins().Variadic, false, true) {
		t.Fatalf("variadic target must accept char")
	}
}

func TestPointerConstness(t *testing.T) {
	in := NewInterner()
	i32 := in.Builtins().I32
	if in.Applicable(in.Ptr(i32, true), in.Ptr(i32, false), false, true) {
		t.Fatalf("*const must not be applicable to *")
	}
	if !in.Applicable(in.Ptr(i32, false), in.Ptr(i32, true), false, true) {
		t.Fatalf("* must be applicable to *const")
	}
}

func TestPriorityScores(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	T := in.Generic("T")
	cases := []struct {
		id   TypeID
		want int
	}{
		{T, 0},
		{b.I32, 2},
		{in.Ptr(T, false), 2},
		{in.Ptr(b.I32, false), 4},
		{in.Union(b.I32, T), 1},
		{in.Union(b.I32, b.Nil), 3},
		{in.Link(b.I32), 2},
	}
	for _, tc := range cases {
		if got := in.Priority(tc.id); got != tc.want {
			t.Errorf("Priority(%s) = %d, want %d", in.String(tc.id), got, tc.want)
		}
	}
}

func TestCompareScores(t *testing.T) {
	if CompareScores([]int{2, 2}, []int{2, 0}) != Dominates {
		t.Fatalf("[2 2] must dominate [2 0]")
	}
	if CompareScores([]int{0, 2}, []int{2, 0}) != Incomparable {
		t.Fatalf("[0 2] vs [2 0] must be incomparable")
	}
	if CompareScores([]int{2}, []int{2}) != Incomparable {
		t.Fatalf("ties are incomparable")
	}
	if CompareScores([]int{0}, []int{2}) != Dominated {
		t.Fatalf("[0] must be dominated by [2]")
	}
}
