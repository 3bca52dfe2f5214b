package types

import "testing"

type fakeRegistry struct {
	classes map[string]bool
}

func (f *fakeRegistry) IsClass(name string) bool      { return f.classes[name] }
func (f *fakeRegistry) IsRegistered(name string) bool { _, ok := f.classes[name]; return ok }

func TestNewOptionalFlattens(t *testing.T) {
	base := New(Int)
	once := NewOptional(base)
	twice := NewOptional(once)

	if !once.Optional {
		t.Fatalf("expected optional flag set")
	}
	if !twice.Optional || twice.Kind != Int {
		t.Fatalf("T?? must flatten to T?, got %+v", twice)
	}
}

func TestEqualStructuralByName(t *testing.T) {
	a := NewNamed(Struct, "Box")
	b := NewNamed(Struct, "Box")
	c := NewNamed(Struct, "Other")

	if !Equal(a, b) {
		t.Fatalf("expected equal struct types with same name")
	}
	if Equal(a, c) {
		t.Fatalf("expected distinct struct types with different names")
	}
}

func TestEqualOptionalIsIdentity(t *testing.T) {
	plain := New(Int)
	opt := NewOptional(New(Int))
	if Equal(plain, opt) {
		t.Fatalf("int and int? must not be equal")
	}
}

func TestResolveStructVsClass(t *testing.T) {
	reg := &fakeRegistry{classes: map[string]bool{"Box": true}}

	classSpec := &TypeSpec{Kind: Unknown, Name: "Box"}
	structSpec := &TypeSpec{Kind: Unknown, Name: "Point"}

	if got := Resolve(reg, classSpec); got.Kind != Class {
		t.Fatalf("expected Class, got %v", got.Kind)
	}
	if got := Resolve(reg, structSpec); got.Kind != Struct {
		t.Fatalf("expected Struct, got %v", got.Kind)
	}
}

func TestResolveArrayRecurses(t *testing.T) {
	reg := &fakeRegistry{classes: map[string]bool{}}
	spec := &TypeSpec{Kind: Array, Elem: &TypeSpec{Kind: Int}}
	got := Resolve(reg, spec)
	if got.Kind != Array || got.Elem.Kind != Int {
		t.Fatalf("expected array of int, got %+v", got)
	}
}

func TestJoinMismatchedStructNamesIsUnknown(t *testing.T) {
	a := NewNamed(Struct, "A")
	b := NewNamed(Struct, "B")
	if j := Join(a, b); j.Kind != Unknown {
		t.Fatalf("expected join of differently-named structs to be unknown, got %v", j.Kind)
	}
}

func TestJoinSameKind(t *testing.T) {
	a := New(Int)
	b := New(Int)
	if j := Join(a, b); j.Kind != Int {
		t.Fatalf("expected int, got %v", j.Kind)
	}
}

func TestClampBounds(t *testing.T) {
	if got := Clamp(-5, 0, 64); got != 0 {
		t.Fatalf("expected clamp to floor at 0, got %d", got)
	}
	if got := Clamp(1000, 0, 64); got != 64 {
		t.Fatalf("expected clamp to ceiling at 64, got %d", got)
	}
	if got := Clamp(10, 0, 64); got != 10 {
		t.Fatalf("expected value unchanged within bounds, got %d", got)
	}
}
