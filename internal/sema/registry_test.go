package sema

import (
	"testing"

	"github.com/redodson01/zinc/internal/types"
)

func TestRegistryInternTupleDeduplicatesByShape(t *testing.T) {
	r := NewRegistry()
	shape := []*types.TypeRef{types.New(types.Int), types.New(types.String)}
	a := r.InternTuple(shape)
	b := r.InternTuple([]*types.TypeRef{types.New(types.Int), types.New(types.String)})
	if a != b {
		t.Fatalf("expected identical tuple shapes to intern to the same name, got %q and %q", a, b)
	}
	c := r.InternTuple([]*types.TypeRef{types.New(types.Float)})
	if c == a {
		t.Fatalf("expected a distinct shape to get a distinct name")
	}
}

func TestRegistryInternObjectDeduplicatesByNamesAndTypes(t *testing.T) {
	r := NewRegistry()
	a := r.InternObject([]string{"x", "y"}, []*types.TypeRef{types.New(types.Int), types.New(types.Int)})
	b := r.InternObject([]string{"x", "y"}, []*types.TypeRef{types.New(types.Int), types.New(types.Int)})
	if a != b {
		t.Fatalf("expected identical object shapes to intern to the same name")
	}
	c := r.InternObject([]string{"x", "z"}, []*types.TypeRef{types.New(types.Int), types.New(types.Int)})
	if c == a {
		t.Fatalf("expected different field names to produce a distinct shape")
	}
}

func TestRegistryFreezeRejectsFurtherRegistration(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	if err := r.Register(&TypeLayout{Name: "Late"}); err == nil {
		t.Fatalf("expected registration on a frozen registry to fail")
	}
}

func TestRegistryOrderedNamesPreservesDeclarationOrder(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&TypeLayout{Name: "B"})
	_ = r.Register(&TypeLayout{Name: "A"})
	names := r.OrderedNames()
	if len(names) != 2 || names[0] != "B" || names[1] != "A" {
		t.Fatalf("expected declaration order [B A], got %v", names)
	}
}

func TestScopeShadowingAndLookup(t *testing.T) {
	root := NewScope()
	root.Define(&Symbol{Name: "x", Type: types.New(types.Int)})
	child := root.Push()
	child.DefineShadow(&Symbol{Name: "x", Type: types.New(types.Int).NonOptional()})

	if _, ok := child.LookupLocal("x"); !ok {
		t.Fatalf("expected shadow to be defined locally in child scope")
	}
	if sym, ok := root.Lookup("x"); !ok || sym.Type.Kind != types.Int {
		t.Fatalf("expected parent scope's binding to be unaffected by child shadow")
	}
}

func TestScopeRedeclarationInSameScopeFails(t *testing.T) {
	s := NewScope()
	if !s.Define(&Symbol{Name: "x", Type: types.New(types.Int)}) {
		t.Fatalf("first definition should succeed")
	}
	if s.Define(&Symbol{Name: "x", Type: types.New(types.Int)}) {
		t.Fatalf("expected redeclaration in the same scope to fail")
	}
}
