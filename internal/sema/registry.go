package sema

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/types"
)

// Field is one struct/class field layout entry.
type Field struct {
	Name    string
	Type    *types.TypeRef
	IsConst bool
	IsWeak  bool
	Default *ast.Node // nil if the field has no default and must be supplied at init
}

// TypeLayout describes one registered struct or class: its fields in
// declaration order (emission must never depend on map iteration order,
// spec.md §5) plus whether it's a value type (struct) or refcounted
// reference type (class).
type TypeLayout struct {
	Name    string
	IsClass bool
	Fields  []Field
}

// FieldIndex returns the declaration-order index of name, or -1.
func (l *TypeLayout) FieldIndex(name string) int {
	for i, f := range l.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Registry is the flat, name-keyed table of struct/class layouts plus the
// interning tables for anonymous tuple and object types (spec.md §4.2).
// Analyze freezes it once every named struct/class is registered, before
// any function body is analyzed: Register fails after that, while
// InternTuple and InternObject keep adding anonymous shapes.
type Registry struct {
	types  map[string]*TypeLayout
	order  []string // declaration order, mirrors original registration sequence
	frozen bool

	tupleByShape map[string]string // shape signature -> synthesized "__Tuple<N>" name
	tupleOrder   []string
	objectByShape map[string]string // shape signature -> synthesized "__Obj<N>" name
	objectOrder   []string

	nextTuple int
	nextObj   int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:         make(map[string]*TypeLayout),
		tupleByShape:  make(map[string]string),
		objectByShape: make(map[string]string),
	}
}

// IsClass implements types.ClassLookup.
func (r *Registry) IsClass(name string) bool {
	l, ok := r.types[name]
	return ok && l.IsClass
}

// IsRegistered implements types.ClassLookup.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Register adds a named struct/class layout. Returns an error if the name
// is already registered or the registry is frozen.
func (r *Registry) Register(layout *TypeLayout) error {
	if r.frozen {
		return fmt.Errorf("registry frozen: cannot register %q", layout.Name)
	}
	if _, exists := r.types[layout.Name]; exists {
		return fmt.Errorf("type %q already registered", layout.Name)
	}
	r.types[layout.Name] = layout
	r.order = append(r.order, layout.Name)
	return nil
}

// Lookup finds a registered layout by name.
func (r *Registry) Lookup(name string) (*TypeLayout, bool) {
	l, ok := r.types[name]
	return l, ok
}

// Freeze makes every later Register call fail; interning is not affected.
func (r *Registry) Freeze() { r.frozen = true }

// OrderedNames returns every registered struct/class name in declaration
// order, for codegen emission.
func (r *Registry) OrderedNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DebugNames returns every registered name sorted alphabetically, for
// the driver's --dump-types listing, where a stable-but-not-necessarily-
// declaration order is acceptable; the sort after maps.Keys is what keeps
// the output independent of Go's randomized map order.
func (r *Registry) DebugNames() []string {
	names := maps.Keys(r.types)
	sort.Strings(names)
	return names
}

// InternTuple interns an anonymous tuple shape (a list of element types)
// and returns its synthesized name, reusing an existing entry if an
// identical shape was already interned (spec.md §4.2: "structurally
// identical anonymous types are interned once").
func (r *Registry) InternTuple(elems []*types.TypeRef) string {
	shape := shapeKey("tuple", elems)
	if name, ok := r.tupleByShape[shape]; ok {
		return name
	}
	name := fmt.Sprintf("__Tuple%d", r.nextTuple)
	r.nextTuple++
	r.tupleByShape[shape] = name
	r.tupleOrder = append(r.tupleOrder, name)

	fields := make([]Field, len(elems))
	for i, t := range elems {
		fields[i] = Field{Name: fmt.Sprintf("_%d", i), Type: t}
	}
	r.types[name] = &TypeLayout{Name: name, IsClass: false, Fields: fields}
	r.order = append(r.order, name)
	return name
}

// InternObject interns an anonymous object literal shape (parallel
// name/type lists, in literal order) the same way InternTuple does for
// tuples.
func (r *Registry) InternObject(names []string, elems []*types.TypeRef) string {
	shape := shapeKey("object:"+joinNames(names), elems)
	if name, ok := r.objectByShape[shape]; ok {
		return name
	}
	name := fmt.Sprintf("__Obj%d", r.nextObj)
	r.nextObj++
	r.objectByShape[shape] = name
	r.objectOrder = append(r.objectOrder, name)

	fields := make([]Field, len(elems))
	for i, t := range elems {
		fields[i] = Field{Name: names[i], Type: t}
	}
	r.types[name] = &TypeLayout{Name: name, IsClass: false, Fields: fields}
	r.order = append(r.order, name)
	return name
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}

// shapeKey builds a small, order-preserving string signature used as the
// interning map key; this is the hand-rolled substitute for go/format's
// "render an expression/type to a canonical string" role (the teacher
// repo formats Go AST exprs, there is no Go AST here to format — see
// DESIGN.md).
func shapeKey(prefix string, elems []*types.TypeRef) string {
	key := prefix
	for _, t := range elems {
		key += "|" + refKey(t)
	}
	return key
}

func refKey(t *types.TypeRef) string {
	if t == nil {
		return "?"
	}
	opt := ""
	if t.Optional {
		opt = "?"
	}
	switch t.Kind {
	case types.Struct, types.Class:
		return fmt.Sprintf("%s(%s)%s", t.Kind, t.Name, opt)
	case types.Array:
		return fmt.Sprintf("array(%s)%s", refKey(t.Elem), opt)
	case types.Hash:
		return fmt.Sprintf("hash(%s,%s)%s", refKey(t.Key), refKey(t.Elem), opt)
	default:
		return fmt.Sprintf("%s%s", t.Kind, opt)
	}
}
