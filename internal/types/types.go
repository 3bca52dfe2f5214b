// Package types implements the two parallel type representations used by
// the compiler: TypeSpec (parser-side, unresolved) and TypeRef (resolved,
// canonical). Semantic analysis converts the former into the latter.
package types

// Kind enumerates the resolved type kinds a TypeRef can carry.
type Kind uint8

const (
	Unknown Kind = iota
	Int
	Float
	Bool
	Char
	String
	Void
	Array
	Hash
	Struct
	Class
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case String:
		return "string"
	case Void:
		return "void"
	case Array:
		return "array"
	case Hash:
		return "hash"
	case Struct:
		return "struct"
	case Class:
		return "class"
	default:
		return "?"
	}
}

// TypeRef is the resolved, canonical type representation shared by the
// analyzer and the code generator. Equality is structural; two struct/class
// TypeRefs are equal iff their Name matches. Optional is part of identity:
// an Int and an optional Int are distinct types.
type TypeRef struct {
	Kind     Kind
	Name     string   // meaningful only for Struct/Class
	Elem     *TypeRef // array element type, hash value type
	Key      *TypeRef // hash key type
	Optional bool
}

// New returns a fresh, non-optional TypeRef of the given primitive kind.
func New(k Kind) *TypeRef {
	return &TypeRef{Kind: k}
}

// NewNamed returns a fresh TypeRef naming a struct or class.
func NewNamed(k Kind, name string) *TypeRef {
	return &TypeRef{Kind: k, Name: name}
}

// NewArray returns a fresh array TypeRef with the given element type.
func NewArray(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: Array, Elem: elem}
}

// NewHash returns a fresh hash TypeRef with the given key/value types.
func NewHash(key, val *TypeRef) *TypeRef {
	return &TypeRef{Kind: Hash, Key: key, Elem: val}
}

// NewOptional wraps base in an optional. An optional of an already-optional
// type flattens: T?? collapses to T?.
func NewOptional(base *TypeRef) *TypeRef {
	if base == nil {
		return &TypeRef{Kind: Unknown, Optional: true}
	}
	clone := base.Clone()
	clone.Optional = true
	return clone
}

// Clone returns a deep copy of t.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	out := &TypeRef{Kind: t.Kind, Name: t.Name, Optional: t.Optional}
	out.Elem = t.Elem.Clone()
	out.Key = t.Key.Clone()
	return out
}

// NonOptional returns a copy of t with Optional cleared — used by narrowing
// (spec.md §4.3) to strip the optional flag from a primitive binding inside
// an `if x?` then-branch.
func (t *TypeRef) NonOptional() *TypeRef {
	if t == nil {
		return nil
	}
	out := t.Clone()
	out.Optional = false
	return out
}

// Equal reports whether a and b denote the same type. Struct/class types
// compare by Name; Optional is part of identity.
func Equal(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Optional != b.Optional {
		return false
	}
	switch a.Kind {
	case Struct, Class:
		return a.Name == b.Name
	case Array:
		return Equal(a.Elem, b.Elem)
	case Hash:
		return Equal(a.Key, b.Key) && Equal(a.Elem, b.Elem)
	default:
		return true
	}
}

// IsRefcounted reports whether values of this type are ARC-tracked: string,
// array, hash, class, or an optional wrapping one of those reference kinds.
// Per spec.md glossary, "Reference type" values live on the heap behind a
// refcounted pointer.
func (t *TypeRef) IsRefcounted() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case String, Array, Hash, Class:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether t is one of the unboxed scalar kinds that an
// optional wraps as a {has, val} pair rather than a nullable pointer.
func (t *TypeRef) IsPrimitive() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case Int, Float, Bool, Char:
		return true
	default:
		return false
	}
}

// String renders t for diagnostics, e.g. "int?", "array(string)", "Box".
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	var base string
	switch t.Kind {
	case Struct, Class:
		base = t.Name
	case Array:
		base = "array(" + t.Elem.String() + ")"
	case Hash:
		base = "hash(" + t.Key.String() + "," + t.Elem.String() + ")"
	default:
		base = t.Kind.String()
	}
	if t.Optional {
		return base + "?"
	}
	return base
}

// TypeSpecField names one field of an object-type annotation.
type TypeSpecField struct {
	Name string
	Type *TypeSpec
}

// TypeSpec is the parser-side, unresolved type representation. It may name
// a struct not yet registered; resolution happens during semantic analysis
// via Resolve.
type TypeSpec struct {
	Kind     Kind
	Optional bool
	Name     string // struct/class name, empty otherwise
	Elem     *TypeSpec
	Key      *TypeSpec
	IsObject bool
	IsTuple  bool
	Fields   []TypeSpecField // object/tuple field shape
}

// NewSpec returns a TypeSpec for a primitive kind.
func NewSpec(k Kind) *TypeSpec {
	return &TypeSpec{Kind: k}
}

// NewOptionalSpec wraps spec as optional, flattening a double-optional.
func NewOptionalSpec(spec *TypeSpec) *TypeSpec {
	if spec == nil {
		return &TypeSpec{Kind: Unknown, Optional: true}
	}
	clone := *spec
	clone.Optional = true
	return &clone
}

// ClassLookup is implemented by the type registry; Resolve uses it to
// decide whether an unresolved struct-named spec denotes a struct or a
// class (spec.md §4.1).
type ClassLookup interface {
	IsClass(name string) bool
	IsRegistered(name string) bool
}

// Resolve converts a TypeSpec into a canonical TypeRef. An unresolved
// struct-named spec whose name is registered as a class resolves to Class;
// otherwise Struct. Array/hash specs recursively resolve element and key
// types. Unknown kinds propagate.
func Resolve(reg ClassLookup, spec *TypeSpec) *TypeRef {
	if spec == nil {
		return New(Void)
	}
	switch spec.Kind {
	case Array:
		return &TypeRef{Kind: Array, Elem: Resolve(reg, spec.Elem), Optional: spec.Optional}
	case Hash:
		return &TypeRef{Kind: Hash, Key: Resolve(reg, spec.Key), Elem: Resolve(reg, spec.Elem), Optional: spec.Optional}
	case Struct, Class, Unknown:
		if spec.Name != "" {
			kind := Struct
			if reg != nil && reg.IsClass(spec.Name) {
				kind = Class
			}
			return &TypeRef{Kind: kind, Name: spec.Name, Optional: spec.Optional}
		}
		return &TypeRef{Kind: spec.Kind, Optional: spec.Optional}
	default:
		return &TypeRef{Kind: spec.Kind, Optional: spec.Optional}
	}
}

// Join computes the type of an if-expression whose branches resolved to a
// and b (spec.md §4.3): equal kinds join to that kind (struct/class names
// must also match); otherwise Unknown (a type mismatch the analyzer must
// already have reported).
func Join(a, b *TypeRef) *TypeRef {
	if a == nil || b == nil {
		return New(Unknown)
	}
	if a.Kind != b.Kind {
		return New(Unknown)
	}
	if (a.Kind == Struct || a.Kind == Class) && a.Name != b.Name {
		return New(Unknown)
	}
	return a.Clone()
}
