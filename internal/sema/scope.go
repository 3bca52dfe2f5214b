// Package sema implements the symbol table, type registry, and semantic
// analyzer (spec.md §4.2, §4.3): flow-sensitive type inference, optional
// narrowing, fresh-allocation tracking, and struct-init validation, with
// errors accumulated rather than raised on first failure (spec.md §7).
package sema

import "github.com/redodson01/zinc/internal/types"

// Symbol is one lexically-scoped binding: a variable, parameter, or
// function name with its resolved type.
type Symbol struct {
	Name      string
	Type      *types.TypeRef
	IsConst   bool
	IsFunc    bool
	ParamTypes []*types.TypeRef // for IsFunc
	ReturnType *types.TypeRef   // for IsFunc
}

// Scope is one lexical scope in a chained-hash symbol table: lookups walk
// from innermost to outermost, matching the original compiler's
// symbol_table scope chain.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{symbols: make(map[string]*Symbol)}
}

// Push opens a nested scope.
func (s *Scope) Push() *Scope {
	return &Scope{parent: s, symbols: make(map[string]*Symbol)}
}

// Pop returns the enclosing scope (nil at the root).
func (s *Scope) Pop() *Scope {
	return s.parent
}

// Define adds a new binding to this scope, shadowing any outer symbol of
// the same name. Returns false if name is already bound in THIS scope
// (redeclaration within one scope is an error; shadowing an outer scope's
// name is not).
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// DefineShadow force-overwrites a binding in this scope, used for the `if
// x?` narrowing shadow (spec.md §4.3: the then-branch rebinds x to its
// non-optional type for the duration of the branch).
func (s *Scope) DefineShadow(sym *Symbol) {
	s.symbols[sym.Name] = sym
}

// Lookup searches this scope and its ancestors, innermost first.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only this scope, not its ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}
