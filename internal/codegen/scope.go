package codegen

import "github.com/redodson01/zinc/internal/types"

// Binding is one refcounted local tracked by a ScopeTracker: its C variable
// name and resolved type, enough for the release-emission call site to pick
// the right `__<TypeName>_release`/`__zn_string_release` etc. helper.
type Binding struct {
	Name string
	Type *types.TypeRef
}

type arcScope struct {
	isLoop   bool
	bindings []Binding
}

// ScopeTracker is the ARC scope stack state machine described by spec.md
// §4.4's "State machines": Push on block/loop/function entry, AddRef on
// every refcounted binding, Pop on normal block exit (releases emit in
// reverse declaration order), PopThroughLoop on break/continue (every scope
// from current up to and including the nearest loop scope), PopAll on
// return (every enclosing scope). Initial and terminal state: empty stack.
type ScopeTracker struct {
	scopes []*arcScope
}

// NewScopeTracker returns an empty tracker.
func NewScopeTracker() *ScopeTracker {
	return &ScopeTracker{}
}

// Push opens a new ARC scope, marked is-loop for loop bodies so
// PopThroughLoop knows where to stop.
func (t *ScopeTracker) Push(isLoop bool) {
	t.scopes = append(t.scopes, &arcScope{isLoop: isLoop})
}

// AddRef records a refcounted binding in the current scope. Non-refcounted
// types are silently ignored: they never need a release.
func (t *ScopeTracker) AddRef(name string, typ *types.TypeRef) {
	if !typ.IsRefcounted() {
		return
	}
	top := t.scopes[len(t.scopes)-1]
	top.bindings = append(top.bindings, Binding{Name: name, Type: typ})
}

// Pop removes the current scope and returns its bindings in reverse
// declaration order, the order releases must emit in.
func (t *ScopeTracker) Pop() []Binding {
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	return reversed(top.bindings)
}

// Depth reports how many scopes are currently open.
func (t *ScopeTracker) Depth() int {
	return len(t.scopes)
}

// PopThroughLoop reports every binding a break/continue must release: all
// scopes from the innermost up to and including the nearest enclosing loop
// scope, oldest-scope-last, reverse declaration order within a scope. It
// does not remove any scope — the loop body's own Pop still runs when the
// block closes normally.
func (t *ScopeTracker) PopThroughLoop() []Binding {
	var out []Binding
	for i := len(t.scopes) - 1; i >= 0; i-- {
		s := t.scopes[i]
		out = append(out, reversed(s.bindings)...)
		if s.isLoop {
			break
		}
	}
	return out
}

// PopAll reports every binding a return must release: every open scope,
// innermost first, reverse declaration order within each. Like
// PopThroughLoop, it's a query, not a mutation — the function's own scope
// teardown still happens as control actually unwinds.
func (t *ScopeTracker) PopAll() []Binding {
	var out []Binding
	for i := len(t.scopes) - 1; i >= 0; i-- {
		out = append(out, reversed(t.scopes[i].bindings)...)
	}
	return out
}

func reversed(in []Binding) []Binding {
	out := make([]Binding, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}
	return out
}
