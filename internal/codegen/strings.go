package codegen

import "github.com/redodson01/zinc/internal/ast"

// internStrings runs a pre-pass over the whole program collecting distinct
// string literal values, assigning each a dense id and deduplicating by
// value (two occurrences of "abc" anywhere in the program share one static
// storage slot). It populates n.StringID on every StringLit node and
// returns the ordered table the body file's static-storage section emits
// from (SPEC_FULL.md §5, "Two-pass string literal numbering").
func internStrings(prog *ast.Node) []string {
	seen := map[string]int{}
	var table []string
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.StringLit {
			id, ok := seen[n.StringVal]
			if !ok {
				id = len(table)
				seen[n.StringVal] = id
				table = append(table, n.StringVal)
			}
			n.StringID = id
		}
		for _, c := range n.Elements {
			walk(c)
		}
		for _, p := range n.Params {
			walk(p)
		}
		for _, a := range n.Args {
			walk(a)
		}
		for _, f := range n.Fields {
			walk(f)
		}
		walk(n.Left)
		walk(n.Right)
		walk(n.Cond)
		walk(n.Then)
		walk(n.Else)
		walk(n.Init)
		walk(n.Update)
		walk(n.Body)
		walk(n.Object)
		walk(n.Index)
		walk(n.Key)
		walk(n.Default)
	}
	walk(prog)
	return table
}

// stringVarName returns the C identifier of a string literal's static
// storage slot.
func stringVarName(id int) string {
	return cprintf("__zn_str_%d", id)
}
