package codegen

import (
	"strings"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/types"
)

// cTypeSpec resolves an unresolved parser-side TypeSpec against the
// generator's registry and renders the C type, for the signature-emission
// call sites in types.go that only have a TypeSpec (extern decls, params).
func cTypeSpec(g *Generator, spec *types.TypeSpec) string {
	return cType(types.Resolve(g.reg, spec))
}

// releaseExprFor renders the C statement that releases one refcounted
// value (a field, a local, a container element) at scope/object teardown.
// Non-refcounted types are a documented no-op rather than an omitted line,
// matching the teacher generator's practice of emitting a visible
// `/* no-op */` for skipped cases instead of silently dropping the field.
func releaseExprFor(t *types.TypeRef, access string) string {
	if !t.IsRefcounted() {
		return "/* no-op */"
	}
	switch t.Kind {
	case types.String:
		return cprintf("__zn_string_release(%s);", access)
	case types.Array:
		return cprintf("__zn_array_release(%s);", access)
	case types.Hash:
		return cprintf("__zn_hash_release(%s);", access)
	case types.Class:
		return cprintf("__%s_release(%s);", t.Name, access)
	default:
		return "/* no-op */"
	}
}

// retainExprFor is releaseExprFor's counterpart, used on every new binding
// of a refcounted value unless the producer is fresh (spec.md §4.4: "ARC
// discipline").
func retainExprFor(t *types.TypeRef, access string) string {
	if !t.IsRefcounted() {
		return "/* no-op */"
	}
	switch t.Kind {
	case types.String:
		return cprintf("__zn_string_retain(%s);", access)
	case types.Array:
		return cprintf("__zn_array_retain(%s);", access)
	case types.Hash:
		return cprintf("__zn_hash_retain(%s);", access)
	case types.Class:
		return cprintf("__%s_retain(%s);", t.Name, access)
	default:
		return "/* no-op */"
	}
}

// emit lowers n to a single C expression. Control-flow-in-expression
// position (value-form if/while/for) and multi-step constructs (string
// concat, container literals, class construction) print their setup
// statements straight to the body buffer as they're built, ahead of the
// statement that consumes the returned expression string — explicit
// desugaring rather than the GCC statement-expression extension
// (SPEC_FULL.md §6).
func (g *Generator) emit(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.IntLit:
		return cprintf("%d", n.IntVal)
	case ast.FloatLit:
		return cprintf("%g", n.FloatVal)
	case ast.BoolLit:
		if n.BoolVal {
			return "true"
		}
		return "false"
	case ast.CharLit:
		return cCharLiteral(n.CharVal)
	case ast.StringLit:
		return cprintf("(&%s)", stringVarName(n.StringID))
	case ast.NoneLit:
		return "NULL" // target-typed call sites rewrite this via emitAs
	case ast.Ident:
		return n.Name
	case ast.BinOp:
		return g.emitBinOp(n)
	case ast.UnaryOp:
		return g.emitUnaryOp(n)
	case ast.OptionalCheck:
		return g.emitOptionalCheck(n)
	case ast.Call:
		return g.emitCall(n)
	case ast.FieldAccess:
		return g.emitFieldAccess(n)
	case ast.IndexAccess:
		return g.emitIndexAccess(n)
	case ast.Tuple:
		return g.emitTuple(n)
	case ast.ObjectLiteral:
		return g.emitObjectLiteral(n)
	case ast.ArrayLiteral, ast.TypedEmptyArray:
		return g.emitArrayLiteral(n)
	case ast.HashLiteral, ast.TypedEmptyHash:
		return g.emitHashLiteral(n)
	case ast.If:
		return g.emitValueIf(n)
	case ast.While:
		return g.emitValueWhile(n)
	case ast.For:
		return g.emitValueFor(n)
	case ast.IncDec:
		return g.emitIncDec(n)
	case ast.Assign:
		g.printf("%s\n", g.assignStmt(n))
		return g.emit(n.Left)
	default:
		return cprintf("/* unhandled expr kind %s */ 0", n.Kind)
	}
}

// emitAs lowers n the same as emit, except a `none` literal is rendered
// against the known target type instead of a bare NULL: NULL for reference
// optionals, `{ .has = false }` for primitive optionals.
func (g *Generator) emitAs(n *ast.Node, target *types.TypeRef) string {
	if n.Kind == ast.NoneLit {
		if target != nil && target.IsPrimitive() {
			return cprintf("(%s){ .has = false }", cType(target))
		}
		return "NULL"
	}
	val := g.emit(n)
	if target != nil && target.Optional && target.IsPrimitive() && !n.ResolvedType.Optional {
		return cprintf("(%s){ .has = true, .val = %s }", cType(target), val)
	}
	return val
}

// cCharLiteral renders a single byte as a C char literal with the same
// escape table as string literals.
func cCharLiteral(c byte) string {
	switch c {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	case 0:
		return `'\0'`
	default:
		return cprintf("'%c'", c)
	}
}

func (g *Generator) emitBinOp(n *ast.Node) string {
	if n.Op == ast.Add && n.ResolvedType != nil && n.ResolvedType.Kind == types.String {
		return g.emitStringConcat(n)
	}
	left := g.emit(n.Left)
	right := g.emit(n.Right)
	return cprintf("(%s %s %s)", left, n.Op, right)
}

func (g *Generator) emitUnaryOp(n *ast.Node) string {
	operand := g.emit(n.Right)
	switch n.Op {
	case ast.Neg:
		return cprintf("(-%s)", operand)
	case ast.Pos:
		return cprintf("(+%s)", operand)
	case ast.Not:
		return cprintf("(!%s)", operand)
	default:
		return operand
	}
}

// emitOptionalCheck renders `x?`: `.has` for a primitive optional, a
// non-NULL test for a reference optional.
func (g *Generator) emitOptionalCheck(n *ast.Node) string {
	operand := g.emit(n.Right)
	if n.Right.ResolvedType != nil && n.Right.ResolvedType.IsPrimitive() {
		return cprintf("(%s).has", operand)
	}
	return cprintf("(%s != NULL)", operand)
}

// emitStringConcat flattens a string-typed `+` subtree into a left-to-right
// leaf sequence, pre-converting non-string leaves via a runtime coercion,
// folding adjacent pairs with a runtime concat, and releasing every
// intermediate allocation before the final result (spec.md §4.4, "String
// concatenation"). The result is the sole fresh output and is returned as
// a temp variable name.
func (g *Generator) emitStringConcat(n *ast.Node) string {
	var leaves []*ast.Node
	var collect func(n *ast.Node)
	collect = func(n *ast.Node) {
		if n.Kind == ast.BinOp && n.Op == ast.Add && n.ResolvedType != nil && n.ResolvedType.Kind == types.String {
			collect(n.Left)
			collect(n.Right)
			return
		}
		leaves = append(leaves, n)
	}
	collect(n)

	leafExprs := make([]string, len(leaves))
	var owned []string
	for i, leaf := range leaves {
		leafExprs[i] = g.stringCoerce(leaf)
		if leaf.ResolvedType != nil && (leaf.ResolvedType.Kind != types.String || leaf.Fresh) {
			tmp := g.nextTemp("str")
			g.printf("__zn_string* %s = %s;\n", tmp, leafExprs[i])
			leafExprs[i] = tmp
			owned = append(owned, tmp)
		}
	}

	acc := leafExprs[0]
	for i := 1; i < len(leafExprs); i++ {
		result := g.nextTemp("str")
		g.printf("__zn_string* %s = __zn_concat(%s, %s);\n", result, acc, leafExprs[i])
		if i > 1 {
			g.printf("__zn_string_release(%s);\n", acc)
		}
		acc = result
	}
	for _, tmp := range owned {
		g.printf("__zn_string_release(%s);\n", tmp)
	}
	return acc
}

// stringCoerce renders a single concatenation leaf, wrapping non-string
// values via the matching runtime `from_*` coercion.
func (g *Generator) stringCoerce(n *ast.Node) string {
	val := g.emit(n)
	if n.ResolvedType == nil {
		return val
	}
	switch n.ResolvedType.Kind {
	case types.String:
		return val
	case types.Int:
		return cprintf("__zn_string_from_int(%s)", val)
	case types.Float:
		return cprintf("__zn_string_from_float(%s)", val)
	case types.Bool:
		return cprintf("__zn_string_from_bool(%s)", val)
	case types.Char:
		return cprintf("__zn_string_from_char(%s)", val)
	default:
		return val
	}
}

func (g *Generator) emitIncDec(n *ast.Node) string {
	target := g.emit(n.Left)
	op := "++"
	if n.Op == ast.Dec {
		op = "--"
	}
	if n.IsPrefix {
		return cprintf("(%s%s)", op, target)
	}
	return cprintf("(%s%s)", target, op)
}

func (g *Generator) emitFieldAccess(n *ast.Node) string {
	obj := g.emit(n.Object)
	if n.IsDotInt {
		return cprintf("(%s)._%s", obj, n.Field)
	}
	accessor := "."
	if n.Object.ResolvedType != nil && n.Object.ResolvedType.Kind == types.Class {
		accessor = "->"
	}
	return cprintf("(%s)%s%s", obj, accessor, n.Field)
}

// emitIndexAccess renders `obj[idx]` for arrays and hashes, the two
// operand kinds the analyzer accepts for indexing. Array/hash element storage is
// untyped at the runtime layer, so the get macros take the C element type
// alongside the object and index/key and cast the returned slot pointer;
// an out-of-bounds array index or a missing hash key aborts the process
// (spec.md §7, same contract as unwrapping an empty optional). The String
// case renders a bounds-checked char read; the analyzer rejects indexing a
// string, so analyzed programs do not reach it.
func (g *Generator) emitIndexAccess(n *ast.Node) string {
	obj := g.emit(n.Object)
	idx := g.emit(n.Index)
	ot := n.Object.ResolvedType
	if ot == nil {
		return cprintf("__zn_array_get(%s, %s, void*)", obj, idx)
	}
	switch ot.Kind {
	case types.Hash:
		return cprintf("__zn_hash_get(%s, &(%s){%s}, %s)", obj, cType(ot.Key), idx, cType(ot.Elem))
	case types.String:
		return cprintf("__zn_string_char_at(%s, %s)", obj, idx)
	default:
		return cprintf("__zn_array_get(%s, %s, %s)", obj, idx, cType(ot.Elem))
	}
}

func (g *Generator) emitCall(n *ast.Node) string {
	if n.IsStructInit {
		return g.emitStructInit(n)
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v := a
		if v.Kind == ast.NamedArg {
			v = v.Right
		}
		args[i] = g.emit(v)
	}
	return cprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}

// emitStructInit renders a struct/class construction call as a C
// compound/designated initializer (value struct) or an alloc-then-assign
// sequence (class, since it's heap-allocated and refcounted).
func (g *Generator) emitStructInit(n *ast.Node) string {
	layout, ok := g.reg.Lookup(n.Name)
	if !ok {
		return cprintf("/* unknown type %s */ 0", n.Name)
	}
	values := make([]string, len(layout.Fields))
	for i := range layout.Fields {
		values[i] = "0"
	}
	named := len(n.Args) > 0 && n.Args[0].Kind == ast.NamedArg
	if named {
		provided := map[string]*ast.Node{}
		for _, a := range n.Args {
			provided[a.Name] = a.Right
		}
		for i, f := range layout.Fields {
			if v, ok := provided[f.Name]; ok {
				values[i] = g.emitAs(v, f.Type)
			} else if f.Default != nil {
				values[i] = g.emitAs(f.Default, f.Type)
			}
		}
	} else {
		for i, a := range n.Args {
			if i < len(layout.Fields) {
				values[i] = g.emitAs(a, layout.Fields[i].Type)
			}
		}
	}

	if !layout.IsClass {
		parts := make([]string, len(layout.Fields))
		for i, f := range layout.Fields {
			parts[i] = cprintf(".%s = %s", f.Name, values[i])
		}
		return cprintf("(%s){ %s }", layout.Name, strings.Join(parts, ", "))
	}

	tmp := g.nextTemp("obj")
	g.printf("%s* %s = __%s_alloc();\n", layout.Name, tmp, layout.Name)
	for i, f := range layout.Fields {
		g.printf("%s->%s = %s;\n", tmp, f.Name, values[i])
	}
	return tmp
}

func (g *Generator) emitTuple(n *ast.Node) string {
	elemTypes := make([]*types.TypeRef, len(n.Elements))
	values := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		elemTypes[i] = e.ResolvedType
		values[i] = g.emit(e)
	}
	name := g.reg.InternTuple(elemTypes)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cprintf("._%d = %s", i, v)
	}
	return cprintf("(%s){ %s }", name, strings.Join(parts, ", "))
}

func (g *Generator) emitObjectLiteral(n *ast.Node) string {
	names := make([]string, len(n.Elements))
	elemTypes := make([]*types.TypeRef, len(n.Elements))
	values := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		names[i] = e.Name
		elemTypes[i] = e.Right.ResolvedType
		values[i] = g.emit(e.Right)
	}
	name := g.reg.InternObject(names, elemTypes)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cprintf(".%s = %s", names[i], v)
	}
	return cprintf("(%s){ %s }", name, strings.Join(parts, ", "))
}

// emitArrayLiteral allocates with a capacity hint then pushes each element
// through the runtime (spec.md §4.4, "Container literals"): a fresh
// element is materialized into a local, pushed (which retains), then
// released, so the net refcount is correct without a spurious extra
// retain/release pair at the call site.
func (g *Generator) emitArrayLiteral(n *ast.Node) string {
	elemType := elementTypeOf(n)
	tmp := g.nextTemp("arr")
	g.printf("__zn_array* %s = __zn_array_alloc(%d, sizeof(%s), %s);\n",
		tmp, len(n.Elements), cType(elemType), collectionCallbacksArg(elemType))
	for _, e := range n.Elements {
		val := g.emit(e)
		if e.Fresh {
			local := g.nextTemp("elem")
			g.printf("%s %s = %s;\n", cType(elemType), local, val)
			g.printf("__zn_array_push(%s, &%s);\n", tmp, local)
			g.printf("%s\n", releaseExprFor(elemType, local))
		} else {
			g.printf("__zn_array_push(%s, &(%s){%s});\n", tmp, cType(elemType), val)
		}
	}
	return tmp
}

func (g *Generator) emitHashLiteral(n *ast.Node) string {
	keyType, valType := hashPairTypesOf(n)
	tmp := g.nextTemp("hash")
	g.printf("__zn_hash* %s = __zn_hash_alloc(%d, sizeof(%s), sizeof(%s), %s, %s);\n",
		tmp, len(n.Elements), cType(keyType), cType(valType), collectionCallbacksArg(keyType), collectionCallbacksArg(valType))
	for _, pair := range n.Elements {
		k := g.emit(pair.Key)
		v := g.emit(pair.Right)
		g.printf("__zn_hash_put(%s, &(%s){%s}, &(%s){%s});\n",
			tmp, cType(keyType), k, cType(valType), v)
	}
	return tmp
}

func elementTypeOf(n *ast.Node) *types.TypeRef {
	if n.Kind == ast.TypedEmptyArray {
		if n.ElemName != "" {
			return types.NewNamed(n.ElemKind, n.ElemName)
		}
		return types.New(n.ElemKind)
	}
	if n.ResolvedType != nil {
		return n.ResolvedType.Elem
	}
	return types.New(types.Unknown)
}

func hashPairTypesOf(n *ast.Node) (*types.TypeRef, *types.TypeRef) {
	if n.Kind == ast.TypedEmptyHash {
		key := types.New(n.KeyKind)
		if n.KeyName != "" {
			key = types.NewNamed(n.KeyKind, n.KeyName)
		}
		val := types.New(n.ValueKind)
		if n.ValueName != "" {
			val = types.NewNamed(n.ValueKind, n.ValueName)
		}
		return key, val
	}
	if n.ResolvedType != nil {
		return n.ResolvedType.Key, n.ResolvedType.Elem
	}
	return types.New(types.Unknown), types.New(types.Unknown)
}

// collectionCallbacksArg names the hash/eq/retain/val-release
// function-pointer quadruple a container allocator takes for a given
// element type: hash and eq drive bucket lookup, retain is invoked by
// push/put on the stored copy, val-release by pop/remove/the container's
// own release (spec.md §4.4). Primitive element types reuse fixed runtime
// wrappers; struct/class elements get the generated per-type callbacks
// (types.go).
func collectionCallbacksArg(t *types.TypeRef) string {
	if t == nil {
		return "__zn_hash_scalar, __zn_eq_scalar, __zn_retain_scalar, __zn_val_rel_scalar"
	}
	switch t.Kind {
	case types.Struct, types.Class:
		return cprintf("__zn_hash_%s, __zn_eq_%s, __zn_retain_%s, __zn_val_rel_%s", t.Name, t.Name, t.Name, t.Name)
	case types.String:
		return "__zn_hash_string, __zn_eq_string, __zn_retain_string, __zn_val_rel_string"
	default:
		return "__zn_hash_scalar, __zn_eq_scalar, __zn_retain_scalar, __zn_val_rel_scalar"
	}
}
