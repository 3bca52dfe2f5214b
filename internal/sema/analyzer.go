package sema

import (
	"fmt"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/types"
)

// valueCtx tracks the in-progress result type of one value-form if/while/
// for construct while its body is being analyzed: every break reachable
// without crossing into a nested value-form construct contributes to (and
// must agree with) this type (SPEC_FULL.md §6, Open Question (a)).
type valueCtx struct {
	resultType    *types.TypeRef
	set           bool
	statementForm bool
	line          int
}

// Analyzer performs type inference and validation over a parsed program,
// mirroring the original compiler's single-pass SemanticContext walk
// (spec.md §4.3) but accumulating diagnostics instead of stopping at the
// first error.
type Analyzer struct {
	reg    *Registry
	global *Scope
	diags  []Diagnostic

	funcReturn *types.TypeRef
	valueStack []*valueCtx
}

// NewAnalyzer returns an Analyzer with a fresh registry and global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{reg: NewRegistry(), global: NewScope()}
}

// Registry returns the type registry populated during Analyze.
func (a *Analyzer) Registry() *Registry { return a.reg }

func (a *Analyzer) errorf(line int, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Analyze walks prog, filling in ResolvedType/Fresh/StringID on every
// node and registering struct/class layouts. It returns an *AnalysisError
// if any diagnostics were accumulated; the driver must not generate code
// in that case (spec.md §7).
func (a *Analyzer) Analyze(prog *ast.Node) error {
	a.registerTypeDefs(prog)
	a.registerSignatures(prog)
	a.reg.Freeze()

	for _, top := range prog.Elements {
		switch top.Kind {
		case ast.TypeDef, ast.ExternBlock:
			// Already handled in the registration passes above.
		case ast.FuncDef:
			a.analyzeFuncBody(top)
		default:
			a.analyzeStmt(top, a.global)
		}
	}

	if len(a.diags) > 0 {
		return &AnalysisError{Diagnostics: a.diags}
	}
	return nil
}

// registerTypeDefs does a two-pass registration of struct/class layouts so
// mutually-referencing types resolve correctly: first every name is
// registered with an empty layout (so types.Resolve can tell struct from
// class), then fields are filled in.
func (a *Analyzer) registerTypeDefs(prog *ast.Node) {
	var defs []*ast.Node
	for _, top := range prog.Elements {
		if top.Kind != ast.TypeDef {
			continue
		}
		defs = append(defs, top)
		if err := a.reg.Register(&TypeLayout{Name: top.Name, IsClass: top.IsClass}); err != nil {
			a.errorf(top.Line, "%v", err)
		}
	}
	for _, def := range defs {
		layout, ok := a.reg.Lookup(def.Name)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		for _, f := range def.Fields {
			if seen[f.Name] {
				a.errorf(f.Line, "duplicate field %q in %q", f.Name, def.Name)
				continue
			}
			seen[f.Name] = true
			ft := types.Resolve(a.reg, f.TypeInfo)
			if f.Default != nil {
				dt := a.analyzeExpr(f.Default, a.global)
				if !assignable(ft, dt) {
					a.errorf(f.Line, "field %q default does not match declared type", f.Name)
				}
			}
			layout.Fields = append(layout.Fields, Field{
				Name: f.Name, Type: ft, IsConst: f.IsConst, IsWeak: f.IsWeak, Default: f.Default,
			})
			f.ResolvedType = ft
		}
	}
}

// registerSignatures registers every top-level function (and extern
// declaration) before any body is analyzed, enabling forward references
// and recursion (spec.md §4.2).
func (a *Analyzer) registerSignatures(prog *ast.Node) {
	for _, top := range prog.Elements {
		switch top.Kind {
		case ast.FuncDef:
			a.registerFuncSignature(top)
		case ast.ExternBlock:
			for _, decl := range top.Elements {
				switch decl.Kind {
				case ast.ExternFunc:
					a.registerFuncSignature(decl)
				case ast.ExternVar, ast.ExternLet:
					rt := types.Resolve(a.reg, decl.TypeInfo)
					decl.ResolvedType = rt
					a.global.Define(&Symbol{Name: decl.Name, Type: rt, IsConst: decl.Kind == ast.ExternLet})
				}
			}
		}
	}
}

func (a *Analyzer) registerFuncSignature(fn *ast.Node) {
	params := make([]*types.TypeRef, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = types.Resolve(a.reg, p.TypeInfo)
		p.ResolvedType = params[i]
	}
	var ret *types.TypeRef
	if fn.ReturnType != nil {
		ret = types.Resolve(a.reg, fn.ReturnType)
	} else {
		ret = types.New(types.Void)
	}
	fn.ResolvedType = ret
	if !a.global.Define(&Symbol{
		Name: fn.Name, IsFunc: true, ParamTypes: params, ReturnType: ret, Type: ret,
	}) {
		a.errorf(fn.Line, "function %q already declared", fn.Name)
	}
}

func (a *Analyzer) analyzeFuncBody(fn *ast.Node) {
	scope := a.global.Push()
	for _, p := range fn.Params {
		scope.Define(&Symbol{Name: p.Name, Type: p.ResolvedType})
	}
	prevRet := a.funcReturn
	a.funcReturn = fn.ResolvedType
	for _, stmt := range fn.Body.Elements {
		a.analyzeStmt(stmt, scope)
	}
	a.funcReturn = prevRet
}

// ---- statements ----

func (a *Analyzer) analyzeStmt(n *ast.Node, scope *Scope) {
	switch n.Kind {
	case ast.Block:
		inner := scope.Push()
		for _, s := range n.Elements {
			a.analyzeStmt(s, inner)
		}
	case ast.Decl:
		a.analyzeDecl(n, scope)
	case ast.Return:
		a.analyzeReturn(n, scope)
	case ast.Break:
		a.analyzeBreakContinue(n, scope, true)
	case ast.Continue:
		a.analyzeBreakContinue(n, scope, false)
	case ast.If:
		a.analyzeIf(n, scope)
	case ast.While:
		a.analyzeWhile(n, scope)
	case ast.For:
		a.analyzeFor(n, scope)
	default:
		a.analyzeExpr(n, scope)
	}
}

func (a *Analyzer) analyzeDecl(n *ast.Node, scope *Scope) {
	valueType := a.analyzeExpr(n.Right, scope)
	declType := valueType
	if n.TypeInfo != nil {
		declType = types.Resolve(a.reg, n.TypeInfo)
		if !assignable(declType, valueType) {
			a.errorf(n.Line, "cannot assign %v to declared type %v", valueType, declType)
		} else if declType.Optional && !valueType.Optional {
			n.Right.ResolvedType = declType // implicit optional wrap at the initializer site
		}
	}
	n.ResolvedType = declType
	if !scope.Define(&Symbol{Name: n.Name, Type: declType, IsConst: n.IsConst}) {
		a.errorf(n.Line, "%q already declared in this scope", n.Name)
	}
}

func (a *Analyzer) analyzeReturn(n *ast.Node, scope *Scope) {
	if n.Right == nil {
		if a.funcReturn != nil && a.funcReturn.Kind != types.Void {
			a.errorf(n.Line, "missing return value")
		}
		return
	}
	rt := a.analyzeExpr(n.Right, scope)
	if rt.Kind == types.Unknown && !rt.Optional {
		return // already reported inside the expression
	}
	if a.funcReturn != nil {
		if !assignable(a.funcReturn, rt) {
			a.errorf(n.Line, "return type %v does not match function return type %v", rt, a.funcReturn)
		} else if a.funcReturn.Optional && !rt.Optional {
			n.Right.ResolvedType = a.funcReturn
		}
	}
}

func (a *Analyzer) analyzeBreakContinue(n *ast.Node, scope *Scope, isBreak bool) {
	if len(a.valueStack) == 0 {
		if n.Right != nil {
			a.analyzeExpr(n.Right, scope)
		}
		a.errorf(n.Line, "%s outside of a loop", keyword(isBreak))
		return
	}
	top := a.valueStack[len(a.valueStack)-1]
	if !isBreak {
		if n.Right != nil {
			a.errorf(n.Line, "continue does not take a value")
		}
		return
	}
	if n.Right == nil {
		if !top.statementForm {
			a.errorf(n.Line, "value-form construct requires every break to carry a value")
		}
		return
	}
	bt := a.analyzeExpr(n.Right, scope)
	if top.statementForm {
		a.errorf(n.Line, "break with a value is not allowed in statement position")
		return
	}
	if !top.set {
		top.resultType = bt
		top.set = true
	} else {
		joined := types.Join(top.resultType, bt)
		if joined.Kind == types.Unknown && top.resultType.Kind != types.Unknown {
			a.errorf(n.Line, "break value type %v does not match earlier break type %v", bt, top.resultType)
		}
		top.resultType = joined
	}
}

func keyword(isBreak bool) string {
	if isBreak {
		return "break"
	}
	return "continue"
}

// analyzeIf analyzes an entire if/else-if/.../else chain as one unit: a
// single valueCtx frame (when used as an expression) collects every break
// reachable from any branch of the chain, so `if a {..} else if b {..}
// else {..}` used as a value yields one joined result type rather than
// one per link.
func (a *Analyzer) analyzeIf(n *ast.Node, scope *Scope) *types.TypeRef {
	if !n.StatementForm {
		a.valueStack = append(a.valueStack, &valueCtx{statementForm: false, line: n.Line})
	}

	a.analyzeIfChain(n, scope)

	if !n.StatementForm {
		top := a.valueStack[len(a.valueStack)-1]
		a.valueStack = a.valueStack[:len(a.valueStack)-1]
		if top.set {
			n.ResolvedType = top.resultType
		} else {
			n.ResolvedType = types.New(types.Void)
		}
		return n.ResolvedType
	}
	n.ResolvedType = types.New(types.Void)
	return n.ResolvedType
}

// analyzeIfChain analyzes one link of an if/else-if chain without
// touching the valueStack, so the whole chain shares its caller's frame.
func (a *Analyzer) analyzeIfChain(n *ast.Node, scope *Scope) {
	condType := a.analyzeExpr(n.Cond, scope)
	if condType.Kind != types.Bool {
		a.errorf(n.Cond.Line, "if condition must be bool, got %v", condType)
	}

	thenScope := scope
	if n.Cond.Kind == ast.OptionalCheck && n.Cond.Right.Kind == ast.Ident {
		if sym, ok := scope.Lookup(n.Cond.Right.Name); ok {
			narrowed := scope.Push()
			shadow := *sym
			shadow.Type = sym.Type.NonOptional()
			narrowed.DefineShadow(&shadow)
			thenScope = narrowed
		}
	}

	a.analyzeBlockIn(n.Then, thenScope)

	switch {
	case n.Else == nil:
		if !n.StatementForm {
			a.errorf(n.Line, "value-form if requires an else branch")
		}
	case n.Else.Kind == ast.If:
		a.analyzeIfChain(n.Else, scope)
	default:
		a.analyzeBlockIn(n.Else, scope)
	}
}

func (a *Analyzer) analyzeWhile(n *ast.Node, scope *Scope) *types.TypeRef {
	condType := a.analyzeExpr(n.Cond, scope)
	if condType.Kind != types.Bool {
		a.errorf(n.Cond.Line, "while condition must be bool, got %v", condType)
	}
	a.valueStack = append(a.valueStack, &valueCtx{statementForm: n.StatementForm, line: n.Line})
	a.analyzeBlockIn(n.Then, scope.Push())
	top := a.valueStack[len(a.valueStack)-1]
	a.valueStack = a.valueStack[:len(a.valueStack)-1]
	if !n.StatementForm && top.set {
		n.ResolvedType = top.resultType
	} else {
		n.ResolvedType = types.New(types.Void)
	}
	return n.ResolvedType
}

func (a *Analyzer) analyzeFor(n *ast.Node, scope *Scope) *types.TypeRef {
	loopScope := scope.Push()
	if n.Init != nil {
		a.analyzeStmt(n.Init, loopScope)
	}
	if n.Cond != nil {
		condType := a.analyzeExpr(n.Cond, loopScope)
		if condType.Kind != types.Bool {
			a.errorf(n.Cond.Line, "for condition must be bool, got %v", condType)
		}
	}
	if n.Update != nil {
		a.analyzeExpr(n.Update, loopScope)
	}
	a.valueStack = append(a.valueStack, &valueCtx{statementForm: n.StatementForm, line: n.Line})
	a.analyzeBlockIn(n.Then, loopScope.Push())
	top := a.valueStack[len(a.valueStack)-1]
	a.valueStack = a.valueStack[:len(a.valueStack)-1]
	if !n.StatementForm && top.set {
		n.ResolvedType = top.resultType
	} else {
		n.ResolvedType = types.New(types.Void)
	}
	return n.ResolvedType
}

// analyzeBlockIn analyzes a block's statements directly within scope
// rather than pushing another child scope, so a caller-supplied narrowed
// or loop-init scope is visible to the block's own declarations.
func (a *Analyzer) analyzeBlockIn(block *ast.Node, scope *Scope) {
	for _, s := range block.Elements {
		a.analyzeStmt(s, scope)
	}
}

// ---- expressions ----

func (a *Analyzer) analyzeExpr(n *ast.Node, scope *Scope) *types.TypeRef {
	var t *types.TypeRef
	switch n.Kind {
	case ast.IntLit:
		t = types.New(types.Int)
	case ast.FloatLit:
		t = types.New(types.Float)
	case ast.BoolLit:
		t = types.New(types.Bool)
	case ast.CharLit:
		t = types.New(types.Char)
	case ast.StringLit:
		n.StringID = -2 // placeholder; codegen's interning pass assigns the real id
		t = types.New(types.String)
	case ast.NoneLit:
		t = types.NewOptional(types.New(types.Unknown))
	case ast.Ident:
		t = a.analyzeIdent(n, scope)
	case ast.BinOp:
		t = a.analyzeBinOp(n, scope)
	case ast.UnaryOp:
		t = a.analyzeUnaryOp(n, scope)
	case ast.Assign:
		t = a.analyzeAssign(n, scope)
	case ast.CompoundAssign:
		t = a.analyzeCompoundAssign(n, scope)
	case ast.IncDec:
		t = a.analyzeIncDec(n, scope)
	case ast.OptionalCheck:
		inner := a.analyzeExpr(n.Right, scope)
		if !inner.Optional {
			a.errorf(n.Line, "'?' applied to non-optional type %v", inner)
		}
		t = types.New(types.Bool)
	case ast.Call:
		t = a.analyzeCall(n, scope)
	case ast.FieldAccess:
		t = a.analyzeFieldAccess(n, scope)
	case ast.IndexAccess:
		t = a.analyzeIndexAccess(n, scope)
	case ast.Tuple:
		t = a.analyzeTuple(n, scope)
	case ast.ObjectLiteral:
		t = a.analyzeObjectLiteral(n, scope)
	case ast.ArrayLiteral:
		t = a.analyzeArrayLiteral(n, scope)
	case ast.HashLiteral:
		t = a.analyzeHashLiteral(n, scope)
	case ast.TypedEmptyArray:
		elem := a.resolveElemRef(n.ElemKind, n.ElemName, n.Line)
		t = types.NewArray(elem)
		n.Fresh = true
	case ast.TypedEmptyHash:
		key := a.resolveElemRef(n.KeyKind, n.KeyName, n.Line)
		val := a.resolveElemRef(n.ValueKind, n.ValueName, n.Line)
		t = types.NewHash(key, val)
		n.Fresh = true
	case ast.If:
		t = a.analyzeIf(n, scope)
	case ast.While:
		t = a.analyzeWhile(n, scope)
	case ast.For:
		t = a.analyzeFor(n, scope)
	default:
		t = types.New(types.Unknown)
	}
	n.ResolvedType = t
	return t
}

func (a *Analyzer) analyzeIdent(n *ast.Node, scope *Scope) *types.TypeRef {
	sym, ok := scope.Lookup(n.Name)
	if !ok {
		a.errorf(n.Line, "undefined identifier %q", n.Name)
		return types.New(types.Unknown)
	}
	n.Fresh = false
	return sym.Type
}

func (a *Analyzer) analyzeBinOp(n *ast.Node, scope *Scope) *types.TypeRef {
	lt := a.analyzeExpr(n.Left, scope)
	rt := a.analyzeExpr(n.Right, scope)

	if n.Op == ast.Add && (lt.Kind == types.String || rt.Kind == types.String) {
		if !coercibleToString(lt) || !coercibleToString(rt) {
			a.errorf(n.Line, "cannot concatenate %v and %v", lt, rt)
		}
		n.Fresh = true
		return types.New(types.String)
	}

	if n.Op.IsLogical() {
		if lt.Kind != types.Bool || rt.Kind != types.Bool {
			a.errorf(n.Line, "logical operator requires bool operands, got %v and %v", lt, rt)
		}
		return types.New(types.Bool)
	}

	if n.Op.IsComparison() {
		if n.Op == ast.Eq || n.Op == ast.Ne {
			if !types.Equal(lt, rt) && !(isNumeric(lt) && isNumeric(rt)) {
				a.errorf(n.Line, "cannot compare %v and %v", lt, rt)
			}
		} else if !isNumeric(lt) || !isNumeric(rt) {
			a.errorf(n.Line, "ordering operator requires numeric operands, got %v and %v", lt, rt)
		}
		return types.New(types.Bool)
	}

	// Arithmetic.
	if !isNumeric(lt) || !isNumeric(rt) {
		a.errorf(n.Line, "arithmetic operator requires numeric operands, got %v and %v", lt, rt)
		return types.New(types.Unknown)
	}
	if lt.Kind == types.Float || rt.Kind == types.Float {
		return types.New(types.Float)
	}
	return types.New(types.Int)
}

func (a *Analyzer) analyzeUnaryOp(n *ast.Node, scope *Scope) *types.TypeRef {
	rt := a.analyzeExpr(n.Right, scope)
	switch n.Op {
	case ast.Neg:
		if !isNumeric(rt) {
			a.errorf(n.Line, "unary '-' requires a numeric operand, got %v", rt)
		}
		return rt
	case ast.Not:
		if rt.Kind != types.Bool {
			a.errorf(n.Line, "unary '!' requires a bool operand, got %v", rt)
		}
		return types.New(types.Bool)
	}
	return types.New(types.Unknown)
}

func (a *Analyzer) analyzeAssign(n *ast.Node, scope *Scope) *types.TypeRef {
	lt := a.analyzeLvalue(n.Left, scope)
	rt := a.analyzeExpr(n.Right, scope)
	if lt.Kind != types.Unknown && !assignable(lt, rt) {
		a.errorf(n.Line, "cannot assign %v to %v", rt, lt)
	} else if lt.Optional && !rt.Optional {
		n.Right.ResolvedType = lt
	}
	return lt
}

func (a *Analyzer) analyzeCompoundAssign(n *ast.Node, scope *Scope) *types.TypeRef {
	lt := a.analyzeLvalue(n.Left, scope)
	rt := a.analyzeExpr(n.Right, scope)
	if n.Op == ast.AddAssign && lt.Kind == types.String {
		if !coercibleToString(rt) {
			a.errorf(n.Line, "cannot append %v to a string", rt)
		}
		return lt
	}
	if !isNumeric(lt) || !isNumeric(rt) {
		a.errorf(n.Line, "compound assignment requires numeric operands, got %v and %v", lt, rt)
	}
	return lt
}

func (a *Analyzer) analyzeIncDec(n *ast.Node, scope *Scope) *types.TypeRef {
	lt := a.analyzeLvalue(n.Left, scope)
	if !isNumeric(lt) {
		a.errorf(n.Line, "'++'/'--' requires a numeric operand, got %v", lt)
	}
	return lt
}

// analyzeLvalue resolves the type of an assignment/incdec target and
// flags const violations, mirroring the original compiler's check_lvalue.
func (a *Analyzer) analyzeLvalue(n *ast.Node, scope *Scope) *types.TypeRef {
	switch n.Kind {
	case ast.Ident:
		sym, ok := scope.Lookup(n.Name)
		if !ok {
			a.errorf(n.Line, "undefined identifier %q", n.Name)
			return types.New(types.Unknown)
		}
		if sym.IsConst {
			a.errorf(n.Line, "cannot assign to const %q", n.Name)
		}
		n.ResolvedType = sym.Type
		return sym.Type
	case ast.FieldAccess:
		t := a.analyzeFieldAccess(n, scope)
		if layout, ok := a.layoutOf(n.Object.ResolvedType); ok {
			if idx := layout.FieldIndex(n.Field); idx >= 0 && layout.Fields[idx].IsConst {
				a.errorf(n.Line, "cannot assign to const field %q", n.Field)
			}
		}
		return t
	case ast.IndexAccess:
		return a.analyzeIndexAccess(n, scope)
	default:
		a.errorf(n.Line, "invalid assignment target")
		return types.New(types.Unknown)
	}
}

func (a *Analyzer) layoutOf(t *types.TypeRef) (*TypeLayout, bool) {
	if t == nil || (t.Kind != types.Struct && t.Kind != types.Class) {
		return nil, false
	}
	return a.reg.Lookup(t.Name)
}

func (a *Analyzer) analyzeFieldAccess(n *ast.Node, scope *Scope) *types.TypeRef {
	ot := a.analyzeExpr(n.Object, scope)
	layout, ok := a.layoutOf(ot)
	if !ok {
		a.errorf(n.Line, "field access on non-struct/class type %v", ot)
		return types.New(types.Unknown)
	}
	idx := layout.FieldIndex(n.Field)
	if idx < 0 {
		a.errorf(n.Line, "type %q has no field %q", layout.Name, n.Field)
		return types.New(types.Unknown)
	}
	return layout.Fields[idx].Type
}

func (a *Analyzer) analyzeIndexAccess(n *ast.Node, scope *Scope) *types.TypeRef {
	ot := a.analyzeExpr(n.Object, scope)
	it := a.analyzeExpr(n.Index, scope)
	switch ot.Kind {
	case types.Array:
		if it.Kind != types.Int {
			a.errorf(n.Line, "array index must be int, got %v", it)
		}
		return ot.Elem
	case types.Hash:
		if !types.Equal(ot.Key, it) {
			a.errorf(n.Line, "hash key type mismatch: expected %v, got %v", ot.Key, it)
		}
		return ot.Elem
	default:
		a.errorf(n.Line, "indexing requires an array or hash, got %v", ot)
		return types.New(types.Unknown)
	}
}

func (a *Analyzer) analyzeTuple(n *ast.Node, scope *Scope) *types.TypeRef {
	elems := make([]*types.TypeRef, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = a.analyzeExpr(e, scope)
	}
	name := a.reg.InternTuple(elems)
	n.Fresh = true
	return types.NewNamed(types.Struct, name)
}

func (a *Analyzer) analyzeObjectLiteral(n *ast.Node, scope *Scope) *types.TypeRef {
	names := make([]string, len(n.Elements))
	elems := make([]*types.TypeRef, len(n.Elements))
	for i, field := range n.Elements {
		names[i] = field.Name
		elems[i] = a.analyzeExpr(field.Right, scope)
		field.ResolvedType = elems[i]
	}
	name := a.reg.InternObject(names, elems)
	n.Fresh = true
	return types.NewNamed(types.Struct, name)
}

func (a *Analyzer) analyzeArrayLiteral(n *ast.Node, scope *Scope) *types.TypeRef {
	if len(n.Elements) == 0 {
		a.errorf(n.Line, "internal: empty array literal without a typed-empty form")
		return types.NewArray(types.New(types.Unknown))
	}
	elem := a.analyzeExpr(n.Elements[0], scope)
	for _, e := range n.Elements[1:] {
		et := a.analyzeExpr(e, scope)
		if !types.Equal(elem, et) {
			a.errorf(e.Line, "array element type %v does not match %v", et, elem)
		}
	}
	n.Fresh = true
	return types.NewArray(elem)
}

func (a *Analyzer) analyzeHashLiteral(n *ast.Node, scope *Scope) *types.TypeRef {
	if len(n.Elements) == 0 {
		a.errorf(n.Line, "internal: empty hash literal without a typed-empty form")
		return types.NewHash(types.New(types.Unknown), types.New(types.Unknown))
	}
	first := n.Elements[0]
	keyType := a.analyzeExpr(first.Key, scope)
	valType := a.analyzeExpr(first.Right, scope)
	for _, pair := range n.Elements[1:] {
		kt := a.analyzeExpr(pair.Key, scope)
		vt := a.analyzeExpr(pair.Right, scope)
		if !types.Equal(keyType, kt) {
			a.errorf(pair.Line, "hash key type %v does not match %v", kt, keyType)
		}
		if !types.Equal(valType, vt) {
			a.errorf(pair.Line, "hash value type %v does not match %v", vt, valType)
		}
	}
	n.Fresh = true
	return types.NewHash(keyType, valType)
}

func (a *Analyzer) resolveElemRef(kind types.Kind, name string, line int) *types.TypeRef {
	if kind != types.Unknown {
		return types.New(kind)
	}
	if a.reg.IsClass(name) {
		return types.NewNamed(types.Class, name)
	}
	if a.reg.IsRegistered(name) {
		return types.NewNamed(types.Struct, name)
	}
	a.errorf(line, "unknown type %q", name)
	return types.New(types.Unknown)
}

func (a *Analyzer) analyzeCall(n *ast.Node, scope *Scope) *types.TypeRef {
	if layout, ok := a.reg.Lookup(n.Name); ok {
		return a.analyzeStructInit(n, layout, scope)
	}
	sym, ok := a.global.Lookup(n.Name)
	if !ok || !sym.IsFunc {
		a.errorf(n.Line, "call to undefined function %q", n.Name)
		for _, arg := range n.Args {
			a.analyzeArgExpr(arg, scope)
		}
		return types.New(types.Unknown)
	}
	if len(n.Args) != len(sym.ParamTypes) {
		a.errorf(n.Line, "function %q expects %d argument(s), got %d", n.Name, len(sym.ParamTypes), len(n.Args))
	}
	for i, arg := range n.Args {
		at := a.analyzeArgExpr(arg, scope)
		if i >= len(sym.ParamTypes) {
			continue
		}
		pt := sym.ParamTypes[i]
		if !assignable(pt, at) {
			a.errorf(arg.Line, "argument %d: cannot pass %v as %v", i+1, at, pt)
		} else if pt.Optional && !at.Optional {
			arg.ResolvedType = pt
		}
	}
	n.Fresh = sym.ReturnType.IsRefcounted()
	return sym.ReturnType
}

func (a *Analyzer) analyzeArgExpr(arg *ast.Node, scope *Scope) *types.TypeRef {
	if arg.Kind == ast.NamedArg {
		return a.analyzeExpr(arg.Right, scope)
	}
	return a.analyzeExpr(arg, scope)
}

func (a *Analyzer) analyzeStructInit(n *ast.Node, layout *TypeLayout, scope *Scope) *types.TypeRef {
	n.IsStructInit = true
	resultType := types.NewNamed(types.Struct, layout.Name)
	if layout.IsClass {
		resultType = types.NewNamed(types.Class, layout.Name)
	}

	named := false
	for _, arg := range n.Args {
		if arg.Kind == ast.NamedArg {
			named = true
			break
		}
	}

	provided := make(map[string]bool)
	if named {
		for _, arg := range n.Args {
			if arg.Kind != ast.NamedArg {
				a.errorf(arg.Line, "cannot mix positional and named arguments in %q", layout.Name)
				continue
			}
			idx := layout.FieldIndex(arg.Name)
			if idx < 0 {
				a.errorf(arg.Line, "%q has no field %q", layout.Name, arg.Name)
				continue
			}
			field := layout.Fields[idx]
			at := a.analyzeExpr(arg.Right, scope)
			if !assignable(field.Type, at) {
				a.errorf(arg.Line, "field %q: cannot assign %v to %v", arg.Name, at, field.Type)
			} else if field.Type.Optional && !at.Optional {
				arg.Right.ResolvedType = field.Type
			}
			provided[arg.Name] = true
		}
		for _, f := range layout.Fields {
			if !provided[f.Name] && f.Default == nil {
				a.errorf(n.Line, "missing required field %q in %q", f.Name, layout.Name)
			}
		}
	} else {
		if len(n.Args) > len(layout.Fields) {
			a.errorf(n.Line, "too many arguments for %q", layout.Name)
		}
		for i, arg := range n.Args {
			if i >= len(layout.Fields) {
				a.analyzeExpr(arg, scope)
				continue
			}
			field := layout.Fields[i]
			at := a.analyzeExpr(arg, scope)
			if !assignable(field.Type, at) {
				a.errorf(arg.Line, "field %q: cannot assign %v to %v", field.Name, at, field.Type)
			} else if field.Type.Optional && !at.Optional {
				arg.ResolvedType = field.Type
			}
		}
		for i := len(n.Args); i < len(layout.Fields); i++ {
			if layout.Fields[i].Default == nil {
				a.errorf(n.Line, "missing required field %q in %q", layout.Fields[i].Name, layout.Name)
			}
		}
	}

	n.Fresh = layout.IsClass
	return resultType
}

func isNumeric(t *types.TypeRef) bool {
	return t.Kind == types.Int || t.Kind == types.Float
}

func coercibleToString(t *types.TypeRef) bool {
	switch t.Kind {
	case types.String, types.Int, types.Float, types.Bool, types.Char:
		return true
	default:
		return false
	}
}

// assignable reports whether a value of type from can be stored into a
// binding/parameter/field of type to, allowing the one implicit
// conversion spec.md names: wrapping a non-optional primitive into a
// primitive-optional of the same base kind (spec.md §4.3).
func assignable(to, from *types.TypeRef) bool {
	if types.Equal(to, from) {
		return true
	}
	if to.Optional && from.Optional && from.Kind == types.Unknown {
		return true // `none` assigned to any optional type
	}
	if to.Optional && !from.Optional && to.IsPrimitive() && from.IsPrimitive() && to.Kind == from.Kind {
		return true
	}
	return false
}

