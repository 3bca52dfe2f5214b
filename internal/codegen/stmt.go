package codegen

import (
	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/types"
)

// emitFuncDef emits one user function's full definition: signature, a
// fresh ARC scope stack, its body statements, and the releases of the
// function scope's bindings. No implicit return is synthesized: a trailing
// expression statement is emitted as a plain statement, and the function
// returns a value only through an explicit `return`.
func (g *Generator) emitFuncDef(fn *ast.Node) {
	g.scopes = NewScopeTracker()
	g.lastLine = 0

	g.printf("%s {\n", g.funcSignature(fn))
	g.scopes.Push(false)
	g.emitStmtList(fn.Body.Elements)
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n\n")
}

// emitStmtList emits each statement of a block in order within the
// current (already-pushed) ARC scope.
func (g *Generator) emitStmtList(stmts []*ast.Node) {
	for _, s := range stmts {
		g.emitStmt(s)
	}
}

// emitBlockScoped pushes a new ARC scope, emits stmts, then pops it and
// releases its bindings in reverse declaration order (spec.md §4.4,
// "State machines": Pop on normal block exit).
func (g *Generator) emitBlockScoped(block *ast.Node, isLoop bool) {
	g.printf("{\n")
	g.scopes.Push(isLoop)
	g.emitStmtList(block.Elements)
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n")
}

func (g *Generator) emitStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Block:
		g.emitBlockScoped(n, false)
	case ast.Decl:
		g.emitDecl(n)
	case ast.Return:
		g.emitReturn(n)
	case ast.Break:
		g.emitBreakContinue(n, true)
	case ast.Continue:
		g.emitBreakContinue(n, false)
	case ast.If:
		g.emitStmtIf(n)
	case ast.While:
		g.emitStmtWhile(n)
	case ast.For:
		g.emitStmtFor(n)
	case ast.Assign:
		g.emitLine(n)
		g.printf("%s\n", g.assignStmt(n))
	case ast.CompoundAssign:
		g.emitLine(n)
		g.printf("%s\n", g.compoundAssignStmt(n))
	case ast.IncDec:
		g.emitLine(n)
		g.printf("%s;\n", g.emit(n))
	default:
		g.emitLine(n)
		g.printf("%s;\n", g.emit(n))
	}
}

// emitDecl emits a `let`/`var` binding: evaluate the initializer, retain it
// (unless it's fresh), store it, and record it in the current ARC scope so
// it's released at scope exit (spec.md §4.4, "Statement emission").
func (g *Generator) emitDecl(n *ast.Node) {
	g.emitLine(n)
	target := n.ResolvedType
	if target == nil {
		target = n.Right.ResolvedType
	}
	val := g.emitAs(n.Right, target)
	g.printf("%s %s = %s;\n", cType(target), n.Name, val)
	if !n.Right.Fresh {
		g.printf("%s\n", retainExprFor(target, n.Name))
	}
	g.scopes.AddRef(n.Name, target)
}

// emitReturn releases every enclosing ARC scope after first evaluating and
// retaining the returned value into a local temp (spec.md §4.4).
func (g *Generator) emitReturn(n *ast.Node) {
	g.emitLine(n)
	if n.Right == nil {
		for _, b := range g.scopes.PopAll() {
			g.printf("%s\n", releaseExprFor(b.Type, b.Name))
		}
		g.printf("return;\n")
		return
	}
	val := g.emit(n.Right)
	tmp := g.nextTemp("ret")
	retType := n.Right.ResolvedType
	g.printf("%s %s = %s;\n", cType(retType), tmp, val)
	if !n.Right.Fresh {
		g.printf("%s\n", retainExprFor(retType, tmp))
	}
	for _, b := range g.scopes.PopAll() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("return %s;\n", tmp)
}

// emitBreakContinue first, for a `break` carrying a value in expression
// position, publishes that value into the enclosing result temp and
// retains it unless it is fresh (retain-before-release); then it emits
// all releases for every ARC scope from the current scope up to and
// including the nearest loop scope, and finally the jump (spec.md §4.4).
func (g *Generator) emitBreakContinue(n *ast.Node, isBreak bool) {
	g.emitLine(n)
	if isBreak && n.Right != nil && g.currentLoopResult != "" {
		val := g.emit(n.Right)
		resultType := n.Right.ResolvedType
		g.printf("%s = %s;\n", g.currentLoopResult, val)
		if !n.Right.Fresh {
			g.printf("%s\n", retainExprFor(resultType, g.currentLoopResult))
		}
	}
	for _, b := range g.scopes.PopThroughLoop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	if isBreak {
		g.printf("break;\n")
	} else {
		g.printf("continue;\n")
	}
}

// assignStmt renders a plain assignment using retain-before-release order
// when the RHS is not fresh, safe under self-assignment and aliasing
// (spec.md §4.4). Field assignments to class objects pre-evaluate the
// object pointer and the RHS into temporaries first.
func (g *Generator) assignStmt(n *ast.Node) string {
	rhs := g.emit(n.Right)
	t := n.Right.ResolvedType

	if n.Left.Kind == ast.FieldAccess && n.Left.Object.ResolvedType != nil && n.Left.Object.ResolvedType.Kind == types.Class {
		objTmp := g.nextTemp("recv")
		valTmp := g.nextTemp("val")
		g.printf("%s* %s = %s;\n", n.Left.Object.ResolvedType.Name, objTmp, g.emit(n.Left.Object))
		g.printf("%s %s = %s;\n", cType(t), valTmp, rhs)
		if !t.IsRefcounted() {
			return cprintf("%s->%s = %s;", objTmp, n.Left.Field, valTmp)
		}
		if !n.Right.Fresh {
			return cprintf("%s\n%s->%s = %s;", retainExprFor(t, valTmp), objTmp, n.Left.Field, valTmp)
		}
		old := g.nextTemp("old")
		g.printf("%s %s = %s->%s;\n", cType(t), old, objTmp, n.Left.Field)
		g.printf("%s->%s = %s;\n", objTmp, n.Left.Field, valTmp)
		return releaseExprFor(t, old)
	}

	target := g.emit(n.Left)
	if !t.IsRefcounted() {
		return cprintf("%s = %s;", target, rhs)
	}
	if n.Right.Fresh {
		old := g.nextTemp("old")
		g.printf("%s %s = %s;\n", cType(t), old, target)
		g.printf("%s = %s;\n", target, rhs)
		return releaseExprFor(t, old)
	}
	valTmp := g.nextTemp("val")
	g.printf("%s %s = %s;\n", cType(t), valTmp, rhs)
	g.printf("%s\n", retainExprFor(t, valTmp))
	old := g.nextTemp("old")
	g.printf("%s %s = %s;\n", cType(t), old, target)
	g.printf("%s = %s;\n", target, valTmp)
	return releaseExprFor(t, old)
}

func (g *Generator) compoundAssignStmt(n *ast.Node) string {
	target := g.emit(n.Left)
	rhs := g.emit(n.Right)
	op := compoundOp(n.Op)
	return cprintf("%s %s %s;", target, op, rhs)
}

func compoundOp(op ast.Op) string {
	switch op {
	case ast.AddAssign:
		return "+="
	case ast.SubAssign:
		return "-="
	case ast.MulAssign:
		return "*="
	case ast.DivAssign:
		return "/="
	case ast.ModAssign:
		return "%="
	default:
		return "="
	}
}

// --- statement-form if/while/for: no result temp, plain C control flow ---

func (g *Generator) emitStmtIf(n *ast.Node) {
	g.emitIfChain(n, false, "")
}

func (g *Generator) emitIfChain(n *ast.Node, asValue bool, resultVar string) {
	g.emitLine(n)
	g.printf("if (%s) ", g.emit(n.Cond))
	g.emitBranchBody(n.Then, asValue, resultVar)
	if n.Else == nil {
		g.printf("\n")
		return
	}
	g.printf(" else ")
	if n.Else.Kind == ast.If {
		g.emitIfChain(n.Else, asValue, resultVar)
	} else {
		g.emitBranchBody(n.Else, asValue, resultVar)
		g.printf("\n")
	}
}

func (g *Generator) emitBranchBody(block *ast.Node, asValue bool, resultVar string) {
	if !asValue {
		g.emitBlockScoped(block, false)
		return
	}
	prevResult := g.currentLoopResult
	g.currentLoopResult = resultVar
	g.emitBlockScoped(block, false)
	g.currentLoopResult = prevResult
}

func (g *Generator) emitStmtWhile(n *ast.Node) {
	g.emitLine(n)
	g.printf("while (%s) ", g.emit(n.Cond))
	g.scopes.Push(true)
	prev := g.currentLoopResult
	g.currentLoopResult = "" // statement-form: a nested break carries no value
	g.printf("{\n")
	g.emitStmtList(n.Then.Elements)
	g.currentLoopResult = prev
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n")
}

func (g *Generator) emitStmtFor(n *ast.Node) {
	g.emitLine(n)
	g.scopes.Push(true)
	init := ""
	if n.Init != nil {
		init = g.forInitExpr(n.Init)
	}
	cond := ""
	if n.Cond != nil {
		cond = g.emit(n.Cond)
	}
	update := ""
	if n.Update != nil {
		update = g.emit(n.Update)
	}
	g.printf("for (%s; %s; %s) {\n", init, cond, update)
	prev := g.currentLoopResult
	g.currentLoopResult = ""
	g.emitStmtList(n.Then.Elements)
	g.currentLoopResult = prev
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n")
}

// forInitExpr renders a for-loop's init clause inline (it's parsed as a
// full Decl statement, but C's for(;;) needs it as a bare clause).
func (g *Generator) forInitExpr(n *ast.Node) string {
	if n.Kind != ast.Decl {
		return g.emit(n)
	}
	target := n.Right.ResolvedType
	val := g.emitAs(n.Right, target)
	g.scopes.AddRef(n.Name, target)
	return cprintf("%s %s = %s", cType(target), n.Name, val)
}

// --- value-form if/while/for: desugared to a result temp declared ahead
// of the control-flow statement, published into by every break/else arm.

func (g *Generator) emitValueIf(n *ast.Node) string {
	resultType := n.ResolvedType
	tmp := g.nextIfTemp()
	g.printf("%s %s;\n", cType(resultType), tmp)
	g.emitValueIfChain(n, tmp)
	return tmp
}

func (g *Generator) emitValueIfChain(n *ast.Node, resultVar string) {
	g.emitLine(n)
	g.printf("if (%s) ", g.emit(n.Cond))
	g.emitValueIfBranch(n.Then, resultVar)
	if n.Else == nil {
		g.printf("\n")
		return
	}
	g.printf(" else ")
	if n.Else.Kind == ast.If {
		g.emitValueIfChain(n.Else, resultVar)
	} else {
		g.emitValueIfBranch(n.Else, resultVar)
		g.printf("\n")
	}
}

func (g *Generator) emitValueIfBranch(block *ast.Node, resultVar string) {
	g.printf("{\n")
	g.scopes.Push(false)
	prev := g.currentLoopResult
	g.currentLoopResult = resultVar
	g.emitStmtList(block.Elements)
	g.currentLoopResult = prev
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}")
}

func (g *Generator) emitValueWhile(n *ast.Node) string {
	resultType := n.ResolvedType
	tmp := g.nextLoopTemp()
	g.printf("%s %s;\n", cType(resultType), tmp)
	g.emitLine(n)
	g.printf("while (%s) {\n", g.emit(n.Cond))
	g.scopes.Push(true)
	prev := g.currentLoopResult
	g.currentLoopResult = tmp
	g.emitStmtList(n.Then.Elements)
	g.currentLoopResult = prev
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n")
	return tmp
}

func (g *Generator) emitValueFor(n *ast.Node) string {
	resultType := n.ResolvedType
	tmp := g.nextLoopTemp()
	g.printf("%s %s;\n", cType(resultType), tmp)
	g.emitLine(n)
	g.scopes.Push(true)
	init := ""
	if n.Init != nil {
		init = g.forInitExpr(n.Init)
	}
	cond := ""
	if n.Cond != nil {
		cond = g.emit(n.Cond)
	}
	update := ""
	if n.Update != nil {
		update = g.emit(n.Update)
	}
	g.printf("for (%s; %s; %s) {\n", init, cond, update)
	prev := g.currentLoopResult
	g.currentLoopResult = tmp
	g.emitStmtList(n.Then.Elements)
	g.currentLoopResult = prev
	for _, b := range g.scopes.Pop() {
		g.printf("%s\n", releaseExprFor(b.Type, b.Name))
	}
	g.printf("}\n")
	return tmp
}
