package parser

import (
	"testing"

	"github.com/redodson01/zinc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	p, err := New(src, "test.zn")
	if err != nil {
		t.Fatalf("lexer init: %v", err)
	}
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestParseDeclWithAnnotation(t *testing.T) {
	prog := mustParse(t, `var x: int? = 5;`)
	if len(prog.Elements) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(prog.Elements))
	}
	decl := prog.Elements[0]
	if decl.Kind != ast.Decl || decl.Name != "x" || decl.IsConst {
		t.Fatalf("unexpected decl node: %+v", decl)
	}
	if decl.TypeInfo == nil || !decl.TypeInfo.Optional {
		t.Fatalf("expected optional type annotation, got %+v", decl.TypeInfo)
	}
}

func TestParseLetIsConst(t *testing.T) {
	prog := mustParse(t, `let y = 3;`)
	decl := prog.Elements[0]
	if !decl.IsConst {
		t.Fatalf("expected let decl to be const")
	}
}

func TestParseFuncDef(t *testing.T) {
	prog := mustParse(t, `func add(a: int, b: int): int { return a + b; }`)
	fn := prog.Elements[0]
	if fn.Kind != ast.FuncDef || fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected func node: %+v", fn)
	}
	ret := fn.Body.Elements[0]
	if ret.Kind != ast.Return || ret.Right.Kind != ast.BinOp || ret.Right.Op != ast.Add {
		t.Fatalf("unexpected return body: %+v", ret)
	}
}

func TestParseStructDef(t *testing.T) {
	prog := mustParse(t, `struct Point { x: int = 0, y: int = 0 }`)
	td := prog.Elements[0]
	if td.Kind != ast.TypeDef || td.IsClass || len(td.Fields) != 2 {
		t.Fatalf("unexpected type def: %+v", td)
	}
	if td.Fields[0].Default == nil {
		t.Fatalf("expected default on first field")
	}
}

func TestParseClassWithWeakField(t *testing.T) {
	prog := mustParse(t, `class Box { var x: int = 0 weak parent: Box? = 0 }`)
	td := prog.Elements[0]
	if !td.IsClass {
		t.Fatalf("expected class")
	}
	if td.Fields[1].Name != "parent" || !td.Fields[1].IsWeak {
		t.Fatalf("expected weak parent field: %+v", td.Fields[1])
	}
	if td.Fields[0].IsConst {
		t.Fatalf("var field should not be const")
	}
}

func TestParseIfAsStatementVsExpression(t *testing.T) {
	stmtProg := mustParse(t, `func f(): void { if true { let a = 1; } }`)
	ifStmt := stmtProg.Elements[0].Body.Elements[0]
	if ifStmt.Kind != ast.If || !ifStmt.StatementForm {
		t.Fatalf("expected statement-form if: %+v", ifStmt)
	}

	exprProg := mustParse(t, `func f(): int { let a = if true { break 1; } else { break 2; }; return a; }`)
	decl := exprProg.Elements[0].Body.Elements[0]
	if decl.Right.Kind != ast.If || decl.Right.StatementForm {
		t.Fatalf("expected value-form if: %+v", decl.Right)
	}
}

func TestParseCallWithNamedArgs(t *testing.T) {
	prog := mustParse(t, `let p = Point(x: 1, y: 2);`)
	call := prog.Elements[0].Right
	if call.Kind != ast.Call || call.Name != "Point" || len(call.Args) != 2 {
		t.Fatalf("unexpected call node: %+v", call)
	}
	if call.Args[0].Kind != ast.NamedArg || call.Args[0].Name != "x" {
		t.Fatalf("expected named arg x: %+v", call.Args[0])
	}
}

func TestParseTuplePositionalAccess(t *testing.T) {
	prog := mustParse(t, `let t = (1, "a"); let first = t.0;`)
	tuple := prog.Elements[0].Right
	if tuple.Kind != ast.Tuple || len(tuple.Elements) != 2 {
		t.Fatalf("unexpected tuple: %+v", tuple)
	}
	fa := prog.Elements[1].Right
	if fa.Kind != ast.FieldAccess || !fa.IsDotInt || fa.Field != "0" {
		t.Fatalf("unexpected dot-int access: %+v", fa)
	}
}

func TestParseArrayAndTypedEmptyArray(t *testing.T) {
	prog := mustParse(t, `let a = [1, 2, 3]; let b = []int;`)
	arr := prog.Elements[0].Right
	if arr.Kind != ast.ArrayLiteral || len(arr.Elements) != 3 {
		t.Fatalf("unexpected array literal: %+v", arr)
	}
	empty := prog.Elements[1].Right
	if empty.Kind != ast.TypedEmptyArray {
		t.Fatalf("unexpected typed empty array: %+v", empty)
	}
}

func TestParseHashAndTypedEmptyHash(t *testing.T) {
	prog := mustParse(t, `let h = {"a": 1}; let e = {}[string, int];`)
	hash := prog.Elements[0].Right
	if hash.Kind != ast.HashLiteral || len(hash.Elements) != 1 {
		t.Fatalf("unexpected hash literal: %+v", hash)
	}
	empty := prog.Elements[1].Right
	if empty.Kind != ast.TypedEmptyHash {
		t.Fatalf("unexpected typed empty hash: %+v", empty)
	}
}

func TestParseObjectLiteral(t *testing.T) {
	prog := mustParse(t, `let o = object { a: 1, b: 2 };`)
	obj := prog.Elements[0].Right
	if obj.Kind != ast.ObjectLiteral || len(obj.Elements) != 2 {
		t.Fatalf("unexpected object literal: %+v", obj)
	}
}

func TestParseOptionalCheckNarrowing(t *testing.T) {
	prog := mustParse(t, `func f(x: int?): int { if x? { return x; } return 0; }`)
	ifNode := prog.Elements[0].Body.Elements[0]
	if ifNode.Cond.Kind != ast.OptionalCheck {
		t.Fatalf("expected optional_check condition: %+v", ifNode.Cond)
	}
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, `func f(): void { for var i = 0; i < 10; i++ { } }`)
	forNode := prog.Elements[0].Body.Elements[0]
	if forNode.Kind != ast.For || forNode.Init.Kind != ast.Decl {
		t.Fatalf("unexpected for node: %+v", forNode)
	}
	if forNode.Update.Kind != ast.IncDec {
		t.Fatalf("expected incdec update: %+v", forNode.Update)
	}
}

func TestParseExternBlock(t *testing.T) {
	prog := mustParse(t, `extern { func zn_puts(s: string): void; var counter: int; }`)
	block := prog.Elements[0]
	if block.Kind != ast.ExternBlock || len(block.Elements) != 2 {
		t.Fatalf("unexpected extern block: %+v", block)
	}
	if block.Elements[0].Kind != ast.ExternFunc {
		t.Fatalf("expected extern func: %+v", block.Elements[0])
	}
	if block.Elements[1].Kind != ast.ExternVar {
		t.Fatalf("expected extern var: %+v", block.Elements[1])
	}
}

func TestParseErrorRecoveryAccumulates(t *testing.T) {
	p, err := New(`let = ; let y = 1;`, "test.zn")
	if err != nil {
		t.Fatalf("lexer init: %v", err)
	}
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one parse error")
	}
	found := false
	for _, s := range prog.Elements {
		if s.Kind == ast.Decl && s.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recovery to still parse trailing decl, got %+v", prog.Elements)
	}
}
