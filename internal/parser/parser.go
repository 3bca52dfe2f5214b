// Package parser turns zinc source into the ast.Node tree the analyzer and
// code generator consume. Parsing is a thin, out-of-scope collaborator
// (spec.md §1): this is a standard recursive-descent/precedence-climbing
// parser, not a hand-optimized one, and it accumulates errors the same way
// the original compiler's parser does (spec.md §7: "one message per error,
// process continues to accumulate as much as the parser offers").
package parser

import (
	"fmt"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/lexer"
	"github.com/redodson01/zinc/internal/types"
)

// Error is one accumulated parse diagnostic.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Message) }

// Parser consumes tokens from a Lexer and builds an AST.
type Parser struct {
	lex        *lexer.Lexer
	name       string
	cur, peek  lexer.Token
	errs       []*Error
	panicToken lexer.TokenKind // never read; error recovery panics with parseErr{}
}

// New constructs a Parser over src.
func New(src, name string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src, name), name: name}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) errorf(line int, format string, args ...any) {
	p.errs = append(p.errs, &Error{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Errors returns every accumulated parse diagnostic.
func (p *Parser) Errors() []*Error { return p.errs }

// parseErr is used internally with recover() to unwind to the next
// statement boundary after a syntax error, matching the original parser's
// "continue accumulating" behavior instead of aborting on the first error.
type parseErr struct{}

func (p *Parser) fail(line int, format string, args ...any) {
	p.errorf(line, format, args...)
	panic(parseErr{})
}

func (p *Parser) expect(k lexer.TokenKind, what string) lexer.Token {
	if p.cur.Kind != k {
		p.fail(p.cur.Line, "expected %s, got token kind %d", what, p.cur.Kind)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		p.fail(tok.Line, "%v", err)
	}
	return tok
}

func (p *Parser) accept(k lexer.TokenKind) bool {
	if p.cur.Kind == k {
		if err := p.advance(); err != nil {
			p.fail(p.cur.Line, "%v", err)
		}
		return true
	}
	return false
}

// ParseProgram parses a full compilation unit, recovering from syntax
// errors at statement boundaries so it reports as many diagnostics as
// possible in one pass (spec.md §7).
func (p *Parser) ParseProgram() *ast.Node {
	var stmts []*ast.Node
	for p.cur.Kind != lexer.EOF {
		stmt := p.parseTopLevelRecovering()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return ast.NewProgram(stmts)
}

func (p *Parser) parseTopLevelRecovering() (node *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseErr); ok {
				p.syncToStmtBoundary()
				node = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseTopLevel()
}

// syncToStmtBoundary skips tokens until a semicolon or a closing brace so
// the next parseTopLevel call starts at a clean boundary.
func (p *Parser) syncToStmtBoundary() {
	for p.cur.Kind != lexer.EOF {
		if p.cur.Kind == lexer.Semicolon {
			_ = p.advance()
			return
		}
		if p.cur.Kind == lexer.RBrace {
			_ = p.advance()
			return
		}
		if err := p.advance(); err != nil {
			return
		}
	}
}

func (p *Parser) parseTopLevel() *ast.Node {
	switch p.cur.Kind {
	case lexer.KwFunc:
		return p.parseFuncDef()
	case lexer.KwStruct, lexer.KwClass:
		return p.parseTypeDef()
	case lexer.KwExtern:
		return p.parseExternBlock()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseBlock() *ast.Node {
	line := p.cur.Line
	p.expect(lexer.LBrace, "'{'")
	var stmts []*ast.Node
	for p.cur.Kind != lexer.RBrace && p.cur.Kind != lexer.EOF {
		stmts = append(stmts, p.parseStmtRecovering())
	}
	p.expect(lexer.RBrace, "'}'")
	return ast.NewBlock(line, stmts)
}

func (p *Parser) parseStmtRecovering() (node *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseErr); ok {
				p.syncToStmtBoundary()
				node = ast.New(ast.Block, p.cur.Line)
				return
			}
			panic(r)
		}
	}()
	return p.parseStmt()
}

func (p *Parser) parseStmt() *ast.Node {
	switch p.cur.Kind {
	case lexer.KwLet, lexer.KwVar:
		return p.parseDecl()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwBreak:
		return p.parseBreak()
	case lexer.KwContinue:
		return p.parseContinue()
	case lexer.KwIf:
		n := p.parseIf()
		markStatementForm(n)
		return n
	case lexer.KwWhile:
		n := p.parseWhile()
		n.StatementForm = true
		return n
	case lexer.KwFor:
		n := p.parseFor()
		n.StatementForm = true
		return n
	case lexer.LBrace:
		return p.parseBlock()
	default:
		expr := p.parseExprStmt()
		p.accept(lexer.Semicolon)
		return expr
	}
}

// markStatementForm propagates StatementForm through an if/else-if chain:
// parseIf builds each "else if" link via a recursive call that has no way
// to know yet whether the whole chain sits in statement or expression
// position, so the caller marks the entire chain once that's decided.
func markStatementForm(n *ast.Node) {
	for n != nil && n.Kind == ast.If {
		n.StatementForm = true
		n = n.Else
	}
}

func (p *Parser) parseDecl() *ast.Node {
	line := p.cur.Line
	isConst := p.cur.Kind == lexer.KwLet
	_ = p.advance()
	name := p.expect(lexer.Ident, "identifier").Text

	n := ast.New(ast.Decl, line)
	n.Name = name
	n.IsConst = isConst

	if p.accept(lexer.Colon) {
		n.TypeInfo = p.parseTypeSpec()
	}
	p.expect(lexer.Eq, "'='")
	n.Right = p.parseExpr()
	p.accept(lexer.Semicolon)
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.Return, line)
	if p.cur.Kind != lexer.Semicolon && p.cur.Kind != lexer.RBrace {
		n.Right = p.parseExpr()
	}
	p.accept(lexer.Semicolon)
	return n
}

func (p *Parser) parseBreak() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.Break, line)
	if p.cur.Kind != lexer.Semicolon && p.cur.Kind != lexer.RBrace {
		n.Right = p.parseExpr()
	}
	p.accept(lexer.Semicolon)
	return n
}

func (p *Parser) parseContinue() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.Continue, line)
	if p.cur.Kind != lexer.Semicolon && p.cur.Kind != lexer.RBrace {
		n.Right = p.parseExpr()
	}
	p.accept(lexer.Semicolon)
	return n
}

func (p *Parser) parseExprStmt() *ast.Node {
	return p.parseAssignment()
}

func (p *Parser) parseIf() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.If, line)
	n.Cond = p.parseExpr()
	n.Then = p.parseBlock()
	if p.accept(lexer.KwElse) {
		if p.cur.Kind == lexer.KwIf {
			n.Else = p.parseIf()
		} else {
			n.Else = p.parseBlock()
		}
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.While, line)
	n.Cond = p.parseExpr()
	n.Then = p.parseBlock()
	return n
}

func (p *Parser) parseFor() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.For, line)
	if p.cur.Kind != lexer.Semicolon {
		n.Init = p.parseStmt()
	} else {
		p.accept(lexer.Semicolon)
	}
	if p.cur.Kind != lexer.Semicolon {
		n.Cond = p.parseExpr()
	}
	p.expect(lexer.Semicolon, "';'")
	if p.cur.Kind != lexer.LBrace {
		n.Update = p.parseAssignment()
	}
	n.Then = p.parseBlock()
	return n
}

func (p *Parser) parseFuncDef() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.FuncDef, line)
	n.Name = p.expect(lexer.Ident, "function name").Text
	p.expect(lexer.LParen, "'('")
	for p.cur.Kind != lexer.RParen {
		param := ast.New(ast.Param, p.cur.Line)
		param.Name = p.expect(lexer.Ident, "parameter name").Text
		p.expect(lexer.Colon, "':'")
		param.TypeInfo = p.parseTypeSpec()
		n.Params = append(n.Params, param)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	if p.accept(lexer.Colon) {
		n.ReturnType = p.parseTypeSpec()
	}
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseTypeDef() *ast.Node {
	line := p.cur.Line
	isClass := p.cur.Kind == lexer.KwClass
	_ = p.advance()
	n := ast.New(ast.TypeDef, line)
	n.IsClass = isClass
	n.Name = p.expect(lexer.Ident, "type name").Text
	p.expect(lexer.LBrace, "'{'")
	for p.cur.Kind != lexer.RBrace && p.cur.Kind != lexer.EOF {
		n.Fields = append(n.Fields, p.parseStructField())
		p.accept(lexer.Comma)
		p.accept(lexer.Semicolon)
	}
	p.expect(lexer.RBrace, "'}'")
	return n
}

func (p *Parser) parseStructField() *ast.Node {
	line := p.cur.Line
	f := ast.New(ast.StructField, line)
	if p.accept(lexer.KwWeak) {
		f.IsWeak = true
	}
	isConst := true
	if p.cur.Kind == lexer.KwVar {
		isConst = false
		_ = p.advance()
	} else {
		p.accept(lexer.KwConst)
	}
	f.IsConst = isConst
	f.Name = p.expect(lexer.Ident, "field name").Text
	p.expect(lexer.Colon, "':'")
	f.TypeInfo = p.parseTypeSpec()
	if p.accept(lexer.Eq) {
		f.Default = p.parseExpr()
	}
	return f
}

func (p *Parser) parseExternBlock() *ast.Node {
	line := p.cur.Line
	_ = p.advance()
	n := ast.New(ast.ExternBlock, line)
	p.expect(lexer.LBrace, "'{'")
	for p.cur.Kind != lexer.RBrace && p.cur.Kind != lexer.EOF {
		n.Elements = append(n.Elements, p.parseExternDecl())
	}
	p.expect(lexer.RBrace, "'}'")
	return n
}

func (p *Parser) parseExternDecl() *ast.Node {
	line := p.cur.Line
	switch p.cur.Kind {
	case lexer.KwFunc:
		_ = p.advance()
		n := ast.New(ast.ExternFunc, line)
		n.Name = p.expect(lexer.Ident, "function name").Text
		p.expect(lexer.LParen, "'('")
		for p.cur.Kind != lexer.RParen {
			param := ast.New(ast.Param, p.cur.Line)
			param.Name = p.expect(lexer.Ident, "parameter name").Text
			p.expect(lexer.Colon, "':'")
			param.TypeInfo = p.parseTypeSpec()
			n.Params = append(n.Params, param)
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RParen, "')'")
		if p.accept(lexer.Colon) {
			n.ReturnType = p.parseTypeSpec()
		}
		p.accept(lexer.Semicolon)
		return n
	case lexer.KwVar, lexer.KwLet:
		isConst := p.cur.Kind == lexer.KwLet
		_ = p.advance()
		kind := ast.ExternVar
		if isConst {
			kind = ast.ExternLet
		}
		n := ast.New(kind, line)
		n.Name = p.expect(lexer.Ident, "variable name").Text
		p.expect(lexer.Colon, "':'")
		n.TypeInfo = p.parseTypeSpec()
		p.accept(lexer.Semicolon)
		return n
	default:
		p.fail(line, "expected extern declaration")
		return nil
	}
}

// parseTypeSpec parses a type annotation: a primitive keyword, a struct/
// class name, an array type `[]T`, a hash type `hash[K]V`, or a trailing
// `?` marking the whole spec optional.
func (p *Parser) parseTypeSpec() *types.TypeSpec {
	var spec *types.TypeSpec
	switch p.cur.Kind {
	case lexer.KwInt:
		spec = types.NewSpec(types.Int)
		_ = p.advance()
	case lexer.KwFloat:
		spec = types.NewSpec(types.Float)
		_ = p.advance()
	case lexer.KwBool:
		spec = types.NewSpec(types.Bool)
		_ = p.advance()
	case lexer.KwCharKw:
		spec = types.NewSpec(types.Char)
		_ = p.advance()
	case lexer.KwStringKw:
		spec = types.NewSpec(types.String)
		_ = p.advance()
	case lexer.KwVoid:
		spec = types.NewSpec(types.Void)
		_ = p.advance()
	case lexer.Ident:
		name := p.cur.Text
		_ = p.advance()
		spec = &types.TypeSpec{Kind: types.Unknown, Name: name}
	case lexer.LBracket:
		_ = p.advance()
		p.expect(lexer.RBracket, "']'")
		elem := p.parseTypeSpec()
		spec = &types.TypeSpec{Kind: types.Array, Elem: elem}
	case lexer.KwHash:
		_ = p.advance()
		p.expect(lexer.LBracket, "'['")
		key := p.parseTypeSpec()
		p.expect(lexer.Comma, "','")
		val := p.parseTypeSpec()
		p.expect(lexer.RBracket, "']'")
		spec = &types.TypeSpec{Kind: types.Hash, Key: key, Elem: val}
	default:
		p.fail(p.cur.Line, "expected type, got token kind %d", p.cur.Kind)
	}
	if p.accept(lexer.Question) {
		spec = types.NewOptionalSpec(spec)
	}
	return spec
}
