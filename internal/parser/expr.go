package parser

import (
	"strings"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/lexer"
	"github.com/redodson01/zinc/internal/types"
)

// parseExpr parses a full expression, including value-form if/while/for
// (spec.md §9, Open Question (a): the parser always builds the same If/
// While/For node; StatementForm distinguishes the two contexts).
func (p *Parser) parseExpr() *ast.Node {
	switch p.cur.Kind {
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwFor:
		return p.parseFor()
	default:
		return p.parseAssignment()
	}
}

var compoundOps = map[lexer.TokenKind]ast.Op{
	lexer.PlusEq:    ast.AddAssign,
	lexer.MinusEq:   ast.SubAssign,
	lexer.StarEq:    ast.MulAssign,
	lexer.SlashEq:   ast.DivAssign,
	lexer.PercentEq: ast.ModAssign,
}

func (p *Parser) parseAssignment() *ast.Node {
	left := p.parseIncDec()

	if p.cur.Kind == lexer.Eq {
		line := p.cur.Line
		_ = p.advance()
		right := p.parseExpr()
		n := ast.New(ast.Assign, line)
		n.Left = left
		n.Right = right
		return n
	}
	if op, ok := compoundOps[p.cur.Kind]; ok {
		line := p.cur.Line
		_ = p.advance()
		right := p.parseExpr()
		n := ast.New(ast.CompoundAssign, line)
		n.Op = op
		n.Left = left
		n.Right = right
		return n
	}
	return left
}

// parseIncDec handles postfix ++/-- on an lvalue-shaped operand; prefix
// ++/-- are not part of the grammar (spec.md never mentions them as
// expressions, only the postfix statement form original_source uses).
func (p *Parser) parseIncDec() *ast.Node {
	operand := p.parseLogicOr()
	if p.cur.Kind == lexer.PlusPlus || p.cur.Kind == lexer.MinusMinus {
		line := p.cur.Line
		op := ast.Inc
		if p.cur.Kind == lexer.MinusMinus {
			op = ast.Dec
		}
		_ = p.advance()
		n := ast.New(ast.IncDec, line)
		n.Op = op
		n.Left = operand
		return n
	}
	return operand
}

func (p *Parser) parseLogicOr() *ast.Node {
	left := p.parseLogicAnd()
	for p.cur.Kind == lexer.OrOr {
		line := p.cur.Line
		_ = p.advance()
		right := p.parseLogicAnd()
		left = binOp(line, ast.Or, left, right)
	}
	return left
}

func (p *Parser) parseLogicAnd() *ast.Node {
	left := p.parseEquality()
	for p.cur.Kind == lexer.AndAnd {
		line := p.cur.Line
		_ = p.advance()
		right := p.parseEquality()
		left = binOp(line, ast.And, left, right)
	}
	return left
}

var equalityOps = map[lexer.TokenKind]ast.Op{lexer.EqEq: ast.Eq, lexer.NotEq: ast.Ne}

func (p *Parser) parseEquality() *ast.Node {
	left := p.parseComparison()
	for {
		op, ok := equalityOps[p.cur.Kind]
		if !ok {
			return left
		}
		line := p.cur.Line
		_ = p.advance()
		right := p.parseComparison()
		left = binOp(line, op, left, right)
	}
}

var comparisonOps = map[lexer.TokenKind]ast.Op{
	lexer.Lt: ast.Lt, lexer.Gt: ast.Gt, lexer.LtEq: ast.Le, lexer.GtEq: ast.Ge,
}

func (p *Parser) parseComparison() *ast.Node {
	left := p.parseAdditive()
	for {
		op, ok := comparisonOps[p.cur.Kind]
		if !ok {
			return left
		}
		line := p.cur.Line
		_ = p.advance()
		right := p.parseAdditive()
		left = binOp(line, op, left, right)
	}
}

var additiveOps = map[lexer.TokenKind]ast.Op{lexer.Plus: ast.Add, lexer.Minus: ast.Sub}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for {
		op, ok := additiveOps[p.cur.Kind]
		if !ok {
			return left
		}
		line := p.cur.Line
		_ = p.advance()
		right := p.parseMultiplicative()
		left = binOp(line, op, left, right)
	}
}

var multiplicativeOps = map[lexer.TokenKind]ast.Op{
	lexer.Star: ast.Mul, lexer.Slash: ast.Div, lexer.Percent: ast.Mod,
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()
	for {
		op, ok := multiplicativeOps[p.cur.Kind]
		if !ok {
			return left
		}
		line := p.cur.Line
		_ = p.advance()
		right := p.parseUnary()
		left = binOp(line, op, left, right)
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.cur.Kind {
	case lexer.Minus:
		line := p.cur.Line
		_ = p.advance()
		n := ast.New(ast.UnaryOp, line)
		n.Op = ast.Neg
		n.Right = p.parseUnary()
		return n
	case lexer.Not:
		line := p.cur.Line
		_ = p.advance()
		n := ast.New(ast.UnaryOp, line)
		n.Op = ast.Not
		n.Right = p.parseUnary()
		return n
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case lexer.Dot:
			line := p.cur.Line
			_ = p.advance()
			fa := ast.New(ast.FieldAccess, line)
			fa.Object = n
			if p.cur.Kind == lexer.Int {
				fa.IsDotInt = true
				fa.Field = p.cur.Text
				_ = p.advance()
			} else {
				fa.Field = p.expect(lexer.Ident, "field name").Text
			}
			n = fa
		case lexer.Float:
			// `t.0` lexes as the operand followed by the float ".0".
			if !strings.HasPrefix(p.cur.Text, ".") || strings.Trim(p.cur.Text[1:], "0123456789") != "" {
				return n
			}
			fa := ast.New(ast.FieldAccess, p.cur.Line)
			fa.Object = n
			fa.IsDotInt = true
			fa.Field = p.cur.Text[1:]
			_ = p.advance()
			n = fa
		case lexer.LBracket:
			line := p.cur.Line
			_ = p.advance()
			idx := ast.New(ast.IndexAccess, line)
			idx.Object = n
			idx.Index = p.parseExpr()
			p.expect(lexer.RBracket, "']'")
			n = idx
		case lexer.LParen:
			n = p.parseCall(n)
		case lexer.Question:
			line := p.cur.Line
			_ = p.advance()
			oc := ast.New(ast.OptionalCheck, line)
			oc.Right = n
			n = oc
		default:
			return n
		}
	}
}

func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	line := p.cur.Line
	_ = p.advance() // '('
	n := ast.New(ast.Call, line)
	n.Name = callee.Name
	for p.cur.Kind != lexer.RParen {
		if p.cur.Kind == lexer.Ident && p.peek.Kind == lexer.Colon {
			argLine := p.cur.Line
			name := p.cur.Text
			_ = p.advance()
			_ = p.advance() // ':'
			na := ast.New(ast.NamedArg, argLine)
			na.Name = name
			na.Right = p.parseExpr()
			n.Args = append(n.Args, na)
		} else {
			n.Args = append(n.Args, p.parseExpr())
		}
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return n
}

func (p *Parser) parsePrimary() *ast.Node {
	line := p.cur.Line
	switch p.cur.Kind {
	case lexer.Int:
		v := p.cur.IntVal
		_ = p.advance()
		n := ast.New(ast.IntLit, line)
		n.IntVal = v
		return n
	case lexer.Float:
		v := p.cur.FloatVal
		_ = p.advance()
		n := ast.New(ast.FloatLit, line)
		n.FloatVal = v
		return n
	case lexer.String:
		v := p.cur.Text
		_ = p.advance()
		n := ast.New(ast.StringLit, line)
		n.StringVal = v
		return n
	case lexer.Char:
		v := p.cur.CharVal
		_ = p.advance()
		n := ast.New(ast.CharLit, line)
		n.CharVal = v
		return n
	case lexer.KwNone:
		_ = p.advance()
		return ast.New(ast.NoneLit, line)
	case lexer.KwTrue, lexer.KwFalse:
		v := p.cur.Kind == lexer.KwTrue
		_ = p.advance()
		n := ast.New(ast.BoolLit, line)
		n.BoolVal = v
		return n
	case lexer.Ident:
		name := p.cur.Text
		_ = p.advance()
		n := ast.New(ast.Ident, line)
		n.Name = name
		return n
	case lexer.LParen:
		return p.parseParenOrTuple()
	case lexer.LBracket:
		return p.parseArrayLiteral()
	case lexer.LBrace:
		return p.parseHashLiteral()
	case lexer.KwTuple:
		return p.parseTupleKeyword()
	case lexer.KwObject:
		return p.parseObjectLiteral()
	default:
		p.fail(line, "expected expression, got token kind %d", p.cur.Kind)
		return nil
	}
}

// parseParenOrTuple parses `(expr)` grouping or, with 2+ comma-separated
// elements, a `(e1, e2, ...)` tuple literal.
func (p *Parser) parseParenOrTuple() *ast.Node {
	line := p.cur.Line
	_ = p.advance() // '('
	first := p.parseExpr()
	if p.cur.Kind != lexer.Comma {
		p.expect(lexer.RParen, "')'")
		return first
	}
	n := ast.New(ast.Tuple, line)
	n.Elements = append(n.Elements, first)
	for p.accept(lexer.Comma) {
		if p.cur.Kind == lexer.RParen {
			break
		}
		n.Elements = append(n.Elements, p.parseExpr())
	}
	p.expect(lexer.RParen, "')'")
	return n
}

func (p *Parser) parseTupleKeyword() *ast.Node {
	line := p.cur.Line
	_ = p.advance() // 'tuple'
	n := ast.New(ast.Tuple, line)
	p.expect(lexer.LParen, "'('")
	for p.cur.Kind != lexer.RParen {
		n.Elements = append(n.Elements, p.parseExpr())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return n
}

func (p *Parser) parseObjectLiteral() *ast.Node {
	line := p.cur.Line
	_ = p.advance() // 'object'
	n := ast.New(ast.ObjectLiteral, line)
	p.expect(lexer.LBrace, "'{'")
	for p.cur.Kind != lexer.RBrace {
		fieldLine := p.cur.Line
		name := p.expect(lexer.Ident, "field name").Text
		p.expect(lexer.Colon, "':'")
		na := ast.New(ast.NamedArg, fieldLine)
		na.Name = name
		na.Right = p.parseExpr()
		n.Elements = append(n.Elements, na)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return n
}

// parseArrayLiteral parses `[e1, e2, ...]`, or the typed-empty-array form
// `[]T` when the brackets are immediately adjacent (SPEC_FULL.md §6).
func (p *Parser) parseArrayLiteral() *ast.Node {
	line := p.cur.Line
	_ = p.advance() // '['
	if p.cur.Kind == lexer.RBracket {
		_ = p.advance()
		n := ast.New(ast.TypedEmptyArray, line)
		kind, name := p.parseBareElemType()
		n.ElemKind = kind
		n.ElemName = name
		return n
	}
	n := ast.New(ast.ArrayLiteral, line)
	for p.cur.Kind != lexer.RBracket {
		n.Elements = append(n.Elements, p.parseExpr())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBracket, "']'")
	return n
}

// parseHashLiteral parses `{k: v, ...}`, or the typed-empty-hash form
// `{}[KeyType, ValueType]` when the braces are immediately adjacent.
func (p *Parser) parseHashLiteral() *ast.Node {
	line := p.cur.Line
	_ = p.advance() // '{'
	if p.cur.Kind == lexer.RBrace {
		_ = p.advance()
		n := ast.New(ast.TypedEmptyHash, line)
		p.expect(lexer.LBracket, "'['")
		n.KeyKind, n.KeyName = p.parseBareElemType()
		p.expect(lexer.Comma, "','")
		n.ValueKind, n.ValueName = p.parseBareElemType()
		p.expect(lexer.RBracket, "']'")
		return n
	}
	n := ast.New(ast.HashLiteral, line)
	for p.cur.Kind != lexer.RBrace {
		pairLine := p.cur.Line
		key := p.parseExpr()
		p.expect(lexer.Colon, "':'")
		val := p.parseExpr()
		pair := ast.New(ast.HashPair, pairLine)
		pair.Key = key
		pair.Right = val
		n.Elements = append(n.Elements, pair)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return n
}

// parseBareElemType parses a single type name used inside typed-empty
// literal brackets: a primitive keyword or a struct/class identifier, with
// no array/hash nesting or optional suffix (spec.md's typed-empty literals
// always name a concrete element/key/value type).
func (p *Parser) parseBareElemType() (types.Kind, string) {
	switch p.cur.Kind {
	case lexer.KwInt:
		_ = p.advance()
		return types.Int, ""
	case lexer.KwFloat:
		_ = p.advance()
		return types.Float, ""
	case lexer.KwBool:
		_ = p.advance()
		return types.Bool, ""
	case lexer.KwCharKw:
		_ = p.advance()
		return types.Char, ""
	case lexer.KwStringKw:
		_ = p.advance()
		return types.String, ""
	case lexer.Ident:
		name := p.cur.Text
		_ = p.advance()
		return types.Unknown, name
	default:
		p.fail(p.cur.Line, "expected element type, got token kind %d", p.cur.Kind)
		return types.Unknown, ""
	}
}

func binOp(line int, op ast.Op, left, right *ast.Node) *ast.Node {
	n := ast.New(ast.BinOp, line)
	n.Op = op
	n.Left = left
	n.Right = right
	return n
}
