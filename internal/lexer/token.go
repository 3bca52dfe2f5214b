package lexer

// TokenKind enumerates the lexical token categories the parser consumes.
type TokenKind uint8

const (
	EOF TokenKind = iota
	Ident
	Int
	Float
	String
	Char

	// Keywords.
	KwLet
	KwVar
	KwIf
	KwElse
	KwWhile
	KwFor
	KwBreak
	KwContinue
	KwFunc
	KwReturn
	KwStruct
	KwClass
	KwExtern
	KwTrue
	KwFalse
	KwWeak
	KwConst
	KwTuple
	KwObject
	KwArray
	KwHash
	KwNone
	KwInt
	KwFloat
	KwBool
	KwCharKw
	KwStringKw
	KwVoid

	// Punctuation / operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semicolon
	Dot
	Question
	Arrow

	Plus
	Minus
	Star
	Slash
	Percent
	PlusPlus
	MinusMinus
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	Eq
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	AndAnd
	OrOr
	Not
)

var keywords = map[string]TokenKind{
	"let": KwLet, "var": KwVar, "if": KwIf, "else": KwElse,
	"while": KwWhile, "for": KwFor, "break": KwBreak, "continue": KwContinue,
	"func": KwFunc, "return": KwReturn, "struct": KwStruct, "class": KwClass,
	"extern": KwExtern, "true": KwTrue, "false": KwFalse, "weak": KwWeak,
	"const": KwConst, "tuple": KwTuple, "object": KwObject, "none": KwNone,
	"int": KwInt, "float": KwFloat, "bool": KwBool, "char": KwCharKw,
	"string": KwStringKw, "void": KwVoid,
}

// Token is one lexical token with its source line for diagnostics
// (spec.md §7, "line and column").
type Token struct {
	Kind      TokenKind
	Text      string
	IntVal    int64
	FloatVal  float64
	CharVal   byte
	Line, Col int
}
