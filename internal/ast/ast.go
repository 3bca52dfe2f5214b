// Package ast defines the tagged-variant AST node shared by the parser,
// the semantic analyzer, and the code generator (spec.md §3). Every node
// carries a source line, a mutable resolved type slot, a fresh flag set by
// analysis, and — for string literals — a dense string table id populated
// by a codegen pass (internal/codegen/strings.go).
package ast

import "github.com/redodson01/zinc/internal/types"

// Kind tags the shape of a Node.
type Kind uint8

const (
	Program Kind = iota
	Block
	IntLit
	FloatLit
	StringLit
	BoolLit
	CharLit
	Ident
	Param
	BinOp
	UnaryOp
	Assign
	CompoundAssign
	IncDec
	Decl
	If
	While
	For
	Break
	Continue
	FuncDef
	Call
	Return
	FieldAccess
	IndexAccess
	OptionalCheck
	TypeDef
	StructField
	NamedArg
	Tuple
	ObjectLiteral
	ArrayLiteral
	HashLiteral
	HashPair
	ExternBlock
	ExternFunc
	ExternVar
	ExternLet
	TypedEmptyArray
	TypedEmptyHash
	NoneLit
)

// Op enumerates operators (mirrors OpKind in the original C compiler's
// ast.h, named by what each does rather than transliterated).
type Op uint8

const (
	NoOp Op = iota
	Add
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	And
	Or
	Not
	Neg
	Pos
	Inc
	Dec
	OpAssign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
)

// IsComparison reports whether op is one of the relational operators.
func (op Op) IsComparison() bool {
	switch op {
	case Eq, Ne, Lt, Gt, Le, Ge:
		return true
	default:
		return false
	}
}

// IsLogical reports whether op short-circuits to a bool.
func (op Op) IsLogical() bool {
	return op == And || op == Or
}

// Node is the single tagged-variant AST node. Not every field is
// meaningful for every Kind; see the per-Kind comment blocks below. This
// mirrors the original compiler's single `union`-bearing ASTNode struct
// (ast.h) rather than an interface-per-node hierarchy: the analyzer and
// codegen need to attach the same three pieces of state (ResolvedType,
// Fresh, Line) to every shape uniformly, which a flat struct does directly.
type Node struct {
	Kind Kind
	Line int

	ResolvedType *types.TypeRef
	Fresh        bool
	StringID     int // dense id into the codegen string table, -1 if unset

	// Literal payloads: IntLit, FloatLit, StringLit, BoolLit, CharLit.
	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	CharVal   byte
	StringVal string

	// Name carries: Ident.Name, Param.Name, Decl.Name, FuncDef.Name,
	// Call.Name, TypeDef.Name, StructField.Name, NamedArg.Name,
	// ExternFunc/Var/Let.Name.
	Name string

	// FieldAccess only.
	Field    string
	IsDotInt bool // tuple positional access (`.0`, `.1`, ...)

	// Binary/unary operator nodes.
	Op    Op
	Left  *Node // BinOp left, Assign/CompoundAssign/IncDec target
	Right *Node // BinOp right, Assign/CompoundAssign/NamedArg/Decl value,
	// Return/Break/Continue value, UnaryOp operand, OptionalCheck operand

	IsPrefix bool // IncDec

	IsConst bool // Decl, StructField, ExternLet
	IsWeak  bool // StructField

	// If/While/For.
	Cond   *Node
	Then   *Node // If then-branch, While/For body
	Else   *Node // If else-branch (nil if absent; the analyzer rejects a value-form if without one)
	Init   *Node // For init
	Update *Node // For update

	// FuncDef / ExternFunc.
	Params     []*Node
	ReturnType *types.TypeSpec
	Body       *Node

	// Call.
	Args         []*Node
	IsStructInit bool

	// FieldAccess / IndexAccess.
	Object *Node
	Index  *Node

	// TypeDef.
	Fields  []*Node
	IsClass bool

	// StructField, Param, ExternVar, ExternLet.
	TypeInfo *types.TypeSpec
	Default  *Node

	// Tuple / ArrayLiteral / HashLiteral / ObjectLiteral / ExternBlock /
	// Program / Block.
	Elements []*Node

	// HashPair.
	Key *Node // hash pair key (Right holds the value)

	// TypedEmptyArray / TypedEmptyHash.
	ElemKind  types.Kind
	ElemName  string
	KeyKind   types.Kind
	KeyName   string
	ValueKind types.Kind
	ValueName string

	// StatementForm marks an If/While/For node used in pure statement
	// position rather than as a value-producing expression (spec.md §9,
	// Open Question (a)). Codegen must not synthesize a result temp for
	// these even when analysis inferred a non-void type for them.
	StatementForm bool
}

// New returns a bare node of the given kind at the given source line, with
// StringID initialized to -1 (spec.md §3: "-1 if not a string").
func New(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line, StringID: -1}
}

// Program is a convenience constructor.
func NewProgram(stmts []*Node) *Node {
	n := New(Program, 0)
	n.Elements = stmts
	return n
}

// NewBlock is a convenience constructor.
func NewBlock(line int, stmts []*Node) *Node {
	n := New(Block, line)
	n.Elements = stmts
	return n
}
