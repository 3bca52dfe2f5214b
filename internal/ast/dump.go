package ast

import (
	"fmt"
	"io"
	"strings"
)

var kindNames = map[Kind]string{
	Program:         "program",
	Block:           "block",
	IntLit:          "int",
	FloatLit:        "float",
	StringLit:       "string",
	BoolLit:         "bool",
	CharLit:         "char",
	Ident:           "ident",
	Param:           "param",
	BinOp:           "binop",
	UnaryOp:         "unaryop",
	Assign:          "assign",
	CompoundAssign:  "compound_assign",
	IncDec:          "incdec",
	Decl:            "decl",
	If:              "if",
	While:           "while",
	For:             "for",
	Break:           "break",
	Continue:        "continue",
	FuncDef:         "func_def",
	Call:            "call",
	Return:          "return",
	FieldAccess:     "field_access",
	IndexAccess:     "index",
	OptionalCheck:   "optional_check",
	TypeDef:         "type_def",
	StructField:     "struct_field",
	NamedArg:        "named_arg",
	Tuple:           "tuple",
	ObjectLiteral:   "object_literal",
	ArrayLiteral:    "array_literal",
	HashLiteral:     "hash_literal",
	HashPair:        "hash_pair",
	ExternBlock:     "extern_block",
	ExternFunc:      "extern_func",
	ExternVar:       "extern_var",
	ExternLet:       "extern_let",
	TypedEmptyArray: "typed_empty_array",
	TypedEmptyHash:  "typed_empty_hash",
	NoneLit:         "none",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown_kind"
}

var opNames = map[Op]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Eq: "==", Ne: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	And: "&&", Or: "||", Not: "!", Neg: "-(unary)", Pos: "+(unary)",
	Inc: "++", Dec: "--", OpAssign: "=",
	AddAssign: "+=", SubAssign: "-=", MulAssign: "*=", DivAssign: "/=", ModAssign: "%=",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "?"
}

// Dump writes a human-readable indented tree to w, one line per node with
// two-space indent per nesting level: the node kind plus the 1-2 fields
// that disambiguate it. This reproduces the original compiler's
// print_ast (main.c) for the --ast CLI flag (SPEC_FULL.md §5).
func Dump(w io.Writer, n *Node) {
	dump(w, n, 0)
}

func dump(w io.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s%s\n", indent, n.Kind, detail(n))

	switch n.Kind {
	case Program, Block, Tuple, ArrayLiteral, ObjectLiteral, ExternBlock:
		for _, c := range n.Elements {
			dump(w, c, depth+1)
		}
	case HashLiteral:
		for _, c := range n.Elements {
			dump(w, c, depth+1)
		}
	case HashPair:
		dump(w, n.Key, depth+1)
		dump(w, n.Right, depth+1)
	case BinOp:
		dump(w, n.Left, depth+1)
		dump(w, n.Right, depth+1)
	case UnaryOp, OptionalCheck:
		dump(w, n.Right, depth+1)
	case Assign, CompoundAssign:
		dump(w, n.Left, depth+1)
		dump(w, n.Right, depth+1)
	case IncDec:
		dump(w, n.Left, depth+1)
	case Decl:
		dump(w, n.Right, depth+1)
	case If:
		dump(w, n.Cond, depth+1)
		dump(w, n.Then, depth+1)
		if n.Else != nil {
			dump(w, n.Else, depth+1)
		}
	case While:
		dump(w, n.Cond, depth+1)
		dump(w, n.Then, depth+1)
	case For:
		dump(w, n.Init, depth+1)
		dump(w, n.Cond, depth+1)
		dump(w, n.Update, depth+1)
		dump(w, n.Then, depth+1)
	case Break, Continue, Return:
		dump(w, n.Right, depth+1)
	case FuncDef:
		for _, p := range n.Params {
			dump(w, p, depth+1)
		}
		dump(w, n.Body, depth+1)
	case Call:
		for _, a := range n.Args {
			dump(w, a, depth+1)
		}
	case FieldAccess:
		dump(w, n.Object, depth+1)
	case IndexAccess:
		dump(w, n.Object, depth+1)
		dump(w, n.Index, depth+1)
	case TypeDef:
		for _, f := range n.Fields {
			dump(w, f, depth+1)
		}
	case StructField:
		if n.Default != nil {
			dump(w, n.Default, depth+1)
		}
	case NamedArg:
		dump(w, n.Right, depth+1)
	}
}

func detail(n *Node) string {
	switch n.Kind {
	case IntLit:
		return fmt.Sprintf(" %d", n.IntVal)
	case FloatLit:
		return fmt.Sprintf(" %g", n.FloatVal)
	case StringLit:
		return fmt.Sprintf(" %q", n.StringVal)
	case BoolLit:
		return fmt.Sprintf(" %t", n.BoolVal)
	case CharLit:
		return fmt.Sprintf(" %q", n.CharVal)
	case Ident, Param, Decl, FuncDef, Call, TypeDef, StructField, NamedArg,
		ExternFunc, ExternVar, ExternLet:
		return fmt.Sprintf(" %s", n.Name)
	case FieldAccess:
		return fmt.Sprintf(" .%s", n.Field)
	case BinOp, CompoundAssign:
		return fmt.Sprintf(" %s", n.Op)
	case UnaryOp, IncDec:
		return fmt.Sprintf(" %s", n.Op)
	default:
		return ""
	}
}
