// Package codegen lowers an analyzed zinc program into portable C: a
// header with type layouts, extern declarations and function prototypes,
// and a body with string statics, per-type lifecycle/collection helpers and
// function definitions (spec.md §4.4, SPEC_FULL.md §6). It assumes
// semantic analysis already ran clean; the driver gates invocation on a
// zero semantic error count (spec.md §7).
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/sema"
	"github.com/redodson01/zinc/internal/types"
)

// Generator holds all mutable state threaded through one Generate call: the
// header/body buffer pair, the counters that name temporaries, and the
// ARC scope stack live for whichever function body is currently emitting.
type Generator struct {
	reg *sema.Registry

	header bytes.Buffer
	body   bytes.Buffer

	tempCounter   int
	ifCounter     int
	loopCounter   int
	stringTable   []string
	lastLine      int
	runtimeHeader string
	sourceName    string

	scopes *ScopeTracker
	// currentLoopResult names the __if_<n>/__loop_<n> temp a break inside
	// the innermost value-form construct must publish into; empty when no
	// value-form construct (or a statement-form one) is currently open.
	currentLoopResult string
}

// NewGenerator returns a Generator bound to reg, the frozen type registry
// produced by semantic analysis. runtimeHeaderName is the #include name for
// the hand-written ARC runtime (e.g. "zinc_runtime.h").
func NewGenerator(reg *sema.Registry, runtimeHeaderName string) *Generator {
	return &Generator{reg: reg, runtimeHeader: runtimeHeaderName}
}

// Generate walks prog and returns the complete header and body file
// contents. baseName is the output base name used to derive the include
// guard and the `#include "<baseName>.h"` line in the body; sourceName is
// the original zinc file path `#line` directives point back to.
func (g *Generator) Generate(prog *ast.Node, baseName, sourceName string) (header, body []byte, err error) {
	g.sourceName = sourceName
	g.stringTable = internStrings(prog)

	var funcs, typeDefs, externs []*ast.Node
	for _, n := range prog.Elements {
		switch n.Kind {
		case ast.FuncDef:
			funcs = append(funcs, n)
		case ast.TypeDef:
			typeDefs = append(typeDefs, n)
		case ast.ExternBlock:
			externs = append(externs, n)
		}
	}

	g.generateHeader(baseName, externs, funcs)
	g.generateBody(baseName, typeDefs, funcs)

	return g.header.Bytes(), g.body.Bytes(), nil
}

func (g *Generator) hprintf(format string, args ...any) {
	fmt.Fprintf(&g.header, format, args...)
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.body, format, args...)
}

func cprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// includeGuard derives a classic include guard from the output base name:
// uppercased, dots and dashes becoming underscores, suffixed "_H"
// (spec.md §6, "Output header").
func includeGuard(baseName string) string {
	upper := strings.ToUpper(baseName)
	upper = strings.ReplaceAll(upper, ".", "_")
	upper = strings.ReplaceAll(upper, "-", "_")
	return upper + "_H"
}

func (g *Generator) generateHeader(baseName string, externs, funcs []*ast.Node) {
	guard := includeGuard(baseName)
	g.hprintf("#ifndef %s\n#define %s\n\n", guard, guard)
	g.hprintf("#include \"%s\"\n\n", g.runtimeHeader)
	g.hprintf("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")

	for _, name := range g.reg.OrderedNames() {
		layout, _ := g.reg.Lookup(name)
		g.emitLayoutForwardDecl(layout)
	}
	g.hprintf("\n")

	for _, block := range externs {
		for _, decl := range block.Elements {
			g.emitExternPrototype(decl)
		}
	}
	g.hprintf("\n")

	for _, fn := range funcs {
		g.hprintf("%s;\n", g.funcSignature(fn))
	}

	g.hprintf("\n#ifdef __cplusplus\n}\n#endif\n#endif // %s\n", guard)
}

func (g *Generator) generateBody(baseName string, typeDefs, funcs []*ast.Node) {
	g.printf("#include \"%s.h\"\n", baseName)
	g.printf("#include <string.h>\n\n")

	g.emitStringStatics()

	for _, name := range g.reg.OrderedNames() {
		layout, _ := g.reg.Lookup(name)
		if layout.IsClass {
			g.emitLifecycleHelpers(layout)
		}
		g.emitCollectionCallbacks(layout)
		g.emitVtable(layout)
	}

	_ = typeDefs // layouts already come from the frozen registry, in order
	for _, fn := range funcs {
		g.emitFuncDef(fn)
	}
}

func (g *Generator) emitStringStatics() {
	for id, s := range g.stringTable {
		g.printf("static __zn_string %s = { .rc = -1, .len = %d, .data = %s };\n",
			stringVarName(id), len(s), cStringLiteral(s))
	}
	if len(g.stringTable) > 0 {
		g.printf("\n")
	}
}

// cStringLiteral renders a Go string as a C string literal, escaping the
// characters the lexer's own escape table recognizes (SPEC_FULL.md §5).
func cStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// emitLine emits a `#line` directive when n's source line differs from the
// last one emitted, so a C debugger or compiler diagnostic maps back to the
// zinc source (spec.md §6, SPEC_FULL.md §5).
func (g *Generator) emitLine(n *ast.Node) {
	if n.Line == g.lastLine {
		return
	}
	g.lastLine = n.Line
	g.printf("#line %d %s\n", n.Line, cStringLiteral(g.sourceName))
}

func (g *Generator) nextTemp(prefix string) string {
	g.tempCounter++
	return cprintf("__%s_%d", prefix, g.tempCounter)
}

func (g *Generator) nextIfTemp() string {
	g.ifCounter++
	return cprintf("__if_%d", g.ifCounter)
}

func (g *Generator) nextLoopTemp() string {
	g.loopCounter++
	return cprintf("__loop_%d", g.loopCounter)
}

// cType renders t as a C type name. Refcounted reference types are
// pointers; value structs are emitted by value; primitive optionals use
// the fixed `__zn_opt_<kind>` wrapper struct; optional reference types
// collapse to the same pointer (NULL means "none").
func cType(t *types.TypeRef) string {
	if t == nil {
		return "void"
	}
	if t.Optional && t.IsPrimitive() {
		return "__zn_opt_" + t.Kind.String()
	}
	switch t.Kind {
	case types.Int:
		return "int64_t"
	case types.Float:
		return "double"
	case types.Bool:
		return "bool"
	case types.Char:
		return "char"
	case types.String:
		return "__zn_string*"
	case types.Array:
		return "__zn_array*"
	case types.Hash:
		return "__zn_hash*"
	case types.Struct:
		return t.Name
	case types.Class:
		return t.Name + "*"
	case types.Void:
		return "void"
	default:
		return "void*"
	}
}
