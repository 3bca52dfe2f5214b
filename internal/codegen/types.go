package codegen

import (
	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/sema"
)

// emitLayoutForwardDecl writes the `typedef struct {...} Name;` for one
// registered struct or class layout (spec.md §4.4, "Output header"):
// classes get a leading `_rc` refcount header slot, reference-typed fields
// are stored as pointers, primitive fields directly, nested value structs
// by value.
func (g *Generator) emitLayoutForwardDecl(layout *sema.TypeLayout) {
	g.hprintf("typedef struct %s {\n", layout.Name)
	if layout.IsClass {
		g.hprintf("\tint32_t _rc;\n")
	}
	for _, f := range layout.Fields {
		g.hprintf("\t%s %s;\n", cType(f.Type), f.Name)
	}
	g.hprintf("} %s;\n\n", layout.Name)
}

// emitLifecycleHelpers emits alloc/retain/release for one class layout
// (spec.md §4.4: "lifecycle helpers per class/anonymous-object type").
// release emits one release per non-weak field before freeing the object
// itself; refcounted fields are released, every other field (including a
// nested value struct) gets a `/* no-op */` line and is not descended into.
func (g *Generator) emitLifecycleHelpers(layout *sema.TypeLayout) {
	name := layout.Name

	g.printf("%s* __%s_alloc(void) {\n", name, name)
	g.printf("\t%s* v = (%s*)malloc(sizeof(%s));\n", name, name, name)
	g.printf("\tv->_rc = 1;\n")
	g.printf("\treturn v;\n}\n\n")

	g.printf("void __%s_retain(%s* v) {\n", name, name)
	g.printf("\tif (v == NULL || v->_rc < 0) return;\n")
	g.printf("\tv->_rc++;\n}\n\n")

	g.printf("void __%s_release(%s* v) {\n", name, name)
	g.printf("\tif (v == NULL || v->_rc < 0) return;\n")
	g.printf("\tif (--v->_rc > 0) return;\n")
	for _, f := range layout.Fields {
		if f.IsWeak {
			continue
		}
		g.printf("\t%s\n", releaseExprFor(f.Type, "v->"+f.Name))
	}
	g.printf("\tfree(v);\n}\n\n")
}

// emitCollectionCallbacks emits the hashcode/equality/retain/release
// wrapper function pointers a given element type needs so arrays and
// hashes can be parameterized over it at allocation time (spec.md §4.4).
// Primitive element types reuse fixed runtime wrappers; only struct/class
// element types get their own here.
func (g *Generator) emitCollectionCallbacks(layout *sema.TypeLayout) {
	name := layout.Name

	g.printf("uint64_t __zn_hash_%s(const void* p, size_t size) {\n\t(void)size;\n", name)
	if layout.IsClass {
		g.printf("\treturn __zn_hash_ptr(*(void**)p);\n}\n\n")
	} else {
		g.printf("\treturn __zn_hash_bytes(p, sizeof(%s));\n}\n\n", name)
	}

	g.printf("bool __zn_eq_%s(const void* a, const void* b, size_t size) {\n\t(void)size;\n", name)
	if layout.IsClass {
		g.printf("\treturn *(void**)a == *(void**)b;\n}\n\n")
	} else {
		g.printf("\treturn memcmp(a, b, sizeof(%s)) == 0;\n}\n\n", name)
	}

	if layout.IsClass {
		g.printf("void __zn_retain_%s(void* p, size_t size) {\n\t(void)size;\n", name)
		g.printf("\t__%s_retain(*(%s**)p);\n}\n\n", name, name)
		g.printf("void __zn_val_rel_%s(void* p, size_t size) {\n\t(void)size;\n", name)
		g.printf("\t__%s_release(*(%s**)p);\n}\n\n", name, name)
	} else {
		g.printf("void __zn_retain_%s(void* p, size_t size) {\n\t(void)p; (void)size;\n}\n\n", name)
		g.printf("void __zn_val_rel_%s(void* p, size_t size) {\n\t(void)p; (void)size;\n}\n\n", name)
	}
}

// emitExternPrototype rewrites one `extern` block declaration into a C
// signature (spec.md §4.4: "extern declarations rewritten to C
// signatures").
func (g *Generator) emitExternPrototype(decl *ast.Node) {
	switch decl.Kind {
	case ast.ExternFunc:
		g.hprintf("%s;\n", g.externFuncSignature(decl))
	case ast.ExternVar:
		g.hprintf("extern %s %s;\n", cTypeSpec(g, decl.TypeInfo), decl.Name)
	case ast.ExternLet:
		g.hprintf("extern const %s %s;\n", cTypeSpec(g, decl.TypeInfo), decl.Name)
	}
}

func (g *Generator) externFuncSignature(decl *ast.Node) string {
	ret := "void"
	if decl.ReturnType != nil {
		ret = cTypeSpec(g, decl.ReturnType)
	}
	params := ""
	for i, p := range decl.Params {
		if i > 0 {
			params += ", "
		}
		params += cprintf("%s %s", cTypeSpec(g, p.TypeInfo), p.Name)
	}
	return cprintf("%s %s(%s)", ret, decl.Name, params)
}

// funcSignature renders a user FuncDef's C prototype from its resolved
// parameter/return types.
func (g *Generator) funcSignature(fn *ast.Node) string {
	ret := "void"
	if fn.ReturnType != nil {
		ret = cTypeSpec(g, fn.ReturnType)
	}
	params := ""
	for i, p := range fn.Params {
		if i > 0 {
			params += ", "
		}
		params += cprintf("%s %s", cTypeSpec(g, p.TypeInfo), p.Name)
	}
	if params == "" {
		params = "void"
	}
	return cprintf("%s %s(%s)", ret, fn.Name, params)
}
