package codegen

import (
	"text/template"

	"github.com/redodson01/zinc/internal/sema"
)

// vtableTmpl renders one `__zn_type_vtable` instance per registered
// struct/class, bundling the four container callbacks emitCollectionCallbacks
// just wrote under one named constant (runtime/zinc_runtime.h's
// __zn_type_vtable). This is structurally repetitive and has no ordering
// dependency on anything around it, unlike the per-expression C emission
// elsewhere in this package, so it's the one place text/template fits
// without fighting the retain/release interleaving text/template can't
// express (SPEC_FULL.md §3, "Code formatting / templating").
var vtableTmpl = template.Must(template.New("vtable").Parse(
	`static const __zn_type_vtable __zn_vtable_{{.Name}} = {
	.name = "{{.Name}}",
	.hash = __zn_hash_{{.Name}},
	.eq = __zn_eq_{{.Name}},
	.retain = __zn_retain_{{.Name}},
	.val_rel = __zn_val_rel_{{.Name}},
};

`))

func (g *Generator) emitVtable(layout *sema.TypeLayout) {
	if err := vtableTmpl.Execute(&g.body, layout); err != nil {
		panic(err) // template is a fixed literal; a failure here is a bug, not bad input
	}
}
