package driver

import (
	"os"
	"path/filepath"
	"text/template"
)

// makefileTmpl renders a minimal build snippet for one generated <base>.c.
// A Makefile is structurally repetitive and has no statement ordering
// concerns the way C emission does, so it's templated rather than built
// with ad hoc string concatenation (SPEC_FULL.md §3, "Code formatting /
// templating").
var makefileTmpl = template.Must(template.New("makefile").Parse(
	`CC ?= {{.CC}}
CFLAGS ?= -std=c99 -Wall -Wextra

{{.BaseName}}: {{.BaseName}}.c {{.BaseName}}.h
	$(CC) $(CFLAGS) {{.BaseName}}.c -o {{.BaseName}}

clean:
	rm -f {{.BaseName}}

.PHONY: clean
`))

type makefileData struct {
	BaseName string
	CC       string
}

// writeMakefile renders and writes a Makefile alongside the generated
// <base>.c/.h (spec.md §6's CLI surface has no such flag; this is the
// optional build snippet SPEC_FULL.md §3/§4 adds).
func writeMakefile(outDir, baseName, cc string) error {
	if cc == "" {
		cc = "cc"
	}
	path := filepath.Join(outDir, "Makefile")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return makefileTmpl.Execute(f, makefileData{BaseName: baseName, CC: cc})
}
