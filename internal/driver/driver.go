// Package driver ties parsing, semantic analysis and code generation into
// the single ordered pipeline described in spec.md §5 and §7: parse, then
// analyze (registering every top-level type before any function body is
// checked), then, only if the semantic error count is exactly zero,
// generate. It owns nothing the analyzer or generator doesn't also need a
// reference to, matching the single top-level-owner model spec.md §5
// describes for the AST and the type registry.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/redodson01/zinc/internal/ast"
	"github.com/redodson01/zinc/internal/codegen"
	"github.com/redodson01/zinc/internal/parser"
	"github.com/redodson01/zinc/internal/sema"
)

// RuntimeHeaderName is the `#include` name every generated header carries
// for the hand-written ARC runtime (spec.md §6, "Runtime ABI").
const RuntimeHeaderName = "zinc_runtime.h"

// Options configures one driver run, mirroring the CLI surface spec.md §6
// describes: one positional input (defaulting to stdin), an output base
// name, and the --ast/--check/-c mode switches.
type Options struct {
	InputPath string // empty means stdin
	OutputDir string
	BaseName  string

	DumpAST    bool // --ast: dump the parsed AST and stop, no analysis run
	DumpTypes  bool // --dump-types: analyze, print registered type names, and stop
	CheckOnly  bool // --check: analyze only, exit 0 if clean
	Compile    bool // -c/--compile: invoke an external C compiler after generation
	Makefile   bool // emit a Makefile alongside the generated source
	CC         string
	CCArgs     []string

	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one full driver pass and returns a non-nil error for any
// parse failure, semantic error, or I/O failure (spec.md §6: exit code 1
// covers all three identically).
func Run(opts Options) error {
	src, name, err := readSource(opts)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	p, err := parser.New(src, name)
	if err != nil {
		return fmt.Errorf("lexer init: %w", err)
	}
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return joinParseErrors(errs)
	}

	if opts.DumpAST {
		ast.Dump(opts.Stdout, prog)
		return nil
	}

	a := sema.NewAnalyzer()
	analysisErr := a.Analyze(prog)
	if opts.DumpTypes {
		for _, name := range a.Registry().DebugNames() {
			fmt.Fprintln(opts.Stdout, name)
		}
		return analysisErr
	}
	if opts.CheckOnly {
		return analysisErr
	}
	if analysisErr != nil {
		return analysisErr
	}

	g := codegen.NewGenerator(a.Registry(), RuntimeHeaderName)
	baseName := opts.BaseName
	if baseName == "" {
		if opts.InputPath == "" {
			baseName = "out"
		} else {
			baseName = deriveBaseName(name)
		}
	}
	header, body, err := g.Generate(prog, baseName, name)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	hPath := filepath.Join(outDir, baseName+".h")
	cPath := filepath.Join(outDir, baseName+".c")
	if err := os.WriteFile(hPath, header, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", hPath, err)
	}
	if err := os.WriteFile(cPath, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cPath, err)
	}

	if opts.Makefile {
		if err := writeMakefile(outDir, baseName, opts.CC); err != nil {
			return fmt.Errorf("write Makefile: %w", err)
		}
	}

	if opts.Compile {
		return invokeCC(opts, cPath, baseName)
	}
	return nil
}

func readSource(opts Options) (src, name string, err error) {
	if opts.InputPath == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(b), "<stdin>", nil
	}
	b, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return "", "", err
	}
	return string(b), opts.InputPath, nil
}

func deriveBaseName(sourceName string) string {
	base := filepath.Base(sourceName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func joinParseErrors(errs []*parser.Error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d parse error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// invokeCC shells out to an external C compiler on the freshly written
// source (spec.md §6, -c/--compile). The compiler binary and any extra
// flags are operator-supplied; the driver only supplies the generated
// source path and a matching -o.
func invokeCC(opts Options, cPath, baseName string) error {
	cc := opts.CC
	if cc == "" {
		cc = "cc"
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	binPath := filepath.Join(outDir, baseName)
	args := append([]string{}, opts.CCArgs...)
	args = append(args, cPath, "-o", binPath)

	cmd := exec.Command(cc, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", cc, strings.Join(args, " "), err)
	}
	return nil
}
