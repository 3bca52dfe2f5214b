// Command zincc is the compiler's CLI front end: one positional input file
// (or stdin), parse, analyze, generate, and optionally invoke a C compiler
// on the result (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/redodson01/zinc/internal/driver"
)

func main() {
	astFlag := flag.Bool("ast", false, "dump the parsed AST and exit")
	dumpTypesFlag := flag.Bool("dump-types", false, "analyze, print registered type names, and exit")
	checkFlag := flag.Bool("check", false, "run semantic analysis only; exit 0 if clean")
	compileFlag := flag.Bool("c", false, "invoke a C compiler on the generated source")
	flag.BoolVar(compileFlag, "compile", false, "invoke a C compiler on the generated source")
	makefileFlag := flag.Bool("makefile", false, "also emit a Makefile alongside the generated source")
	outFlag := flag.String("o", "", "output base name (writes <base>.c and <base>.h)")
	ccFlag := flag.String("cc", "", "C compiler to invoke with -c/--compile (default cc)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		log.Fatal("Usage: zincc [flags] [input.zn]")
	}

	var inputPath string
	if len(args) == 1 {
		inputPath = args[0]
	}

	outDir := "."
	baseName := *outFlag
	if baseName != "" {
		outDir = filepath.Dir(baseName)
		baseName = strings.TrimSuffix(filepath.Base(baseName), filepath.Ext(baseName))
	} else if inputPath != "" {
		outDir = filepath.Dir(inputPath)
	}

	err := driver.Run(driver.Options{
		InputPath: inputPath,
		OutputDir: outDir,
		BaseName:  baseName,
		DumpAST:   *astFlag,
		DumpTypes: *dumpTypesFlag,
		CheckOnly: *checkFlag,
		Compile:   *compileFlag,
		Makefile:  *makefileFlag,
		CC:        *ccFlag,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: zincc [flags] [input.zn]\n\n")
	flag.PrintDefaults()
}
