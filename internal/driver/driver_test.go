package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeZn(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRunGeneratesHeaderAndSource(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "add.zn", `func add(a: int, b: int): int { return a + b; }`)

	err := Run(Options{
		InputPath: in,
		OutputDir: dir,
		BaseName:  "add",
		Stdout:    &bytes.Buffer{},
		Stderr:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := os.ReadFile(filepath.Join(dir, "add.h"))
	if err != nil {
		t.Fatalf("read add.h: %v", err)
	}
	if !bytes.Contains(h, []byte("ADD_H")) {
		t.Fatalf("expected include guard in header:\n%s", h)
	}
	c, err := os.ReadFile(filepath.Join(dir, "add.c"))
	if err != nil {
		t.Fatalf("read add.c: %v", err)
	}
	if !bytes.Contains(c, []byte(`#include "add.h"`)) {
		t.Fatalf("expected source to include its own header:\n%s", c)
	}
}

func TestRunCheckOnlyDoesNotWriteFiles(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "ok.zn", `func f(): int { return 1; }`)

	if err := Run(Options{InputPath: in, OutputDir: dir, CheckOnly: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ok.h")); !os.IsNotExist(err) {
		t.Fatalf("expected no header written in --check mode")
	}
}

func TestRunSemanticErrorGatesCodegen(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "bad.zn", `func f(): int { return true + 1; }`)

	err := Run(Options{InputPath: in, OutputDir: dir})
	if err == nil {
		t.Fatalf("expected a semantic error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "bad.h")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no header written when semantic errors are present")
	}
}

func TestRunParseErrorReported(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "broken.zn", `func f(: int { return 1; }`)

	if err := Run(Options{InputPath: in, OutputDir: dir}); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestRunDumpASTWritesToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "dump.zn", `func f(): int { return 1; }`)

	var out bytes.Buffer
	if err := Run(Options{InputPath: in, OutputDir: dir, DumpAST: true, Stdout: &out}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected AST dump output")
	}
}

func TestRunDumpTypesListsRegisteredStructs(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "shapes.zn", `struct Point { x: int, y: int }
struct Line { a: Point, b: Point }
func f(): int { return 1; }`)

	var out bytes.Buffer
	if err := Run(Options{InputPath: in, OutputDir: dir, DumpTypes: true, Stdout: &out}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !bytes.Contains([]byte(got), []byte("Point")) || !bytes.Contains([]byte(got), []byte("Line")) {
		t.Fatalf("expected both type names in dump output, got:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "shapes.h")); !os.IsNotExist(err) {
		t.Fatalf("expected no header written in --dump-types mode")
	}
}

func TestRunEmitsMakefileWhenRequested(t *testing.T) {
	dir := t.TempDir()
	in := writeZn(t, dir, "add.zn", `func add(a: int, b: int): int { return a + b; }`)

	err := Run(Options{
		InputPath: in,
		OutputDir: dir,
		BaseName:  "add",
		Makefile:  true,
		Stdout:    &bytes.Buffer{},
		Stderr:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mk, err := os.ReadFile(filepath.Join(dir, "Makefile"))
	if err != nil {
		t.Fatalf("read Makefile: %v", err)
	}
	if !bytes.Contains(mk, []byte("add: add.c add.h")) {
		t.Fatalf("expected add's build rule in Makefile:\n%s", mk)
	}
}

func TestDeriveBaseNameStripsExtension(t *testing.T) {
	if got := deriveBaseName("/tmp/foo/bar.zn"); got != "bar" {
		t.Fatalf("deriveBaseName = %q, want %q", got, "bar")
	}
}
