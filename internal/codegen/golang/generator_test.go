package golang

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate(t *testing.T) {
	gen, err := New(Options{Package: "queries"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := gen.Generate([]Constant{
		{Path: "android_cpu.sql", Name: "kAndroidCpu", SQL: "SELECT upid FROM sched;\n"},
		{Path: "android/startup.sql", Name: "kStartup", SQL: "SELECT '`';\r\n"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	out := string(got)

	for _, want := range []string{
		"// Code generated by sqlembed. DO NOT EDIT.\n\npackage queries\n",
		"const kAndroidCpu = `SELECT upid FROM sched;\n`\n",
		"const kStartup = \"SELECT '`';\\r\\n\"\n",
		"\t{Path: \"android_cpu.sql\", SQL: kAndroidCpu},\n\t{Path: \"android/startup.sql\", SQL: kStartup},\n",
		"func Lookup(path string) (string, bool) {",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	file := parseGenerated(t, got)
	if file.Name.Name != "queries" {
		t.Fatalf("package = %q, want queries", file.Name.Name)
	}
	if diff := cmp.Diff([]string{"kAndroidCpu", "kStartup"}, constNames(file)); diff != "" {
		t.Fatalf("constants mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateEmpty(t *testing.T) {
	gen, err := New(Options{Package: "queries"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := gen.Generate(nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !strings.Contains(string(got), "var FileToSQLTable = []FileToSQL{}\n") {
		t.Fatalf("empty output missing empty table:\n%s", got)
	}
	if names := constNames(parseGenerated(t, got)); len(names) != 0 {
		t.Fatalf("constants = %v, want none", names)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen, err := New(Options{Package: "queries"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	constants := []Constant{
		{Path: "b.sql", Name: "kB", SQL: "SELECT 2;\n"},
		{Path: "a.sql", Name: "kA", SQL: "SELECT 1;\n"},
	}

	first, err := gen.Generate(constants)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := gen.Generate(constants)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("outputs differ (-first +second):\n%s", diff)
	}
	if strings.Index(string(first), "kB") > strings.Index(string(first), "kA") {
		t.Fatalf("input order not preserved:\n%s", first)
	}
}

func TestGenerateRejectsUnusableNames(t *testing.T) {
	gen, err := New(Options{Package: "queries"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	for _, name := range []string{"Lookup", "FileToSQL", "func"} {
		_, err := gen.Generate([]Constant{{Path: "x.sql", Name: name, SQL: "SELECT 1;"}})
		var nameErr *NameError
		if !errors.As(err, &nameErr) {
			t.Fatalf("Generate(%q) error = %v, want *NameError", name, err)
		}
	}
}

func TestGenerateRejectsBadPackage(t *testing.T) {
	gen, err := New(Options{Package: "not-a-package"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := gen.Generate(nil); err == nil {
		t.Fatal("expected error for invalid package")
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "SELECT 1;\n", want: "`SELECT 1;\n`"},
		{in: "", want: "``"},
		{in: "a`b", want: "\"a`b\""},
		{in: "a\r\nb", want: `"a\r\nb"`},
		{in: "a\x00b", want: `"a\x00b"`},
		{in: "\xff", want: `"\xff"`},
	}
	for _, tt := range tests {
		if got := literal(tt.in); got != tt.want {
			t.Fatalf("literal(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func parseGenerated(t *testing.T, src []byte) *ast.File {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "queries.gen.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	return file
}

func constNames(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			for _, name := range spec.(*ast.ValueSpec).Names {
				names = append(names, name.Name)
			}
		}
	}
	return names
}
