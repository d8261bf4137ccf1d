// Package golang renders embedded SQL as a Go source file using text
// templates.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/electwix/sqlembed/internal/codegen/render"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"quote":   strconv.Quote,
	"literal": literal,
}

// reserved names are declared by the template itself.
var reserved = map[string]struct{}{
	"FileToSQL":      {},
	"FileToSQLTable": {},
	"Lookup":         {},
}

// Options configures the generated file.
type Options struct {
	Package string
}

// Constant is one embedded file.
type Constant struct {
	Path string
	Name string
	SQL  string
}

// NameError reports a constant name Go cannot declare in the generated file.
type NameError struct {
	Name string
	Path string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %s cannot be declared in the generated Go file", e.Path, e.Name)
}

// Generator produces Go source from embedded SQL.
type Generator struct {
	opts Options
	tmpl *template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Generator, error) {
	tmpl, err := template.New("go").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Generator{opts: opts, tmpl: tmpl}, nil
}

// Generate renders and gofmt-formats the file for constants in the given
// order.
func (g *Generator) Generate(constants []Constant) ([]byte, error) {
	if !token.IsIdentifier(g.opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", g.opts.Package)
	}
	for _, c := range constants {
		if _, ok := reserved[c.Name]; ok || !token.IsIdentifier(c.Name) {
			return nil, &NameError{Name: c.Name, Path: c.Path}
		}
	}

	data := map[string]any{
		"Package":   g.opts.Package,
		"Constants": constants,
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "queries.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	files, err := render.Format([]render.Spec{{Path: g.opts.Package + ".gen.go", Src: buf.Bytes()}})
	if err != nil {
		return nil, err
	}
	return files[0].Content, nil
}

// literal renders s as a raw string when Go allows it verbatim: raw strings
// cannot hold a backquote, drop carriage returns, and must be valid UTF-8
// without NUL bytes or a byte order mark.
func literal(s string) string {
	if strings.ContainsAny(s, "`\r\x00\uFEFF") || !utf8.ValidString(s) {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}
