// Package render formats generated Go source.
package render

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Spec describes unformatted Go source destined for Path.
type Spec struct {
	Path string
	Src  []byte
}

// File contains the rendered Go source for a path.
type File struct {
	Path    string
	Content []byte
}

var processOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// Format runs every spec through goimports. Source that does not parse is
// reported with its path.
func Format(specs []Spec) ([]File, error) {
	rendered := make([]File, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Src) == 0 {
			return nil, fmt.Errorf("render %s: empty source", spec.Path)
		}
		formatted, err := imports.Process(spec.Path, spec.Src, processOptions)
		if err != nil {
			return nil, fmt.Errorf("goimports %s: %w", spec.Path, err)
		}
		rendered = append(rendered, File{Path: spec.Path, Content: formatted})
	}
	return rendered, nil
}
