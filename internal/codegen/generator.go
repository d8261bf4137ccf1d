// Package codegen turns loaded SQL inputs into a single generated source file.
package codegen

import "context"

// Binding pairs an input's relative path with its derived identifier and its
// filtered SQL.
type Binding struct {
	RelPath    string
	Identifier string
	SQL        string
}

// File is a generated artifact destined for Path.
type File struct {
	Path    string
	Content []byte
}

// Generator renders bindings, in order, into one source file.
type Generator interface {
	Generate(ctx context.Context, bindings []Binding) ([]byte, error)
}

// Options configures the generators built by GeneratorFactory.
type Options struct {
	// Package is the Go package clause of the Go target.
	Package string
	// Namespaces wrap the C++ target, outermost first.
	Namespaces []string
	// LicenseYear is stamped into the C++ license block.
	LicenseYear int
}
