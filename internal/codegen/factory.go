package codegen

import (
	"context"
	"fmt"

	"github.com/electwix/sqlembed/internal/codegen/cpp"
	"github.com/electwix/sqlembed/internal/codegen/golang"
	"github.com/electwix/sqlembed/internal/config"
)

// GeneratorFactory creates language-specific generators.
type GeneratorFactory struct {
	opts Options
}

// NewGeneratorFactory creates a new generator factory.
func NewGeneratorFactory(opts Options) *GeneratorFactory {
	return &GeneratorFactory{opts: opts}
}

// Create returns a generator for the specified language.
func (f *GeneratorFactory) Create(lang config.Language) (Generator, error) {
	switch lang {
	case config.LanguageCPP, "":
		return &cppGeneratorWrapper{gen: cpp.New(cpp.Options{
			Namespaces:  f.opts.Namespaces,
			LicenseYear: f.opts.LicenseYear,
		})}, nil
	case config.LanguageGo:
		gen, err := golang.New(golang.Options{Package: f.opts.Package})
		if err != nil {
			return nil, fmt.Errorf("create go generator: %w", err)
		}
		return &goGeneratorWrapper{gen: gen}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// cppGeneratorWrapper adapts cpp.Generator to the Generator interface.
type cppGeneratorWrapper struct {
	gen *cpp.Generator
}

func (w *cppGeneratorWrapper) Generate(ctx context.Context, bindings []Binding) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	constants := make([]cpp.Constant, len(bindings))
	for i, b := range bindings {
		constants[i] = cpp.Constant{Path: b.RelPath, Name: b.Identifier, SQL: b.SQL}
	}
	return w.gen.Generate(constants)
}

// goGeneratorWrapper adapts golang.Generator to the Generator interface.
type goGeneratorWrapper struct {
	gen *golang.Generator
}

func (w *goGeneratorWrapper) Generate(ctx context.Context, bindings []Binding) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	constants := make([]golang.Constant, len(bindings))
	for i, b := range bindings {
		constants[i] = golang.Constant{Path: b.RelPath, Name: b.Identifier, SQL: b.SQL}
	}
	return w.gen.Generate(constants)
}
