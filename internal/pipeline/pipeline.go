// Package pipeline orchestrates the entire code generation process.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/electwix/sqlembed/internal/codegen"
	"github.com/electwix/sqlembed/internal/config"
	"github.com/electwix/sqlembed/internal/fileset"
	"github.com/electwix/sqlembed/internal/logging"
	"github.com/electwix/sqlembed/internal/source"
)

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	FSResolver func(string) (fileset.Resolver, error)
	Logger     *slog.Logger
	Writer     Writer
	Generator  codegen.Generator // overrides the language factory when set
	Hooks      Hooks
}

// Pipeline orchestrates configuration loading, input loading, and code
// generation.
type Pipeline struct {
	Env Environment
}

// Summary describes a completed run.
type Summary struct {
	File     codegen.File
	Bindings []codegen.Binding
	Root     string
	Warnings []string
	// Written is false for dry runs, checks, and unchanged output.
	Written bool
}

// RunOptions configures a pipeline execution. Non-zero fields override the
// config file.
type RunOptions struct {
	ConfigPath   string
	Out          string
	Inputs       []string
	Lang         string
	Package      string
	Root         string
	Check        bool
	DryRun       bool
	StrictConfig bool
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StaleError reports that the output on disk differs from what a run would
// generate.
type StaleError struct {
	Path string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s is out of date", e.Path)
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	var summary Summary

	logger := p.Env.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	hooks := p.Env.Hooks

	plan, warnings, err := p.plan(opts)
	if err != nil {
		return summary, err
	}
	summary.Warnings = warnings
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	if err := runHook(ctx, hooks.BeforeLoad, plan.Inputs); err != nil {
		return summary, err
	}

	root := plan.Root
	if root == "" {
		root, err = fileset.CommonRoot(plan.Inputs)
		if err != nil {
			return summary, err
		}
	}
	summary.Root = root
	logger.Debug("resolved root", "root", root, "inputs", len(plan.Inputs))

	set, err := source.LoadAll(plan.Inputs, root, plan.CommentPrefix)
	if err != nil {
		return summary, err
	}
	entries := set.Entries()
	for _, e := range entries {
		logger.Debug("loaded input", "path", e.RelPath, "kept", e.Kept, "dropped", e.Dropped)
	}
	if err := runHook(ctx, hooks.AfterLoad, entries); err != nil {
		return summary, err
	}

	bindings, err := codegen.Bind(plan.IdentifierPrefix, entries)
	if err != nil {
		return summary, err
	}
	summary.Bindings = bindings

	gen := p.Env.Generator
	if gen == nil {
		factory := codegen.NewGeneratorFactory(codegen.Options{
			Package:     plan.Package,
			Namespaces:  plan.Namespaces,
			LicenseYear: plan.LicenseYear,
		})
		gen, err = factory.Create(plan.Language)
		if err != nil {
			return summary, err
		}
	}

	content, err := gen.Generate(ctx, bindings)
	if err != nil {
		return summary, fmt.Errorf("generate %s: %w", plan.Language, err)
	}
	file := codegen.File{Path: plan.Out, Content: content}
	summary.File = file
	logger.Debug("generated output", "path", file.Path, "size", humanize.Bytes(uint64(len(content))))

	if err := runHook(ctx, hooks.AfterGenerate, file); err != nil {
		return summary, err
	}

	if opts.DryRun {
		return summary, nil
	}

	same, err := fileMatches(file.Path, file.Content)
	if err != nil {
		return summary, &WriteError{Path: file.Path, Err: err}
	}
	if opts.Check {
		if !same {
			return summary, &StaleError{Path: file.Path}
		}
		return summary, nil
	}
	if same {
		logger.Debug("output unchanged", "path", file.Path)
		return summary, nil
	}

	if err := runHook(ctx, hooks.BeforeWrite, file); err != nil {
		return summary, err
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	if err := writer.WriteFile(ctx, file.Path, file.Content); err != nil {
		return summary, &WriteError{Path: file.Path, Err: err}
	}
	summary.Written = true
	logger.Info("wrote output", "path", file.Path, "entries", len(bindings), "size", humanize.Bytes(uint64(len(content))))

	return summary, nil
}

// plan loads the optional config file and applies the command-line overrides.
func (p *Pipeline) plan(opts RunOptions) (config.JobPlan, []string, error) {
	plan := config.DefaultPlan()
	var warnings []string

	if opts.ConfigPath != "" {
		absConfigPath, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return plan, nil, fmt.Errorf("resolve config path: %w", err)
		}

		resolverFn := p.Env.FSResolver
		if resolverFn == nil {
			resolverFn = fileset.NewOSResolver
		}
		resolver, err := resolverFn(filepath.Dir(absConfigPath))
		if err != nil {
			return plan, nil, fmt.Errorf("resolve filesystem: %w", err)
		}

		res, err := config.Load(absConfigPath, config.LoadOptions{Strict: opts.StrictConfig, Resolver: &resolver})
		if err != nil {
			return plan, nil, err
		}
		plan = res.Plan
		warnings = res.Warnings
	}

	if opts.Out != "" {
		plan.Out = opts.Out
	}
	if len(opts.Inputs) > 0 {
		plan.Inputs = opts.Inputs
	}
	if opts.Lang != "" {
		plan.Language = config.Language(opts.Lang)
	}
	if opts.Package != "" {
		plan.Package = opts.Package
	}
	if opts.Root != "" {
		plan.Root = opts.Root
	}

	if err := plan.Validate(); err != nil {
		return plan, warnings, err
	}
	return plan, warnings, nil
}
