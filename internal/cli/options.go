// Package cli parses the sqlembed command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Options holds the parsed command line.
type Options struct {
	ConfigPath   string
	Out          string
	Lang         string
	Package      string
	Root         string
	Check        bool
	DryRun       bool
	StrictConfig bool
	Verbose      bool
	// Inputs are the positional arguments in the order given.
	Inputs []string
}

// Parse parses args. Flags may appear before, between, or after inputs;
// everything after "--" is an input.
func Parse(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("sqlembed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.Out, "cpp_out", "", "Path of the generated file")
	fs.StringVar(&opts.Out, "out", "", "Alias for --cpp_out")
	fs.StringVar(&opts.Out, "o", "", "Alias for --cpp_out")
	fs.StringVar(&opts.ConfigPath, "config", "", "Optional TOML or YAML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Alias for --config")
	fs.StringVar(&opts.Lang, "lang", "", "Output language: cpp (default) or go")
	fs.StringVar(&opts.Package, "package", "", "Package name of the generated Go file")
	fs.StringVar(&opts.Root, "root", "", "Directory input paths are made relative to; defaults to their common directory")
	fs.BoolVar(&opts.Check, "check", false, "Exit with status 3 if the output is out of date; write nothing")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print the generated file to stdout instead of writing it")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
		}
		remaining := fs.Args()
		consumed := len(rest) - len(remaining)
		if consumed > 0 && rest[consumed-1] == "--" {
			opts.Inputs = append(opts.Inputs, remaining...)
			break
		}
		if len(remaining) == 0 {
			break
		}
		opts.Inputs = append(opts.Inputs, remaining[0])
		rest = remaining[1:]
	}

	if opts.Check && opts.DryRun {
		return Options{}, fmt.Errorf("--check and --dry-run are mutually exclusive\n\n%s", Usage(fs))
	}
	return opts, nil
}

// Usage renders the flag defaults for fs.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	fmt.Fprintf(&buf, "  %s [flags] [input.sql ...]\n\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
