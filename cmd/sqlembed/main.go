// Package main implements the sqlembed CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/electwix/sqlembed/internal/cli"
	"github.com/electwix/sqlembed/internal/fileset"
	"github.com/electwix/sqlembed/internal/logging"
	"github.com/electwix/sqlembed/internal/pipeline"
)

// Exit statuses.
const (
	exitOK    = 0
	exitError = 1
	exitWrite = 2
	exitStale = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Writer:  stderr,
	})

	env := pipeline.Environment{
		Logger:     logger,
		FSResolver: fileset.NewOSResolver,
		Writer:     pipeline.NewOSWriter(),
	}

	pipe := pipeline.Pipeline{Env: env}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:   opts.ConfigPath,
		Out:          opts.Out,
		Inputs:       opts.Inputs,
		Lang:         opts.Lang,
		Package:      opts.Package,
		Root:         opts.Root,
		Check:        opts.Check,
		DryRun:       opts.DryRun,
		StrictConfig: opts.StrictConfig,
	})
	if runErr != nil {
		_, _ = fmt.Fprintln(stderr, "sqlembed: "+runErr.Error())
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return exitWrite
		}
		var staleErr *pipeline.StaleError
		if errors.As(runErr, &staleErr) {
			return exitStale
		}
		return exitError
	}

	if opts.DryRun {
		if _, err := stdout.Write(summary.File.Content); err != nil {
			_, _ = fmt.Fprintln(stderr, "sqlembed: "+err.Error())
			return exitWrite
		}
	}

	return exitOK
}
