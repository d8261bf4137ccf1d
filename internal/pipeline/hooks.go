package pipeline

import (
	"context"

	"github.com/electwix/sqlembed/internal/codegen"
	"github.com/electwix/sqlembed/internal/source"
)

// Hooks provides extension points in the pipeline execution.
// Each hook is called at a specific stage; returning an error aborts the run.
type Hooks struct {
	// BeforeLoad is called with the resolved input paths.
	BeforeLoad func(ctx context.Context, inputs []string) error

	// AfterLoad is called once every input has been read and filtered.
	AfterLoad func(ctx context.Context, entries []source.Entry) error

	// AfterGenerate is called with the rendered output, including on dry runs
	// and checks.
	AfterGenerate func(ctx context.Context, file codegen.File) error

	// BeforeWrite is called only when the output is about to change on disk.
	BeforeWrite func(ctx context.Context, file codegen.File) error
}

// Chain combines two Hooks, calling h's hooks first, then other's hooks.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeLoad:    chainHook(h.BeforeLoad, other.BeforeLoad),
		AfterLoad:     chainHook(h.AfterLoad, other.AfterLoad),
		AfterGenerate: chainHook(h.AfterGenerate, other.AfterGenerate),
		BeforeWrite:   chainHook(h.BeforeWrite, other.BeforeWrite),
	}
}

// chainHook chains two hooks of the same type.
func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}

func runHook[T any](ctx context.Context, hook func(context.Context, T) error, arg T) error {
	if hook == nil {
		return nil
	}
	return hook(ctx, arg)
}
