// Package fileset resolves input patterns to files and derives the relative
// names under which those files are embedded.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver expands glob patterns against an fs.FS and rewrites the discovered
// paths using a join function. A resolver built by NewOSResolver also accepts
// absolute patterns and patterns that climb out of its base with "..".
type Resolver struct {
	fsys fs.FS
	join func(name string) string
	base string
}

// ErrNoPatterns indicates that Resolve was invoked without any glob patterns.
var ErrNoPatterns = errors.New("fileset: no patterns provided")

// PatternError wraps syntax issues reported while evaluating a glob pattern.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e PatternError) Unwrap() error { return e.Err }

// NoMatchError describes which patterns failed to yield any files.
type NoMatchError struct {
	Patterns []string
}

// Error implements the error interface.
func (e NoMatchError) Error() string {
	return "patterns matched no files: " + strings.Join(e.Patterns, ", ")
}

// NewResolver constructs a Resolver against the provided filesystem without any
// path rewriting, preserving the original match names. Useful for tests.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{
		fsys: fsys,
		join: func(name string) string { return name },
	}
}

// NewOSResolver constructs a Resolver rooted at base that returns absolute OS
// paths for each match.
func NewOSResolver(base string) (Resolver, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("resolve base %q: %w", base, err)
	}

	info, err := os.Stat(absBase)
	if err != nil {
		return Resolver{}, fmt.Errorf("stat base %q: %w", absBase, err)
	}
	if !info.IsDir() {
		return Resolver{}, fmt.Errorf("base %q is not a directory", absBase)
	}

	return Resolver{
		fsys: os.DirFS(absBase),
		join: func(name string) string {
			return filepath.Join(absBase, filepath.FromSlash(name))
		},
		base: absBase,
	}, nil
}

// Resolve evaluates each glob pattern in order and returns the matching
// regular files. Matches within a pattern are lexically ordered, patterns keep
// the order they were given in, and a file matched twice is only reported at
// its first position. Directories are skipped.
func (r Resolver) Resolve(patterns []string) ([]string, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}

	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	joinFn := r.join
	if joinFn == nil {
		joinFn = func(name string) string { return name }
	}

	combined := make([]string, 0, len(patterns))
	missing := make([]string, 0)

	for _, pattern := range patterns {
		var (
			files []string
			err   error
		)
		if r.base != "" && escapesBase(pattern) {
			files, err = globOS(r.base, pattern)
		} else {
			files, err = r.globFS(pattern, joinFn)
		}
		if err != nil {
			return nil, err
		}

		if len(files) == 0 {
			missing = append(missing, pattern)
		}
		combined = append(combined, files...)
	}

	if len(missing) > 0 {
		return nil, NoMatchError{Patterns: append([]string(nil), missing...)}
	}

	return dedupePreserveOrder(combined), nil
}

func (r Resolver) globFS(pattern string, join func(string) string) ([]string, error) {
	matches, err := fs.Glob(r.fsys, filepath.ToSlash(pattern))
	if err != nil {
		return nil, PatternError{Pattern: pattern, Err: err}
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := fs.Stat(r.fsys, match)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, join(match))
	}
	return files, nil
}

// globOS matches pattern on the OS filesystem, relative to base unless it is
// absolute.
func globOS(base, pattern string) ([]string, error) {
	full := pattern
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, filepath.FromSlash(pattern))
	}

	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, PatternError{Pattern: pattern, Err: err}
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, filepath.Clean(match))
	}
	return files, nil
}

// escapesBase reports whether pattern reaches outside the resolver's base,
// where its fs.FS cannot follow.
func escapesBase(pattern string) bool {
	if filepath.IsAbs(pattern) {
		return true
	}
	cleaned := path.Clean(filepath.ToSlash(pattern))
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

func dedupePreserveOrder(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
