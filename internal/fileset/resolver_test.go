package fileset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestResolverResolveSuccess(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"metrics/android_cpu.sql":      &fstest.MapFile{Mode: fs.ModePerm},
		"metrics/android_mem.sql":      &fstest.MapFile{Mode: fs.ModePerm},
		"metrics/common/trace_len.sql": &fstest.MapFile{Mode: fs.ModePerm},
		"shared/clock.sql":             &fstest.MapFile{Mode: fs.ModePerm},
		"shared/README.md":             &fstest.MapFile{Mode: fs.ModePerm},
	}

	resolver := NewResolver(fsys)
	patterns := []string{
		"shared/*.sql",
		"metrics/*.sql",
		"shared/clock.sql",
		"metrics/common/*.sql",
	}

	paths, err := resolver.Resolve(patterns)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := []string{
		"shared/clock.sql",
		"metrics/android_cpu.sql",
		"metrics/android_mem.sql",
		"metrics/common/trace_len.sql",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverSkipsDirectories(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"metrics/a.sql":        &fstest.MapFile{Mode: fs.ModePerm},
		"metrics/nested/b.sql": &fstest.MapFile{Mode: fs.ModePerm},
	}

	paths, err := NewResolver(fsys).Resolve([]string{"metrics/*"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"metrics/a.sql"}, paths); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}

	_, err = NewResolver(fsys).Resolve([]string{"metrics/nest*"})
	var noMatchErr NoMatchError
	if !errors.As(err, &noMatchErr) {
		t.Fatalf("expected NoMatchError for directory-only pattern, got %v", err)
	}
}

func TestResolverResolveNoMatches(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"metrics/android_cpu.sql": &fstest.MapFile{Mode: fs.ModePerm},
	}

	resolver := NewResolver(fsys)
	patterns := []string{
		"shared/*.sql",
		"metrics/nope.sql",
	}

	_, err := resolver.Resolve(patterns)
	if err == nil {
		t.Fatal("expected error for missing patterns")
	}

	var noMatchErr NoMatchError
	if !errors.As(err, &noMatchErr) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}

	if diff := cmp.Diff(patterns, noMatchErr.Patterns); diff != "" {
		t.Fatalf("missing patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverResolveInvalidPattern(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(fstest.MapFS{})

	_, err := resolver.Resolve([]string{"["})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}

	var patternErr PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected PatternError, got %T: %v", err, err)
	}

	if patternErr.Pattern != "[" {
		t.Fatalf("unexpected pattern on error: %q", patternErr.Pattern)
	}
}

func TestResolverResolveNoPatterns(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(fstest.MapFS{})

	_, err := resolver.Resolve(nil)
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("expected ErrNoPatterns, got %v", err)
	}
}

func TestNewOSResolverReturnsAbsolutePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.sql"), []byte("SELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	resolver, err := NewOSResolver(dir)
	if err != nil {
		t.Fatalf("NewOSResolver returned error: %v", err)
	}

	paths, err := resolver.Resolve([]string{"*.sql"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "a.sql")}, paths); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestNewOSResolverRejectsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "a.sql")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := NewOSResolver(file); err == nil {
		t.Fatal("expected error for non-directory base")
	}
}

func TestNewOSResolverOutsideBase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, rel := range []string{"project/local.sql", "shared/b.sql", "shared/a.sql", "other/c.sql"} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte("SELECT 1;\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	resolver, err := NewOSResolver(filepath.Join(dir, "project"))
	if err != nil {
		t.Fatalf("NewOSResolver returned error: %v", err)
	}

	paths, err := resolver.Resolve([]string{
		"*.sql",
		"../shared/*.sql",
		filepath.Join(dir, "other", "c.sql"),
		"../shared/a.sql",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "project", "local.sql"),
		filepath.Join(dir, "shared", "a.sql"),
		filepath.Join(dir, "shared", "b.sql"),
		filepath.Join(dir, "other", "c.sql"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}

	_, err = resolver.Resolve([]string{"../missing/*.sql"})
	var noMatch NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("Resolve error = %v, want NoMatchError", err)
	}
}

func TestEscapesBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    bool
	}{
		{pattern: "*.sql", want: false},
		{pattern: "metrics/*.sql", want: false},
		{pattern: "a/../b.sql", want: false},
		{pattern: "..", want: true},
		{pattern: "../shared/*.sql", want: true},
		{pattern: "a/../../b.sql", want: true},
		{pattern: filepath.Join(string(filepath.Separator), "abs", "x.sql"), want: filepath.IsAbs(filepath.Join(string(filepath.Separator), "abs", "x.sql"))},
	}
	for _, tt := range tests {
		if got := escapesBase(tt.pattern); got != tt.want {
			t.Fatalf("escapesBase(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}
