package fileset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CommonRoot returns the deepest directory containing every path. Paths are
// made absolute first and compared segment by segment, so /x/ya and /x/yb
// share /x rather than the textual prefix /x/y.
//
// A single path yields its own directory. No paths yield "".
func CommonRoot(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	var common []string
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", path, err)
		}
		segs := segments(filepath.Dir(abs))
		if i == 0 {
			common = segs
			continue
		}
		n := 0
		for n < len(common) && n < len(segs) && common[n] == segs[n] {
			n++
		}
		common = common[:n]
	}

	return joinSegments(common), nil
}

// Rel returns path relative to root using forward slashes. An empty root
// leaves the absolute path in place.
func Rel(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	if root == "" {
		return filepath.ToSlash(abs), nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil {
		return "", fmt.Errorf("relative path of %q: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside root %s", abs, absRoot)
	}
	return rel, nil
}

func segments(dir string) []string {
	slashed := strings.TrimSuffix(filepath.ToSlash(dir), "/")
	return strings.Split(slashed, "/")
}

func joinSegments(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	root := strings.Join(segs, "/")
	// "" is the filesystem root, "C:" a bare volume.
	if root == "" || strings.HasSuffix(root, ":") {
		root += "/"
	}
	return filepath.FromSlash(root)
}
