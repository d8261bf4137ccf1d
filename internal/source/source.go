// Package source loads SQL inputs and strips their comment lines.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCommentPrefix marks a line as a comment when it starts the line.
const DefaultCommentPrefix = "--"

// Entry is one loaded input.
type Entry struct {
	// Path is the input path as it was given.
	Path string
	// RelPath is the slash-separated path relative to the run's root.
	RelPath string
	// SQL is the input with comment lines removed.
	SQL string
	Stats
}

// Stats counts the lines Filter kept and dropped.
type Stats struct {
	Kept    int
	Dropped int
}

// Filter copies every line of r that does not start with prefix, keeping each
// line's original terminator. An empty prefix keeps everything.
func Filter(r io.Reader, prefix string) (string, Stats, error) {
	var (
		b     strings.Builder
		stats Stats
	)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if prefix != "" && strings.HasPrefix(line, prefix) {
				stats.Dropped++
			} else {
				b.WriteString(line)
				stats.Kept++
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", stats, err
		}
	}
	return b.String(), stats, nil
}

// Load reads and filters the file at path. The file is closed before Load
// returns, including when reading fails.
func Load(path, relPath, prefix string) (Entry, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Entry{}, fmt.Errorf("load input: %w", err)
	}
	defer f.Close()

	sql, stats, err := Filter(f, prefix)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", path, err)
	}

	return Entry{
		Path:    path,
		RelPath: relPath,
		SQL:     sql,
		Stats:   stats,
	}, nil
}
