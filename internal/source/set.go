package source

import (
	"fmt"

	"github.com/electwix/sqlembed/internal/fileset"
)

// DuplicateError reports two inputs that resolve to the same relative path.
type DuplicateError struct {
	RelPath string
	First   string
	Second  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate input %q: %s and %s", e.RelPath, e.First, e.Second)
}

// Set is an insertion-ordered collection of entries keyed by relative path.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends e, rejecting a relative path that is already present.
func (s *Set) Add(e Entry) error {
	if i, ok := s.index[e.RelPath]; ok {
		return &DuplicateError{RelPath: e.RelPath, First: s.entries[i].Path, Second: e.Path}
	}
	s.index[e.RelPath] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// Get returns the entry stored under relPath.
func (s *Set) Get(relPath string) (Entry, bool) {
	i, ok := s.index[relPath]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns the entries in insertion order.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.entries) }

// LoadAll loads paths in order, naming each entry by its path relative to
// root.
func LoadAll(paths []string, root, prefix string) (*Set, error) {
	set := NewSet()
	for _, path := range paths {
		rel, err := fileset.Rel(root, path)
		if err != nil {
			return nil, err
		}
		entry, err := Load(path, rel, prefix)
		if err != nil {
			return nil, err
		}
		if err := set.Add(entry); err != nil {
			return nil, err
		}
	}
	return set, nil
}
