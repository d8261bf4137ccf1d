package codegen

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/electwix/sqlembed/internal/source"
)

// Identifier derives the symbol name for an embedded file from its base name:
// the last extension is dropped, the rest is split on underscores, each
// segment's first rune is upper-cased and the segments are joined behind
// prefix. "common_metrics.sql" becomes "kCommonMetrics" for prefix "k".
func Identifier(prefix, relPath string) string {
	base := path.Base(relPath)
	name := strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	b.Grow(len(prefix) + len(name))
	b.WriteString(prefix)
	for _, seg := range strings.Split(name, "_") {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// CollisionError reports two inputs whose names derive the same identifier.
type CollisionError struct {
	Identifier string
	First      string
	Second     string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s and %s both derive identifier %s", e.First, e.Second, e.Identifier)
}

// InvalidIdentifierError reports a file name that cannot form an identifier.
type InvalidIdentifierError struct {
	Identifier string
	Path       string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: derived identifier %q is not a valid identifier", e.Path, e.Identifier)
}

// Bind derives an identifier for every entry, keeping entry order, and fails
// before anything is emitted if two entries collide or a name is unusable.
func Bind(prefix string, entries []source.Entry) ([]Binding, error) {
	bindings := make([]Binding, 0, len(entries))
	owners := make(map[string]string, len(entries))
	for _, entry := range entries {
		ident := Identifier(prefix, entry.RelPath)
		if !isIdentifier(ident) {
			return nil, &InvalidIdentifierError{Identifier: ident, Path: entry.RelPath}
		}
		if first, ok := owners[ident]; ok {
			return nil, &CollisionError{Identifier: ident, First: first, Second: entry.RelPath}
		}
		owners[ident] = entry.RelPath
		bindings = append(bindings, Binding{
			RelPath:    entry.RelPath,
			Identifier: ident,
			SQL:        entry.SQL,
		})
	}
	return bindings, nil
}

// isIdentifier accepts the ASCII identifiers valid in every target language.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}
