// Package config loads and validates the sqlembed configuration.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/electwix/sqlembed/internal/fileset"
)

// Language identifies the generated output target.
type Language string

const (
	// LanguageCPP emits a C++ header.
	LanguageCPP Language = "cpp"
	// LanguageGo emits a Go source file.
	LanguageGo Language = "go"
)

var validLanguages = map[Language]struct{}{
	LanguageCPP: {},
	LanguageGo:  {},
}

// Defaults applied when neither the config file nor the command line sets a
// value.
const (
	DefaultCommentPrefix    = "--"
	DefaultIdentifierPrefix = "k"
	DefaultPackage          = "queries"
	DefaultLicenseYear      = 2019
)

// DefaultNamespaces are the C++ scopes the header is wrapped in, outermost
// first.
var DefaultNamespaces = []string{"perfetto", "trace_processor", "metrics", "sql_metrics"}

// Config mirrors the sqlembed configuration file. TOML and YAML share the
// same keys.
type Config struct {
	Out              string   `toml:"out" yaml:"out"`
	Inputs           []string `toml:"inputs" yaml:"inputs"`
	Lang             Language `toml:"lang" yaml:"lang"`
	Package          string   `toml:"package" yaml:"package"`
	Root             string   `toml:"root" yaml:"root"`
	CommentPrefix    string   `toml:"comment_prefix" yaml:"comment_prefix"`
	IdentifierPrefix string   `toml:"identifier_prefix" yaml:"identifier_prefix"`
	Namespaces       []string `toml:"namespaces" yaml:"namespaces"`
	LicenseYear      int      `toml:"license_year" yaml:"license_year"`
}

var knownKeys = map[string]struct{}{
	"out":               {},
	"inputs":            {},
	"lang":              {},
	"package":           {},
	"root":              {},
	"comment_prefix":    {},
	"identifier_prefix": {},
	"namespaces":        {},
	"license_year":      {},
}

// JobPlan is the fully-resolved configuration used by downstream stages.
// Paths are absolute once they come out of Load.
type JobPlan struct {
	Out              string
	Inputs           []string
	Language         Language
	Package          string
	Root             string
	CommentPrefix    string
	IdentifierPrefix string
	Namespaces       []string
	LicenseYear      int
}

// DefaultPlan returns a plan with every default applied and no paths set.
func DefaultPlan() JobPlan {
	return JobPlan{
		Language:         LanguageCPP,
		Package:          DefaultPackage,
		CommentPrefix:    DefaultCommentPrefix,
		IdentifierPrefix: DefaultIdentifierPrefix,
		Namespaces:       slices.Clone(DefaultNamespaces),
		LicenseYear:      DefaultLicenseYear,
	}
}

// ErrNoOutput is returned by Validate when no output path was configured.
var ErrNoOutput = errors.New("output path is required")

// Validate checks the plan after the command line has been merged in.
func (p JobPlan) Validate() error {
	if p.Out == "" {
		return ErrNoOutput
	}
	if _, ok := validLanguages[p.Language]; !ok {
		return fmt.Errorf("unsupported lang %q", p.Language)
	}
	if p.Language == LanguageGo {
		if !token.IsIdentifier(p.Package) {
			return fmt.Errorf("invalid package name %q", p.Package)
		}
	}
	if p.CommentPrefix == "" {
		return errors.New("comment_prefix must not be empty")
	}
	if !isCIdentifier(p.IdentifierPrefix) {
		return fmt.Errorf("invalid identifier_prefix %q", p.IdentifierPrefix)
	}
	for _, ns := range p.Namespaces {
		if !isCIdentifier(ns) {
			return fmt.Errorf("invalid namespace %q", ns)
		}
	}
	if p.LicenseYear <= 0 {
		return fmt.Errorf("invalid license_year %d", p.LicenseYear)
	}
	return nil
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict   bool
	Resolver *fileset.Resolver
}

// Result wraps a loaded job plan alongside any non-fatal warnings.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

// Load reads a TOML or YAML configuration file, chosen by extension, and
// resolves its paths against the file's directory.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	unmarshal, err := decoderFor(path)
	if err != nil {
		return res, err
	}

	var cfg Config
	if err := unmarshal(data, &cfg); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	unknownKeys, err := collectUnknownKeys(data, unmarshal)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(unknownKeys) > 0 {
		slices.Sort(unknownKeys)
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknownKeys, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	baseDir := filepath.Dir(path)
	plan := DefaultPlan()

	if cfg.Out != "" {
		plan.Out = resolvePath(baseDir, cfg.Out)
	}
	if cfg.Root != "" {
		plan.Root = resolvePath(baseDir, cfg.Root)
	}
	if cfg.Lang != "" {
		plan.Language = cfg.Lang
	}
	if cfg.Package != "" {
		plan.Package = cfg.Package
	}
	if cfg.CommentPrefix != "" {
		plan.CommentPrefix = cfg.CommentPrefix
	}
	if cfg.IdentifierPrefix != "" {
		plan.IdentifierPrefix = cfg.IdentifierPrefix
	}
	if cfg.Namespaces != nil {
		plan.Namespaces = cfg.Namespaces
	}
	if cfg.LicenseYear != 0 {
		plan.LicenseYear = cfg.LicenseYear
	}

	if len(cfg.Inputs) > 0 {
		var resolver fileset.Resolver
		if opts.Resolver != nil {
			resolver = *opts.Resolver
		} else {
			resolver, err = fileset.NewOSResolver(baseDir)
			if err != nil {
				return res, fmt.Errorf("%s: %w", path, err)
			}
		}

		inputs, err := resolvePatterns(resolver, cfg.Inputs)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		plan.Inputs = inputs
	}

	res.Plan = plan
	return res, nil
}

type unmarshalFunc func(data []byte, v any) error

func decoderFor(path string) (unmarshalFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q (want .toml, .yaml or .yml)", path, ext)
	}
}

func collectUnknownKeys(data []byte, unmarshal unmarshalFunc) ([]string, error) {
	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := knownKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, filepath.FromSlash(p))
}

func resolvePatterns(resolver fileset.Resolver, patterns []string) ([]string, error) {
	paths, err := resolver.Resolve(patterns)
	if err != nil {
		var noMatchErr fileset.NoMatchError
		if errors.As(err, &noMatchErr) {
			return nil, fmt.Errorf("inputs patterns matched no files: %s: %w", strings.Join(noMatchErr.Patterns, ", "), err)
		}

		var patternErr fileset.PatternError
		if errors.As(err, &patternErr) {
			return nil, fmt.Errorf("inputs: invalid glob pattern %q: %w", patternErr.Pattern, err)
		}

		return nil, fmt.Errorf("inputs: %w", err)
	}
	return paths, nil
}

func isCIdentifier(s string) bool {
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
