// Package cpp renders embedded SQL as a C++ header of raw string constants
// plus a path-to-constant table.
package cpp

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// Raw string delimiters wrapped around every embedded file.
const (
	rawOpen  = `R"gendelimiter(`
	rawClose = `)gendelimiter"`
)

// licenseBlock is formatted with the license year.
const licenseBlock = `/*
 * Copyright (C) %d The Android Open Source Project
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
`

const autogenBlock = `
/*
 *******************************************************************************
 * AUTOGENERATED BY tools/gen_merged_sql_metrics - DO NOT EDIT
 *******************************************************************************
 */

 #include <string.h>
`

const fileToSQLStruct = `
struct FileToSql {
  const char* path;
  const char* sql;
};
`

const (
	tableOpen  = "\nconst FileToSql kFileToSql[] = {"
	tableClose = "};\n"
)

// legacyNamespaces is the scope layout existing consumers compile against.
// Its closing comments keep the historical "namsepace" spelling on the
// outermost scope so regenerated headers stay byte-identical.
var legacyNamespaces = []string{"perfetto", "trace_processor", "metrics", "sql_metrics"}

const legacyClosingKeyword = "namsepace"

// reserved names are declared by the header itself.
var reserved = map[string]struct{}{
	"FileToSql":  {},
	"kFileToSql": {},
}

// Options configures the header layout.
type Options struct {
	Namespaces  []string
	LicenseYear int
}

// Constant is one embedded file.
type Constant struct {
	Path string
	Name string
	SQL  string
}

// DelimiterError reports content that would terminate the raw string early.
type DelimiterError struct {
	Path string
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("%s: content contains the raw string terminator %s", e.Path, rawClose)
}

// NameError reports a constant name that clashes with a declaration the
// header makes itself.
type NameError struct {
	Name string
	Path string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %s clashes with a name the header declares", e.Path, e.Name)
}

// Generator renders C++ headers.
type Generator struct {
	opts Options
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate renders the header for constants in the given order.
func (g *Generator) Generate(constants []Constant) ([]byte, error) {
	for _, c := range constants {
		if _, ok := reserved[c.Name]; ok {
			return nil, &NameError{Name: c.Name, Path: c.Path}
		}
		if strings.Contains(c.SQL, rawClose) {
			return nil, &DelimiterError{Path: c.Path}
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, licenseBlock, g.opts.LicenseYear)
	buf.WriteString(autogenBlock)

	buf.WriteString("\n")
	for _, ns := range g.opts.Namespaces {
		fmt.Fprintf(&buf, "namespace %s {\n", ns)
	}

	for _, c := range constants {
		fmt.Fprintf(&buf, "\nconst char %s[] = %s\n%s%s;\n", c.Name, rawOpen, c.SQL, rawClose)
	}

	buf.WriteString(fileToSQLStruct)

	buf.WriteString(tableOpen)
	for _, c := range constants {
		fmt.Fprintf(&buf, "\n  {%s, %s},\n", quote(c.Path), c.Name)
	}
	buf.WriteString(tableClose)

	buf.WriteString("\n")
	legacy := slices.Equal(g.opts.Namespaces, legacyNamespaces)
	for i := len(g.opts.Namespaces) - 1; i >= 0; i-- {
		keyword := "namespace"
		if legacy && i == 0 {
			keyword = legacyClosingKeyword
		}
		fmt.Fprintf(&buf, "}  // %s %s\n", keyword, g.opts.Namespaces[i])
	}

	return buf.Bytes(), nil
}

// quote renders s as a C string literal. Control bytes become three-digit
// octal escapes so a following digit cannot extend them.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"', c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20, c == 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
