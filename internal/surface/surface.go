// Package surface discovers the public API surface of a Go library.
//
// Walk traverses a loaded package tree and returns every publicly reachable symbol
// (packages, types, functions, methods, fields and package-level values) exactly once,
// in traversal order: a package, then its members alphabetically with each type's
// members right after the type, then its sub-packages alphabetically.
//
// The walker only reads the go/types object graph and the doc comments attached to the
// declarations. It never mutates the graph and performs no I/O.
package surface

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"strings"

	"github.com/codellm-devkit/docanalyzer-go/internal/astx"
	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

// Package is one type-checked package of the library under test.
type Package struct {
	Path   string
	Name   string
	Types  *types.Package
	Syntax []*ast.File
	Errors []error // load, parse and type errors reported for the package
}

// Tree is a loaded package tree. Root is the import path the walk starts from; a
// package at Root is optional, so a module whose root directory holds no Go files can
// still be walked through its sub-packages.
type Tree struct {
	Root     string
	Dir      string // directory of Root, used to shorten positions; may be empty
	Fset     *token.FileSet
	Packages []*Package

	// ExternalDocs resolves docs for objects declared in packages that are not part of
	// Packages. Analysis drivers set it to read facts exported by earlier passes.
	ExternalDocs func(obj types.Object) (astx.Doc, bool)
}

// Symbol is a public symbol together with the documentation snapshot taken when it
// was discovered.
type Symbol struct {
	schema.Symbol
	Doc astx.Doc
	Err error     // non-nil when the symbol could not be introspected
	Pos token.Pos // where diagnostics for the symbol belong; NoPos when unknown
}

// IntrospectionError reports that a symbol's declaration or documentation could not
// be resolved. The walk records it on the symbol and continues.
type IntrospectionError struct {
	QualifiedName string
	Err           error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspect %s: %v", e.QualifiedName, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

var (
	errNoDeclaration = errors.New("declaration not found in package syntax")
	errNoTypes       = errors.New("package has no type information")
)

// Options controls which entities count as public surface.
type Options struct {
	// IncludeReexports records aliases of types declared outside the root's package
	// tree. Their foreign members are never walked.
	IncludeReexports bool

	// IncludeSpecial keeps protocol methods (String, Error, MarshalJSON, ...) and test
	// entry points.
	IncludeSpecial bool

	// IncludeValues records exported package-level vars and consts.
	IncludeValues bool

	// ExcludePatterns are path.Match globs over qualified names. A match skips the
	// symbol and everything below it.
	ExcludePatterns []string

	// Visibility decides which identifiers are public. Nil means Exported.
	Visibility Visibility

	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{IncludeValues: true}
}

// Validate checks the options before any traversal.
func (o Options) Validate() error {
	for _, p := range o.ExcludePatterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("exclude pattern must not be empty")
		}
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// Visibility classifies identifier names as public or private.
type Visibility interface {
	Public(name string) bool
}

// Exported is the native Go rule: a name is public iff it is exported.
type Exported struct{}

func (Exported) Public(name string) bool { return token.IsExported(name) }

// PrefixVisibility narrows Exported by treating names with one of Prefixes as private,
// for conventions such as generated XXX_ fields.
type PrefixVisibility struct {
	Prefixes []string
}

func (v PrefixVisibility) Public(name string) bool {
	if !token.IsExported(name) {
		return false
	}
	for _, p := range v.Prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

// NewVisibility returns Exported, or a PrefixVisibility when private prefixes are given.
func NewVisibility(privatePrefixes []string) Visibility {
	if len(privatePrefixes) == 0 {
		return Exported{}
	}
	return PrefixVisibility{Prefixes: privatePrefixes}
}

// specialMethods are protocol hooks whose meaning is fixed by a standard interface.
var specialMethods = map[string]struct{}{
	"String":          {},
	"GoString":        {},
	"Format":          {},
	"Error":           {},
	"Unwrap":          {},
	"MarshalJSON":     {},
	"UnmarshalJSON":   {},
	"MarshalText":     {},
	"UnmarshalText":   {},
	"MarshalBinary":   {},
	"UnmarshalBinary": {},
	"MarshalYAML":     {},
	"UnmarshalYAML":   {},
	"ServeHTTP":       {},
	"Len":             {},
	"Less":            {},
	"Swap":            {},
}

// IsSpecialMethod reports whether name is a protocol method excluded by default.
func IsSpecialMethod(name string) bool {
	_, ok := specialMethods[name]
	return ok
}

// isTestEntry reports whether a func declared in filename is a go test entry point.
func isTestEntry(name, filename string) bool {
	if !strings.HasSuffix(filename, "_test.go") {
		return false
	}
	for _, prefix := range []string{"Test", "Benchmark", "Example", "Fuzz"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
