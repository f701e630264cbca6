// Package schema defines the public result types of docanalyzer-go: the symbols of a
// library's public surface and the documentation violations found on them.
package schema

import "fmt"

// ============================================================================
// Symbols
// ============================================================================

// Kind is the category of a public symbol.
type Kind string

const (
	KindModule   Kind = "module"   // a Go package
	KindClass    Kind = "class"    // a named type or type alias
	KindMethod   Kind = "method"   // a method, including interface methods
	KindProperty Kind = "property" // an exported struct field
	KindFunction Kind = "function" // a package-level func
	KindValue    Kind = "value"    // an exported package-level var or const
)

type Position struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (p Position) String() string {
	if p.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Symbol is a snapshot of one publicly reachable entity, taken at traversal time.
type Symbol struct {
	QualifiedName string    `json:"qualified_name" yaml:"qualified_name"`
	Name          string    `json:"name" yaml:"name"`
	Kind          Kind      `json:"kind" yaml:"kind"`
	Owner         string    `json:"owner,omitempty" yaml:"owner,omitempty"` // qualified name of the enclosing package or type
	Position      *Position `json:"position,omitempty" yaml:"position,omitempty"`

	// InheritedFrom is the qualified name of the method that actually carries the
	// documentation when this symbol is a method promoted through embedding.
	InheritedFrom string `json:"inherited_from,omitempty" yaml:"inherited_from,omitempty"`
}

// Inherited reports whether the symbol is a promoted member with no declaration of its own.
func (s Symbol) Inherited() bool { return s.InheritedFrom != "" }
