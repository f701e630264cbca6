package astx

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

const docsSrc = `// Package p is documented.
package p

// T is a type.
type T struct {
	// A is documented.
	A int
	B string // trailing comment counts
	C bool
	Embedded
}

//   
type Blank int

type (
	// G1 has its own doc.
	G1 int
	G2 int
)

// Block doc covers every constant.
const (
	K1 = 1
	K2 = 2 // K2 trailing
)

// Block doc does not cover vars.
var (
	V1 = 1
)

// Single var.
var V2 = 2

// F is a func.
func F() {}

func (T) M() {}

// I is an interface.
type I interface {
	// Do does.
	Do()
	Undone()
}

type Embedded struct{}
`

func parseDocs(t *testing.T) (*ast.File, *Index) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", docsSrc, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return f, NewIndex([]*ast.File{f})
}

// identPos returns the position of the first declaring identifier with the given name.
func identPos(t *testing.T, f *ast.File, name string) token.Pos {
	t.Helper()
	var pos token.Pos
	ast.Inspect(f, func(n ast.Node) bool {
		if pos.IsValid() {
			return false
		}
		switch x := n.(type) {
		case *ast.FuncDecl:
			if x.Name.Name == name {
				pos = x.Name.Pos()
			}
		case *ast.TypeSpec:
			if x.Name.Name == name {
				pos = x.Name.Pos()
			}
		case *ast.Field:
			for _, id := range x.Names {
				if id.Name == name {
					pos = id.Pos()
				}
			}
		case *ast.ValueSpec:
			for _, id := range x.Names {
				if id.Name == name {
					pos = id.Pos()
				}
			}
		}
		return true
	})
	if !pos.IsValid() {
		t.Fatalf("identifier %s not found", name)
	}
	return pos
}

func TestIndex_Package(t *testing.T) {
	_, ix := parseDocs(t)
	d := ix.Package()
	if !d.Present || d.Text != "Package p is documented.\n" {
		t.Fatalf("unexpected package doc: %+v", d)
	}
}

func TestIndex_Lookup(t *testing.T) {
	f, ix := parseDocs(t)

	tests := []struct {
		name    string
		present bool
		blank   bool
	}{
		{"T", true, false},
		{"A", true, false},
		{"B", true, false},
		{"C", false, true},
		{"Blank", true, true},
		{"G1", true, false},
		{"G2", false, true},
		{"K1", true, false},
		{"K2", true, false},
		{"V1", false, true},
		{"V2", true, false},
		{"F", true, false},
		{"M", false, true},
		{"Do", true, false},
		{"Undone", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ix.Lookup(identPos(t, f, tt.name))
			if !ok {
				t.Fatalf("%s not indexed", tt.name)
			}
			if d.Present != tt.present {
				t.Fatalf("%s: present=%v, want %v", tt.name, d.Present, tt.present)
			}
			if d.Blank() != tt.blank {
				t.Fatalf("%s: blank=%v, want %v (text %q)", tt.name, d.Blank(), tt.blank, d.Text)
			}
		})
	}
}

func TestIndex_TrailingConstCommentWins(t *testing.T) {
	f, ix := parseDocs(t)
	d, _ := ix.Lookup(identPos(t, f, "K2"))
	if d.Text != "K2 trailing\n" {
		t.Fatalf("expected spec comment to win over block doc, got %q", d.Text)
	}
}

func TestIndex_EmbeddedFieldNotIndexed(t *testing.T) {
	f, ix := parseDocs(t)
	// Embedded is indexed as a type, not as a field of T
	pos := identPos(t, f, "Embedded")
	if _, ok := ix.Lookup(pos); !ok {
		t.Fatalf("type Embedded should be indexed")
	}
	if _, ok := ix.Lookup(token.NoPos); ok {
		t.Fatalf("NoPos must not be indexed")
	}
}
