package astx

import (
	"go/ast"
	"go/token"
	"strings"
)

// Doc is the documentation attached to one declaration.
type Doc struct {
	Present bool   // a comment group is attached, even if it is blank
	Text    string // comment text as returned by ast.CommentGroup.Text
}

// DocOf converts a comment group into a Doc. A nil group yields an absent Doc.
func DocOf(g *ast.CommentGroup) Doc {
	if g == nil {
		return Doc{}
	}
	return Doc{Present: true, Text: g.Text()}
}

// Blank reports whether the doc has no text once whitespace is trimmed.
func (d Doc) Blank() bool { return strings.TrimSpace(d.Text) == "" }

// Index maps declared identifiers of one package to their doc comments.
type Index struct {
	pkg   Doc
	byPos map[token.Pos]Doc
}

// NewIndex builds the doc index for the syntax trees of a single package.
// Keys are the positions of the declaring identifiers, which is what
// types.Object.Pos returns for package-level objects, methods and fields.
func NewIndex(files []*ast.File) *Index {
	ix := &Index{byPos: make(map[token.Pos]Doc)}

	var pkgDocs []string
	for _, file := range files {
		if file == nil {
			continue
		}
		// go/doc raccoglie tutti i commenti di package, non solo il primo
		if file.Doc != nil {
			ix.pkg.Present = true
			pkgDocs = append(pkgDocs, file.Doc.Text())
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				ix.byPos[d.Name.Pos()] = DocOf(d.Doc)
			case *ast.GenDecl:
				ix.addGenDecl(d)
			}
		}
	}
	ix.pkg.Text = strings.Join(pkgDocs, "\n")
	return ix
}

// Package returns the package doc comment.
func (ix *Index) Package() Doc { return ix.pkg }

// Lookup returns the doc for the identifier declared at pos. The boolean is false when
// no declaration in the indexed files starts at pos.
func (ix *Index) Lookup(pos token.Pos) (Doc, bool) {
	d, ok := ix.byPos[pos]
	return d, ok
}

func (ix *Index) addGenDecl(d *ast.GenDecl) {
	grouped := d.Lparen.IsValid()
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			g := s.Doc
			if g == nil && !grouped {
				g = d.Doc
			}
			ix.byPos[s.Name.Pos()] = DocOf(g)
			ix.addTypeMembers(s.Type)

		case *ast.ValueSpec:
			g := s.Doc
			if g == nil {
				g = s.Comment
			}
			if g == nil && (!grouped || d.Tok == token.CONST) {
				// a const block doc covers every constant in the block
				g = d.Doc
			}
			for _, name := range s.Names {
				ix.byPos[name.Pos()] = DocOf(g)
			}
		}
	}
}

func (ix *Index) addTypeMembers(expr ast.Expr) {
	var fields *ast.FieldList
	switch t := expr.(type) {
	case *ast.StructType:
		fields = t.Fields
	case *ast.InterfaceType:
		fields = t.Methods
	}
	if fields == nil {
		return
	}
	for _, f := range fields.List {
		g := f.Doc
		if g == nil {
			g = f.Comment
		}
		// embedded fields and embedded interfaces have no names
		for _, name := range f.Names {
			ix.byPos[name.Pos()] = DocOf(g)
		}
	}
}
