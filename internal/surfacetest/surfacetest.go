// Package surfacetest builds surface trees from in-memory sources for tests.
package surfacetest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"testing"

	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
)

// Pkg is the source of one package. Files maps file names to contents.
type Pkg struct {
	Path  string
	Files map[string]string
}

// importer resolves imports against the packages checked so far.
type importer map[string]*types.Package

func (im importer) Import(path string) (*types.Package, error) {
	if p, ok := im[path]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("package %q not available in fixture", path)
}

// Build parses and type-checks pkgs in order and returns them as a tree rooted at
// root. Dependencies must come before the packages importing them. Type errors are
// kept on the package rather than failing the test. File names in positions are
// "<path>/<file>".
func Build(tb testing.TB, root string, pkgs ...Pkg) *surface.Tree {
	tb.Helper()

	fset := token.NewFileSet()
	im := importer{}
	tree := &surface.Tree{Root: root, Fset: fset}

	for _, src := range pkgs {
		names := make([]string, 0, len(src.Files))
		for name := range src.Files {
			names = append(names, name)
		}
		sort.Strings(names)

		var files []*ast.File
		for _, name := range names {
			f, err := parser.ParseFile(fset, src.Path+"/"+name, src.Files[name], parser.ParseComments)
			if err != nil {
				tb.Fatalf("parse %s/%s: %v", src.Path, name, err)
			}
			files = append(files, f)
		}

		pkg := &surface.Package{Path: src.Path, Syntax: files}
		conf := types.Config{
			Importer: im,
			Error:    func(err error) { pkg.Errors = append(pkg.Errors, err) },
		}
		tpkg, _ := conf.Check(src.Path, fset, files, nil)
		pkg.Types = tpkg
		if tpkg != nil {
			pkg.Name = tpkg.Name()
			im[src.Path] = tpkg
		}
		tree.Packages = append(tree.Packages, pkg)
	}
	return tree
}

// Lookup returns the package with the given path, failing the test if it is missing.
func Lookup(tb testing.TB, tree *surface.Tree, path string) *surface.Package {
	tb.Helper()
	for _, p := range tree.Packages {
		if p.Path == path {
			return p
		}
	}
	tb.Fatalf("package %s not in tree", path)
	return nil
}

// Names renders symbols as "<kind> <qualified_name>" in order.
func Names(symbols []surface.Symbol) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, string(s.Kind)+" "+s.QualifiedName)
	}
	return out
}
