// Package analyzer exposes the documentation check as a go/analysis pass, so it can run
// under go vet -vettool, gopls or any other analysis driver.
package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/codellm-devkit/docanalyzer-go/internal/astx"
	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
	"github.com/codellm-devkit/docanalyzer-go/internal/verify"
)

const doc = `check that every public symbol has a doc comment

The doccheck analyzer reports exported packages, types, functions, methods,
struct fields and package-level values without a doc comment (MISSING), with
a blank one (EMPTY), or whose only documentation comes from an embedded type
(INHERITED_ONLY). Internal and main packages are not checked.`

// Analyzer reports undocumented public symbols of each analyzed package.
var Analyzer = &analysis.Analyzer{
	Name:      "doccheck",
	Doc:       doc,
	Run:       run,
	FactTypes: []analysis.Fact{new(docFact)},
}

var (
	rootFlag            string
	includeReexports    bool
	failOnInheritedOnly = true
	includeSpecial      bool
	includeValues       = true
	excludeFlag         string
	privatePrefixFlag   string
)

func init() {
	fs := &Analyzer.Flags
	fs.StringVar(&rootFlag, "root", "", "import path of the library root (default: the module path, or the package itself)")
	fs.BoolVar(&includeReexports, "include-reexports", includeReexports, "report aliases of types declared outside the library")
	fs.BoolVar(&failOnInheritedOnly, "fail-on-inherited-only", failOnInheritedOnly, "report promoted methods documented only on the embedded type")
	fs.BoolVar(&includeSpecial, "include-special", includeSpecial, "check protocol methods such as String and Error")
	fs.BoolVar(&includeValues, "include-values", includeValues, "check exported package-level vars and consts")
	fs.StringVar(&excludeFlag, "exclude", "", "comma-separated globs over qualified names to skip")
	fs.StringVar(&privatePrefixFlag, "private-prefix", "", "comma-separated name prefixes treated as private")
}

// docFact carries the doc comment of an exported method or field to the packages that
// embed or alias its type.
type docFact astx.Doc

func (*docFact) AFact() {}

func (f *docFact) String() string {
	return fmt.Sprintf("doc(%q)", strings.TrimSpace(f.Text))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func root(pass *analysis.Pass) string {
	if rootFlag != "" {
		return rootFlag
	}
	if pass.Module != nil && pass.Module.Path != "" {
		return pass.Module.Path
	}
	return pass.Pkg.Path()
}

func run(pass *analysis.Pass) (interface{}, error) {
	opts := surface.Options{
		IncludeReexports: includeReexports,
		IncludeSpecial:   includeSpecial,
		IncludeValues:    includeValues,
		ExcludePatterns:  splitList(excludeFlag),
		Visibility:       surface.NewVisibility(splitList(privatePrefixFlag)),
	}

	ix := astx.NewIndex(pass.Files)
	exportFacts(pass, ix)

	tree := &surface.Tree{
		Root: root(pass),
		Fset: pass.Fset,
		Packages: []*surface.Package{{
			Path:   pass.Pkg.Path(),
			Name:   pass.Pkg.Name(),
			Types:  pass.Pkg,
			Syntax: pass.Files,
		}},
		ExternalDocs: func(obj types.Object) (astx.Doc, bool) {
			var f docFact
			if !pass.ImportObjectFact(obj, &f) {
				return astx.Doc{}, false
			}
			return astx.Doc(f), true
		},
	}
	if !strings.HasPrefix(pass.Pkg.Path()+"/", tree.Root+"/") {
		// a package outside the configured root is checked on its own
		tree.Root = pass.Pkg.Path()
	}

	symbols, err := surface.Walk(tree, opts)
	if err != nil {
		return nil, err
	}
	vopts := verify.Options{FailOnInheritedOnly: failOnInheritedOnly}
	// members declared in another package (reached through an alias) are reported
	// at the name they are published under
	local := make(map[string]token.Pos, len(symbols))
	for _, sym := range symbols {
		pos := sym.Pos
		if !inFiles(pass.Files, pos) {
			pos = local[sym.Owner]
		}
		if pos.IsValid() {
			local[sym.QualifiedName] = pos
		}

		v, bad := verify.Check(sym, vopts)
		if !bad || !pos.IsValid() {
			continue
		}
		pass.Reportf(pos, "%s", v.String())
	}
	return nil, nil
}

func inFiles(files []*ast.File, pos token.Pos) bool {
	if !pos.IsValid() {
		return false
	}
	for _, f := range files {
		if f.FileStart <= pos && pos <= f.FileEnd {
			return true
		}
	}
	return false
}

// exportFacts records the docs of exported methods and struct fields declared in the
// package, for importing packages that embed or alias its types. Undocumented members
// get no fact.
func exportFacts(pass *analysis.Pass, ix *astx.Index) {
	scope := pass.Pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		for i := 0; i < named.NumMethods(); i++ {
			exportDoc(pass, ix, named.Method(i))
		}
		switch u := named.Underlying().(type) {
		case *types.Interface:
			for i := 0; i < u.NumExplicitMethods(); i++ {
				exportDoc(pass, ix, u.ExplicitMethod(i))
			}
		case *types.Struct:
			for i := 0; i < u.NumFields(); i++ {
				if f := u.Field(i); !f.Embedded() {
					exportDoc(pass, ix, f)
				}
			}
		}
	}
}

func exportDoc(pass *analysis.Pass, ix *astx.Index, obj types.Object) {
	if !obj.Exported() || obj.Pkg() != pass.Pkg {
		return
	}
	d, ok := ix.Lookup(obj.Pos())
	if !ok || !d.Present {
		return
	}
	f := docFact(d)
	pass.ExportObjectFact(obj, &f)
}
