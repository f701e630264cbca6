package surface

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codellm-devkit/docanalyzer-go/internal/astx"
	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

// memberKey identifies a member as seen from one owner type. A method promoted into
// two types is one types.Object but two distinct symbols.
type memberKey struct {
	owner  *types.TypeName
	member types.Object
}

type walker struct {
	opts    Options
	vis     Visibility
	log     *slog.Logger
	tree    *Tree
	byPath  map[string]*Package
	indexes map[string]*astx.Index

	visited map[any]struct{}
	out     []Symbol
}

// Walk returns the public surface of tree in traversal order. The only error is an
// invalid configuration, reported before anything is visited.
func Walk(tree *Tree, opts Options) ([]Symbol, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if tree == nil || tree.Root == "" {
		return nil, errors.New("surface: tree has no root")
	}

	w := &walker{
		opts:    opts,
		vis:     opts.Visibility,
		log:     opts.Logger,
		tree:    tree,
		byPath:  make(map[string]*Package, len(tree.Packages)),
		indexes: make(map[string]*astx.Index),
		visited: make(map[any]struct{}),
	}
	if w.vis == nil {
		w.vis = Exported{}
	}
	if w.log == nil {
		w.log = slog.New(slog.DiscardHandler)
	}
	for _, p := range tree.Packages {
		if p == nil {
			continue
		}
		// test variants share the path of the package they extend; the first one wins
		if _, dup := w.byPath[p.Path]; !dup {
			w.byPath[p.Path] = p
		}
	}

	w.walkPackage(tree.Root, "")
	return w.out, nil
}

// mark adds key to the visited set and reports whether it was new.
func (w *walker) mark(key any) bool {
	if _, seen := w.visited[key]; seen {
		return false
	}
	w.visited[key] = struct{}{}
	return true
}

func (w *walker) excluded(qn string) bool {
	for _, p := range w.opts.ExcludePatterns {
		if ok, _ := path.Match(p, qn); ok {
			return true
		}
	}
	return false
}

// inTree reports whether an import path belongs to the root's package tree.
func (w *walker) inTree(p string) bool {
	return p == w.tree.Root || strings.HasPrefix(p, w.tree.Root+"/")
}

// packagePublic applies the package-level visibility rules: internal packages below
// the root and main packages are not importable API.
func (w *walker) packagePublic(p, name string) bool {
	if name == "main" {
		return false
	}
	return !w.internal(p)
}

func (w *walker) internal(p string) bool {
	rel := strings.TrimPrefix(strings.TrimPrefix(p, w.tree.Root), "/")
	if rel == "" {
		return false
	}
	for _, elem := range strings.Split(rel, "/") {
		if elem == "internal" {
			return true
		}
	}
	return false
}

// children returns the nearest loaded descendants of p, sorted by import path.
func (w *walker) children(p string) []string {
	var out []string
	for cand := range w.byPath {
		rest, ok := strings.CutPrefix(cand, p+"/")
		if !ok {
			continue
		}
		nearest := true
		for i := 0; i < len(rest); i++ {
			if rest[i] == '/' {
				if _, loaded := w.byPath[p+"/"+rest[:i]]; loaded {
					nearest = false
					break
				}
			}
		}
		if nearest {
			out = append(out, cand)
		}
	}
	sort.Strings(out)
	return out
}

func (w *walker) walkPackage(p, owner string) {
	if w.excluded(p) {
		w.log.Debug("excluded", "symbol", p)
		return
	}
	if w.internal(p) {
		return
	}

	if pkg := w.byPath[p]; pkg != nil && pkg.Name != "main" {
		w.walkPackageMembers(pkg, owner)
		owner = p
	}

	for _, child := range w.children(p) {
		w.walkPackage(child, owner)
	}
}

func (w *walker) walkPackageMembers(pkg *Package, owner string) {
	key := any(pkg)
	if pkg.Types != nil {
		key = pkg.Types
	}
	if !w.mark(key) {
		return
	}

	sym := Symbol{Symbol: schema.Symbol{
		QualifiedName: pkg.Path,
		Name:          pkg.Name,
		Kind:          schema.KindModule,
		Owner:         owner,
	}}
	if len(pkg.Syntax) > 0 {
		sym.Pos = pkg.Syntax[0].Package
		sym.Position = w.position(sym.Pos)
	}
	switch {
	case pkg.Types == nil:
		sym.Err = &IntrospectionError{QualifiedName: pkg.Path, Err: errNoTypes}
	case len(pkg.Errors) > 0:
		sym.Err = &IntrospectionError{QualifiedName: pkg.Path, Err: errors.Join(pkg.Errors...)}
		sym.Doc = w.index(pkg).Package()
	default:
		sym.Doc = w.index(pkg).Package()
	}
	if sym.Err != nil {
		w.log.Debug("introspection failed", "symbol", pkg.Path, "err", sym.Err)
	}
	w.out = append(w.out, sym)

	if pkg.Types == nil {
		return
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		if !w.vis.Public(name) {
			continue
		}
		qn := pkg.Path + "." + name
		if w.excluded(qn) {
			w.log.Debug("excluded", "symbol", qn)
			continue
		}
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if obj.IsAlias() {
				w.walkAlias(obj, qn, pkg.Path)
			} else {
				w.walkNamed(obj, qn, pkg.Path)
			}
		case *types.Func:
			if !w.opts.IncludeSpecial && isTestEntry(name, w.filename(obj.Pos())) {
				continue
			}
			w.record(obj, obj, obj.Pos(), qn, schema.KindFunction, pkg.Path, "")
		case *types.Var, *types.Const:
			if w.opts.IncludeValues {
				w.record(obj, obj, obj.Pos(), qn, schema.KindValue, pkg.Path, "")
			}
		}
	}
}

func (w *walker) walkNamed(tn *types.TypeName, qn, owner string) {
	if !w.record(tn, tn, tn.Pos(), qn, schema.KindClass, owner, "") {
		return
	}
	if named, ok := tn.Type().(*types.Named); ok {
		w.walkMembers(named, tn, qn, tn.Pos())
	}
}

// walkAlias handles type aliases. Aliases of types declared outside the root tree are
// re-exports; aliases of public types in public packages are skipped, so the type is
// reported once, at home.
func (w *walker) walkAlias(alias *types.TypeName, qn, owner string) {
	named, _ := types.Unalias(alias.Type()).(*types.Named)
	if named == nil || named.Obj().Pkg() == nil {
		// alias of a type literal or a predeclared type, declared here
		w.record(alias, alias, alias.Pos(), qn, schema.KindClass, owner, "")
		return
	}

	target := named.Origin().Obj()
	home := target.Pkg()
	if !w.inTree(home.Path()) {
		if !w.opts.IncludeReexports {
			w.log.Debug("skipping re-export", "symbol", qn, "target", home.Path()+"."+target.Name())
			return
		}
		w.record(target, alias, alias.Pos(), qn, schema.KindClass, owner, "")
		return
	}
	if w.packagePublic(home.Path(), home.Name()) && w.vis.Public(target.Name()) {
		return
	}

	// the target is unexported or lives in a private package: the alias is its only
	// public name
	if w.record(target, alias, alias.Pos(), qn, schema.KindClass, owner, "") {
		w.walkMembers(named.Origin(), target, qn, alias.Pos())
	}
}

// walkMembers records the exported fields (declaration order) and the methods
// (alphabetical) of a named type. Promoted methods are located at at, the position of
// the name the owner is published under.
func (w *walker) walkMembers(named *types.Named, owner *types.TypeName, ownerQN string, at token.Pos) {
	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Embedded() || !w.vis.Public(f.Name()) {
				continue
			}
			if f.Pkg() == nil || !w.inTree(f.Pkg().Path()) {
				// defined over a third-party struct: the fields are documented there
				continue
			}
			qn := ownerQN + "." + f.Name()
			if w.excluded(qn) {
				continue
			}
			w.record(memberKey{owner, f}, f, f.Pos(), qn, schema.KindProperty, ownerQN, "")
		}
	}

	var mset *types.MethodSet
	if types.IsInterface(named) {
		mset = types.NewMethodSet(named)
	} else {
		mset = types.NewMethodSet(types.NewPointer(named))
	}
	for i := 0; i < mset.Len(); i++ {
		m, ok := mset.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		m = m.Origin()
		name := m.Name()
		if !w.vis.Public(name) || (!w.opts.IncludeSpecial && IsSpecialMethod(name)) {
			continue
		}
		qn := ownerQN + "." + name
		if w.excluded(qn) {
			continue
		}

		decl := declaringType(m)
		if decl == nil || decl == owner {
			w.record(memberKey{owner, m}, m, m.Pos(), qn, schema.KindMethod, ownerQN, "")
			continue
		}
		if m.Pkg() == nil || !w.inTree(m.Pkg().Path()) {
			// third-party base types are not required to be documented
			continue
		}
		from := decl.Pkg().Path() + "." + decl.Name() + "." + name
		// reported where an override would be declared
		w.record(memberKey{owner, m}, m, at, qn, schema.KindMethod, ownerQN, from)
	}
}

// declaringType returns the named type whose declaration contains m, or nil when m
// was declared in an anonymous interface literal.
func declaringType(m *types.Func) *types.TypeName {
	sig, ok := m.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	t := types.Unalias(sig.Recv().Type())
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	if named, ok := t.(*types.Named); ok {
		return named.Origin().Obj()
	}
	return nil
}

// record snapshots obj as a symbol located at at, unless key was already visited. It
// returns false for duplicates.
func (w *walker) record(key any, obj types.Object, at token.Pos, qn string, kind schema.Kind, owner, inheritedFrom string) bool {
	if !w.mark(key) {
		return false
	}
	sym := Symbol{Symbol: schema.Symbol{
		QualifiedName: qn,
		Name:          qn[strings.LastIndex(qn, ".")+1:],
		Kind:          kind,
		Owner:         owner,
		Position:      w.position(at),
		InheritedFrom: inheritedFrom,
	}, Pos: at}
	doc, err := w.doc(obj)
	if err != nil {
		sym.Err = &IntrospectionError{QualifiedName: qn, Err: err}
		w.log.Debug("introspection failed", "symbol", qn, "err", err)
	}
	sym.Doc = doc
	w.out = append(w.out, sym)
	return true
}

// doc resolves the doc comment attached to obj's declaration.
func (w *walker) doc(obj types.Object) (astx.Doc, error) {
	if obj.Pkg() == nil {
		return astx.Doc{}, errNoDeclaration
	}
	if pkg := w.byPath[obj.Pkg().Path()]; pkg != nil {
		if d, ok := w.index(pkg).Lookup(obj.Pos()); ok {
			return d, nil
		}
		return astx.Doc{}, errNoDeclaration
	}
	if w.tree.ExternalDocs != nil {
		if d, ok := w.tree.ExternalDocs(obj); ok {
			return d, nil
		}
	}
	return astx.Doc{}, fmt.Errorf("%w: package %s not loaded", errNoDeclaration, obj.Pkg().Path())
}

func (w *walker) index(pkg *Package) *astx.Index {
	ix, ok := w.indexes[pkg.Path]
	if !ok {
		ix = astx.NewIndex(pkg.Syntax)
		w.indexes[pkg.Path] = ix
	}
	return ix
}

func (w *walker) position(pos token.Pos) *schema.Position {
	if !pos.IsValid() || w.tree.Fset == nil {
		return nil
	}
	p := w.tree.Fset.Position(pos)
	return &schema.Position{File: relPath(w.tree.Dir, p.Filename), Line: p.Line, Column: p.Column}
}

func (w *walker) filename(pos token.Pos) string {
	if !pos.IsValid() || w.tree.Fset == nil {
		return ""
	}
	return w.tree.Fset.Position(pos).Filename
}

func relPath(dir, file string) string {
	if dir == "" {
		return file
	}
	if rel, err := filepath.Rel(dir, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return file
}
