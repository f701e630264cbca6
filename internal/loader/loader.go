// Package loader carica il package tree di una libreria Go con go/packages.
package loader

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
)

// Options controlla il comportamento del loader.
type Options struct {
	IncludeTest bool
	ExcludeDirs []string // basenames da escludere
	OnlyPkg     []string // filtra per sottostringa nel path relativo
	BuildFlags  []string
	Env         []string // appended to os.Environ()
}

// Module is the Go module containing the loaded root.
type Module struct {
	Path string // module path from go.mod
	Dir  string // absolute directory holding go.mod
}

// LoadResult is the loaded package tree below Root.
type LoadResult struct {
	Root     string // absolute directory that was loaded
	RootPath string // import path of Root, even when Root holds no Go files
	Module   Module
	Fset     *token.FileSet
	Packages []*packages.Package // sorted by PkgPath
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedSyntax |
	packages.NeedModule

// ErrNoModule is returned when no go.mod is found above the root.
var ErrNoModule = errors.New("no go.mod file found in parent directories")

// FindModule walks up from dir to the nearest go.mod and reads its module path.
func FindModule(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, fmt.Errorf("invalid path: %w", err)
	}
	cur := abs
	for {
		data, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		if err == nil {
			p := modfile.ModulePath(data)
			if p == "" {
				return Module{}, fmt.Errorf("%s: go.mod has no module directive", cur)
			}
			return Module{Path: p, Dir: cur}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Module{}, fmt.Errorf("read go.mod: %w", err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Module{}, ErrNoModule
		}
		cur = parent
	}
}

// Load type-checks every package below root, with syntax and comments.
func Load(ctx context.Context, root string, opts Options) (*LoadResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}
	mod, err := FindModule(abs)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(mod.Dir, abs)
	if err != nil {
		return nil, fmt.Errorf("relative root: %w", err)
	}
	rootPath := mod.Path
	if rel != "." {
		rootPath = path.Join(mod.Path, filepath.ToSlash(rel))
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        abs,
		Tests:      opts.IncludeTest,
		BuildFlags: opts.BuildFlags,
		Fset:       fset,
		Env:        append(os.Environ(), opts.Env...),
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	res := &LoadResult{
		Root:     abs,
		RootPath: rootPath,
		Module:   mod,
		Fset:     fset,
		Packages: filter(pkgs, abs, rootPath, opts),
	}
	return res, nil
}

func filter(pkgs []*packages.Package, root, rootPath string, opts Options) []*packages.Package {
	ex := map[string]struct{}{
		"vendor":   {},
		"testdata": {},
	}
	for _, d := range opts.ExcludeDirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		ex[d] = struct{}{}
	}

	byPath := map[string]*packages.Package{}
	for _, p := range pkgs {
		if p.PkgPath != rootPath && !strings.HasPrefix(p.PkgPath, rootPath+"/") {
			// external _test packages and the generated .test mains
			continue
		}
		if strings.HasSuffix(p.PkgPath, ".test") || strings.HasSuffix(p.Name, "_test") {
			continue
		}
		rp := relDir(root, p)
		if skipDir(rp, ex) || !onlyPkg(rp, opts.OnlyPkg) {
			continue
		}
		// la variante di test contiene anche i file _test.go
		if prev, ok := byPath[p.PkgPath]; ok && len(prev.CompiledGoFiles) >= len(p.CompiledGoFiles) {
			continue
		}
		byPath[p.PkgPath] = p
	}

	out := make([]*packages.Package, 0, len(byPath))
	for _, p := range byPath {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PkgPath < out[j].PkgPath })
	return out
}

func relDir(root string, p *packages.Package) string {
	files := p.GoFiles
	if len(files) == 0 {
		files = p.CompiledGoFiles
	}
	if len(files) == 0 {
		return ""
	}
	rel, err := filepath.Rel(root, filepath.Dir(files[0]))
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

func skipDir(rel string, ex map[string]struct{}) bool {
	if rel == "" || rel == "." {
		return false
	}
	for _, elem := range strings.Split(rel, "/") {
		if _, skip := ex[elem]; skip {
			return true
		}
		if strings.HasPrefix(elem, ".") || strings.HasPrefix(elem, "_") {
			return true
		}
	}
	return false
}

func onlyPkg(rel string, only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, s := range only {
		s = strings.TrimSpace(s)
		if s != "" && strings.Contains(rel, s) {
			return true
		}
	}
	return false
}

// Tree converts the result into the walker's input model.
func (r *LoadResult) Tree() *surface.Tree {
	t := &surface.Tree{
		Root: r.RootPath,
		Dir:  r.Root,
		Fset: r.Fset,
	}
	for _, p := range r.Packages {
		sp := &surface.Package{
			Path:   p.PkgPath,
			Name:   p.Name,
			Types:  p.Types,
			Syntax: p.Syntax,
		}
		for _, e := range p.Errors {
			sp.Errors = append(sp.Errors, e)
		}
		t.Packages = append(t.Packages, sp)
	}
	return t
}
