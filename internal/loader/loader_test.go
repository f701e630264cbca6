package loader

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

func sampleDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "sampleapp"))
	require.NoError(t, err)
	return dir
}

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

func pkgPaths(pkgs []*packages.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.PkgPath)
	}
	return out
}

func TestFindModule(t *testing.T) {
	dir := sampleDir(t)

	mod, err := FindModule(filepath.Join(dir, "people"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/sampleapp", mod.Path)
	assert.Equal(t, dir, mod.Dir)
}

func TestFindModule_NoDirective(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.21\n"), 0o644))

	_, err := FindModule(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no module directive")
}

func TestLoad_Sampleapp(t *testing.T) {
	requireGo(t)

	res, err := Load(context.Background(), sampleDir(t), Options{Env: []string{"GOWORK=off"}})
	require.NoError(t, err)

	assert.Equal(t, "example.com/sampleapp", res.RootPath)
	assert.Equal(t, []string{
		"example.com/sampleapp",
		"example.com/sampleapp/cmd/sample",
		"example.com/sampleapp/internal/clock",
		"example.com/sampleapp/people",
	}, pkgPaths(res.Packages))
	for _, p := range res.Packages {
		assert.NotEmpty(t, p.Syntax, p.PkgPath)
		assert.NotNil(t, p.Types, p.PkgPath)
		assert.Empty(t, p.Errors, p.PkgPath)
	}
}

func TestLoad_SubdirectoryRoot(t *testing.T) {
	requireGo(t)

	res, err := Load(context.Background(), filepath.Join(sampleDir(t), "people"), Options{Env: []string{"GOWORK=off"}})
	require.NoError(t, err)
	assert.Equal(t, "example.com/sampleapp/people", res.RootPath)
	assert.Equal(t, []string{"example.com/sampleapp/people"}, pkgPaths(res.Packages))
}

func TestLoad_ExcludeAndOnly(t *testing.T) {
	requireGo(t)
	dir := sampleDir(t)

	res, err := Load(context.Background(), dir, Options{ExcludeDirs: []string{"cmd", "internal"}, Env: []string{"GOWORK=off"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/sampleapp", "example.com/sampleapp/people"}, pkgPaths(res.Packages))

	res, err = Load(context.Background(), dir, Options{OnlyPkg: []string{"peop"}, Env: []string{"GOWORK=off"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/sampleapp/people"}, pkgPaths(res.Packages))
}

func TestLoad_Tree(t *testing.T) {
	requireGo(t)

	res, err := Load(context.Background(), sampleDir(t), Options{Env: []string{"GOWORK=off"}})
	require.NoError(t, err)

	tree := res.Tree()
	assert.Equal(t, "example.com/sampleapp", tree.Root)
	assert.Equal(t, res.Root, tree.Dir)
	require.Len(t, tree.Packages, len(res.Packages))
	assert.Equal(t, "people", tree.Packages[3].Name)
}

func TestLoad_NoModule(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindModule(dir); err == nil {
		t.Skip("temp dir is inside a module")
	}
	_, err := Load(context.Background(), dir, Options{})
	require.ErrorIs(t, err, ErrNoModule)
}

func TestSkipDir(t *testing.T) {
	ex := map[string]struct{}{"vendor": {}, "gen": {}}
	tests := []struct {
		rel  string
		skip bool
	}{
		{".", false},
		{"", false},
		{"pkg/api", false},
		{"vendor/x", true},
		{"a/gen", true},
		{".hidden/x", true},
		{"_tools", true},
	}
	for _, tt := range tests {
		if got := skipDir(tt.rel, ex); got != tt.skip {
			t.Errorf("skipDir(%q) = %v, want %v", tt.rel, got, tt.skip)
		}
	}
}

func TestOnlyPkg(t *testing.T) {
	assert.True(t, onlyPkg("a/b", nil))
	assert.True(t, onlyPkg("a/b", []string{"x", "a/"}))
	assert.False(t, onlyPkg("a/b", []string{"x", " "}))
}
