package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codellm-devkit/docanalyzer-go/internal/config"
	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.IncludeReexports)
	assert.True(t, cfg.FailOnInheritedOnly)
	assert.True(t, cfg.VerifyOptions().FailOnInheritedOnly)
	assert.Equal(t, "text", cfg.Format)

	wopts := cfg.WalkOptions(nil)
	assert.True(t, wopts.IncludeValues)
	assert.Equal(t, surface.Exported{}, wopts.Visibility)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
include_reexports: true
fail_on_inherited_only: false
exclude_patterns:
  - "example.com/lib/gen*"
private_prefixes: [XXX_]
exclude_dirs: [examples]
format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.IncludeReexports)
	assert.False(t, cfg.FailOnInheritedOnly)
	assert.True(t, cfg.IncludeValues, "unset keys keep their defaults")
	assert.Equal(t, []string{"example.com/lib/gen*"}, cfg.ExcludePatterns)
	assert.Equal(t, "json", cfg.Format)

	assert.Equal(t, surface.PrefixVisibility{Prefixes: []string{"XXX_"}}, cfg.WalkOptions(nil).Visibility)
	assert.Equal(t, []string{"examples"}, cfg.LoaderOptions().ExcludeDirs)
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, "fail_on_inherited: true\n"))
	var cerr *config.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "config", cerr.Field)
	assert.Contains(t, err.Error(), "fail_on_inherited")
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cerr *config.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*config.Config)
		field string
	}{
		{"bad format", func(c *config.Config) { c.Format = "xml" }, "format"},
		{"empty pattern", func(c *config.Config) { c.ExcludePatterns = []string{""} }, "exclude_patterns[0]"},
		{"malformed glob", func(c *config.Config) { c.ExcludePatterns = []string{"lib.[a"} }, "exclude_patterns"},
		{"empty prefix", func(c *config.Config) { c.PrivatePrefixes = []string{""} }, "private_prefixes[0]"},
		{"dir with slash", func(c *config.Config) { c.ExcludeDirs = []string{"a/b"} }, "exclude_dirs[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tt.edit(&cfg)

			err := cfg.Validate()
			var cerr *config.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, found, err := config.Discover(dir)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, config.Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("include_special: true\n"), 0o644))
	cfg, found, err = config.Discover(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, cfg.IncludeSpecial)
}
