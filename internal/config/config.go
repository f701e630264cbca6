// Package config holds the checker options, their YAML file form and their validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/codellm-devkit/docanalyzer-go/internal/loader"
	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
	"github.com/codellm-devkit/docanalyzer-go/internal/verify"
)

// FileName is the config file looked up in the checked directory.
const FileName = ".docanalyzer.yaml"

// Config is the full set of recognized options.
type Config struct {
	IncludeReexports    bool     `yaml:"include_reexports"`
	FailOnInheritedOnly bool     `yaml:"fail_on_inherited_only"`
	ExcludePatterns     []string `yaml:"exclude_patterns" validate:"dive,required"`
	IncludeSpecial      bool     `yaml:"include_special"`
	IncludeValues       bool     `yaml:"include_values"`
	PrivatePrefixes     []string `yaml:"private_prefixes" validate:"dive,required"`

	IncludeTests bool     `yaml:"include_tests"`
	ExcludeDirs  []string `yaml:"exclude_dirs" validate:"dive,required,excludesall=/"`
	OnlyPkg      []string `yaml:"only_pkg" validate:"dive,required"`

	Format   string `yaml:"format" validate:"oneof=text json yaml"`
	Baseline string `yaml:"baseline"`
}

// Default returns the configuration used when no option is set.
func Default() Config {
	return Config{
		FailOnInheritedOnly: true,
		IncludeValues:       true,
		Format:              "text",
	}
}

// ConfigurationError is an invalid option, reported before any traversal starts.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report option names as they appear in the config file
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every option. It returns a *ConfigurationError.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{
				Field: fe.Field(),
				Err:   fmt.Errorf("invalid value %v (rule %q)", fe.Value(), fe.Tag()),
			}
		}
		return &ConfigurationError{Err: err}
	}
	if err := c.WalkOptions(nil).Validate(); err != nil {
		return &ConfigurationError{Field: "exclude_patterns", Err: err}
	}
	return nil
}

// Load reads a YAML config file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, &ConfigurationError{Field: "config", Err: err}
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, &ConfigurationError{Field: "config", Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	return cfg, nil
}

// Discover loads dir/.docanalyzer.yaml when present and returns the defaults otherwise.
func Discover(dir string) (Config, bool, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), false, nil
		}
		return Default(), false, &ConfigurationError{Field: "config", Err: err}
	}
	cfg, err := Load(path)
	return cfg, true, err
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// WalkOptions converts the config into walker options.
func (c Config) WalkOptions(logger *slog.Logger) surface.Options {
	return surface.Options{
		IncludeReexports: c.IncludeReexports,
		IncludeSpecial:   c.IncludeSpecial,
		IncludeValues:    c.IncludeValues,
		ExcludePatterns:  c.ExcludePatterns,
		Visibility:       surface.NewVisibility(c.PrivatePrefixes),
		Logger:           logger,
	}
}

// VerifyOptions converts the config into verifier options.
func (c Config) VerifyOptions() verify.Options {
	return verify.Options{FailOnInheritedOnly: c.FailOnInheritedOnly}
}

// LoaderOptions converts the config into loader options.
func (c Config) LoaderOptions() loader.Options {
	return loader.Options{
		IncludeTest: c.IncludeTests,
		ExcludeDirs: c.ExcludeDirs,
		OnlyPkg:     c.OnlyPkg,
	}
}
