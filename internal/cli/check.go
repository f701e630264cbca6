package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/codellm-devkit/docanalyzer-go/internal/baseline"
	"github.com/codellm-devkit/docanalyzer-go/internal/config"
	"github.com/codellm-devkit/docanalyzer-go/internal/loader"
	"github.com/codellm-devkit/docanalyzer-go/internal/output"
	"github.com/codellm-devkit/docanalyzer-go/internal/surface"
	"github.com/codellm-devkit/docanalyzer-go/internal/verify"
	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

type checkFlags struct {
	configPath    string
	outputPath    string
	baselinePath  string
	writeBaseline bool
	verbose       bool
	quiet         bool

	// option values, applied over the config file only when set on the command line
	opts config.Config
}

// target is one directory to check with its resolved configuration.
type target struct {
	dir string
	cfg config.Config
}

func newCheckCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &checkFlags{opts: config.Default()}

	cmd := &cobra.Command{
		Use:   "check [dir...]",
		Short: "Report public symbols without a doc comment",
		Long: `Load the Go packages below each directory (default ".") and report every
public package, type, function, method, field and value whose doc comment is
missing, blank, or only inherited from an embedded type.

Options are read from .docanalyzer.yaml in each directory, or from --config;
flags given on the command line take precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runCheck(cmd.Context(), cmd.Flags(), f, args, stdout, stderr)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file (default: <dir>/"+config.FileName+")")
	fs.BoolVar(&f.opts.IncludeReexports, "include-reexports", f.opts.IncludeReexports, "Check aliases of types declared outside the library")
	fs.BoolVar(&f.opts.FailOnInheritedOnly, "fail-on-inherited-only", f.opts.FailOnInheritedOnly, "Report promoted methods documented only on the embedded type")
	fs.StringSliceVar(&f.opts.ExcludePatterns, "exclude", nil, "Glob over qualified names to skip, with everything below it (repeatable)")
	fs.BoolVar(&f.opts.IncludeSpecial, "include-special", f.opts.IncludeSpecial, "Check protocol methods (String, Error, ...) and test entry points")
	fs.BoolVar(&f.opts.IncludeValues, "include-values", f.opts.IncludeValues, "Check exported package-level vars and consts")
	fs.StringSliceVar(&f.opts.PrivatePrefixes, "private-prefix", nil, "Exported name prefix treated as private, e.g. XXX_ (repeatable)")
	fs.BoolVar(&f.opts.IncludeTests, "include-tests", f.opts.IncludeTests, "Include *_test.go files in analysis")
	fs.StringSliceVar(&f.opts.ExcludeDirs, "exclude-dirs", nil, "Directory basenames to exclude (e.g., examples,gen)")
	fs.StringSliceVar(&f.opts.OnlyPkg, "only-pkg", nil, "Package path filters (substring match)")
	fs.StringVarP(&f.opts.Format, "format", "f", f.opts.Format, "Output format: text|json|yaml")
	fs.StringVarP(&f.outputPath, "output", "o", "", "Output file (omit for stdout)")
	fs.StringVar(&f.baselinePath, "baseline", "", "Baseline file of accepted violations")
	fs.BoolVar(&f.writeBaseline, "write-baseline", false, "Write the current violations to --baseline and exit 0")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only log errors")

	return cmd
}

// resolve builds the configuration of every target, before anything is loaded.
func resolve(fs *pflag.FlagSet, f *checkFlags, dirs []string) ([]target, error) {
	var shared *config.Config
	if f.configPath != "" {
		cfg, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		shared = &cfg
	}

	targets := make([]target, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, &config.ConfigurationError{Field: "dir", Err: fmt.Errorf("invalid input path: %w", err)}
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			return nil, &config.ConfigurationError{Field: "dir", Err: fmt.Errorf("input path does not exist: %s", d)}
		}

		var cfg config.Config
		if shared != nil {
			cfg = *shared
		} else if cfg, _, err = config.Discover(abs); err != nil {
			return nil, err
		}
		applyFlags(fs, f.opts, &cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		targets = append(targets, target{dir: abs, cfg: cfg})
	}
	return targets, nil
}

// applyFlags copies the options explicitly set on the command line over cfg.
func applyFlags(fs *pflag.FlagSet, opts config.Config, cfg *config.Config) {
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "include-reexports":
			cfg.IncludeReexports = opts.IncludeReexports
		case "fail-on-inherited-only":
			cfg.FailOnInheritedOnly = opts.FailOnInheritedOnly
		case "exclude":
			cfg.ExcludePatterns = opts.ExcludePatterns
		case "include-special":
			cfg.IncludeSpecial = opts.IncludeSpecial
		case "include-values":
			cfg.IncludeValues = opts.IncludeValues
		case "private-prefix":
			cfg.PrivatePrefixes = opts.PrivatePrefixes
		case "include-tests":
			cfg.IncludeTests = opts.IncludeTests
		case "exclude-dirs":
			cfg.ExcludeDirs = opts.ExcludeDirs
		case "only-pkg":
			cfg.OnlyPkg = opts.OnlyPkg
		case "format":
			cfg.Format = opts.Format
		}
	})
}

// baselineFile picks the baseline path: the flag, else the first target's config
// entry, relative to that target's directory.
func baselineFile(f *checkFlags, targets []target) string {
	if f.baselinePath != "" {
		return f.baselinePath
	}
	p := targets[0].cfg.Baseline
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(targets[0].dir, p)
}

func runCheck(ctx context.Context, fs *pflag.FlagSet, f *checkFlags, dirs []string, stdout, stderr io.Writer) error {
	log := newLogger(stderr, f.verbose, f.quiet)

	targets, err := resolve(fs, f, dirs)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(targets[0].cfg.Format)
	if err != nil {
		return &config.ConfigurationError{Field: "format", Err: err}
	}

	var base *baseline.Baseline
	basePath := baselineFile(f, targets)
	switch {
	case f.writeBaseline && basePath == "":
		return &config.ConfigurationError{Field: "baseline", Err: errors.New("--write-baseline needs a baseline path")}
	case basePath != "" && !f.writeBaseline:
		if base, err = baseline.Load(basePath); err != nil {
			return &config.ConfigurationError{Field: "baseline", Err: err}
		}
		log.Debug("baseline loaded", "path", basePath, "entries", base.Len())
	}

	log.Debug("starting analysis", "dirs", len(targets), "go", runtime.Version())

	results := make([]*loader.LoadResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range targets {
		g.Go(func() error {
			start := time.Now()
			res, err := loader.Load(gctx, t.dir, t.cfg.LoaderOptions())
			if err != nil {
				return fmt.Errorf("load %s: %w", t.dir, err)
			}
			log.Debug("packages loaded", "root", res.RootPath, "packages", len(res.Packages), "ms", time.Since(start).Milliseconds())
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	reports := make([]*schema.Report, 0, len(targets))
	var all []schema.Violation
	for i, t := range targets {
		report, err := check(results[i], t.cfg, log)
		if err != nil {
			return err
		}
		all = append(all, report.Violations...)
		report.Violations, report.Suppressed = base.Filter(report.Violations)
		reports = append(reports, report)
	}

	if f.writeBaseline {
		if err := baseline.Write(basePath, all); err != nil {
			return err
		}
		log.Info("baseline written", "path", basePath, "violations", len(all))
		return nil
	}

	if f.outputPath != "" {
		if err := output.WriteToFile(f.outputPath, reports, format); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := output.Write(stdout, reports, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, r := range reports {
		if !r.OK() {
			return ErrViolations
		}
	}
	return nil
}

// check walks and verifies one loaded tree.
func check(res *loader.LoadResult, cfg config.Config, log *slog.Logger) (*schema.Report, error) {
	start := time.Now()

	symbols, err := surface.Walk(res.Tree(), cfg.WalkOptions(log))
	if err != nil {
		return nil, &config.ConfigurationError{Field: "exclude_patterns", Err: err}
	}
	violations := verify.Verify(symbols, cfg.VerifyOptions())
	if violations == nil {
		violations = []schema.Violation{}
	}

	report := &schema.Report{
		Metadata: schema.Metadata{
			Analyzer:  "docanalyzer-go",
			Version:   version,
			Root:      res.RootPath,
			Module:    res.Module.Path,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			GoVersion: runtime.Version(),
		},
		Checked:    len(symbols),
		Violations: violations,
	}
	report.Metadata.AnalysisDurationMs = time.Since(start).Milliseconds()
	log.Debug("verified", "root", res.RootPath, "symbols", len(symbols), "violations", len(violations))
	return report, nil
}
