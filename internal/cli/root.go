// Package cli provides the docanalyzer-go command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/codellm-devkit/docanalyzer-go/internal/config"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfigErr = 2
)

// ErrViolations is returned by the check command when undocumented symbols were found.
var ErrViolations = errors.New("documentation violations found")

// NewRootCommand builds the command tree. Reports go to stdout, logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "docanalyzer-go",
		Short:         "Check that every public symbol of a Go library is documented",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("docanalyzer-go {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.ConfigurationError{Field: "flags", Err: err}
	})

	root.AddCommand(newCheckCommand(stdout, stderr))
	root.AddCommand(newVersionCommand(stdout))
	return root
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(stdout, "docanalyzer-go %s (%s)\n", version, runtime.Version())
			return err
		},
	}
}

// Main runs the CLI with args and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	var cerr *config.ConfigurationError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrViolations):
		return ExitFailure
	case errors.As(err, &cerr):
		logError(stderr, "%v", err)
		return ExitConfigErr
	default:
		logError(stderr, "analysis error: %v", err)
		return ExitFailure
	}
}

// newLogger returns the stderr logger. Timestamps are dropped to keep CI logs stable.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func logError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "[error] "+format+"\n", args...)
}
