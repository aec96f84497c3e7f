package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/recipegrid/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	catalogPath string
	logFormat   string
	logLevel    string
}

// NewRootCommand builds the recipectl command tree. Command output goes to
// out, log records and errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "recipectl",
		Short: "Inspect and analyze sequential process recipes",
		Long: `recipectl loads an action catalog and analyzes recipes against it.

The catalog path may be a single .hcl or .toml file, or a directory that is
searched recursively for both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "catalog", "Path to the action catalog file or directory.")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	root.AddCommand(
		newCheckCommand(opts),
		newActionsCommand(opts),
		newFmtCommand(opts),
	)
	return root
}

// Execute runs recipectl with args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(errOut, exitErr.Message)
			}
			return exitErr.Code
		}
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

// newApp validates the global flags and loads the catalog.
func newApp(cmd *cobra.Command, opts *options) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		CatalogPath: opts.catalogPath,
		LogFormat:   strings.ToLower(opts.logFormat),
		LogLevel:    strings.ToLower(opts.logLevel),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return app.New(cmd.Context(), cfg, cmd.ErrOrStderr())
}
