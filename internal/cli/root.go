package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/config"
)

// RootOptions holds global flags and the resolved configuration shared by
// all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string

	// EnvFile and Getenv override the config sources (for testing).
	EnvFile string
	Getenv  func(string) string

	// Config and Logger are set before any command runs.
	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the homeinv CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homeinv [filename]",
		Short: "homeinv - household inventory",
		Long: `Track household items, their units, and whether they are boxed.

Run without a subcommand to show the inventory grouped by location. The
database is created and initialized on first use.

Example:
  homeinv
  homeinv ./garage.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.Database
			if len(args) == 1 {
				path = args[0]
			}
			return runView(opts, path, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewUnitsCommand(opts))
	cmd.AddCommand(NewItemsCommand(opts))
	cmd.AddCommand(NewItemCommand(opts))
	cmd.AddCommand(NewTxnCommand(opts))
	cmd.AddCommand(NewBoxCommand(opts))
	cmd.AddCommand(NewUnboxCommand(opts))
	cmd.AddCommand(NewMovesCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewBoxesCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// resolve loads the config layers, applies explicitly set flags on top and
// builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		f := &OutputFormatter{Format: "text", Writer: cmd.OutOrStdout()}
		return f.Fail(ExitCommandError, ErrCodeConfig,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats), nil)
	}

	cfg, err := config.Load(config.LoadOptions{
		Path:    o.ConfigPath,
		EnvFile: o.EnvFile,
		Getenv:  o.Getenv,
	})
	if err != nil {
		return o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("db") {
		cfg.Database = o.Database
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Database = cfg.Database
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	o.Logger.Debug("configuration resolved",
		"database", cfg.Database,
		"format", cfg.Format,
		"config", o.ConfigPath)
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the CLI with args and returns the process exit code.
// Errors already written by a command are not printed twice.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(NewRootCommand(), args, stdout, stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.reported {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitErr.Code
	}

	// Flag and argument errors from cobra.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitCommandError
}
