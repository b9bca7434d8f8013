package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/hashdrift/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string

	// Config is loaded in PersistentPreRunE, before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the hashdrift CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hashdrift",
		Short: "hashdrift - serialization determinism auditor",
		Long: `Check whether serializing identical object graphs produces identical
bytes across runtimes, platforms and protocol versions.

Run the corpus on each environment with "hashdrift run", collect the
result files in one place, then diff them with "hashdrift compare".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.FileName+")")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewCorpusCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))

	return cmd
}

// setup loads configuration, lets explicit flags win over it, and
// configures logging.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	stderr := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}

	cfg, err := config.Load(o.ConfigPath, ".")
	if err != nil {
		return fail(stderr, ExitCommandError, ErrCodeGeneric, "failed to load config", err)
	}
	o.Config = cfg

	if !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	if !cmd.Flags().Changed("verbose") {
		o.Verbose = o.Verbose || cfg.Verbose
	}
	if !isValidFormat(o.Format) {
		return fail(stderr, ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats), nil)
	}

	o.Logger = newLogger(cmd.ErrOrStderr(), o.Verbose)
	slog.SetDefault(o.Logger)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// ensure fills in what setup provides when a subcommand runs without the
// root command.
func (o *RootOptions) ensure() {
	if o.Config == nil {
		o.Config = config.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Format == "" {
		o.Format = o.Config.Format
	}
}
