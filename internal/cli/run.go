package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hashdrift/internal/archive"
	"github.com/roach88/hashdrift/internal/codec"
	"github.com/roach88/hashdrift/internal/corpus"
	"github.com/roach88/hashdrift/internal/envinfo"
	"github.com/roach88/hashdrift/internal/results"
	"github.com/roach88/hashdrift/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Output     string
	Protocols  int
	Categories []string
	Archive    string
}

// RunSummary is the payload printed after a run.
type RunSummary struct {
	File        string `json:"file" yaml:"file"`
	Environment string `json:"environment" yaml:"environment"`
	Protocols   int    `json:"protocols" yaml:"protocols"`
	Digests     int    `json:"digests" yaml:"digests"`
	Errors      int    `json:"errors" yaml:"errors"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	ArchiveID   string `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`
}

func (s RunSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results saved to %s\n", s.File)
	fmt.Fprintf(&b, "Environment: %s\n", s.Environment)
	fmt.Fprintf(&b, "Protocols: %d, digests: %d, errors: %d\n", s.Protocols, s.Digests, s.Errors)
	fmt.Fprintf(&b, "Fingerprint: %s", s.Fingerprint)
	if s.ArchiveID != "" {
		fmt.Fprintf(&b, "\nArchived as %s", s.ArchiveID)
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Hash the corpus under every protocol and save the results",
		Long: `Serialize every corpus graph under protocols [0, K) and record the
SHA-256 of each byte stream. Graphs a protocol cannot represent are
recorded as errors, not failures.

The result file defaults to hashdrift_results_<os>_<runtime>.json in the
configured results directory.

Example:
  hashdrift run
  hashdrift run --protocols 4 --category simple_types --archive runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorpus(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "result file path")
	cmd.Flags().IntVar(&opts.Protocols, "protocols", codec.DefaultProtocols, "number of protocols to run, starting at 0")
	cmd.Flags().StringSliceVar(&opts.Categories, "category", nil, "corpus categories to run (default all)")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "also store the results in this archive database")

	return cmd
}

func runCorpus(opts *RunOptions, cmd *cobra.Command) error {
	opts.ensure()
	formatter := opts.formatter(cmd)
	cfg := opts.Config

	if !cmd.Flags().Changed("protocols") {
		opts.Protocols = cfg.Protocols
	}
	if !cmd.Flags().Changed("category") {
		opts.Categories = cfg.Categories
	}
	if !cmd.Flags().Changed("archive") {
		opts.Archive = cfg.Archive
	}
	if opts.Protocols < 1 {
		return fail(formatter, ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("--protocols must be at least 1, got %d", opts.Protocols), nil)
	}

	cats, err := corpus.Select(opts.Categories)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeUnknownCategory, "invalid --category", err)
	}

	identity := envinfo.Override(envinfo.Detect(), cfg.Identity.OS, cfg.Identity.RuntimeVersion)

	opts.Logger.Info("running corpus", "environment", identity.Label(), "protocols", opts.Protocols, "categories", len(cats))
	r := runner.New(identity,
		runner.WithProtocols(opts.Protocols),
		runner.WithCategories(cats),
		runner.WithLogger(opts.Logger),
	)
	rs, sum, err := r.RunWithSummary()
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "run failed", err)
	}

	path := opts.Output
	if path == "" {
		path = filepath.Join(cfg.ResultsDir, results.DefaultFilename(identity))
	}
	if err := results.Save(rs, path); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeWriteFailed, "failed to save results", err)
	}
	opts.Logger.Debug("results saved", "path", path)

	fp, err := results.Fingerprint(rs)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "failed to fingerprint results", err)
	}

	summary := RunSummary{
		File:        path,
		Environment: identity.Label(),
		Protocols:   sum.Protocols,
		Digests:     sum.Digests,
		Errors:      sum.Errors,
		Fingerprint: fp.String(),
	}

	if opts.Archive != "" {
		id, err := archiveResults(cmd.Context(), opts, rs)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeArchive, "failed to archive results", err)
		}
		summary.ArchiveID = id
	}

	return formatter.Success(summary)
}

func archiveResults(ctx context.Context, opts *RunOptions, rs *results.ResultSet) (string, error) {
	a, err := archive.Open(ctx, opts.Archive)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			opts.Logger.Error("error closing archive", "error", closeErr)
		}
	}()

	entry, stored, err := a.Save(ctx, rs)
	if err != nil {
		return "", err
	}
	if !stored {
		opts.Logger.Info("identical results already archived", "id", entry.ID)
	}
	return entry.ID, nil
}
