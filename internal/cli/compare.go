package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hashdrift/internal/archive"
	"github.com/roach88/hashdrift/internal/compare"
	"github.com/roach88/hashdrift/internal/report"
	"github.com/roach88/hashdrift/internal/results"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Archive    string
	MinCount   int
	FailOnDiff bool
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare [result-file...]",
		Short: "Report hash drift between result files",
		Long: `Compare result files against the first one and report every test whose
digest or error differs.

With no files, every hashdrift_results_*.json in the results directory is
compared. With --archive, every archived run is added after the files.
The archive must already exist.
Files that cannot be loaded are skipped with a warning.

Exit codes:
  0  comparison ran (differences are reported, not failed on)
  1  differences found and --fail-on-diff was given
  2  fewer than --min-count result sets could be loaded

Example:
  hashdrift compare
  hashdrift compare linux.json darwin.json --format json
  hashdrift compare --archive runs.db --fail-on-diff`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Archive, "archive", "", "include every run stored in this archive database")
	cmd.Flags().IntVar(&opts.MinCount, "min-count", compare.DefaultMinCount, "minimum number of result sets required")
	cmd.Flags().BoolVar(&opts.FailOnDiff, "fail-on-diff", false, "exit 1 when any difference is found")

	return cmd
}

func runCompare(opts *CompareOptions, files []string, cmd *cobra.Command) error {
	opts.ensure()
	formatter := opts.formatter(cmd)
	cfg := opts.Config

	if !cmd.Flags().Changed("archive") {
		opts.Archive = cfg.Archive
	}
	if !cmd.Flags().Changed("min-count") {
		opts.MinCount = cfg.MinCount
	}
	if !cmd.Flags().Changed("fail-on-diff") {
		opts.FailOnDiff = cfg.FailOnDiff
	}

	if len(files) == 0 {
		found, err := results.Discover(cfg.ResultsDir)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeNoResults, "failed to discover result files", err)
		}
		if len(found) == 0 && opts.Archive == "" {
			return fail(formatter, ExitCommandError, ErrCodeNoResults,
				fmt.Sprintf("no result files found in %s", cfg.ResultsDir), nil)
		}
		opts.Logger.Debug("discovered result files", "count", len(found), "dir", cfg.ResultsDir)
		files = found
	}

	sets := loadFiles(opts, files)

	if opts.Archive != "" {
		archived, err := loadArchive(cmd, opts.Archive)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeArchive, "failed to read archive", err)
		}
		opts.Logger.Debug("loaded archived runs", "count", len(archived))
		sets = append(sets, archived...)
	}

	formatter.VerboseLog("comparing %d result sets", len(sets))
	res, err := compare.Compare(sets, compare.WithMinCount(opts.MinCount))
	if err != nil {
		var insufficient *compare.InsufficientInputError
		if errors.As(err, &insufficient) {
			return fail(formatter, ExitCommandError, ErrCodeInsufficientInput, "cannot compare", err)
		}
		return fail(formatter, ExitFailure, ErrCodeGeneric, "comparison failed", err)
	}

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeGeneric, "invalid --format", err)
	}
	if err := report.Write(cmd.OutOrStdout(), res, format); err != nil {
		return fail(formatter, ExitFailure, ErrCodeGeneric, "failed to write report", err)
	}

	if opts.FailOnDiff && !res.Identical() {
		// The report owns stdout, so the failure goes to stderr.
		stderr := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
		return fail(stderr, ExitFailure, ErrCodeDifferences,
			fmt.Sprintf("found %d differing results", res.Total()), nil)
	}
	return nil
}

// loadFiles loads every readable result file. Unreadable files are logged
// and skipped.
func loadFiles(opts *CompareOptions, files []string) []*results.ResultSet {
	sets := make([]*results.ResultSet, 0, len(files))
	for _, path := range files {
		rs, err := results.Load(path)
		if err != nil {
			var fe *results.FileError
			if errors.As(err, &fe) {
				opts.Logger.Warn("skipping result file", "path", fe.Path, "error", fe.Err)
				continue
			}
			opts.Logger.Warn("skipping result file", "path", path, "error", err)
			continue
		}
		sets = append(sets, rs)
	}
	return sets
}

func loadArchive(cmd *cobra.Command, path string) ([]*results.ResultSet, error) {
	a, err := archive.OpenExisting(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.LoadAll(cmd.Context())
}
