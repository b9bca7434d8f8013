package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hashdrift/internal/archive"
)

// ArchiveEntry is one row of the archive list output.
type ArchiveEntry struct {
	ID          string `json:"id" yaml:"id"`
	Seq         int64  `json:"seq" yaml:"seq"`
	Environment string `json:"environment" yaml:"environment"`
	Results     int    `json:"results" yaml:"results"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// ArchiveListing is the payload of archive list.
type ArchiveListing []ArchiveEntry

func (l ArchiveListing) String() string {
	if len(l) == 0 {
		return "Archive is empty"
	}
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = fmt.Sprintf("%d  %s  %s  %d results  %s", e.Seq, e.ID, e.Environment, e.Results, e.Fingerprint)
	}
	return strings.Join(lines, "\n")
}

// ArchiveOptions holds flags for the archive commands.
type ArchiveOptions struct {
	*RootOptions
	Path string
}

// NewArchiveCommand creates the archive command group.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the result archive",
	}
	cmd.PersistentFlags().StringVar(&opts.Path, "archive", "", "archive database path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List archived runs in archive order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveList(opts, cmd)
		},
	}
	cmd.AddCommand(list)

	return cmd
}

func runArchiveList(opts *ArchiveOptions, cmd *cobra.Command) error {
	opts.ensure()
	formatter := opts.formatter(cmd)

	path := opts.Path
	if path == "" {
		path = opts.Config.Archive
	}
	if path == "" {
		return fail(formatter, ExitCommandError, ErrCodeArchive, "no archive given: use --archive or set archive in the config", nil)
	}

	a, err := archive.OpenExisting(cmd.Context(), path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeArchive, "failed to open archive", err)
	}
	defer a.Close()

	entries, err := a.List(cmd.Context())
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeArchive, "failed to list archive", err)
	}

	out := make(ArchiveListing, len(entries))
	for i, e := range entries {
		out[i] = ArchiveEntry{
			ID:          e.ID,
			Seq:         e.Seq,
			Environment: e.Identity.Label(),
			Results:     e.Results,
			Fingerprint: e.Fingerprint,
		}
	}
	return formatter.Success(out)
}
