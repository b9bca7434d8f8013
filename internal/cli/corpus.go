package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hashdrift/internal/corpus"
)

// CategoryListing describes one corpus category.
type CategoryListing struct {
	Name  string   `json:"name" yaml:"name"`
	Tests []string `json:"tests" yaml:"tests"`
}

// CorpusListing is the payload of the corpus command.
type CorpusListing []CategoryListing

func (l CorpusListing) String() string {
	var b strings.Builder
	for i, c := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%d tests)", c.Name, len(c.Tests))
		for _, t := range c.Tests {
			fmt.Fprintf(&b, "\n  %s", t)
		}
	}
	return b.String()
}

// NewCorpusCommand creates the corpus command.
func NewCorpusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "corpus",
		Short:         "List corpus categories and tests",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.ensure()
			return rootOpts.formatter(cmd).Success(listCorpus(corpus.Default()))
		},
	}
}

func listCorpus(cats []corpus.Category) CorpusListing {
	out := make(CorpusListing, len(cats))
	for i, c := range cats {
		cases := c.Build()
		names := make([]string, len(cases))
		for j, tc := range cases {
			names[j] = tc.Name
		}
		out[i] = CategoryListing{Name: c.Name, Tests: names}
	}
	return out
}
