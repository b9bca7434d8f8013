package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/hashdrift/internal/compare"
)

func writeText(w io.Writer, res *compare.Result) error {
	bw := bufio.NewWriter(w)
	// bufio keeps the first write error; Flush reports it.
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	p("===== COMPARISON REPORT =====\n\n")

	if res.Identical() {
		p("All hash values are identical across all tested environments!\n")
	} else {
		labels := make([]string, len(res.Others))
		for i, e := range res.Others {
			labels[i] = e.Label
		}
		protocols, groups := res.ByProtocol()

		p("Reference environment: %s\n", res.Reference.Label)
		p("Comparing against: %s\n", strings.Join(labels, ", "))
		p("Found differences in %d protocols\n", len(protocols))

		for _, proto := range protocols {
			p("\nProtocol %d:\n", proto)
			category := ""
			for _, d := range groups[proto] {
				if d.Category != category {
					category = d.Category
					p("  %s:\n", category)
				}
				p("    %s:\n", d.Test)
				for _, o := range d.Observations {
					p("      %s: %s\n", o.Env.Label, o.Observed)
					p("      %s: %s\n", res.Reference.Label, o.Reference)
				}
			}
		}
	}

	p("\n===== SUMMARY =====\n\n")
	for _, c := range res.Counts {
		p("%s differs from %s in %d tests\n", c.Env.Label, res.Reference.Label, c.Count)
	}
	return bw.Flush()
}
