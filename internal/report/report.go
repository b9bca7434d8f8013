// Package report renders comparison results for people and for tools.
//
// Text output follows the layout operators already read in CI logs: a
// comparison section grouped by protocol and category, then a summary
// line per environment. JSON and YAML carry the same content as a Report
// document.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hashdrift/internal/compare"
)

// Format selects a rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Report is the document form of a comparison.
type Report struct {
	Reference   string       `json:"reference" yaml:"reference"`
	Compared    []string     `json:"compared" yaml:"compared"`
	Identical   bool         `json:"identical" yaml:"identical"`
	Differences []Difference `json:"differences" yaml:"differences"`
	Summary     []Count      `json:"summary" yaml:"summary"`
}

// Difference is one differing coordinate.
type Difference struct {
	Protocol     int           `json:"protocol" yaml:"protocol"`
	Category     string        `json:"category" yaml:"category"`
	Test         string        `json:"test" yaml:"test"`
	Observations []Observation `json:"observations" yaml:"observations"`
}

// Observation is one environment's disagreeing result.
type Observation struct {
	Environment string `json:"environment" yaml:"environment"`
	Reference   string `json:"reference" yaml:"reference"`
	Observed    string `json:"observed" yaml:"observed"`
}

// Count is the number of differing coordinates for one environment.
type Count struct {
	Environment string `json:"environment" yaml:"environment"`
	Differences int    `json:"differences" yaml:"differences"`
}

// Build converts a comparison result into its document form.
func Build(res *compare.Result) Report {
	r := Report{
		Reference:   res.Reference.Label,
		Compared:    make([]string, len(res.Others)),
		Identical:   res.Identical(),
		Differences: make([]Difference, 0, len(res.Differences)),
		Summary:     make([]Count, len(res.Counts)),
	}
	for i, e := range res.Others {
		r.Compared[i] = e.Label
	}
	for _, d := range res.Differences {
		obs := make([]Observation, len(d.Observations))
		for i, o := range d.Observations {
			obs[i] = Observation{
				Environment: o.Env.Label,
				Reference:   o.Reference.String(),
				Observed:    o.Observed.String(),
			}
		}
		r.Differences = append(r.Differences, Difference{
			Protocol:     d.Protocol,
			Category:     d.Category,
			Test:         d.Test,
			Observations: obs,
		})
	}
	for i, c := range res.Counts {
		r.Summary[i] = Count{Environment: c.Env.Label, Differences: c.Count}
	}
	return r
}

// Write renders res to w in format f.
func Write(w io.Writer, res *compare.Result, f Format) error {
	switch f {
	case FormatText:
		return writeText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Build(res))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Build(res)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", f)
}
