// Package compare finds hash drift between ResultSets.
//
// The first ResultSet is the reference. Every coordinate of the reference
// is checked against each other set in Coordinate order; coordinates a
// set lacks are skipped, never reported. Two HashResults match only when
// they are exactly equal (see results.HashResult.Equal).
package compare

import (
	"fmt"

	"github.com/roach88/hashdrift/internal/results"
)

// DefaultMinCount is the smallest number of ResultSets Compare accepts.
const DefaultMinCount = 2

// InsufficientInputError reports too few ResultSets to compare.
type InsufficientInputError struct {
	Got  int
	Want int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("need at least %d result sets to compare, got %d", e.Want, e.Got)
}

// Env identifies one compared environment.
type Env struct {
	// Index is the position of the set in the Compare input.
	Index    int
	Identity results.SystemIdentity
	// Label is unique within one Result.
	Label string
}

// Observation is one non-reference environment that disagrees with the
// reference at a coordinate.
type Observation struct {
	Env       Env
	Reference results.HashResult
	Observed  results.HashResult
}

// Difference groups every disagreement at one coordinate.
type Difference struct {
	Protocol     int
	Category     string
	Test         string
	Observations []Observation
}

// Coordinate returns where the difference was found.
func (d Difference) Coordinate() results.Coordinate {
	return results.Coordinate{Protocol: d.Protocol, Category: d.Category, Test: d.Test}
}

// EnvCount is the number of differing coordinates for one environment.
type EnvCount struct {
	Env   Env
	Count int
}

// Result is the outcome of a comparison.
type Result struct {
	Reference   Env
	Others      []Env
	Differences []Difference
	Counts      []EnvCount
}

// Identical reports whether no differences were found.
func (r *Result) Identical() bool {
	return len(r.Differences) == 0
}

// Total returns the number of observations across all differences.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c.Count
	}
	return n
}

// ByProtocol groups differences by protocol, preserving order. The
// returned protocols ascend.
func (r *Result) ByProtocol() ([]int, map[int][]Difference) {
	var protocols []int
	groups := make(map[int][]Difference)
	for _, d := range r.Differences {
		if _, ok := groups[d.Protocol]; !ok {
			protocols = append(protocols, d.Protocol)
		}
		groups[d.Protocol] = append(groups[d.Protocol], d)
	}
	return protocols, groups
}

type options struct {
	minCount int
}

// Option configures Compare.
type Option func(*options)

// WithMinCount sets the minimum number of ResultSets required.
func WithMinCount(n int) Option {
	return func(o *options) {
		o.minCount = n
	}
}

// Compare checks every set against the first one.
func Compare(sets []*results.ResultSet, opts ...Option) (*Result, error) {
	o := options{minCount: DefaultMinCount}
	for _, opt := range opts {
		opt(&o)
	}
	if len(sets) < o.minCount || len(sets) == 0 {
		return nil, &InsufficientInputError{Got: len(sets), Want: max(o.minCount, 1)}
	}

	envs := labelEnvs(sets)
	res := &Result{
		Reference: envs[0],
		Others:    envs[1:],
		Counts:    make([]EnvCount, len(envs)-1),
	}
	for i, e := range res.Others {
		res.Counts[i] = EnvCount{Env: e}
	}

	ref := sets[0]
	for _, c := range ref.Coordinates() {
		want, _ := ref.Get(c)
		var obs []Observation
		for i, other := range sets[1:] {
			got, ok := other.Get(c)
			if !ok || want.Equal(got) {
				continue
			}
			obs = append(obs, Observation{Env: res.Others[i], Reference: want, Observed: got})
			res.Counts[i].Count++
		}
		if len(obs) > 0 {
			res.Differences = append(res.Differences, Difference{
				Protocol:     c.Protocol,
				Category:     c.Category,
				Test:         c.Test,
				Observations: obs,
			})
		}
	}
	return res, nil
}

// labelEnvs assigns each set a label. Repeated labels get a " #n" suffix
// counting from 2.
func labelEnvs(sets []*results.ResultSet) []Env {
	envs := make([]Env, len(sets))
	used := make(map[string]bool, len(sets))
	for i, rs := range sets {
		id := rs.Identity()
		label := id.Label()
		for n := 2; used[label]; n++ {
			label = fmt.Sprintf("%s #%d", id.Label(), n)
		}
		used[label] = true
		envs[i] = Env{Index: i, Identity: id, Label: label}
	}
	return envs
}
