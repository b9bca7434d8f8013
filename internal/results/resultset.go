package results

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrFrozen is returned when adding to a Builder that was already frozen.
var ErrFrozen = errors.New("results: builder is frozen")

// Coordinate addresses one HashResult in a ResultSet.
type Coordinate struct {
	Protocol int
	Category string
	Test     string
}

// Compare orders coordinates by protocol, then category, then test.
func (c Coordinate) Compare(other Coordinate) int {
	return cmp.Or(
		cmp.Compare(c.Protocol, other.Protocol),
		cmp.Compare(c.Category, other.Category),
		cmp.Compare(c.Test, other.Test),
	)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("protocol %d/%s/%s", c.Protocol, c.Category, c.Test)
}

type table map[int]map[string]map[string]HashResult

// ResultSet is the frozen hash table of one environment.
type ResultSet struct {
	identity SystemIdentity
	data     table
	size     int
}

// Identity returns the environment the set was produced in.
func (rs *ResultSet) Identity() SystemIdentity {
	return rs.identity
}

// Len returns the number of HashResults in the set.
func (rs *ResultSet) Len() int {
	return rs.size
}

// Get returns the HashResult at a coordinate.
func (rs *ResultSet) Get(c Coordinate) (HashResult, bool) {
	r, ok := rs.data[c.Protocol][c.Category][c.Test]
	return r, ok
}

// Protocols returns the protocols present, ascending.
func (rs *ResultSet) Protocols() []int {
	return slices.Sorted(maps.Keys(rs.data))
}

// Categories returns the categories recorded for protocol p, sorted.
func (rs *ResultSet) Categories(p int) []string {
	return slices.Sorted(maps.Keys(rs.data[p]))
}

// Tests returns the test names recorded for protocol p and category, sorted.
func (rs *ResultSet) Tests(p int, category string) []string {
	return slices.Sorted(maps.Keys(rs.data[p][category]))
}

// Coordinates returns every coordinate in the set in Coordinate order.
func (rs *ResultSet) Coordinates() []Coordinate {
	out := make([]Coordinate, 0, rs.size)
	for _, p := range rs.Protocols() {
		for _, cat := range rs.Categories(p) {
			for _, test := range rs.Tests(p, cat) {
				out = append(out, Coordinate{Protocol: p, Category: cat, Test: test})
			}
		}
	}
	return out
}

// Builder accumulates HashResults for one environment. Coordinates are
// write-once; Freeze ends the build.
type Builder struct {
	identity SystemIdentity
	data     table
	size     int
	frozen   bool
}

// NewBuilder starts a ResultSet for identity.
func NewBuilder(identity SystemIdentity) *Builder {
	return &Builder{identity: identity, data: make(table)}
}

// Add records r at c. Recording the same coordinate twice is an error.
func (b *Builder) Add(c Coordinate, r HashResult) error {
	if b.frozen {
		return ErrFrozen
	}
	cats, ok := b.data[c.Protocol]
	if !ok {
		cats = make(map[string]map[string]HashResult)
		b.data[c.Protocol] = cats
	}
	tests, ok := cats[c.Category]
	if !ok {
		tests = make(map[string]HashResult)
		cats[c.Category] = tests
	}
	if _, dup := tests[c.Test]; dup {
		return fmt.Errorf("results: duplicate result for %s", c)
	}
	tests[c.Test] = r
	b.size++
	return nil
}

// Freeze returns the finished ResultSet. The Builder accepts no further
// results.
func (b *Builder) Freeze() *ResultSet {
	b.frozen = true
	return &ResultSet{identity: b.identity, data: b.data, size: b.size}
}
