// Package corpus defines the fixed set of object graphs that hashdrift
// serializes under every protocol.
//
// Each Category builds its graphs from scratch on every call. Builders use
// no randomness, no wall clock, and no Go map iteration, so two calls in
// any process produce structurally equal graphs in the same order.
package corpus

import (
	"fmt"

	"github.com/roach88/hashdrift/internal/graph"
)

// Case is one named test graph.
type Case struct {
	Name  string
	Value graph.Value
}

// Category is a named group of test graphs.
type Category struct {
	Name  string
	Build func() []Case
}

// Category names.
const (
	SimpleTypes            = "simple_types"
	ComplexStructures      = "complex_structures"
	FloatingPointPrecision = "floating_point_precision"
	NumericSpecialValues   = "numeric_special_values"
	CircularReferences     = "circular_references"
)

// Default returns the built-in categories in run order.
func Default() []Category {
	return []Category{
		{Name: SimpleTypes, Build: simpleTypes},
		{Name: ComplexStructures, Build: complexStructures},
		{Name: FloatingPointPrecision, Build: floatingPointPrecision},
		{Name: NumericSpecialValues, Build: numericSpecialValues},
		{Name: CircularReferences, Build: circularReferences},
	}
}

// Names returns the names of the built-in categories in run order.
func Names() []string {
	cats := Default()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the built-in category with the given name.
func Lookup(name string) (Category, bool) {
	for _, c := range Default() {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Select resolves names to categories, preserving the order given.
// An empty list selects every built-in category.
func Select(names []string) ([]Category, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	out := make([]Category, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		c, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", n)
		}
		seen[n] = true
		out = append(out, c)
	}
	return out, nil
}
