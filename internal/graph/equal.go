package graph

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are structurally equal.
//
// Floats compare by value, so NaN is never equal to itself and -0 equals
// +0. Dict, DefaultMap and Set compare without regard to order; List,
// Tuple, OrderedMap and NamedTuple compare position by position. Custom
// records decide through EqualRecord.
//
// Cycles are handled coinductively: a pair of composites already under
// comparison is assumed equal.
func Equal(a, b Value) bool {
	c := &comparer{seen: make(map[[2]Value]bool)}
	return c.equal(a, b)
}

// Identical is like Equal but compares Float, Float32 and Complex by bit
// pattern: -0 and +0 differ, and a NaN is identical to a NaN with the same
// payload.
func Identical(a, b Value) bool {
	c := &comparer{seen: make(map[[2]Value]bool), bitwise: true}
	return c.equal(a, b)
}

type comparer struct {
	seen    map[[2]Value]bool
	bitwise bool
}

func (c *comparer) equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case None:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		if c.bitwise {
			return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Float)))
		}
		return av == b.(Float)
	case Float32:
		if c.bitwise {
			return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float32)))
		}
		return av == b.(Float32)
	case Complex:
		if c.bitwise {
			bv := b.(Complex)
			return math.Float64bits(real(complex128(av))) == math.Float64bits(real(complex128(bv))) &&
				math.Float64bits(imag(complex128(av))) == math.Float64bits(imag(complex128(bv)))
		}
		return av == b.(Complex)
	case Str:
		return av == b.(Str)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case Timestamp:
		return av.t.Equal(b.(Timestamp).t)
	}

	// Composites from here on; identical pointers are trivially equal.
	if a == b {
		return true
	}
	key := [2]Value{a, b}
	if c.seen[key] {
		return true
	}
	c.seen[key] = true

	switch av := a.(type) {
	case *List:
		return c.sequence(av.Items, b.(*List).Items)
	case *Tuple:
		return c.sequence(av.Items, b.(*Tuple).Items)
	case *Set:
		bv := b.(*Set)
		return av.Frozen == bv.Frozen && c.unordered(av.Items, bv.Items)
	case *Dict:
		return c.entriesUnordered(av.entries, b.(*Dict).entries)
	case *DefaultMap:
		bv := b.(*DefaultMap)
		return av.Factory.Name == bv.Factory.Name && c.entriesUnordered(av.entries, bv.entries)
	case *OrderedMap:
		return c.entriesOrdered(av.entries, b.(*OrderedMap).entries)
	case *NamedTuple:
		bv := b.(*NamedTuple)
		if av.Type.Name != bv.Type.Name || !sameStrings(av.Type.Fields, bv.Type.Fields) {
			return false
		}
		return c.sequence(av.Values, bv.Values)
	case *Object:
		bv := b.(*Object)
		if av.rec == nil || bv.rec == nil {
			return av.rec == nil && bv.rec == nil
		}
		if av.rec.TypeName() != bv.rec.TypeName() {
			return false
		}
		return av.rec.EqualRecord(bv.rec, c.equal)
	}
	return false
}

func (c *comparer) sequence(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// unordered matches every item of a with a distinct item of b.
func (c *comparer) unordered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && c.equal(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *comparer) entriesOrdered(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.equal(a[i].Key, b[i].Key) || !c.equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func (c *comparer) entriesUnordered(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ea := range a {
		found := false
		for _, eb := range b {
			if c.equal(ea.Key, eb.Key) {
				if !c.equal(ea.Value, eb.Value) {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Hashable reports whether v may be used as a set element or mapping key:
// scalars, and tuples, frozen sets and named tuples built only from
// hashable values. Mutable composites and custom objects are not hashable.
// A cycle makes a value unhashable.
func Hashable(v Value) bool {
	return hashable(v, make(map[Value]bool))
}

func hashable(v Value, visiting map[Value]bool) bool {
	switch val := v.(type) {
	case nil:
		return false
	case None, Bool, Int, Float, Float32, Complex, Str, Bytes, Timestamp:
		return true
	case *Tuple:
		return hashableAll(val, val.Items, visiting)
	case *NamedTuple:
		return hashableAll(val, val.Values, visiting)
	case *Set:
		return val.Frozen && hashableAll(val, val.Items, visiting)
	default:
		return false
	}
}

func hashableAll(owner Value, items []Value, visiting map[Value]bool) bool {
	if visiting[owner] {
		return false
	}
	visiting[owner] = true
	defer delete(visiting, owner)
	for _, it := range items {
		if !hashable(it, visiting) {
			return false
		}
	}
	return true
}

// IsNaN reports whether v is a Float or Float32 NaN.
func IsNaN(v Value) bool {
	switch f := v.(type) {
	case Float:
		return math.IsNaN(float64(f))
	case Float32:
		return math.IsNaN(float64(f))
	}
	return false
}
