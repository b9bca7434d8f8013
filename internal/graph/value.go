package graph

import (
	"fmt"
	"time"
)

// Kind identifies the concrete type of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindFloat32
	KindComplex
	KindStr
	KindBytes
	KindTimestamp
	KindList
	KindTuple
	KindSet
	KindDict
	KindOrderedMap
	KindDefaultMap
	KindNamedTuple
	KindObject
)

var kindNames = [...]string{
	KindNone:       "none",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindFloat32:    "float32",
	KindComplex:    "complex",
	KindStr:        "str",
	KindBytes:      "bytes",
	KindTimestamp:  "timestamp",
	KindList:       "list",
	KindTuple:      "tuple",
	KindSet:        "set",
	KindDict:       "dict",
	KindOrderedMap: "ordered_map",
	KindDefaultMap: "default_map",
	KindNamedTuple: "named_tuple",
	KindObject:     "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a sealed interface over the node types of an object graph.
// Only the types declared in this package implement it.
type Value interface {
	Kind() Kind
	graphValue() // Sealed
}

// None is the null value.
type None struct{}

func (None) Kind() Kind  { return KindNone }
func (None) graphValue() {}

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind  { return KindBool }
func (Bool) graphValue() {}

// Int is a signed 64-bit integer scalar.
type Int int64

func (Int) Kind() Kind  { return KindInt }
func (Int) graphValue() {}

// Float is an IEEE-754 double. Its bit pattern is significant: the codec
// distinguishes -0 from +0 and keeps NaN payloads.
type Float float64

func (Float) Kind() Kind  { return KindFloat }
func (Float) graphValue() {}

// Float32 is a boxed single-precision scalar, the kind numeric libraries
// hand out instead of a native float.
type Float32 float32

func (Float32) Kind() Kind  { return KindFloat32 }
func (Float32) graphValue() {}

// Complex is a pair of doubles.
type Complex complex128

func (Complex) Kind() Kind  { return KindComplex }
func (Complex) graphValue() {}

// Str is a text scalar.
type Str string

func (Str) Kind() Kind  { return KindStr }
func (Str) graphValue() {}

// Bytes is a raw byte string.
type Bytes []byte

func (Bytes) Kind() Kind  { return KindBytes }
func (Bytes) graphValue() {}

// Timestamp is a naive (zone-less) date and time with microsecond precision.
type Timestamp struct {
	t time.Time
}

func (Timestamp) Kind() Kind  { return KindTimestamp }
func (Timestamp) graphValue() {}

// NewTimestamp builds a Timestamp from calendar fields.
// Out-of-range fields are normalized the way time.Date normalizes them.
// The year is not checked here; the codec rejects years outside 1..9999.
func NewTimestamp(year int, month time.Month, day, hour, min, sec, usec int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, hour, min, sec, usec*int(time.Microsecond), time.UTC)}
}

// Time returns the timestamp as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// Microsecond returns the sub-second part in microseconds.
func (ts Timestamp) Microsecond() int {
	return ts.t.Nanosecond() / int(time.Microsecond)
}
