package graph

import "fmt"

// List is a mutable ordered sequence.
type List struct {
	Items []Value
}

func (*List) Kind() Kind  { return KindList }
func (*List) graphValue() {}

// NewList creates a List holding items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// Append adds v to the end of the list.
func (l *List) Append(v Value) {
	l.Items = append(l.Items, v)
}

// Tuple is an immutable ordered sequence.
type Tuple struct {
	Items []Value
}

func (*Tuple) Kind() Kind  { return KindTuple }
func (*Tuple) graphValue() {}

// NewTuple creates a Tuple holding items.
func NewTuple(items ...Value) *Tuple {
	return &Tuple{Items: items}
}

// Set is an unordered collection of hashable values.
// Items keeps construction order; the codec never relies on it.
type Set struct {
	Items  []Value
	Frozen bool
}

func (*Set) Kind() Kind  { return KindSet }
func (*Set) graphValue() {}

// NewSet creates a mutable set. Duplicate items (by Identical) are dropped.
func NewSet(items ...Value) *Set {
	s := &Set{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// NewFrozenSet creates an immutable set.
func NewFrozenSet(items ...Value) *Set {
	s := NewSet(items...)
	s.Frozen = true
	return s
}

// Add inserts v unless an identical item is already present. Signed zeros
// are distinct members, so the items do not depend on insertion order.
func (s *Set) Add(v Value) {
	for _, it := range s.Items {
		if Identical(it, v) {
			return
		}
	}
	s.Items = append(s.Items, v)
}

// Contains reports whether an item equal to v is present.
func (s *Set) Contains(v Value) bool {
	for _, it := range s.Items {
		if Equal(it, v) {
			return true
		}
	}
	return false
}

// Len returns the number of items.
func (s *Set) Len() int {
	return len(s.Items)
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   Value
	Value Value
}

// mapping is the insertion-ordered storage shared by every mapping type.
// Lookup is a linear scan with Equal; corpus mappings are small.
type mapping struct {
	entries []Entry
}

func (m *mapping) index(k Value) int {
	for i, e := range m.entries {
		if Equal(e.Key, k) {
			return i
		}
	}
	return -1
}

// Set stores v under k. An existing key keeps its position.
func (m *mapping) Set(k, v Value) {
	if i := m.index(k); i >= 0 {
		m.entries[i].Value = v
		return
	}
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// Get returns the value stored under k.
func (m *mapping) Get(k Value) (Value, bool) {
	if i := m.index(k); i >= 0 {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Delete removes k. It reports whether the key was present.
func (m *mapping) Delete(k Value) bool {
	i := m.index(k)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

// Len returns the number of entries.
func (m *mapping) Len() int {
	return len(m.entries)
}

// Entries returns the entries in insertion order.
// The returned slice is a copy.
func (m *mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Dict is the general-purpose mapping. It preserves insertion order, and
// equality between two Dicts ignores that order.
type Dict struct {
	mapping
}

func (*Dict) Kind() Kind  { return KindDict }
func (*Dict) graphValue() {}

// NewDict creates a Dict from entries in order.
func NewDict(entries ...Entry) *Dict {
	d := &Dict{}
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// E is shorthand for an Entry keyed by a string.
// Example: NewDict(E("a", Int(1)), E("b", Int(2)))
func E(key string, value Value) Entry {
	return Entry{Key: Str(key), Value: value}
}

// OrderedMap is a mapping whose order is part of its identity: two
// OrderedMaps are equal only if their entries match position by position.
type OrderedMap struct {
	mapping
}

func (*OrderedMap) Kind() Kind  { return KindOrderedMap }
func (*OrderedMap) graphValue() {}

// NewOrderedMap creates an OrderedMap from entries in order.
func NewOrderedMap(entries ...Entry) *OrderedMap {
	m := &OrderedMap{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// MoveToEnd moves k to the last position. It reports whether k was present.
func (m *OrderedMap) MoveToEnd(k Value) bool {
	v, ok := m.Get(k)
	if !ok {
		return false
	}
	m.Delete(k)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
	return true
}

// Factory produces the value a DefaultMap stores for an absent key.
// Name identifies the factory in the encoded stream.
type Factory struct {
	Name string
	New  func() Value
}

// ListFactory creates an empty List for each missing key.
var ListFactory = Factory{Name: "list", New: func() Value { return NewList() }}

// IntFactory creates Int(0) for each missing key.
var IntFactory = Factory{Name: "int", New: func() Value { return Int(0) }}

// DefaultMap is a mapping that materializes a value for absent keys.
type DefaultMap struct {
	mapping
	Factory Factory
}

func (*DefaultMap) Kind() Kind  { return KindDefaultMap }
func (*DefaultMap) graphValue() {}

// NewDefaultMap creates a DefaultMap with the given factory and entries.
func NewDefaultMap(f Factory, entries ...Entry) *DefaultMap {
	d := &DefaultMap{Factory: f}
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Lookup returns the value for k without materializing a default.
func (d *DefaultMap) Lookup(k Value) (Value, bool) {
	return d.mapping.Get(k)
}

// Get returns the value for k, storing a fresh factory value first when k
// is absent.
func (d *DefaultMap) Get(k Value) Value {
	if v, ok := d.mapping.Get(k); ok {
		return v
	}
	v := d.Factory.New()
	d.Set(k, v)
	return v
}

// RecordType describes a fixed-shape record: a type name and its
// positional field names.
type RecordType struct {
	Name   string
	Fields []string
}

// DefineRecord declares a RecordType.
// Example: Person := DefineRecord("Person", "name", "age", "email")
func DefineRecord(name string, fields ...string) RecordType {
	return RecordType{Name: name, Fields: fields}
}

// Make creates a record instance. It fails if the arity does not match.
func (rt RecordType) Make(values ...Value) (*NamedTuple, error) {
	if len(values) != len(rt.Fields) {
		return nil, fmt.Errorf("%s: expected %d values, got %d", rt.Name, len(rt.Fields), len(values))
	}
	return &NamedTuple{Type: rt, Values: values}, nil
}

// New is like Make but panics on arity mismatch.
// Use only when the arity is known statically.
func (rt RecordType) New(values ...Value) *NamedTuple {
	nt, err := rt.Make(values...)
	if err != nil {
		panic(err)
	}
	return nt
}

// NamedTuple is an instance of a RecordType.
type NamedTuple struct {
	Type   RecordType
	Values []Value
}

func (*NamedTuple) Kind() Kind  { return KindNamedTuple }
func (*NamedTuple) graphValue() {}

// Field returns the value of the named field.
func (nt *NamedTuple) Field(name string) (Value, bool) {
	for i, f := range nt.Type.Fields {
		if f == name {
			return nt.Values[i], true
		}
	}
	return nil, false
}

// Field is one named attribute of a custom record's state.
type Field struct {
	Name  string
	Value Value
}

// Record is the capability a custom record type implements to take part
// in a graph.
//
// Fields returns the record state in a stable order. EqualRecord defines
// structural equality; it must compare nested values with eq, which
// carries the cycle guard of the enclosing comparison.
type Record interface {
	TypeName() string
	Fields() []Field
	EqualRecord(other Record, eq func(a, b Value) bool) bool
}

// Object places a Record in a graph.
type Object struct {
	rec Record
}

func (*Object) Kind() Kind  { return KindObject }
func (*Object) graphValue() {}

// NewObject wraps r.
func NewObject(r Record) *Object {
	return &Object{rec: r}
}

// Record returns the wrapped record.
func (o *Object) Record() Record {
	return o.rec
}
