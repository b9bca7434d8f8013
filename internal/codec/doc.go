// Package codec serializes object graphs to a protocol-versioned binary
// stream and hashes the result.
//
// # Protocols
//
// A Protocol selects an encoding variant. Protocol 0 writes numbers and
// memo references as text; protocol 1 switches to binary forms; protocol 2
// adds a version header and compact constructors; protocol 3 adds raw
// byte strings; protocol 4 adds framing, native set opcodes and implicit
// memoization; protocol 5 writes byte strings with 8-byte lengths.
// Capability is not strictly monotonic from the caller's point of view:
// a graph holding Bytes encodes under protocol 4 but fails under 0.
//
// # Identity and cycles
//
// Each Encode call keeps a memo keyed by composite identity (pointer).
// Mutable composites are memoized before their children are written, so a
// second visit emits a back-reference and cyclic graphs always produce a
// finite stream. Tuples follow the pop-and-fetch rule: when a child cycle
// memoized the tuple while it was being built, the partial tuple is
// discarded and a back-reference is written instead.
//
// # Determinism
//
// Floats are written as raw IEEE-754 bits (text at protocol 0), so -0 and
// +0 produce different streams and identical NaNs produce identical ones.
// Set elements are written in ascending order of their own encodings.
// Mappings are written in insertion order.
//
// # Errors
//
// A construct that a protocol cannot represent fails with a
// *SerializationError. Any other error means the caller handed over
// something outside the model and should be treated as a defect.
package codec
