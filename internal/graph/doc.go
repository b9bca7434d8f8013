// Package graph provides the in-memory object graph model that the codec
// serializes.
//
// The model is a sealed set of value types. All other internal packages
// import graph; graph imports nothing internal.
//
// Key design constraints:
//   - Composites are pointer types. Their address is their identity, so a
//     graph may share nodes or contain cycles.
//   - Every mapping type preserves insertion order. No Go map is iterated
//     when a graph is read back.
//   - Custom records expose their state through the Record interface and
//     define structural equality explicitly via EqualRecord.
package graph
