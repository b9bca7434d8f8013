// Package archive keeps a history of ResultSets in SQLite.
//
// Each stored run is content-addressed by its results.Fingerprint, so
// saving the same ResultSet twice yields the same entry. Payloads are the
// result file document compressed with zstd; loading decodes them through
// the same path as a result file, schema check included.
//
// Ordering:
// Entries are stamped with a logical sequence number from a Clock seeded
// with the highest stored seq. Every listing orders by seq ASC, id ASC so
// the history reads the same on every platform. Wall-clock time is never
// used for ordering.
package archive
