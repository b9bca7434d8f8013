// Package results holds the per-environment hash tables produced by a run
// and their on-disk form.
//
// A ResultSet maps protocol → category → test to a HashResult and carries
// the SystemIdentity of the environment that produced it. ResultSets are
// assembled through a Builder and are read-only once frozen, so any number
// of readers may share one without synchronization.
//
// The file form is a JSON document:
//
//	{
//	  "system_info": {"os": "Linux", "runtime_version": "go1.23.4"},
//	  "protocol_results": {"0": {"simple_types": {"int": "<hex>"}}}
//	}
//
// Documents are checked against an embedded CUE schema before decoding.
package results
