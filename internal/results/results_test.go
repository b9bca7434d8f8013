package results

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	digestA = strings.Repeat("a", 64)
	digestB = strings.Repeat("b", 64)
)

func linux() SystemIdentity {
	return SystemIdentity{Platform: "Linux", RuntimeVersion: "go1.23.4"}
}

func sampleSet(t *testing.T) *ResultSet {
	t.Helper()
	b := NewBuilder(linux())
	require.NoError(t, b.Add(Coordinate{0, "simple_types", "int"}, Digest(digestA)))
	require.NoError(t, b.Add(Coordinate{0, "simple_types", "bytes"}, Failed("Unsupported", "bytes require protocol 3")))
	require.NoError(t, b.Add(Coordinate{10, "circular_references", "circular_ref"}, Digest(digestB)))
	require.NoError(t, b.Add(Coordinate{2, "simple_types", "int"}, Digest(digestB)))
	return b.Freeze()
}

func TestHashResultString(t *testing.T) {
	assert.Equal(t, digestA, Digest(digestA).String())
	assert.Equal(t, "ERROR: Unsupported: bytes require protocol 3", Failed("Unsupported", "bytes require protocol 3").String())
	assert.Equal(t, "ERROR: Unhashable", Failed("Unhashable", "").String())
}

func TestParseHashResult(t *testing.T) {
	r := ParseHashResult("ERROR: TypeError: cannot pickle 'x': y")
	require.True(t, r.IsError())
	assert.Equal(t, "TypeError", r.Marker().Kind)
	assert.Equal(t, "cannot pickle 'x': y", r.Marker().Message)
	assert.Equal(t, "ERROR: TypeError: cannot pickle 'x': y", r.String())

	d := ParseHashResult(digestA)
	assert.False(t, d.IsError())
	assert.Nil(t, d.Marker())
	assert.Equal(t, digestA, d.Digest())
}

func TestParseHashResultKeepsMarkerText(t *testing.T) {
	for _, s := range []string{"ERROR: K: ", "ERROR: K", "ERROR: ", "ERROR: K:: x"} {
		r := ParseHashResult(s)
		require.True(t, r.IsError(), s)
		assert.Equal(t, s, r.String())
	}

	trailing := ParseHashResult("ERROR: K: ")
	assert.Equal(t, "K", trailing.Marker().Kind)
	assert.Empty(t, trailing.Marker().Message)
	assert.False(t, trailing.Equal(Failed("K", "")), "ERROR: K: and ERROR: K are different file values")
	assert.True(t, ParseHashResult("ERROR: K: m").Equal(Failed("K", "m")))
}

func TestMarshalKeepsForeignMarkerText(t *testing.T) {
	b := NewBuilder(linux())
	c := Coordinate{Protocol: 0, Category: "simple_types", Test: "bytes"}
	require.NoError(t, b.Add(c, ParseHashResult("ERROR: K: ")))

	data, err := Marshal(b.Freeze())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bytes": "ERROR: K: "`)
}

func TestHashResultEqual(t *testing.T) {
	assert.True(t, Digest(digestA).Equal(Digest(digestA)))
	assert.False(t, Digest(digestA).Equal(Digest(digestB)))
	assert.True(t, Failed("Unsupported", "m").Equal(Failed("Unsupported", "m")))
	assert.False(t, Failed("Unsupported", "m").Equal(Failed("Unsupported", "n")))
	assert.False(t, Failed("Unsupported", "m").Equal(Failed("Unhashable", "m")))
	assert.False(t, Digest(digestA).Equal(Failed("Unsupported", "m")))
	assert.False(t, Failed("Unsupported", "m").Equal(Digest(digestA)))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(linux())
	c := Coordinate{0, "simple_types", "int"}
	require.NoError(t, b.Add(c, Digest(digestA)))
	assert.ErrorContains(t, b.Add(c, Digest(digestB)), "duplicate result for protocol 0/simple_types/int")

	rs := b.Freeze()
	assert.ErrorIs(t, b.Add(Coordinate{1, "x", "y"}, Digest(digestA)), ErrFrozen)
	assert.Equal(t, 1, rs.Len())

	got, ok := rs.Get(c)
	require.True(t, ok)
	assert.Equal(t, digestA, got.Digest())
}

func TestResultSetOrdering(t *testing.T) {
	rs := sampleSet(t)

	assert.Equal(t, []int{0, 2, 10}, rs.Protocols())
	assert.Equal(t, []string{"bytes", "int"}, rs.Tests(0, "simple_types"))
	assert.Equal(t, []Coordinate{
		{0, "simple_types", "bytes"},
		{0, "simple_types", "int"},
		{2, "simple_types", "int"},
		{10, "circular_references", "circular_ref"},
	}, rs.Coordinates())

	_, ok := rs.Get(Coordinate{3, "simple_types", "int"})
	assert.False(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	rs := sampleSet(t)

	data, err := Marshal(rs)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, rs.Identity(), back.Identity())
	require.Equal(t, rs.Coordinates(), back.Coordinates())
	for _, c := range rs.Coordinates() {
		want, _ := rs.Get(c)
		got, _ := back.Get(c)
		assert.True(t, want.Equal(got), c.String())
	}

	again, err := Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "marshaling is deterministic")
}

func TestMarshalDocumentShape(t *testing.T) {
	data, err := Marshal(sampleSet(t))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"system_info": {`)
	assert.Contains(t, s, `"os": "Linux"`)
	assert.Contains(t, s, `"runtime_version": "go1.23.4"`)
	assert.Contains(t, s, `"bytes": "ERROR: Unsupported: bytes require protocol 3"`)
	assert.NotContains(t, s, "python_version")
}

func TestLoadLegacyFile(t *testing.T) {
	rs, err := Load(filepath.Join("testdata", "legacy.json"))
	require.NoError(t, err)

	assert.Equal(t, SystemIdentity{Platform: "Windows", RuntimeVersion: "3.11.4"}, rs.Identity())
	assert.Equal(t, []int{0, 5}, rs.Protocols())

	r, ok := rs.Get(Coordinate{0, "simple_types", "bytes"})
	require.True(t, ok)
	assert.Equal(t, "TypeError", r.Marker().Kind)
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":          `{"system_info": `,
		"missing os":        `{"system_info": {"runtime_version": "go1"}, "protocol_results": {}}`,
		"bad protocol key":  `{"system_info": {"os": "Linux", "runtime_version": "go1"}, "protocol_results": {"zero": {}}}`,
		"bad digest":        `{"system_info": {"os": "Linux", "runtime_version": "go1"}, "protocol_results": {"0": {"c": {"t": "xyz"}}}}`,
		"number for digest": `{"system_info": {"os": "Linux", "runtime_version": "go1"}, "protocol_results": {"0": {"c": {"t": 5}}}}`,
		"unknown field":     `{"system_info": {"os": "Linux", "runtime_version": "go1"}, "protocol_results": {}, "extra": 1}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal([]byte(doc))
			require.Error(t, err)
			var se *SchemaError
			assert.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
		})
	}
}

func TestUnmarshalRequiresRuntime(t *testing.T) {
	_, err := Unmarshal([]byte(`{"system_info": {"os": "Linux"}, "protocol_results": {}}`))
	assert.ErrorContains(t, err, "neither runtime_version nor python_version")
}

func TestLoadErrorsAreFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))

	for _, path := range []string{bad, filepath.Join(dir, "missing.json")} {
		_, err := Load(path)
		var fe *FileError
		require.True(t, errors.As(err, &fe), path)
		assert.Equal(t, path, fe.Path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	rs := sampleSet(t)
	path := filepath.Join(t.TempDir(), DefaultFilename(rs.Identity()))

	require.NoError(t, Save(rs, path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, rs.Len(), back.Len())
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "hashdrift_results_linux_go1.23.4.json", DefaultFilename(linux()))
	assert.Equal(t, "hashdrift_results_darwin_go1.22.0.json",
		DefaultFilename(SystemIdentity{Platform: "Darwin", RuntimeVersion: "go1.22.0"}))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"hashdrift_results_linux_go1.json",
		"hashdrift_results_darwin_go1.json",
		"other.json",
		"hashdrift_results_notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "hashdrift_results_darwin_go1.json"),
		filepath.Join(dir, "hashdrift_results_linux_go1.json"),
	}, got)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(sampleSet(t))
	require.NoError(t, err)
	b, err := Fingerprint(sampleSet(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a.String(), "bafkrei"), "raw sha2-256 CIDv1 in base32: %s", a)

	other := NewBuilder(linux())
	require.NoError(t, other.Add(Coordinate{0, "simple_types", "int"}, Digest(digestB)))
	c, err := Fingerprint(other.Freeze())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
