package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hashdrift/internal/compare"
	"github.com/roach88/hashdrift/internal/results"
)

var (
	h1 = strings.Repeat("1", 64)
	h2 = strings.Repeat("2", 64)
	h3 = strings.Repeat("3", 64)
)

func set(t *testing.T, platform, runtime string, entries map[results.Coordinate]results.HashResult) *results.ResultSet {
	t.Helper()
	b := results.NewBuilder(results.SystemIdentity{Platform: platform, RuntimeVersion: runtime})
	for c, r := range entries {
		require.NoError(t, b.Add(c, r))
	}
	return b.Freeze()
}

var (
	circular = results.Coordinate{Protocol: 0, Category: "circular_references", Test: "circular_ref"}
	bytesP0  = results.Coordinate{Protocol: 0, Category: "simple_types", Test: "bytes"}
	intP0    = results.Coordinate{Protocol: 0, Category: "simple_types", Test: "int"}
	intP4    = results.Coordinate{Protocol: 4, Category: "simple_types", Test: "int"}
)

func drifted(t *testing.T) *compare.Result {
	t.Helper()
	marker := results.Failed("Unsupported", "bytes require protocol 3")
	ref := set(t, "Linux", "go1.22", map[results.Coordinate]results.HashResult{
		circular: results.Digest(h1), bytesP0: marker, intP0: results.Digest(h1), intP4: results.Digest(h1),
	})
	darwin := set(t, "Darwin", "go1.23", map[results.Coordinate]results.HashResult{
		circular: results.Digest(h1), bytesP0: marker, intP0: results.Digest(h2), intP4: results.Digest(h2),
	})
	windows := set(t, "Windows", "go1.23", map[results.Coordinate]results.HashResult{
		circular: results.Digest(h2), bytesP0: results.Digest(h3), intP0: results.Digest(h1), intP4: results.Digest(h1),
	})

	res, err := compare.Compare([]*results.ResultSet{ref, darwin, windows})
	require.NoError(t, err)
	return res
}

func identical(t *testing.T) *compare.Result {
	t.Helper()
	entries := map[results.Coordinate]results.HashResult{intP0: results.Digest(h1)}
	res, err := compare.Compare([]*results.ResultSet{
		set(t, "Linux", "go1.22", entries),
		set(t, "Darwin", "go1.23", entries),
	})
	require.NoError(t, err)
	return res
}

func render(t *testing.T, res *compare.Result, f Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, f))
	return buf.Bytes()
}

func TestGoldenReports(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	g.Assert(t, "text_identical", render(t, identical(t), FormatText))
	g.Assert(t, "text_drift", render(t, drifted(t), FormatText))
	g.Assert(t, "json_drift", render(t, drifted(t), FormatJSON))
}

func TestYAMLCarriesReport(t *testing.T) {
	res := drifted(t)
	out := render(t, res, FormatYAML)

	var back Report
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Build(res), back)
	assert.True(t, strings.HasPrefix(string(out), "reference: Linux go1.22\n"))
}

func TestBuild(t *testing.T) {
	r := Build(identical(t))
	assert.True(t, r.Identical)
	assert.NotNil(t, r.Differences)
	assert.Empty(t, r.Differences)
	assert.Equal(t, []Count{{Environment: "Darwin go1.23", Differences: 0}}, r.Summary)

	r = Build(drifted(t))
	assert.False(t, r.Identical)
	require.Len(t, r.Differences, 4)
	assert.Equal(t, Observation{
		Environment: "Windows go1.23",
		Reference:   "ERROR: Unsupported: bytes require protocol 3",
		Observed:    h3,
	}, r.Differences[1].Observations[0])
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml", "JSON"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	assert.Error(t, Write(&bytes.Buffer{}, identical(t), Format("xml")))
}
