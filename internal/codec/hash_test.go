package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hashdrift/internal/graph"
)

func sampleGraph() graph.Value {
	return graph.NewDict(
		graph.E("list", graph.NewList(graph.Int(1), graph.Int(2), graph.Int(3))),
		graph.E("tuple", graph.NewTuple(graph.Str("x"), graph.Float(2.5))),
		graph.E("set", graph.NewSet(graph.Str("b"), graph.Str("a"))),
		graph.E("none", graph.None{}),
	)
}

func cycle() graph.Value {
	a := graph.NewList()
	b := graph.NewList(a)
	a.Append(b)
	return a
}

func TestHashDeterministic(t *testing.T) {
	for _, p := range Range(DefaultProtocols) {
		h1, err := Hash(sampleGraph(), p)
		require.NoError(t, err)
		h2, err := Hash(sampleGraph(), p)
		require.NoError(t, err)

		assert.Equal(t, h1, h2, "same graph must hash the same at %s", p)
		assert.Len(t, h1, DigestLen, "SHA-256 hex is 64 characters")
	}
}

func TestHashDiffersAcrossProtocols(t *testing.T) {
	seen := make(map[string]Protocol)
	for _, p := range Range(DefaultProtocols) {
		h := MustHash(sampleGraph(), p)
		if prev, ok := seen[h]; ok {
			t.Fatalf("%s and %s produced the same digest", prev, p)
		}
		seen[h] = p
	}
}

func TestHashIndependentCyclesMatch(t *testing.T) {
	for _, p := range Range(DefaultProtocols) {
		assert.Equal(t, MustHash(cycle(), p), MustHash(cycle(), p), "protocol %d", p)
	}
}

func TestHashSignedZero(t *testing.T) {
	for _, p := range Range(DefaultProtocols) {
		pos := MustHash(graph.Float(0), p)
		neg := MustHash(graph.Float(math.Copysign(0, -1)), p)
		assert.NotEqual(t, pos, neg, "signed zero must be distinguished at %s", p)
	}
}

func TestHashNaNIsStable(t *testing.T) {
	for _, p := range Range(DefaultProtocols) {
		assert.Equal(t, MustHash(graph.Float(math.NaN()), p), MustHash(graph.Float(math.NaN()), p))
	}
}

func TestHashSetOrderIndependent(t *testing.T) {
	for _, p := range Range(DefaultProtocols) {
		a := graph.NewSet(graph.Int(3), graph.Str("z"), graph.Int(1), graph.Float(0.5))
		b := graph.NewSet(graph.Float(0.5), graph.Int(1), graph.Str("z"), graph.Int(3))
		assert.Equal(t, MustHash(a, p), MustHash(b, p), "set order must not matter at %s", p)

		fa := graph.NewFrozenSet(graph.Int(2), graph.Int(1))
		fb := graph.NewFrozenSet(graph.Int(1), graph.Int(2))
		assert.Equal(t, MustHash(fa, p), MustHash(fb, p))
		assert.NotEqual(t, MustHash(a, p), MustHash(graph.NewFrozenSet(a.Items...), p))
	}
}

func TestHashSetWithSignedZerosIsOrderIndependent(t *testing.T) {
	negZero := graph.Float(math.Copysign(0, -1))
	for _, p := range Range(DefaultProtocols) {
		pos := MustHash(graph.NewSet(graph.Float(0), negZero), p)
		neg := MustHash(graph.NewSet(negZero, graph.Float(0)), p)
		assert.Equal(t, pos, neg, "signed zero insertion order must not matter at %s", p)

		fpos := MustHash(graph.NewFrozenSet(graph.Float(0), negZero), p)
		fneg := MustHash(graph.NewFrozenSet(negZero, graph.Float(0)), p)
		assert.Equal(t, fpos, fneg)
	}
}

func TestHashDictInsertionOrderMatters(t *testing.T) {
	ab := graph.NewDict(graph.E("a", graph.Int(1)), graph.E("b", graph.Int(2)))
	ba := graph.NewDict(graph.E("b", graph.Int(2)), graph.E("a", graph.Int(1)))

	assert.True(t, graph.Equal(ab, ba))
	assert.NotEqual(t, MustHash(ab, 2), MustHash(ba, 2))
}

func TestHashPropagatesSerializationError(t *testing.T) {
	_, err := Hash(graph.Bytes("x"), 1)
	require.Error(t, err)
	assert.True(t, IsSerializationError(err))
}

func TestMustHashPanics(t *testing.T) {
	assert.Panics(t, func() { MustHash(graph.Bytes("x"), 0) })
}

func TestSum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
}

func TestRange(t *testing.T) {
	assert.Nil(t, Range(0))
	assert.Equal(t, []Protocol{0, 1, 2}, Range(3))
	assert.Len(t, Range(8), 8, "Range does not clamp")
	assert.False(t, Protocol(6).Valid())
	assert.True(t, MaxProtocol.Valid())
	assert.Equal(t, "protocol 3", Protocol(3).String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.30000000000000004", formatFloat(0.1+func() float64 { return 0.2 }()))
	assert.Equal(t, "-0", formatFloat(math.Copysign(0, -1)))
	assert.Equal(t, "inf", formatFloat(math.Inf(1)))
	assert.Equal(t, "1e+300", formatFloat(1e300))
}
