package wire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestScalarRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	s := g.RandomScalar(rng)

	w := EncodeScalar(g, s)
	got, err := DecodeScalar(g, w)
	require.NoError(t, err)
	require.True(t, s.Equal(got))
}

func TestPointRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(2))
	p := g.Mul(g.RandomScalar(rng), g.Base())

	w := EncodePoint(g, p)
	got, err := DecodePoint(g, w)
	require.NoError(t, err)
	require.True(t, p.Equal(got))
}

func TestDecodeScalarRejectsBadHex(t *testing.T) {
	g := group.New()
	_, err := DecodeScalar(g, Scalar{Hex: "zz"})
	require.Error(t, err)
}

func TestDecodePointRejectsBadHex(t *testing.T) {
	g := group.New()
	_, err := DecodePoint(g, Point{Hex: "zz"})
	require.Error(t, err)
}

func TestScalarsAndPointsSliceRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(3))

	ss := []group.Scalar{g.RandomScalar(rng), g.RandomScalar(rng)}
	ps := []group.Point{g.Mul(ss[0], g.Base()), g.Mul(ss[1], g.Base())}

	gotSS, err := DecodeScalars(g, EncodeScalars(g, ss))
	require.NoError(t, err)
	for i := range ss {
		require.True(t, ss[i].Equal(gotSS[i]))
	}

	gotPS, err := DecodePoints(g, EncodePoints(g, ps))
	require.NoError(t, err)
	for i := range ps {
		require.True(t, ps[i].Equal(gotPS[i]))
	}
}

func TestMarshalJSONIndentProducesIndentedJSON(t *testing.T) {
	out, err := MarshalJSONIndent(Scalar{Hex: "ab"})
	require.NoError(t, err)
	require.Contains(t, string(out), "\n  ")
}
