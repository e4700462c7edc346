package params

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/wire"
)

func TestSystemParametersWireRoundTrip(t *testing.T) {
	g := group.New()
	sp, err := New(g, "kvac/v1", 3)
	require.NoError(t, err)

	w := sp.ToWire(g, "kvac/v1")
	raw, err := wire.MarshalJSONIndent(w)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := FromWire(g, w)
	require.NoError(t, err)
	require.True(t, sp.G.Equal(got.G))
	require.True(t, sp.GV.Equal(got.GV))
	require.Equal(t, sp.NumberOfAttributes, got.NumberOfAttributes)
	for i := range sp.GY {
		require.True(t, sp.GY[i].Equal(got.GY[i]))
		require.True(t, sp.Gm[i].Equal(got.Gm[i]))
	}
}

func TestSystemParametersFromWireRejectsBadPoint(t *testing.T) {
	g := group.New()
	sp, err := New(g, "kvac/v1", 1)
	require.NoError(t, err)

	w := sp.ToWire(g, "kvac/v1")
	w.G.Hex = "not-hex"

	_, err = FromWire(g, w)
	require.Error(t, err)
}
