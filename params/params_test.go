package params

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestNewIsDeterministicInSeedAndCount(t *testing.T) {
	g := group.New()

	sp1, err := New(g, "seed-a", 4)
	require.NoError(t, err)
	sp2, err := New(g, "seed-a", 4)
	require.NoError(t, err)

	require.True(t, sp1.G.Equal(sp2.G))
	require.True(t, sp1.GV.Equal(sp2.GV))
	for i := range sp1.GY {
		require.True(t, sp1.GY[i].Equal(sp2.GY[i]))
		require.True(t, sp1.Gm[i].Equal(sp2.Gm[i]))
	}
}

func TestNewDifferentSeedsDiverge(t *testing.T) {
	g := group.New()

	sp1, err := New(g, "seed-a", 2)
	require.NoError(t, err)
	sp2, err := New(g, "seed-b", 2)
	require.NoError(t, err)

	require.False(t, sp1.GV.Equal(sp2.GV))
}

func TestNewRejectsNegativeCount(t *testing.T) {
	g := group.New()
	_, err := New(g, "seed", -1)
	require.Error(t, err)
}

func TestNewZeroAttributes(t *testing.T) {
	g := group.New()
	sp, err := New(g, "seed", 0)
	require.NoError(t, err)
	require.Empty(t, sp.GY)
	require.Empty(t, sp.Gm)
	require.False(t, sp.SupportsEncryption())
}

func TestSupportsEncryption(t *testing.T) {
	g := group.New()

	below, err := New(g, "seed", MinAttributesForEncryption-1)
	require.NoError(t, err)
	require.False(t, below.SupportsEncryption())

	at, err := New(g, "seed", MinAttributesForEncryption)
	require.NoError(t, err)
	require.True(t, at.SupportsEncryption())
}

func TestConfigValidate(t *testing.T) {
	bad := &Config{DomainSeed: "", NumberOfAttributes: -1}
	err := bad.Validate()
	require.Error(t, err)

	good := &Config{DomainSeed: "seed", NumberOfAttributes: 3}
	require.NoError(t, good.Validate())
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	c := &Config{DomainSeed: "kvac/v1", NumberOfAttributes: 3}
	path := t.TempDir() + "/config.toml"

	require.NoError(t, c.Save(path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, c, loaded)
}

func TestConfigDerive(t *testing.T) {
	g := group.New()
	c := &Config{DomainSeed: "kvac/v1", NumberOfAttributes: 3}
	sp, err := c.Derive(g)
	require.NoError(t, err)
	require.Equal(t, 3, sp.NumberOfAttributes)
}
