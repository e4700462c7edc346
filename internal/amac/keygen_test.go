package amac

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestGenerateSecretKeyYLengthMatchesAttributeCount(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	sp := testParams(t, g, 5)

	sk := GenerateSecretKey(g, sp, rng)
	require.Len(t, sk.Y, 5)
}

func TestGenerateSecretKeyZeroAttributes(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(2))
	sp := testParams(t, g, 0)

	sk := GenerateSecretKey(g, sp, rng)
	require.Empty(t, sk.Y)

	ip := sk.Parameters(g, sp)
	require.NotNil(t, ip.I)
	require.NotNil(t, ip.CW)
}
