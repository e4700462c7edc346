package symmetric

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestKeypairWireRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	sp := testParams(t, g)
	kp := GenerateKeypair(g, sp, rng)

	got, err := KeypairFromWire(g, kp.ToWire(g))
	require.NoError(t, err)
	require.True(t, kp.A.Equal(got.A))
	require.True(t, kp.A0.Equal(got.A0))
	require.True(t, kp.A1.Equal(got.A1))
	require.True(t, kp.PK.Equal(got.PK))
}

func TestCiphertextWireRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(2))
	sp := testParams(t, g)
	kp := GenerateKeypair(g, sp, rng)

	var plaintext [PlaintextLen]byte
	copy(plaintext[:], []byte("wire round trip test plaintext"))
	ct, _, _, _, err := kp.Encrypt(g, plaintext, rng)
	require.NoError(t, err)

	got, err := CiphertextFromWire(g, ct.ToWire(g))
	require.NoError(t, err)
	require.True(t, ct.E1.Equal(got.E1))
	require.True(t, ct.E2.Equal(got.E2))
}
