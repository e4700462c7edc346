package credential

import (
	crand "crypto/rand"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/amac"
)

func TestProofOfIssuanceWireRoundTrip(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 2)
	rng := rand.New(rand.NewSource(30))
	av := mixedAttrs(g, rng, 2)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)
	pf, err := ProveIssuance(g, sp, sk, ip, cred, av)
	require.NoError(t, err)

	got, err := ProofOfIssuanceFromWire(g, pf.ToWire(g))
	require.NoError(t, err)
	require.NoError(t, VerifyIssuance(g, sp, ip, cred, av, got))
}

func TestPresentationWireRoundTrip(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 2)
	rng := rand.New(rand.NewSource(31))
	av := mixedAttrs(g, rng, 2)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)
	pres, _, err := ProveValidCredential(g, sp, ip, cred, av, crand.Reader)
	require.NoError(t, err)

	got, err := PresentationFromWire(g, pres.ToWire(g))
	require.NoError(t, err)
	require.NoError(t, VerifyValidCredential(g, sp, ip, av, got))
}
