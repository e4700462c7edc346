package amac

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestIssueSatisfiesIssuanceRelation(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	sp := testParams(t, g, 3)
	sk := GenerateSecretKey(g, sp, rng)

	av := AttributeVector{
		NewPublicScalar(g.RandomScalar(rng)),
		NewSecretScalar(g.RandomScalar(rng)),
		NewPublicPoint(g.Mul(g.RandomScalar(rng), g.Base())),
	}

	cred, err := Issue(g, sp, sk, av, rng)
	require.NoError(t, err)

	messages, err := av.Messages(g, sp)
	require.NoError(t, err)

	x0x1t := g.NewScalar().Add(sk.X0, sk.X1)
	x0x1t = g.NewScalar().Add(x0x1t, cred.T)

	want := g.Mul(sk.W, sp.GW)
	want = g.Add(want, g.Mul(x0x1t, cred.U))
	for i, m := range messages {
		want = g.Add(want, g.Mul(sk.Y[i], m))
	}

	require.True(t, cred.V.Equal(want))
}

func TestIssuerParametersSatisfyPublicKeyRelation(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(2))
	sp := testParams(t, g, 2)
	sk := GenerateSecretKey(g, sp, rng)

	ip := sk.Parameters(g, sp)

	want := g.Neg(sp.GV)
	want = g.Add(want, g.Mul(sk.X0, sp.GX0))
	want = g.Add(want, g.Mul(sk.X1, sp.GX1))
	for i, y := range sk.Y {
		want = g.Add(want, g.Mul(y, sp.GY[i]))
	}

	require.True(t, ip.I.Equal(want))
	require.True(t, ip.CW.Equal(g.Add(g.Mul(sk.W, sp.GW), g.Mul(sk.WPrime, sp.GWPrime))))
}

func TestGenerateSecretKeyIsFreshEachCall(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(3))
	sp := testParams(t, g, 1)

	sk1 := GenerateSecretKey(g, sp, rng)
	sk2 := GenerateSecretKey(g, sp, rng)

	require.False(t, sk1.W.Equal(sk2.W))
}
