package amac

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/params"
)

func testParams(t *testing.T, g *group.Group, n int) *params.SystemParameters {
	t.Helper()
	sp, err := params.New(g, "amac-test/v1", n)
	require.NoError(t, err)
	return sp
}

func TestAttributeVectorValidateLength(t *testing.T) {
	g := group.New()
	sp := testParams(t, g, 2)

	av := AttributeVector{NewPublicScalar(g.ScalarOne()), NewPublicScalar(g.ScalarOne())}
	require.NoError(t, av.Validate(sp))

	tooShort := AttributeVector{NewPublicScalar(g.ScalarOne())}
	require.ErrorIs(t, tooShort.Validate(sp), ErrBadAttributeCount)
}

func TestMessagesMixedKinds(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	sp := testParams(t, g, 4)

	m := g.RandomScalar(rng)
	pt := g.Mul(g.RandomScalar(rng), g.Base())

	av := AttributeVector{
		NewPublicScalar(m),
		NewSecretScalar(m),
		NewPublicPoint(pt),
		NewSecretPoint(pt),
	}

	messages, err := av.Messages(g, sp)
	require.NoError(t, err)
	require.Len(t, messages, 4)

	require.True(t, messages[0].Equal(g.Mul(m, sp.Gm[0])))
	require.True(t, messages[1].Equal(g.Mul(m, sp.Gm[1])))
	require.True(t, messages[2].Equal(pt))
	require.True(t, messages[3].Equal(pt))
}

func TestMessagesRejectsUnknownKind(t *testing.T) {
	g := group.New()
	sp := testParams(t, g, 1)

	av := AttributeVector{{Kind: Kind(99)}}
	_, err := av.Messages(g, sp)
	require.ErrorIs(t, err, ErrUnknownAttributeKind)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "PublicScalar", PublicScalar.String())
	require.Equal(t, "SecretScalar", SecretScalar.String())
	require.Equal(t, "PublicPoint", PublicPoint.String())
	require.Equal(t, "SecretPoint", SecretPoint.String())
	require.Contains(t, Kind(42).String(), "42")
}
