package proof

import (
	crand "crypto/rand"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/transcript"
)

// buildSimpleRelation proves knowledge of x such that P = x*G, the minimal
// Schnorr relation, as a unit test of the engine independent of any
// credential-specific relation.
func buildSimpleRelation(t *testing.T, g *group.Group, x group.Scalar) (*CompactProof, group.Point) {
	t.Helper()
	p := g.Mul(x, g.Base())

	tr := transcript.New("test-outer")
	pr := NewProver(g, tr, "test-inner")

	xVar := pr.AllocateScalar("x", x)
	gVar := pr.AllocatePoint("G", g.Base())
	pVar := pr.AllocatePoint("P", p)
	pr.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	return pr.ProveCompact(crand.Reader), p
}

func TestProveVerifyRoundTrip(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(1))
	x := g.RandomScalar(rng)

	proof, p := buildSimpleRelation(t, g, x)

	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "test-inner")
	xVar := v.AllocateScalar("x")
	gVar := v.AllocatePointValue("G", g.Base())
	pVar := v.AllocatePointValue("P", p)
	v.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	require.NoError(t, v.VerifyCompact(proof))
}

func TestVerifyRejectsWrongStatement(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(2))
	x := g.RandomScalar(rng)

	proof, _ := buildSimpleRelation(t, g, x)

	// Verify against a different P: same proof, wrong statement.
	wrongP := g.Mul(g.RandomScalar(rng), g.Base())

	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "test-inner")
	xVar := v.AllocateScalar("x")
	gVar := v.AllocatePointValue("G", g.Base())
	pVar := v.AllocatePointValue("P", wrongP)
	v.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	require.ErrorIs(t, v.VerifyCompact(proof), ErrVerificationFailed)
}

func TestVerifyRejectsInnerLabelMismatch(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(3))
	x := g.RandomScalar(rng)

	proof, p := buildSimpleRelation(t, g, x)

	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "different-inner")
	xVar := v.AllocateScalar("x")
	gVar := v.AllocatePointValue("G", g.Base())
	pVar := v.AllocatePointValue("P", p)
	v.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	require.ErrorIs(t, v.VerifyCompact(proof), ErrVerificationFailed)
}

func TestVerifyRejectsTamperedResponse(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(4))
	x := g.RandomScalar(rng)

	proof, p := buildSimpleRelation(t, g, x)
	proof.Responses[0] = g.NewScalar().Add(proof.Responses[0], g.ScalarOne())

	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "test-inner")
	xVar := v.AllocateScalar("x")
	gVar := v.AllocatePointValue("G", g.Base())
	pVar := v.AllocatePointValue("P", p)
	v.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	require.ErrorIs(t, v.VerifyCompact(proof), ErrVerificationFailed)
}

func TestVerifyRejectsWrongResponseCount(t *testing.T) {
	g := group.New()
	rng := rand.New(rand.NewSource(5))
	x := g.RandomScalar(rng)

	proof, p := buildSimpleRelation(t, g, x)
	proof.Responses = append(proof.Responses, g.ScalarOne())

	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "test-inner")
	xVar := v.AllocateScalar("x")
	gVar := v.AllocatePointValue("G", g.Base())
	pVar := v.AllocatePointValue("P", p)
	v.Constrain(pVar, [][2]int{{int(xVar), int(gVar)}})

	require.ErrorIs(t, v.VerifyCompact(proof), ErrVerificationFailed)
}

func TestAllocatePointRejectsNonCanonicalEncoding(t *testing.T) {
	g := group.New()
	tr := transcript.New("test-outer")
	v := NewVerifier(g, tr, "test-inner")

	_, err := v.AllocatePoint("P", make([]byte, g.PointLen()-1))
	require.Error(t, err)
}
