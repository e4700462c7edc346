package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/group"
)

func TestSameSequenceSameChallenge(t *testing.T) {
	g := group.New()

	t1 := New("outer")
	t1.AppendMessage("a", []byte("x"))
	c1 := t1.ChallengeScalar("chal", g)

	t2 := New("outer")
	t2.AppendMessage("a", []byte("x"))
	c2 := t2.ChallengeScalar("chal", g)

	require.True(t, c1.Equal(c2))
}

func TestDifferentOuterLabelDivergesChallenge(t *testing.T) {
	g := group.New()

	t1 := New("outer-1")
	t1.AppendMessage("a", []byte("x"))
	c1 := t1.ChallengeScalar("chal", g)

	t2 := New("outer-2")
	t2.AppendMessage("a", []byte("x"))
	c2 := t2.ChallengeScalar("chal", g)

	require.False(t, c1.Equal(c2))
}

func TestDifferentMessageLabelDivergesChallenge(t *testing.T) {
	g := group.New()

	t1 := New("outer")
	t1.AppendMessage("label-a", []byte("x"))
	c1 := t1.ChallengeScalar("chal", g)

	t2 := New("outer")
	t2.AppendMessage("label-b", []byte("x"))
	c2 := t2.ChallengeScalar("chal", g)

	require.False(t, c1.Equal(c2))
}

func TestChallengeScalarDoesNotMutateState(t *testing.T) {
	g := group.New()

	tr := New("outer")
	tr.AppendMessage("a", []byte("x"))
	c1 := tr.ChallengeScalar("chal", g)
	c2 := tr.ChallengeScalar("chal", g)

	require.True(t, c1.Equal(c2))
}

func TestAppendPointAffectsChallenge(t *testing.T) {
	g := group.New()

	p := g.Base()
	q := g.Add(p, p)

	t1 := New("outer")
	t1.AppendPoint("s", g, p)
	c1 := t1.ChallengeScalar("chal", g)

	t2 := New("outer")
	t2.AppendPoint("s", g, q)
	c2 := t2.ChallengeScalar("chal", g)

	require.False(t, c1.Equal(c2))
}
