// Package proof implements the Camenisch-Stadler proof engine over Schnorr
// and Fiat-Shamir described in spec §4.1: a constraint system of linear
// relations P = Sum s_i * B_i over group elements, compiled into a single
// compact non-interactive proof. Every proof type in the credential package
// (issuance, presentation, encryption) is a thin layer that allocates
// scalars and points on a Prover or Verifier and calls Constrain, the way
// the original aeonflux crate's nizk.rs layers three proofs on top of the
// zkp crate's toolbox::{prover,verifier}.
package proof

import (
	"errors"
	"io"
	"strconv"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/transcript"
)

// ErrVerificationFailed is the single opaque failure the engine returns
// from VerifyCompact, per spec §7: the caller never learns which
// constraint, challenge, or encoding was at fault.
var ErrVerificationFailed = errors.New("proof: verification failed")

// ScalarVar is an opaque handle to a scalar allocated on a Prover or
// Verifier, returned in allocation order.
type ScalarVar int

// PointVar is an opaque handle to a point allocated on a Prover or
// Verifier, returned in allocation order.
type PointVar int

// term is one (scalar, point) pair of a linear constraint's right-hand
// side.
type term struct {
	scalar ScalarVar
	point  PointVar
}

// constraint asserts lhs = Sum_i terms[i].scalar * terms[i].point.
type constraint struct {
	lhs   PointVar
	terms []term
}

// CompactProof is the wire form of a proof: a single challenge and one
// response scalar per allocated secret scalar, in allocation order.
type CompactProof struct {
	Challenge group.Scalar
	Responses []group.Scalar
}

// Prover builds a compact proof. Allocate every scalar and point first (in
// a fixed, agreed order), add constraints, then call ProveCompact.
type Prover struct {
	group       *group.Group
	transcript  *transcript.Transcript
	scalarNames []string
	scalarVals  []group.Scalar
	pointVals   []group.Point
	constraints []constraint
}

// NewProver creates a prover under the given inner proof label, appended to
// t immediately (t should already carry an outer transcript label from a
// preceding transcript.New call, the way the original aeonflux crate
// layers Transcript::new(outer) then Prover::new(inner, &mut transcript)).
func NewProver(g *group.Group, t *transcript.Transcript, label string) *Prover {
	t.AppendMessage("proof-label", []byte(label))
	return &Prover{group: g, transcript: t}
}

// AllocateScalar commits the scalar's label to the transcript and records
// its secret value for later constraint checks and response computation.
func (p *Prover) AllocateScalar(label string, value group.Scalar) ScalarVar {
	p.transcript.AppendMessage(label, []byte(label))
	p.scalarNames = append(p.scalarNames, label)
	p.scalarVals = append(p.scalarVals, value)
	return ScalarVar(len(p.scalarVals) - 1)
}

// AllocatePoint commits the point's label and compressed value to the
// transcript and records it for constraint evaluation.
func (p *Prover) AllocatePoint(label string, value group.Point) PointVar {
	p.transcript.AppendPoint(label, p.group, value)
	p.pointVals = append(p.pointVals, value)
	return PointVar(len(p.pointVals) - 1)
}

// Constrain asserts lhs = Sum_i terms[i].0 * terms[i].1. Each constraint's
// first-move commitment is the sum over its terms, so reordering the terms
// of one constraint leaves the transcript unchanged; the order of
// Constrain calls does matter, since commitments are appended by index.
func (p *Prover) Constrain(lhs PointVar, terms [][2]int) {
	c := constraint{lhs: lhs}
	for _, t := range terms {
		c.terms = append(c.terms, term{scalar: ScalarVar(t[0]), point: PointVar(t[1])})
	}
	p.constraints = append(p.constraints, c)
}

// ProveCompact samples the Schnorr first-move blinding for every allocated
// scalar, derives the Fiat-Shamir challenge from the resulting commitments,
// and returns the compact proof. rng is the only randomness source this
// package uses; it must be cryptographically secure.
func (p *Prover) ProveCompact(rng io.Reader) *CompactProof {
	blinds := make([]group.Scalar, len(p.scalarVals))
	for i := range blinds {
		blinds[i] = p.group.RandomScalar(rng)
	}

	for i, c := range p.constraints {
		commitment := p.group.Identity()
		for _, t := range c.terms {
			commitment = p.group.Add(commitment, p.group.Mul(blinds[t.scalar], p.pointVals[t.point]))
		}
		p.transcript.AppendPoint(commitmentLabel(i), p.group, commitment)
	}

	challenge := p.transcript.ChallengeScalar("chal", p.group)

	responses := make([]group.Scalar, len(p.scalarVals))
	for i, s := range p.scalarVals {
		// z_i = b_i + c*s_i
		responses[i] = p.group.NewScalar().Add(blinds[i], p.group.NewScalar().Mul(challenge, s))
	}

	return &CompactProof{Challenge: challenge, Responses: responses}
}

// Verifier checks a compact proof. Allocation and constraint calls must
// mirror the prover's exactly - same labels, same order, same relations -
// or VerifyCompact returns ErrVerificationFailed.
type Verifier struct {
	group       *group.Group
	transcript  *transcript.Transcript
	scalarCount int
	pointVals   []group.Point
	constraints []constraint
}

// NewVerifier creates a verifier under the given inner proof label, appended
// to t immediately. Must mirror the corresponding NewProver call exactly -
// same outer transcript label, same inner label - or the transcripts
// diverge and VerifyCompact always fails.
func NewVerifier(g *group.Group, t *transcript.Transcript, label string) *Verifier {
	t.AppendMessage("proof-label", []byte(label))
	return &Verifier{group: g, transcript: t}
}

// AllocateScalar commits the scalar's label to the transcript; the
// verifier never learns the scalar's value.
func (v *Verifier) AllocateScalar(label string) ScalarVar {
	v.transcript.AppendMessage(label, []byte(label))
	v.scalarCount++
	return ScalarVar(v.scalarCount - 1)
}

// AllocatePoint decodes a compressed point, rejecting non-canonical
// encodings per spec §6, and commits its label and value to the
// transcript.
func (v *Verifier) AllocatePoint(label string, compressed []byte) (PointVar, error) {
	pt, err := v.group.DecompressPoint(compressed)
	if err != nil {
		return 0, err
	}
	return v.AllocatePointValue(label, pt), nil
}

// AllocatePointValue commits an already-decoded point value (used when the
// verifier already holds the point, e.g. a public parameter it derived
// itself rather than read off the wire).
func (v *Verifier) AllocatePointValue(label string, value group.Point) PointVar {
	v.transcript.AppendPoint(label, v.group, value)
	v.pointVals = append(v.pointVals, value)
	return PointVar(len(v.pointVals) - 1)
}

// Constrain mirrors Prover.Constrain.
func (v *Verifier) Constrain(lhs PointVar, terms [][2]int) {
	c := constraint{lhs: lhs}
	for _, t := range terms {
		c.terms = append(c.terms, term{scalar: ScalarVar(t[0]), point: PointVar(t[1])})
	}
	v.constraints = append(v.constraints, c)
}

// VerifyCompact recomputes every first-move commitment from the proof's
// responses and challenge - T_j = Sum_i z_i*B_i - c*lhs_j, which equals the
// honest prover's commitment iff the prover knew witnesses satisfying every
// constraint - then checks the replayed challenge matches.
func (v *Verifier) VerifyCompact(p *CompactProof) error {
	if len(p.Responses) != v.scalarCount {
		return ErrVerificationFailed
	}

	negChallenge := v.group.NewScalar().Neg(p.Challenge)

	for i, c := range v.constraints {
		commitment := v.group.Identity()
		for _, t := range c.terms {
			commitment = v.group.Add(commitment, v.group.Mul(p.Responses[t.scalar], v.pointVals[t.point]))
		}
		commitment = v.group.Add(commitment, v.group.Mul(negChallenge, v.pointVals[c.lhs]))
		v.transcript.AppendPoint(commitmentLabel(i), v.group, commitment)
	}

	challenge := v.transcript.ChallengeScalar("chal", v.group)
	if !challenge.Equal(p.Challenge) {
		return ErrVerificationFailed
	}
	return nil
}

func commitmentLabel(i int) string {
	// Internal label for the Schnorr first-move commitment of the i-th
	// constraint. This never collides with an application-level label
	// (all of which are fixed ASCII identifiers named in spec §4) because
	// it is only ever produced here, consistently on both sides.
	return "com" + strconv.Itoa(i)
}
