package credential

import (
	"io"
	"time"

	"github.com/chasep/kvac/internal/amac"
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/metrics"
	"github.com/chasep/kvac/internal/proof"
	"github.com/chasep/kvac/internal/transcript"
	"github.com/chasep/kvac/params"
)

const presentationInnerLabel = "2019/1416 presentation proof"

// Presentation is the output of ProveValidCredential: the Schnorr proof
// plus the public commitments the holder discloses, per spec §4.3. Z is
// carried alongside C_x0/C_x1/C_V/C_y even though the reference source's
// struct omits it: relation #1 (Z = z*I) needs Z as a known point on both
// sides, and the prover is the only party that can compute it, so it must
// travel with the rest of the bundle.
type Presentation struct {
	Proof *proof.CompactProof
	Z     group.Point
	CX0   group.Point
	CX1   group.Point
	CV    group.Point
	CY    []group.Point
}

// proofMessages computes the per-index point term M_i used inside the
// presentation relation (spec §4.3's message-vector rule), distinct from
// amac.AttributeVector.Messages which computes the real per-attribute
// point used to build the credential itself:
//
//   - PublicScalar, PublicPoint -> identity (the disclosed value is
//     reconstructed and checked by the caller outside this relation).
//   - SecretPoint(P)            -> P.
//   - SecretScalar(m)           -> identity here; its contribution is the
//     m*G_m[i] term added directly into C_y[i] (see commitCY) and into
//     relation #3 (see the resolved open question in spec §4.3/§9).
func proofMessages(g *group.Group, attrs amac.AttributeVector) []group.Point {
	m := make([]group.Point, len(attrs))
	identity := g.Identity()
	for i, a := range attrs {
		switch a.Kind {
		case amac.SecretPoint:
			m[i] = a.Point
		default:
			m[i] = identity
		}
	}
	return m
}

// commitCY computes C_y[i] = z*G_y[i] + M_i, adding the m*G_m[i] term for
// any SecretScalar attribute so the commitment matches relation #3 exactly
// (messages[i] is identity for SecretScalar, so it contributes nothing on
// its own).
func commitCY(g *group.Group, sp *params.SystemParameters, attrs amac.AttributeVector, messages []group.Point, z group.Scalar) []group.Point {
	cy := make([]group.Point, sp.NumberOfAttributes)
	for i := range cy {
		cy[i] = g.Add(g.Mul(z, sp.GY[i]), messages[i])
		if attrs[i].Kind == amac.SecretScalar {
			cy[i] = g.Add(cy[i], g.Mul(attrs[i].Scalar, sp.Gm[i]))
		}
	}
	return cy
}

// ProveValidCredential proves possession of a valid aMAC over attrs,
// randomizing every commitment with a freshly sampled nonce z (spec §4.3's
// Nonce setup). rng is the only randomness source this call uses. The
// returned scalar is z itself: a holder pairing this presentation with a
// Proof of Encryption (spec §4.4) must reuse the same z there, and z never
// appears inside Presentation since it is secret.
func ProveValidCredential(g *group.Group, sp *params.SystemParameters, ip *amac.IssuerParameters, cred *amac.Credential, attrs amac.AttributeVector, rng io.Reader) (*Presentation, group.Scalar, error) {
	start := time.Now()
	defer func() { metrics.ObserveProve(metrics.KindPresentation, time.Since(start)) }()

	if err := attrs.Validate(sp); err != nil {
		return nil, nil, err
	}
	messages := proofMessages(g, attrs)

	z := g.RandomScalar(rng)
	negT := g.NewScalar().Neg(cred.T)
	z0 := g.NewScalar().Mul(negT, z)

	cx0 := g.Add(g.Mul(z, sp.GX0), cred.U)
	tu := g.Mul(cred.T, cred.U)
	cx1 := g.Add(g.Mul(z, sp.GX1), tu)
	cv := g.Add(g.Mul(z, sp.GV), cred.V)
	zPoint := g.Mul(z, ip.I)

	cy := commitCY(g, sp, attrs, messages, z)

	t := transcript.New(outerLabel)
	p := proof.NewProver(g, t, presentationInnerLabel)

	one := p.AllocateScalar("1", g.ScalarOne())
	zVar := p.AllocateScalar("z", z)
	z0Var := p.AllocateScalar("z_0", z0)
	tVar := p.AllocateScalar("t", cred.T)

	// Per spec §4.3's resolved open question, a SecretScalar attribute
	// allocates its scalar m and binds it directly into relation #3 below,
	// rather than leaving it unconstrained as the reference source does.
	secretScalar := make(map[int]proof.ScalarVar)
	for i, a := range attrs {
		if a.Kind == amac.SecretScalar {
			secretScalar[i] = p.AllocateScalar("m", a.Scalar)
		}
	}

	zPointVar := p.AllocatePoint("Z", zPoint)
	iVar := p.AllocatePoint("I", ip.I)
	cx1Var := p.AllocatePoint("C_x_1", cx1)
	cx0Var := p.AllocatePoint("C_x_0", cx0)
	gx0 := p.AllocatePoint("G_x_0", sp.GX0)
	gx1 := p.AllocatePoint("G_x_1", sp.GX1)

	cyVar := make([]proof.PointVar, len(cy))
	for i, c := range cy {
		cyVar[i] = p.AllocatePoint("C_y", c)
	}
	gyVar := make([]proof.PointVar, len(sp.GY))
	for i, gy := range sp.GY {
		gyVar[i] = p.AllocatePoint("G_y", gy)
	}
	mVar := make([]proof.PointVar, len(messages))
	for i, m := range messages {
		mVar[i] = p.AllocatePoint("M", m)
	}
	gmVar := make(map[int]proof.PointVar)
	for i, a := range attrs {
		if a.Kind == amac.SecretScalar {
			gmVar[i] = p.AllocatePoint("G_m", sp.Gm[i])
		}
	}

	p.Constrain(zPointVar, [][2]int{{int(zVar), int(iVar)}})
	p.Constrain(cx1Var, [][2]int{{int(tVar), int(cx0Var)}, {int(z0Var), int(gx0)}, {int(zVar), int(gx1)}})

	for i := range cyVar {
		if sv, ok := secretScalar[i]; ok {
			p.Constrain(cyVar[i], [][2]int{{int(zVar), int(gyVar[i])}, {int(sv), int(gmVar[i])}})
		} else {
			p.Constrain(cyVar[i], [][2]int{{int(zVar), int(gyVar[i])}, {int(one), int(mVar[i])}})
		}
	}

	return &Presentation{
		Proof: p.ProveCompact(rng),
		Z:     zPoint,
		CX0:   cx0,
		CX1:   cx1,
		CV:    cv,
		CY:    cy,
	}, z, nil
}

// VerifyValidCredential checks a Presentation against the system and
// issuer parameters and the attribute vector as seen by the verifier:
// PublicScalar/PublicPoint entries carry the disclosed value (unused by
// this relation; AttributeVector.Validate checks only the vector's
// length, not the values), SecretPoint
// entries carry the same point value the prover used (its "secrecy" is
// that no scalar discrete log is proven, not that the point is withheld
// from the verifier), and SecretScalar entries need only the Kind tag.
func VerifyValidCredential(g *group.Group, sp *params.SystemParameters, ip *amac.IssuerParameters, attrs amac.AttributeVector, pres *Presentation) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveVerify(metrics.KindPresentation, time.Since(start), err) }()

	if attrs.Validate(sp) != nil {
		err = ErrVerificationFailure
		return err
	}
	if len(pres.CY) != sp.NumberOfAttributes {
		err = ErrVerificationFailure
		return err
	}
	messages := proofMessages(g, attrs)

	t := transcript.New(outerLabel)
	v := proof.NewVerifier(g, t, presentationInnerLabel)

	one := v.AllocateScalar("1")
	zVar := v.AllocateScalar("z")
	z0Var := v.AllocateScalar("z_0")
	tVar := v.AllocateScalar("t")

	secretScalar := make(map[int]proof.ScalarVar)
	for i, a := range attrs {
		if a.Kind == amac.SecretScalar {
			secretScalar[i] = v.AllocateScalar("m")
		}
	}

	zPointVar := v.AllocatePointValue("Z", pres.Z)
	iVar := v.AllocatePointValue("I", ip.I)
	cx1Var := v.AllocatePointValue("C_x_1", pres.CX1)
	cx0Var := v.AllocatePointValue("C_x_0", pres.CX0)
	gx0 := v.AllocatePointValue("G_x_0", sp.GX0)
	gx1 := v.AllocatePointValue("G_x_1", sp.GX1)

	cyVar := make([]proof.PointVar, len(pres.CY))
	for i, c := range pres.CY {
		cyVar[i] = v.AllocatePointValue("C_y", c)
	}
	gyVar := make([]proof.PointVar, len(sp.GY))
	for i, gy := range sp.GY {
		gyVar[i] = v.AllocatePointValue("G_y", gy)
	}
	mVar := make([]proof.PointVar, len(messages))
	for i, m := range messages {
		mVar[i] = v.AllocatePointValue("M", m)
	}
	gmVar := make(map[int]proof.PointVar)
	for i, a := range attrs {
		if a.Kind == amac.SecretScalar {
			gmVar[i] = v.AllocatePointValue("G_m", sp.Gm[i])
		}
	}

	v.Constrain(zPointVar, [][2]int{{int(zVar), int(iVar)}})
	v.Constrain(cx1Var, [][2]int{{int(tVar), int(cx0Var)}, {int(z0Var), int(gx0)}, {int(zVar), int(gx1)}})

	for i := range cyVar {
		if sv, ok := secretScalar[i]; ok {
			v.Constrain(cyVar[i], [][2]int{{int(zVar), int(gyVar[i])}, {int(sv), int(gmVar[i])}})
		} else {
			v.Constrain(cyVar[i], [][2]int{{int(zVar), int(gyVar[i])}, {int(one), int(mVar[i])}})
		}
	}

	if verr := v.VerifyCompact(pres.Proof); verr != nil {
		err = ErrVerificationFailure
		return err
	}
	return nil
}
