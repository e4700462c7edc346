package credential

import (
	"io"
	"time"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/metrics"
	"github.com/chasep/kvac/internal/proof"
	"github.com/chasep/kvac/internal/symmetric"
	"github.com/chasep/kvac/internal/transcript"
	"github.com/chasep/kvac/params"
)

// encryptionOuterLabel is distinct from outerLabel: spec §4.4 preserves the
// reference source's plural "credentials" verbatim, separating the
// encryption proof's transcript from issuance/presentation's.
const encryptionOuterLabel = "2019/1416 anonymous credentials"

const encryptionInnerLabel = "2019/1416 proof of encryption"

// EncryptionProof binds a Ciphertext to the same nonce z used by a
// Presentation, per spec §4.4: the holder proves the ciphertext encrypts a
// plaintext also committed to at attribute indices 0, 1 and 2 of that
// presentation.
type EncryptionProof struct {
	Proof *proof.CompactProof
	PK    group.Point
	CY1   group.Point
	CY2   group.Point
	CY3   group.Point
	CY2P  group.Point
}

// ProveEncryption encrypts plaintext under kp and proves, in zero
// knowledge, that the ciphertext is consistent with the nonce z of an
// outer Presentation (spec §4.4's Setup). sp must have at least
// params.MinAttributesForEncryption attributes: the construction binds
// attribute indices 0 and 1 to the plaintext halves M1 (through E2) and M2
// (through E1), and index 2 to the plaintext hash m3. The returned
// scalar is m3 = H_s(plaintext): the caller must pass it back into
// kp.Decrypt, since (per symmetric.Keypair.Decrypt's doc comment) it
// cannot be recovered from the ciphertext and secret key alone.
func ProveEncryption(g *group.Group, sp *params.SystemParameters, kp *symmetric.Keypair, plaintext [symmetric.PlaintextLen]byte, z group.Scalar, rng io.Reader) (symmetric.Ciphertext, *EncryptionProof, group.Scalar, error) {
	start := time.Now()
	defer func() { metrics.ObserveProve(metrics.KindEncryption, time.Since(start)) }()

	if !sp.SupportsEncryption() {
		return symmetric.Ciphertext{}, nil, nil, params.ErrTooFewAttributesForEncryption
	}

	ciphertext, m1, m2, m3, err := kp.Encrypt(g, plaintext, rng)
	if err != nil {
		return symmetric.Ciphertext{}, nil, nil, err
	}

	cy1 := g.Add(m1, g.Mul(z, sp.GY[0]))
	cy2 := g.Add(m2, g.Mul(z, sp.GY[1]))
	cy3 := g.Add(g.Mul(m3, sp.Gm[2]), g.Mul(z, sp.GY[2]))
	cy2Prime := g.Mul(kp.A1, cy2)

	negZ := g.NewScalar().Neg(z)
	a0a1m3 := g.NewScalar().Add(kp.A0, g.NewScalar().Mul(kp.A1, m3))
	z1 := g.NewScalar().Mul(negZ, a0a1m3)

	cy1MinusE2 := g.Add(cy1, g.Neg(ciphertext.E2))
	negE1 := g.Neg(ciphertext.E1)

	t := transcript.New(encryptionOuterLabel)
	p := proof.NewProver(g, t, encryptionInnerLabel)

	a := p.AllocateScalar("a", kp.A)
	a0 := p.AllocateScalar("a0", kp.A0)
	a1 := p.AllocateScalar("a1", kp.A1)
	m3Var := p.AllocateScalar("m3", m3)
	zVar := p.AllocateScalar("z", z)
	z1Var := p.AllocateScalar("z1", z1)

	pkVar := p.AllocatePoint("pk", kp.PK)
	ga := p.AllocatePoint("G_a", sp.GA)
	ga0 := p.AllocatePoint("G_a_0", sp.GA0)
	ga1 := p.AllocatePoint("G_a_1", sp.GA1)
	gy1 := p.AllocatePoint("G_y_1", sp.GY[0])
	gy2 := p.AllocatePoint("G_y_2", sp.GY[1])
	gy3 := p.AllocatePoint("G_y_3", sp.GY[2])
	gm3 := p.AllocatePoint("G_m_3", sp.Gm[2])
	cy2Var := p.AllocatePoint("C_y_2", cy2)
	cy3Var := p.AllocatePoint("C_y_3", cy3)
	cy2PrimeVar := p.AllocatePoint("C_y_2'", cy2Prime)
	cy1MinusE2Var := p.AllocatePoint("C_y_1-E2", cy1MinusE2)
	e1Var := p.AllocatePoint("E1", ciphertext.E1)
	negE1Var := p.AllocatePoint("-E1", negE1)

	p.Constrain(pkVar, [][2]int{{int(a), int(ga)}, {int(a0), int(ga0)}, {int(a1), int(ga1)}})
	p.Constrain(cy1MinusE2Var, [][2]int{{int(zVar), int(gy1)}, {int(a), int(negE1Var)}})
	p.Constrain(cy2PrimeVar, [][2]int{{int(a1), int(cy2Var)}})
	p.Constrain(e1Var, [][2]int{{int(a0), int(cy2Var)}, {int(m3Var), int(cy2PrimeVar)}, {int(z1Var), int(gy2)}})
	p.Constrain(cy3Var, [][2]int{{int(zVar), int(gy3)}, {int(m3Var), int(gm3)}})

	return ciphertext, &EncryptionProof{
		Proof: p.ProveCompact(rng),
		PK:    kp.PK,
		CY1:   cy1,
		CY2:   cy2,
		CY3:   cy3,
		CY2P:  cy2Prime,
	}, m3, nil
}

// VerifyEncryption checks an EncryptionProof against a ciphertext.
func VerifyEncryption(g *group.Group, sp *params.SystemParameters, ciphertext symmetric.Ciphertext, ep *EncryptionProof) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveVerify(metrics.KindEncryption, time.Since(start), err) }()

	if !sp.SupportsEncryption() {
		err = ErrVerificationFailure
		return err
	}

	cy1MinusE2 := g.Add(ep.CY1, g.Neg(ciphertext.E2))
	negE1 := g.Neg(ciphertext.E1)

	t := transcript.New(encryptionOuterLabel)
	v := proof.NewVerifier(g, t, encryptionInnerLabel)

	a := v.AllocateScalar("a")
	a0 := v.AllocateScalar("a0")
	a1 := v.AllocateScalar("a1")
	m3Var := v.AllocateScalar("m3")
	zVar := v.AllocateScalar("z")
	z1Var := v.AllocateScalar("z1")

	pkVar := v.AllocatePointValue("pk", ep.PK)
	ga := v.AllocatePointValue("G_a", sp.GA)
	ga0 := v.AllocatePointValue("G_a_0", sp.GA0)
	ga1 := v.AllocatePointValue("G_a_1", sp.GA1)
	gy1 := v.AllocatePointValue("G_y_1", sp.GY[0])
	gy2 := v.AllocatePointValue("G_y_2", sp.GY[1])
	gy3 := v.AllocatePointValue("G_y_3", sp.GY[2])
	gm3 := v.AllocatePointValue("G_m_3", sp.Gm[2])
	cy2Var := v.AllocatePointValue("C_y_2", ep.CY2)
	cy3Var := v.AllocatePointValue("C_y_3", ep.CY3)
	cy2PrimeVar := v.AllocatePointValue("C_y_2'", ep.CY2P)
	cy1MinusE2Var := v.AllocatePointValue("C_y_1-E2", cy1MinusE2)
	e1Var := v.AllocatePointValue("E1", ciphertext.E1)
	negE1Var := v.AllocatePointValue("-E1", negE1)

	v.Constrain(pkVar, [][2]int{{int(a), int(ga)}, {int(a0), int(ga0)}, {int(a1), int(ga1)}})
	v.Constrain(cy1MinusE2Var, [][2]int{{int(zVar), int(gy1)}, {int(a), int(negE1Var)}})
	v.Constrain(cy2PrimeVar, [][2]int{{int(a1), int(cy2Var)}})
	v.Constrain(e1Var, [][2]int{{int(a0), int(cy2Var)}, {int(m3Var), int(cy2PrimeVar)}, {int(z1Var), int(gy2)}})
	v.Constrain(cy3Var, [][2]int{{int(zVar), int(gy3)}, {int(m3Var), int(gm3)}})

	if verr := v.VerifyCompact(ep.Proof); verr != nil {
		err = ErrVerificationFailure
		return err
	}
	return nil
}
