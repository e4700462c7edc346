// Package symmetric is the Symmetric Verifiable Encryption external
// collaborator of spec §3/§6: a secret-keyed scheme whose ciphertext
// structure is provable in zero knowledge by internal/proof, used by
// credential.ProofOfEncryption.
//
// There is no separate external system for this module to delegate to (see
// SPEC_FULL.md §12), so the primitive is implemented concretely here, the
// way internal/amac concretely implements the issuer key-generation
// collaborator.
package symmetric

import (
	"errors"
	"io"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/params"
)

// ErrPlaintextSize describes a plaintext that is not exactly 30 bytes, per
// spec §6's encrypt(plaintext[0..30]) interface. Encrypt and Decrypt take a
// fixed-size [PlaintextLen]byte array, so neither of them returns it.
var ErrPlaintextSize = errors.New("symmetric: plaintext must be exactly 30 bytes")

// ErrTamperedCiphertext is returned by Decrypt when the recovered plaintext
// does not hash to the caller-supplied m3, meaning the ciphertext or m3 was
// tampered with or mismatched.
var ErrTamperedCiphertext = errors.New("symmetric: plaintext does not match m3")

// PlaintextLen is the fixed block size this scheme encrypts, split into two
// embedded halves of the group's EmbedLen() (at least 15 bytes each on
// edwards25519).
const PlaintextLen = 30

// Keypair is the symmetric secret (a, a0, a1) and its public commitment pk,
// per spec §3's Setup for Proof of Encryption.
type Keypair struct {
	A  group.Scalar
	A0 group.Scalar
	A1 group.Scalar
	PK group.Point
}

// GenerateKeypair samples a fresh symmetric keypair.
func GenerateKeypair(g *group.Group, sp *params.SystemParameters, rng io.Reader) *Keypair {
	kp := &Keypair{
		A:  g.RandomScalar(rng),
		A0: g.RandomScalar(rng),
		A1: g.RandomScalar(rng),
	}
	kp.PK = kp.publicKey(g, sp)
	return kp
}

// publicKey computes pk = a*G_a + a0*G_a0 + a1*G_a1, relation (1) of §4.4.
func (kp *Keypair) publicKey(g *group.Group, sp *params.SystemParameters) group.Point {
	pk := g.Mul(kp.A, sp.GA)
	pk = g.Add(pk, g.Mul(kp.A0, sp.GA0))
	pk = g.Add(pk, g.Mul(kp.A1, sp.GA1))
	return pk
}

// Ciphertext is the two-point wire format of spec §6: (E1, E2).
type Ciphertext struct {
	E1 group.Point
	E2 group.Point
}

// hashScalarLabel is the domain label for H_s, spec §6's scalar hash of the
// plaintext.
const hashScalarLabel = "2019/1416 symmetric encryption m3"

// Encrypt implements spec §6's encrypt(plaintext[0..30]) -> (Ciphertext,
// M1, M2, m3): plaintext is split into two halves, each embedded into a
// curve point, and m3 = H_s(plaintext) binds the halves together.
//
// The ciphertext is built so that relations (2) and (4) of §4.4 are true
// algebraic identities for any honestly-generated z, z1, C_y1, C_y2, C_y2'
// derived from the Setup in §4.4: E1 = (a0 + a1*m3)*M2, E2 = M1 + a*E1. The
// z-dependent terms of relation (4) cancel exactly because z1 is defined as
// -z*(a0 + a1*m3); that cancellation is what lets the proof bind E1 to the
// hidden M2 without revealing z or m3.
func (kp *Keypair) Encrypt(g *group.Group, plaintext [PlaintextLen]byte, rng io.Reader) (Ciphertext, group.Point, group.Point, group.Scalar, error) {
	half := g.EmbedLen()
	if half < 15 {
		return Ciphertext{}, nil, nil, nil, errors.New("symmetric: group embed capacity too small for a 15-byte half")
	}

	m1 := g.EmbedBytes(plaintext[:15], rng)
	m2 := g.EmbedBytes(plaintext[15:], rng)
	m3 := g.HashToScalar(hashScalarLabel, plaintext[:])

	k := g.NewScalar().Mul(kp.A1, m3)
	k = g.NewScalar().Add(kp.A0, k)

	e1 := g.Mul(k, m2)
	e2 := g.Add(m1, g.Mul(kp.A, e1))

	return Ciphertext{E1: e1, E2: e2}, m1, m2, m3, nil
}

// Decrypt recovers the plaintext from ct given the scalar hash m3 that
// accompanied the original encryption.
//
// m3 cannot be recovered from (E1, E2) and the secret key alone: E1 =
// (a0 + a1*m3)*M2 is one equation in two unknowns (a scalar and a point),
// so whoever performs decryption - typically an escrow party the holder
// discloses m3 to out of band - must already hold it. Spec §8 states
// decrypt(encrypt(m).ciphertext) = m as an assumed invariant of this
// external primitive; this signature is the concrete shape that invariant
// takes once the primitive is made concrete rather than external (see
// SPEC_FULL.md §12).
func (kp *Keypair) Decrypt(g *group.Group, ct Ciphertext, m3 group.Scalar) ([PlaintextLen]byte, error) {
	var out [PlaintextLen]byte

	k := g.NewScalar().Mul(kp.A1, m3)
	k = g.NewScalar().Add(kp.A0, k)
	kInv := g.Invert(k)
	m2 := g.Mul(kInv, ct.E1)

	m1 := g.Add(ct.E2, g.Neg(g.Mul(kp.A, ct.E1)))

	b1, err := g.ExtractBytes(m1)
	if err != nil {
		return out, err
	}
	b2, err := g.ExtractBytes(m2)
	if err != nil {
		return out, err
	}
	if len(b1) < 15 || len(b2) < 15 {
		return out, ErrTamperedCiphertext
	}
	copy(out[:15], b1[:15])
	copy(out[15:], b2[:15])

	if !g.HashToScalar(hashScalarLabel, out[:]).Equal(m3) {
		return out, ErrTamperedCiphertext
	}
	return out, nil
}
