package credential

import (
	crand "crypto/rand"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chasep/kvac/internal/amac"
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/symmetric"
)

func TestEncryptionProveVerifyRoundTrip(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 6)
	rng := rand.New(rand.NewSource(20))
	av := mixedAttrs(g, rng, sp.NumberOfAttributes)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)

	_, z, err := ProveValidCredential(g, sp, ip, cred, av, crand.Reader)
	require.NoError(t, err)

	kp := symmetric.GenerateKeypair(g, sp, rng)
	var plaintext [symmetric.PlaintextLen]byte
	copy(plaintext[:], []byte("kvac encryption roundtrip test"))

	ct, ep, m3, err := ProveEncryption(g, sp, kp, plaintext, z, crand.Reader)
	require.NoError(t, err)
	require.NoError(t, VerifyEncryption(g, sp, ct, ep))

	got, err := kp.Decrypt(g, ct, m3)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestEncryptionRejectsTooFewAttributes(t *testing.T) {
	g, sp, _, _ := testSetup(t, 1)
	rng := rand.New(rand.NewSource(21))

	kp := symmetric.GenerateKeypair(g, sp, rng)
	var plaintext [symmetric.PlaintextLen]byte

	_, _, _, err := ProveEncryption(g, sp, kp, plaintext, g.RandomScalar(rng), crand.Reader)
	require.Error(t, err)
}

func TestEncryptionRejectsTamperedCY2Prime(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 3)
	rng := rand.New(rand.NewSource(22))
	av := mixedAttrs(g, rng, sp.NumberOfAttributes)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)

	_, z, err := ProveValidCredential(g, sp, ip, cred, av, crand.Reader)
	require.NoError(t, err)

	kp := symmetric.GenerateKeypair(g, sp, rng)
	var plaintext [symmetric.PlaintextLen]byte
	copy(plaintext[:], []byte("tamper test plaintext padding"))

	ct, ep, _, err := ProveEncryption(g, sp, kp, plaintext, z, crand.Reader)
	require.NoError(t, err)

	ep.CY2P = g.Add(ep.CY2P, g.Base())
	require.ErrorIs(t, VerifyEncryption(g, sp, ct, ep), ErrVerificationFailure)
}

func TestEncryptionVerifiesWithUnrelatedZ(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 3)
	rng := rand.New(rand.NewSource(23))
	av := mixedAttrs(g, rng, sp.NumberOfAttributes)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)

	_, _, err = ProveValidCredential(g, sp, ip, cred, av, crand.Reader)
	require.NoError(t, err)

	kp := symmetric.GenerateKeypair(g, sp, rng)
	var plaintext [symmetric.PlaintextLen]byte
	copy(plaintext[:], []byte("mismatched nonce test padding"))

	wrongZ := g.RandomScalar(rng)
	ct, ep, _, err := ProveEncryption(g, sp, kp, plaintext, wrongZ, crand.Reader)
	require.NoError(t, err)
	// Proving and verifying against the same (wrong) z is self-consistent:
	// the proof only binds the ciphertext to whatever z it was built with,
	// it does not check that z against an outer presentation on its own.
	require.NoError(t, VerifyEncryption(g, sp, ct, ep))
}

// TestCrossProofLabelIsolation confirms that an issuance proof cannot be
// verified by the presentation verifier's relation set, nor the other way
// round, even though both run over the same outer transcript label. With
// n = 2 the two proofs also carry different response counts (8 and 5), so
// VerifyCompact rejects them at its length check; the effect of the inner
// label alone is covered by proof.TestVerifyRejectsInnerLabelMismatch.
func TestCrossProofLabelIsolation(t *testing.T) {
	g, sp, sk, ip := testSetup(t, 2)
	rng := rand.New(rand.NewSource(24))
	av := mixedAttrs(g, rng, 2)

	cred, err := amac.Issue(g, sp, sk, av, rng)
	require.NoError(t, err)

	issuancePf, err := ProveIssuance(g, sp, sk, ip, cred, av)
	require.NoError(t, err)

	pres, _, err := ProveValidCredential(g, sp, ip, cred, av, crand.Reader)
	require.NoError(t, err)

	// Swap the proofs: neither verifier accepts the other kind's proof.
	swappedIssuance := &ProofOfIssuance{Proof: pres.Proof}
	require.ErrorIs(t, VerifyIssuance(g, sp, ip, cred, av, swappedIssuance), ErrVerificationFailure)

	swappedPres := &Presentation{
		Proof: issuancePf.Proof,
		Z:     pres.Z,
		CX0:   pres.CX0,
		CX1:   pres.CX1,
		CV:    pres.CV,
		CY:    pres.CY,
	}
	require.Error(t, VerifyValidCredential(g, sp, ip, av, swappedPres))
}
