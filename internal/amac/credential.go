package amac

import (
	"io"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/metrics"
	"github.com/chasep/kvac/params"
)

// Credential is the aMAC (t, U, V) of spec §3: created by the issuer,
// immutable afterward, consumed read-only by both proving and verifying
// sides.
type Credential struct {
	T group.Scalar
	U group.Point
	V group.Point
}

// Issue computes a fresh aMAC over attrs under sk, per spec §4.2's
// Proof-of-Issuance relation #3 (the defining equation for V, matched
// exactly so the issuance proof verifies for every credential this
// function produces):
//
//	V = w*G_w + (x_0 + x_1 + t)*U + Sum_i y_i*M_i
//
// U is sampled uniformly (as a scalar multiple of the base point) rather
// than supplied by the caller: the issuer alone is trusted to pick it, and
// a holder-chosen U would let a holder bias credential linkage.
func Issue(g *group.Group, sp *params.SystemParameters, sk *SecretKey, attrs AttributeVector, rng io.Reader) (*Credential, error) {
	messages, err := attrs.Messages(g, sp)
	if err != nil {
		return nil, err
	}

	t := g.RandomScalar(rng)
	uBlind := g.RandomScalar(rng)
	u := g.Mul(uBlind, sp.G)

	x0x1t := g.NewScalar().Add(sk.X0, sk.X1)
	x0x1t = g.NewScalar().Add(x0x1t, t)

	v := g.Mul(sk.W, sp.GW)
	v = g.Add(v, g.Mul(x0x1t, u))
	for i, m := range messages {
		v = g.Add(v, g.Mul(sk.Y[i], m))
	}

	metrics.CredentialsIssued.Inc()
	return &Credential{T: t, U: u, V: v}, nil
}
