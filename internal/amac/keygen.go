package amac

import (
	"io"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/params"
)

// SecretKey is the issuer's secret key of spec §3: w, w', x_0, x_1 and the
// per-attribute y vector. This is the "issuer key-generation" external
// collaborator of spec §1 - concrete here because this module has no
// separate external system to hand it off to (see SPEC_FULL.md §12).
type SecretKey struct {
	W      group.Scalar
	WPrime group.Scalar
	X0     group.Scalar
	X1     group.Scalar
	Y      []group.Scalar
}

// GenerateSecretKey samples a fresh secret key for sp.NumberOfAttributes
// attributes.
func GenerateSecretKey(g *group.Group, sp *params.SystemParameters, rng io.Reader) *SecretKey {
	sk := &SecretKey{
		W:      g.RandomScalar(rng),
		WPrime: g.RandomScalar(rng),
		X0:     g.RandomScalar(rng),
		X1:     g.RandomScalar(rng),
		Y:      make([]group.Scalar, sp.NumberOfAttributes),
	}
	for i := range sk.Y {
		sk.Y[i] = g.RandomScalar(rng)
	}
	return sk
}

// IssuerParameters is the issuer's public commitment to its secret key,
// C_W and I, per spec §3. I contains the explicit subtraction of G_V; the
// issuance proof materializes -G_V again as its own point variable (see
// credential.ProveIssuance/VerifyIssuance), per spec §3's invariant.
type IssuerParameters struct {
	CW group.Point
	I  group.Point
}

// Parameters computes the IssuerParameters published for sk under sp.
func (sk *SecretKey) Parameters(g *group.Group, sp *params.SystemParameters) *IssuerParameters {
	cw := g.Add(g.Mul(sk.W, sp.GW), g.Mul(sk.WPrime, sp.GWPrime))

	i := g.Neg(sp.GV)
	i = g.Add(i, g.Mul(sk.X0, sp.GX0))
	i = g.Add(i, g.Mul(sk.X1, sp.GX1))
	for idx, y := range sk.Y {
		i = g.Add(i, g.Mul(y, sp.GY[idx]))
	}

	return &IssuerParameters{CW: cw, I: i}
}
