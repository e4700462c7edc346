// Package params holds the System Parameters of spec §3: a fixed,
// deployment-wide tuple of independently derived generators threaded
// through every operation in this module as a plain immutable value, the
// way drand threads its key.Group and crypto.Scheme values rather than
// relying on package-level globals.
package params

import (
	"errors"
	"fmt"

	"github.com/chasep/kvac/internal/group"
)

// ErrTooFewAttributesForEncryption is returned when a Proof of Encryption
// is attempted against a SystemParameters whose NumberOfAttributes is
// below MinAttributesForEncryption.
var ErrTooFewAttributesForEncryption = errors.New("params: NUMBER_OF_ATTRIBUTES below minimum required for encryption")

// SystemParameters is the fixed generator tuple of spec §3. All generators
// are independently derived from disjoint domain-separation labels, so
// discrete logs between any two are unknown.
type SystemParameters struct {
	NumberOfAttributes int

	G  group.Point // base
	GV group.Point // aMAC value base

	GW      group.Point // commitment base for w
	GWPrime group.Point // commitment base for w'

	GX0 group.Point // blinds aMAC U in C_x0 = z*G_x0 + U
	GX1 group.Point // blinds aMAC t*U in C_x1 = z*G_x1 + t*U

	GY []group.Point // attribute commitment bases, len == NumberOfAttributes
	Gm []group.Point // attribute message bases, len == NumberOfAttributes

	GA  group.Point // symmetric-key commitment base
	GA0 group.Point
	GA1 group.Point
}

// MinAttributesForEncryption is the smallest attribute count that leaves
// room for the three attribute slots the Proof of Encryption binds into
// (spec §4.4 uses G_y[0], G_y[1], G_y[2] and G_m[2]).
const MinAttributesForEncryption = 3

// New derives a SystemParameters value for n attributes, under a
// deployment-wide domain-separation seed. Two calls with the same (seed, n)
// produce identical parameters; different seeds produce parameters with no
// known discrete-log relationship to each other.
func New(g *group.Group, seed string, n int) (*SystemParameters, error) {
	if n < 0 {
		return nil, fmt.Errorf("params: negative attribute count %d", n)
	}

	sp := &SystemParameters{
		NumberOfAttributes: n,
		G:                  g.Base(),
		GV:                 g.HashToPoint(seed + "/G_V"),
		GW:                 g.HashToPoint(seed + "/G_w"),
		GWPrime:            g.HashToPoint(seed + "/G_w_prime"),
		GX0:                g.HashToPoint(seed + "/G_x_0"),
		GX1:                g.HashToPoint(seed + "/G_x_1"),
		GA:                 g.HashToPoint(seed + "/G_a"),
		GA0:                g.HashToPoint(seed + "/G_a_0"),
		GA1:                g.HashToPoint(seed + "/G_a_1"),
		GY:                 make([]group.Point, n),
		Gm:                 make([]group.Point, n),
	}

	for i := 0; i < n; i++ {
		sp.GY[i] = g.HashToPoint(fmt.Sprintf("%s/G_y/%d", seed, i))
		sp.Gm[i] = g.HashToPoint(fmt.Sprintf("%s/G_m/%d", seed, i))
	}

	return sp, nil
}

// SupportsEncryption reports whether this parameter set has enough
// attribute slots for a Proof of Encryption (spec §4.4, n >= 3).
func (sp *SystemParameters) SupportsEncryption() bool {
	return sp.NumberOfAttributes >= MinAttributesForEncryption
}
