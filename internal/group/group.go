// Package group is the Group Arithmetic external collaborator of the
// specification: it wraps a single prime-order group G with generator G,
// scalar field F_l, constant-time scalar-point multiplication, point
// negation, 32-byte canonical point compression, and uniform sampling.
//
// Kyber's edwards25519 suite backs the concrete implementation, the way
// the teacher (drand/drand) wraps kyber groups in crypto/schemes.go and
// common/key rather than hand-rolling curve arithmetic.
package group

import (
	"errors"
	"io"

	"github.com/drand/kyber"
	edwards25519 "github.com/drand/kyber/group/edwards25519"
	"github.com/drand/kyber/util/random"
	"golang.org/x/crypto/blake2b"
)

// ErrNonCanonicalPoint is returned when a compressed point encoding does not
// round-trip: it decodes to a value whose canonical re-encoding differs from
// the input, or it does not decode to a valid curve point at all.
var ErrNonCanonicalPoint = errors.New("group: non-canonical point encoding")

// ErrScalarOutOfRange is returned when a serialized scalar is not the
// canonical reduced representative of its field element (value >= l).
var ErrScalarOutOfRange = errors.New("group: scalar out of range")

// Scalar and Point are re-exported so callers outside this package never
// need to import kyber directly.
type (
	Scalar = kyber.Scalar
	Point  = kyber.Point
)

// Group is a handle onto the fixed prime-order group used by every
// credential operation in this module.
type Group struct {
	suite *edwards25519.SuiteEd25519
}

// New returns the group used throughout this module: kyber's edwards25519
// curve, whose compressed point encoding is exactly 32 bytes as required by
// the data model.
func New() *Group {
	return &Group{suite: edwards25519.NewBlakeSHA256Ed25519()}
}

// PointLen is the canonical compressed point size, 32 bytes.
func (g *Group) PointLen() int { return g.suite.PointLen() }

// ScalarLen is the canonical scalar size, 32 bytes.
func (g *Group) ScalarLen() int { return g.suite.ScalarLen() }

// Base returns the fixed generator G.
func (g *Group) Base() kyber.Point {
	return g.suite.Point().Base()
}

// Identity returns the group identity element.
func (g *Group) Identity() kyber.Point {
	return g.suite.Point().Null()
}

// NewScalar returns a zero-valued scalar handle, for building up arithmetic.
func (g *Group) NewScalar() kyber.Scalar {
	return g.suite.Scalar()
}

// ScalarOne returns the multiplicative identity of F_l.
func (g *Group) ScalarOne() kyber.Scalar {
	return g.suite.Scalar().One()
}

// RandomScalar samples a uniform scalar from F_l using rng as the entropy
// source. rng must be a cryptographic RNG; nil selects the package default.
func (g *Group) RandomScalar(rng io.Reader) kyber.Scalar {
	stream := random.New(rng)
	return g.suite.Scalar().Pick(stream)
}

// Mul returns s*B.
func (g *Group) Mul(s kyber.Scalar, b kyber.Point) kyber.Point {
	return g.suite.Point().Mul(s, b)
}

// Add returns a+b.
func (g *Group) Add(a, b kyber.Point) kyber.Point {
	return g.suite.Point().Add(a, b)
}

// Neg returns -p.
func (g *Group) Neg(p kyber.Point) kyber.Point {
	return g.suite.Point().Neg(p)
}

// HashToPoint derives an independent generator from a domain-separation
// label. Discrete logs between generators derived from disjoint labels are
// unknown, satisfying the System Parameters invariant in §3: each label
// seeds its own XOF, so distinct labels are independently, deterministically
// mapped to distinct curve points.
func (g *Group) HashToPoint(label string) kyber.Point {
	xof := g.suite.XOF([]byte(label))
	return g.suite.Point().Pick(xof)
}

// CompressPoint returns the 32-byte canonical encoding of p.
func (g *Group) CompressPoint(p kyber.Point) []byte {
	b, err := p.MarshalBinary()
	if err != nil {
		// kyber's edwards25519 point marshaling is infallible for any
		// value actually on the curve; a failure here means a caller
		// constructed an invalid Point some other way.
		panic("group: marshaling a valid point failed: " + err.Error())
	}
	return b
}

// DecompressPoint parses a 32-byte compressed point, rejecting non-canonical
// encodings as required by §6.
func (g *Group) DecompressPoint(data []byte) (kyber.Point, error) {
	if len(data) != g.suite.PointLen() {
		return nil, ErrNonCanonicalPoint
	}
	p := g.suite.Point()
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, ErrNonCanonicalPoint
	}
	// Re-encode and compare to reject non-canonical representations of
	// the same point (e.g. unreduced coordinate encodings).
	reenc, err := p.MarshalBinary()
	if err != nil || !bytesEqual(reenc, data) {
		return nil, ErrNonCanonicalPoint
	}
	return p, nil
}

// CompressScalar returns the 32-byte little-endian canonical encoding of s.
func (g *Group) CompressScalar(s kyber.Scalar) []byte {
	b, err := s.MarshalBinary()
	if err != nil {
		panic("group: marshaling a valid scalar failed: " + err.Error())
	}
	return b
}

// DecompressScalar parses a 32-byte little-endian scalar, rejecting any
// encoding at or above the group order l.
func (g *Group) DecompressScalar(data []byte) (kyber.Scalar, error) {
	if len(data) != g.suite.ScalarLen() {
		return nil, ErrScalarOutOfRange
	}
	s := g.suite.Scalar()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, ErrScalarOutOfRange
	}
	reenc, err := s.MarshalBinary()
	if err != nil || !bytesEqual(reenc, data) {
		return nil, ErrScalarOutOfRange
	}
	return s, nil
}

// EmbedLen is the maximum number of data bytes EmbedBytes can pack into a
// single point.
func (g *Group) EmbedLen() int {
	return g.suite.Point().EmbedLen()
}

// EmbedBytes packs data (len(data) <= EmbedLen()) into a curve point using
// kyber's Elligator-style embedding, padded with uniform randomness from
// rng. The symmetric encryption scheme in internal/symmetric uses this to
// turn plaintext halves into the M_1, M_2 points of spec §3/§6.
func (g *Group) EmbedBytes(data []byte, rng io.Reader) kyber.Point {
	stream := random.New(rng)
	return g.suite.Point().Embed(data, stream)
}

// ExtractBytes recovers the data packed into p by EmbedBytes.
func (g *Group) ExtractBytes(p kyber.Point) ([]byte, error) {
	return p.Data()
}

// Invert returns s^-1 in F_l.
func (g *Group) Invert(s kyber.Scalar) kyber.Scalar {
	return g.suite.Scalar().Inv(s)
}

// HashToScalar reduces label and data, domain-separated, into a scalar. This
// is H_s of spec §6's symmetric-encryption interface boundary: a
// general-purpose hash-to-scalar used wherever a scalar (rather than a
// point) must be bound to arbitrary bytes.
func (g *Group) HashToScalar(label string, data []byte) kyber.Scalar {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic("group: blake2b-512 init failed: " + err.Error())
	}
	writeLenPrefixed(h, []byte(label))
	writeLenPrefixed(h, data)
	return g.suite.Scalar().SetBytes(h.Sum(nil))
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var lenBuf [8]byte
	n := len(b)
	for i := 0; i < 8; i++ {
		lenBuf[i] = byte(n >> (8 * i))
	}
	h.Write(lenBuf[:])
	h.Write(b)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
