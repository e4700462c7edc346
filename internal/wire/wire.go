// Package wire is the Serialization Format external collaborator of spec
// §6: a thin hex-encoding layer over internal/group so credential
// artifacts (keys, credentials, proofs) can round-trip through JSON files
// the way cmd/kvac's CLI subcommands hand data from one invocation to the
// next, mirroring how cmd/drand-cli persists key.Pair and key.Group
// through BurntSushi/toml files.
package wire

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/chasep/kvac/internal/group"
)

// Scalar is the JSON wire form of a group.Scalar: its 32-byte canonical
// encoding, hex-encoded.
type Scalar struct {
	Hex string `json:"hex"`
}

// Point is the JSON wire form of a group.Point.
type Point struct {
	Hex string `json:"hex"`
}

// EncodeScalar converts a live scalar to its wire form.
func EncodeScalar(g *group.Group, s group.Scalar) Scalar {
	return Scalar{Hex: hex.EncodeToString(g.CompressScalar(s))}
}

// DecodeScalar parses a wire scalar, rejecting non-canonical encodings.
func DecodeScalar(g *group.Group, s Scalar) (group.Scalar, error) {
	b, err := hex.DecodeString(s.Hex)
	if err != nil {
		return nil, fmt.Errorf("wire: bad scalar hex: %w", err)
	}
	return g.DecompressScalar(b)
}

// EncodePoint converts a live point to its wire form.
func EncodePoint(g *group.Group, p group.Point) Point {
	return Point{Hex: hex.EncodeToString(g.CompressPoint(p))}
}

// DecodePoint parses a wire point, rejecting non-canonical encodings.
func DecodePoint(g *group.Group, p Point) (group.Point, error) {
	b, err := hex.DecodeString(p.Hex)
	if err != nil {
		return nil, fmt.Errorf("wire: bad point hex: %w", err)
	}
	return g.DecompressPoint(b)
}

// EncodeScalars converts a slice of live scalars.
func EncodeScalars(g *group.Group, ss []group.Scalar) []Scalar {
	out := make([]Scalar, len(ss))
	for i, s := range ss {
		out[i] = EncodeScalar(g, s)
	}
	return out
}

// DecodeScalars parses a slice of wire scalars.
func DecodeScalars(g *group.Group, ss []Scalar) ([]group.Scalar, error) {
	out := make([]group.Scalar, len(ss))
	for i, s := range ss {
		v, err := DecodeScalar(g, s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodePoints converts a slice of live points.
func EncodePoints(g *group.Group, ps []group.Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = EncodePoint(g, p)
	}
	return out
}

// DecodePoints parses a slice of wire points.
func DecodePoints(g *group.Group, ps []Point) ([]group.Point, error) {
	out := make([]group.Point, len(ps))
	for i, p := range ps {
		v, err := DecodePoint(g, p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MarshalJSONIndent is a small convenience wrapper so every CLI subcommand
// writes artifacts with the same formatting.
func MarshalJSONIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
