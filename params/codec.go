package params

import (
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/wire"
)

// Wire is the JSON persistence form of a SystemParameters, written by
// cmd/kvac's init subcommand and read back by every other subcommand.
type Wire struct {
	NumberOfAttributes int          `json:"number_of_attributes"`
	Seed               string       `json:"seed"`
	G                  wire.Point   `json:"g"`
	GV                 wire.Point   `json:"g_v"`
	GW                 wire.Point   `json:"g_w"`
	GWPrime            wire.Point   `json:"g_w_prime"`
	GX0                wire.Point   `json:"g_x_0"`
	GX1                wire.Point   `json:"g_x_1"`
	GY                 []wire.Point `json:"g_y"`
	Gm                 []wire.Point `json:"g_m"`
	GA                 wire.Point   `json:"g_a"`
	GA0                wire.Point   `json:"g_a_0"`
	GA1                wire.Point   `json:"g_a_1"`
}

// ToWire serializes sp. seed is carried through for operator visibility
// only; regenerating parameters never reads it back (New recomputes
// everything deterministically from seed and n, so ToWire/FromWire is a
// cache, not a trust boundary).
func (sp *SystemParameters) ToWire(g *group.Group, seed string) Wire {
	return Wire{
		NumberOfAttributes: sp.NumberOfAttributes,
		Seed:               seed,
		G:                  wire.EncodePoint(g, sp.G),
		GV:                 wire.EncodePoint(g, sp.GV),
		GW:                 wire.EncodePoint(g, sp.GW),
		GWPrime:            wire.EncodePoint(g, sp.GWPrime),
		GX0:                wire.EncodePoint(g, sp.GX0),
		GX1:                wire.EncodePoint(g, sp.GX1),
		GY:                 wire.EncodePoints(g, sp.GY),
		Gm:                 wire.EncodePoints(g, sp.Gm),
		GA:                 wire.EncodePoint(g, sp.GA),
		GA0:                wire.EncodePoint(g, sp.GA0),
		GA1:                wire.EncodePoint(g, sp.GA1),
	}
}

// FromWire deserializes a Wire, rejecting any non-canonical point encoding.
func FromWire(g *group.Group, w Wire) (*SystemParameters, error) {
	var err error
	sp := &SystemParameters{NumberOfAttributes: w.NumberOfAttributes}

	for _, pair := range []struct {
		dst *group.Point
		src wire.Point
	}{
		{&sp.G, w.G}, {&sp.GV, w.GV}, {&sp.GW, w.GW}, {&sp.GWPrime, w.GWPrime},
		{&sp.GX0, w.GX0}, {&sp.GX1, w.GX1},
		{&sp.GA, w.GA}, {&sp.GA0, w.GA0}, {&sp.GA1, w.GA1},
	} {
		*pair.dst, err = wire.DecodePoint(g, pair.src)
		if err != nil {
			return nil, err
		}
	}
	if sp.GY, err = wire.DecodePoints(g, w.GY); err != nil {
		return nil, err
	}
	if sp.Gm, err = wire.DecodePoints(g, w.Gm); err != nil {
		return nil, err
	}
	return sp, nil
}
