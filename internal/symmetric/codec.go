package symmetric

import (
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/wire"
)

// KeypairWire is the JSON persistence form of a Keypair. Only the holder
// decrypting ciphertexts needs A/A0/A1; PK alone is published alongside
// params.SystemParameters.
type KeypairWire struct {
	A  wire.Scalar `json:"a"`
	A0 wire.Scalar `json:"a0"`
	A1 wire.Scalar `json:"a1"`
	PK wire.Point  `json:"pk"`
}

func (kp *Keypair) ToWire(g *group.Group) KeypairWire {
	return KeypairWire{
		A:  wire.EncodeScalar(g, kp.A),
		A0: wire.EncodeScalar(g, kp.A0),
		A1: wire.EncodeScalar(g, kp.A1),
		PK: wire.EncodePoint(g, kp.PK),
	}
}

func KeypairFromWire(g *group.Group, w KeypairWire) (*Keypair, error) {
	var err error
	kp := &Keypair{}
	if kp.A, err = wire.DecodeScalar(g, w.A); err != nil {
		return nil, err
	}
	if kp.A0, err = wire.DecodeScalar(g, w.A0); err != nil {
		return nil, err
	}
	if kp.A1, err = wire.DecodeScalar(g, w.A1); err != nil {
		return nil, err
	}
	if kp.PK, err = wire.DecodePoint(g, w.PK); err != nil {
		return nil, err
	}
	return kp, nil
}

// CiphertextWire is the JSON persistence form of a Ciphertext.
type CiphertextWire struct {
	E1 wire.Point `json:"e1"`
	E2 wire.Point `json:"e2"`
}

func (ct Ciphertext) ToWire(g *group.Group) CiphertextWire {
	return CiphertextWire{E1: wire.EncodePoint(g, ct.E1), E2: wire.EncodePoint(g, ct.E2)}
}

func CiphertextFromWire(g *group.Group, w CiphertextWire) (Ciphertext, error) {
	e1, err := wire.DecodePoint(g, w.E1)
	if err != nil {
		return Ciphertext{}, err
	}
	e2, err := wire.DecodePoint(g, w.E2)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext{E1: e1, E2: e2}, nil
}
