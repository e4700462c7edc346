package amac

import (
	"fmt"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/wire"
)

// SecretKeyWire is the JSON persistence form of a SecretKey. Issuers alone
// hold this file; it must never be distributed alongside IssuerParameters.
type SecretKeyWire struct {
	W      wire.Scalar   `json:"w"`
	WPrime wire.Scalar   `json:"w_prime"`
	X0     wire.Scalar   `json:"x_0"`
	X1     wire.Scalar   `json:"x_1"`
	Y      []wire.Scalar `json:"y"`
}

func (sk *SecretKey) ToWire(g *group.Group) SecretKeyWire {
	return SecretKeyWire{
		W:      wire.EncodeScalar(g, sk.W),
		WPrime: wire.EncodeScalar(g, sk.WPrime),
		X0:     wire.EncodeScalar(g, sk.X0),
		X1:     wire.EncodeScalar(g, sk.X1),
		Y:      wire.EncodeScalars(g, sk.Y),
	}
}

func SecretKeyFromWire(g *group.Group, w SecretKeyWire) (*SecretKey, error) {
	var err error
	sk := &SecretKey{}
	if sk.W, err = wire.DecodeScalar(g, w.W); err != nil {
		return nil, err
	}
	if sk.WPrime, err = wire.DecodeScalar(g, w.WPrime); err != nil {
		return nil, err
	}
	if sk.X0, err = wire.DecodeScalar(g, w.X0); err != nil {
		return nil, err
	}
	if sk.X1, err = wire.DecodeScalar(g, w.X1); err != nil {
		return nil, err
	}
	if sk.Y, err = wire.DecodeScalars(g, w.Y); err != nil {
		return nil, err
	}
	return sk, nil
}

// IssuerParametersWire is the JSON persistence form of IssuerParameters,
// the public half of the issuer key that holders and verifiers both need.
type IssuerParametersWire struct {
	CW wire.Point `json:"c_w"`
	I  wire.Point `json:"i"`
}

func (ip *IssuerParameters) ToWire(g *group.Group) IssuerParametersWire {
	return IssuerParametersWire{CW: wire.EncodePoint(g, ip.CW), I: wire.EncodePoint(g, ip.I)}
}

func IssuerParametersFromWire(g *group.Group, w IssuerParametersWire) (*IssuerParameters, error) {
	cw, err := wire.DecodePoint(g, w.CW)
	if err != nil {
		return nil, err
	}
	i, err := wire.DecodePoint(g, w.I)
	if err != nil {
		return nil, err
	}
	return &IssuerParameters{CW: cw, I: i}, nil
}

// CredentialWire is the JSON persistence form of a Credential.
type CredentialWire struct {
	T wire.Scalar `json:"t"`
	U wire.Point  `json:"u"`
	V wire.Point  `json:"v"`
}

func (c *Credential) ToWire(g *group.Group) CredentialWire {
	return CredentialWire{T: wire.EncodeScalar(g, c.T), U: wire.EncodePoint(g, c.U), V: wire.EncodePoint(g, c.V)}
}

func CredentialFromWire(g *group.Group, w CredentialWire) (*Credential, error) {
	t, err := wire.DecodeScalar(g, w.T)
	if err != nil {
		return nil, err
	}
	u, err := wire.DecodePoint(g, w.U)
	if err != nil {
		return nil, err
	}
	v, err := wire.DecodePoint(g, w.V)
	if err != nil {
		return nil, err
	}
	return &Credential{T: t, U: u, V: v}, nil
}

// AttributeWire is the JSON persistence form of a single Attribute. Kind
// is serialized by name, not by Kind's numeric value, so attribute files
// stay stable across reordering of the Kind constants.
type AttributeWire struct {
	Kind   string      `json:"kind"`
	Scalar wire.Scalar `json:"scalar,omitempty"`
	Point  wire.Point  `json:"point,omitempty"`
}

func kindToString(k Kind) (string, error) {
	switch k {
	case PublicScalar:
		return "public_scalar", nil
	case SecretScalar:
		return "secret_scalar", nil
	case PublicPoint:
		return "public_point", nil
	case SecretPoint:
		return "secret_point", nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownAttributeKind, k)
	}
}

func kindFromString(s string) (Kind, error) {
	switch s {
	case "public_scalar":
		return PublicScalar, nil
	case "secret_scalar":
		return SecretScalar, nil
	case "public_point":
		return PublicPoint, nil
	case "secret_point":
		return SecretPoint, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttributeKind, s)
	}
}

// AttributeVectorToWire serializes an AttributeVector for persistence.
func AttributeVectorToWire(g *group.Group, av AttributeVector) ([]AttributeWire, error) {
	out := make([]AttributeWire, len(av))
	for i, a := range av {
		kindStr, err := kindToString(a.Kind)
		if err != nil {
			return nil, err
		}
		w := AttributeWire{Kind: kindStr}
		switch a.Kind {
		case PublicScalar, SecretScalar:
			w.Scalar = wire.EncodeScalar(g, a.Scalar)
		case PublicPoint, SecretPoint:
			w.Point = wire.EncodePoint(g, a.Point)
		}
		out[i] = w
	}
	return out, nil
}

// AttributeVectorFromWire deserializes an AttributeVector.
func AttributeVectorFromWire(g *group.Group, ws []AttributeWire) (AttributeVector, error) {
	av := make(AttributeVector, len(ws))
	for i, w := range ws {
		kind, err := kindFromString(w.Kind)
		if err != nil {
			return nil, err
		}
		a := Attribute{Kind: kind}
		switch kind {
		case PublicScalar, SecretScalar:
			if a.Scalar, err = wire.DecodeScalar(g, w.Scalar); err != nil {
				return nil, err
			}
		case PublicPoint, SecretPoint:
			if a.Point, err = wire.DecodePoint(g, w.Point); err != nil {
				return nil, err
			}
		}
		av[i] = a
	}
	return av, nil
}
