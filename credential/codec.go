package credential

import (
	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/internal/proof"
	"github.com/chasep/kvac/internal/wire"
)

// CompactProofWire is the JSON persistence form of a proof.CompactProof,
// shared by every proof type in this package.
type CompactProofWire struct {
	Challenge wire.Scalar   `json:"challenge"`
	Responses []wire.Scalar `json:"responses"`
}

func encodeCompactProof(g *group.Group, p *proof.CompactProof) CompactProofWire {
	return CompactProofWire{
		Challenge: wire.EncodeScalar(g, p.Challenge),
		Responses: wire.EncodeScalars(g, p.Responses),
	}
}

func decodeCompactProof(g *group.Group, w CompactProofWire) (*proof.CompactProof, error) {
	challenge, err := wire.DecodeScalar(g, w.Challenge)
	if err != nil {
		return nil, err
	}
	responses, err := wire.DecodeScalars(g, w.Responses)
	if err != nil {
		return nil, err
	}
	return &proof.CompactProof{Challenge: challenge, Responses: responses}, nil
}

// ProofOfIssuanceWire is the JSON persistence form of a ProofOfIssuance.
type ProofOfIssuanceWire struct {
	Proof CompactProofWire `json:"proof"`
}

func (pi *ProofOfIssuance) ToWire(g *group.Group) ProofOfIssuanceWire {
	return ProofOfIssuanceWire{Proof: encodeCompactProof(g, pi.Proof)}
}

func ProofOfIssuanceFromWire(g *group.Group, w ProofOfIssuanceWire) (*ProofOfIssuance, error) {
	p, err := decodeCompactProof(g, w.Proof)
	if err != nil {
		return nil, err
	}
	return &ProofOfIssuance{Proof: p}, nil
}

// PresentationWire is the JSON persistence form of a Presentation, handed
// by a holder to a verifier.
type PresentationWire struct {
	Proof CompactProofWire `json:"proof"`
	Z     wire.Point       `json:"z"`
	CX0   wire.Point       `json:"c_x0"`
	CX1   wire.Point       `json:"c_x1"`
	CV    wire.Point       `json:"c_v"`
	CY    []wire.Point     `json:"c_y"`
}

func (pres *Presentation) ToWire(g *group.Group) PresentationWire {
	return PresentationWire{
		Proof: encodeCompactProof(g, pres.Proof),
		Z:     wire.EncodePoint(g, pres.Z),
		CX0:   wire.EncodePoint(g, pres.CX0),
		CX1:   wire.EncodePoint(g, pres.CX1),
		CV:    wire.EncodePoint(g, pres.CV),
		CY:    wire.EncodePoints(g, pres.CY),
	}
}

func PresentationFromWire(g *group.Group, w PresentationWire) (*Presentation, error) {
	p, err := decodeCompactProof(g, w.Proof)
	if err != nil {
		return nil, err
	}
	pres := &Presentation{Proof: p}
	if pres.Z, err = wire.DecodePoint(g, w.Z); err != nil {
		return nil, err
	}
	if pres.CX0, err = wire.DecodePoint(g, w.CX0); err != nil {
		return nil, err
	}
	if pres.CX1, err = wire.DecodePoint(g, w.CX1); err != nil {
		return nil, err
	}
	if pres.CV, err = wire.DecodePoint(g, w.CV); err != nil {
		return nil, err
	}
	if pres.CY, err = wire.DecodePoints(g, w.CY); err != nil {
		return nil, err
	}
	return pres, nil
}

// EncryptionProofWire is the JSON persistence form of an EncryptionProof.
type EncryptionProofWire struct {
	Proof CompactProofWire `json:"proof"`
	PK    wire.Point       `json:"pk"`
	CY1   wire.Point       `json:"c_y1"`
	CY2   wire.Point       `json:"c_y2"`
	CY3   wire.Point       `json:"c_y3"`
	CY2P  wire.Point       `json:"c_y2_prime"`
}

func (ep *EncryptionProof) ToWire(g *group.Group) EncryptionProofWire {
	return EncryptionProofWire{
		Proof: encodeCompactProof(g, ep.Proof),
		PK:    wire.EncodePoint(g, ep.PK),
		CY1:   wire.EncodePoint(g, ep.CY1),
		CY2:   wire.EncodePoint(g, ep.CY2),
		CY3:   wire.EncodePoint(g, ep.CY3),
		CY2P:  wire.EncodePoint(g, ep.CY2P),
	}
}

func EncryptionProofFromWire(g *group.Group, w EncryptionProofWire) (*EncryptionProof, error) {
	p, err := decodeCompactProof(g, w.Proof)
	if err != nil {
		return nil, err
	}
	ep := &EncryptionProof{Proof: p}
	if ep.PK, err = wire.DecodePoint(g, w.PK); err != nil {
		return nil, err
	}
	if ep.CY1, err = wire.DecodePoint(g, w.CY1); err != nil {
		return nil, err
	}
	if ep.CY2, err = wire.DecodePoint(g, w.CY2); err != nil {
		return nil, err
	}
	if ep.CY3, err = wire.DecodePoint(g, w.CY3); err != nil {
		return nil, err
	}
	if ep.CY2P, err = wire.DecodePoint(g, w.CY2P); err != nil {
		return nil, err
	}
	return ep, nil
}
