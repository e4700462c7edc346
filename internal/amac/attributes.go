package amac

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/chasep/kvac/internal/group"
	"github.com/chasep/kvac/params"
)

// Kind discriminates the four Attribute variants of spec §3.
type Kind int

const (
	// PublicScalar: M_i = m*G_m[i], m revealed.
	PublicScalar Kind = iota
	// SecretScalar: M_i = m*G_m[i], m hidden, proven by knowledge of m.
	SecretScalar
	// PublicPoint: M_i = P, revealed group element.
	PublicPoint
	// SecretPoint: M_i = P, hidden group element, proven only by
	// disclosing the commitment.
	SecretPoint
)

func (k Kind) String() string {
	switch k {
	case PublicScalar:
		return "PublicScalar"
	case SecretScalar:
		return "SecretScalar"
	case PublicPoint:
		return "PublicPoint"
	case SecretPoint:
		return "SecretPoint"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attribute is one entry of an AttributeVector: exactly one of Scalar or
// Point is meaningful, selected by Kind. This is the tagged sum spec §9
// calls for - the attribute-variant dispatch is the only place in this
// module branching on public data.
type Attribute struct {
	Kind   Kind
	Scalar group.Scalar
	Point  group.Point
}

// NewPublicScalar builds a PublicScalar attribute.
func NewPublicScalar(m group.Scalar) Attribute { return Attribute{Kind: PublicScalar, Scalar: m} }

// NewSecretScalar builds a SecretScalar attribute.
func NewSecretScalar(m group.Scalar) Attribute { return Attribute{Kind: SecretScalar, Scalar: m} }

// NewPublicPoint builds a PublicPoint attribute.
func NewPublicPoint(p group.Point) Attribute { return Attribute{Kind: PublicPoint, Point: p} }

// NewSecretPoint builds a SecretPoint attribute.
func NewSecretPoint(p group.Point) Attribute { return Attribute{Kind: SecretPoint, Point: p} }

// AttributeVector is the heterogeneous attribute list of spec §3. Index i
// maps 1:1 to the generator indices G_y[i], G_m[i].
type AttributeVector []Attribute

// Validate checks the vector's length against the system parameters,
// collecting every structural problem (currently just the one) before
// returning, the way params.Config.Validate does.
func (av AttributeVector) Validate(sp *params.SystemParameters) error {
	var result *multierror.Error
	if len(av) != sp.NumberOfAttributes {
		result = multierror.Append(result, fmt.Errorf(
			"%w: got %d, want %d", ErrBadAttributeCount, len(av), sp.NumberOfAttributes))
	}
	return result.ErrorOrNil()
}

// Messages computes the message vector M from the attribute list, per the
// table in spec §3: this ports Messages::from_attributes from the original
// aeonflux crate's amacs module attribute-by-attribute.
func (av AttributeVector) Messages(g *group.Group, sp *params.SystemParameters) ([]group.Point, error) {
	if err := av.Validate(sp); err != nil {
		return nil, err
	}

	m := make([]group.Point, len(av))
	for i, a := range av {
		switch a.Kind {
		case PublicScalar, SecretScalar:
			m[i] = g.Mul(a.Scalar, sp.Gm[i])
		case PublicPoint, SecretPoint:
			m[i] = a.Point
		default:
			return nil, fmt.Errorf("%w: %v at index %d", ErrUnknownAttributeKind, a.Kind, i)
		}
	}
	return m, nil
}
