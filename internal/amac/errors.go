package amac

import "errors"

// ErrBadAttributeCount is returned when an attribute vector's length does
// not match the system parameters' NumberOfAttributes, per spec §7.
var ErrBadAttributeCount = errors.New("amac: attribute vector length does not match NUMBER_OF_ATTRIBUTES")

// ErrUnknownAttributeKind is returned when an Attribute carries a Kind this
// package does not recognize, or when AttributeVectorFromWire meets a kind
// string other than the four names kindFromString accepts.
var ErrUnknownAttributeKind = errors.New("amac: unknown attribute kind")
