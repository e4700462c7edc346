// Package credential implements the three NIZK proof systems of spec §4
// that make the aMAC layer (internal/amac) into an anonymous-credential
// system: Proof of Issuance, Proof of Valid Credential (presentation), and
// Proof of Encryption. Each is a thin layer over internal/proof's Schnorr
// engine, the way the original aeonflux crate's nizk.rs composes
// zkp::toolbox::{prover,verifier} three ways over a shared Transcript type.
package credential

import "errors"

// ErrVerificationFailure is the single opaque error every Verify* function
// returns for any failure, per spec §7: a wrong attribute count, mismatched
// challenge, or inconsistent constraint are never distinguished to the
// caller. Wire decoding is separate: the *FromWire functions in codec.go
// return the group package's ErrNonCanonicalPoint / ErrScalarOutOfRange
// (or a hex error) unchanged, before any Verify* call runs.
var ErrVerificationFailure = errors.New("credential: verification failure")
