// Package transcript implements the append-only Fiat-Shamir sponge shared
// by every proof in this module. Every appended datum is domain-separated
// by a label, the way the teacher (drand/drand) builds its own
// domain-separated digests in crypto/schemes.go's IdentityHashFunc and
// DigestFunc, except here the running state is threaded through a single
// object so an entire proof transcript - not just one digest - can be
// replayed identically by prover and verifier.
package transcript

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/chasep/kvac/internal/group"
)

// Transcript is a label-keyed, append-only hash state. Appending the same
// sequence of (label, data) pairs on two transcripts yields the same
// challenge scalars; any deviation - label, order, or byte content -
// changes every challenge derived afterward.
type Transcript struct {
	state hash.Hash
}

// New creates a transcript under the given outer domain-separation label
// (e.g. "2019/1416 anonymous credential").
func New(label string) *Transcript {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 with a nil key cannot fail.
		panic("transcript: blake2b init failed: " + err.Error())
	}
	t := &Transcript{state: h}
	t.appendLen(len(label))
	_, _ = t.state.Write([]byte(label))
	return t
}

func (t *Transcript) appendLen(n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = t.state.Write(buf[:])
}

// AppendMessage absorbs a labeled byte string into the transcript.
func (t *Transcript) AppendMessage(label string, data []byte) {
	t.appendLen(len(label))
	_, _ = t.state.Write([]byte(label))
	t.appendLen(len(data))
	_, _ = t.state.Write(data)
}

// AppendPoint absorbs a labeled point's canonical compressed encoding.
func (t *Transcript) AppendPoint(label string, g *group.Group, p group.Point) {
	t.AppendMessage(label, g.CompressPoint(p))
}

// ChallengeScalar derives a scalar challenge from the transcript state so
// far, under an additional label, without mutating the running state for
// subsequent challenges (each challenge observes everything appended
// before it, and nothing appended after).
func (t *Transcript) ChallengeScalar(label string, g *group.Group) group.Scalar {
	// Clone the absorbed state by re-deriving from a fork: blake2b's
	// hash.Hash exposes no native clone, so we extract the current sum
	// and re-seed a fresh XOF keyed on it plus the label. This keeps
	// ChallengeScalar pure with respect to the transcript's prior state.
	sum := t.state.Sum(nil)
	xof, err := blake2b.NewXOF(64, nil)
	if err != nil {
		panic("transcript: blake2b xof init failed: " + err.Error())
	}
	_, _ = xof.Write(sum)
	_, _ = xof.Write([]byte(label))

	out := make([]byte, 64)
	if _, err := xof.Read(out); err != nil {
		panic("transcript: blake2b xof read failed: " + err.Error())
	}

	s := g.NewScalar()
	// SetBytes reduces the wide input modulo l, giving a uniform
	// challenge scalar per Fiat-Shamir without rejection sampling.
	return s.SetBytes(out)
}
