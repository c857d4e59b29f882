package market

import (
	"encoding/binary"
	"sync"
	"time"
)

// RNG is a seedable PRNG (PCG-XSH-RR) used as the ticker's entropy
// source. It is safe for concurrent use and its state can be
// serialized so a restarted process resumes the same price sequence,
// per the reproducibility note on threading a seeded generator through
// the reducer instead of a package-global rand source.
type RNG struct {
	mu    sync.Mutex
	state uint64
	inc   uint64
}

// NewRNG creates a PRNG with the given seed. Seed 0 uses the current
// time, appropriate for a fresh game; callers that need reproducible
// replays should pass a fixed non-zero seed.
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &RNG{inc: uint64(seed)<<1 | 1}
	r.step()
	r.state += uint64(seed)
	r.step()
	return r
}

func (r *RNG) step() {
	r.state = r.state*6364136223846793005 + r.inc
}

// Uint32 returns a uniformly distributed uint32.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	old := r.state
	r.step()
	r.mu.Unlock()

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// IntRange returns a uniformly distributed integer in [min, max]
// inclusive. This is the ticker's uniform(-V, +V) draw.
func (r *RNG) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	span := uint32(max - min + 1)
	return min + int(r.Uint32()%span)
}

// State returns the internal PRNG state for persistence.
func (r *RNG) State() (state, inc uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.inc
}

// RestoreState sets the internal PRNG state from persisted values.
func (r *RNG) RestoreState(state, inc uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.inc = inc
}

// StateBytes returns the PRNG state as a byte slice for storage.
func (r *RNG) StateBytes() []byte {
	st, inc := r.State()
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], st)
	binary.BigEndian.PutUint64(buf[8:16], inc)
	return buf
}

// RestoreStateBytes restores PRNG state from a byte slice previously
// returned by StateBytes. No-op if b is too short.
func (r *RNG) RestoreStateBytes(b []byte) {
	if len(b) < 16 {
		return
	}
	r.RestoreState(binary.BigEndian.Uint64(b[0:8]), binary.BigEndian.Uint64(b[8:16]))
}
