package randutil

import (
	rand "math/rand/v2"
	"sync"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Forker hands out independent generators derived from one seeded master.
// Each room gets its own *rand.Rand so shuffles never contend on a lock.
type Forker struct {
	mu     sync.Mutex
	master *rand.Rand
}

// NewForker creates a Forker whose children are reproducible for a given seed.
func NewForker(seed int64) *Forker {
	return &Forker{master: New(seed)}
}

// Fork returns a new generator seeded from the master sequence.
func (f *Forker) Fork() *rand.Rand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return New(f.master.Int64())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
