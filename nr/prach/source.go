package prach

import (
	"math/rand"
	"sync"
)

// PreambleSource draws the preamble identity. Intn must return a value in [0, n).
// *math/rand.Rand satisfies it but is not safe for concurrent use; see NewRandSource.
type PreambleSource interface {
	Intn(n int) int
}

// FixedPreamble always returns the same preamble identity
type FixedPreamble int

// Intn ignores n; the generator range-checks the result
func (f FixedPreamble) Intn(int) int {
	return int(f)
}

// lockedSource serialises access to a seeded generator
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns a seeded uniform source that can be shared between goroutines
func NewRandSource(seed int64) PreambleSource {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
