package application

import (
	"math/rand"
	"sync"
	"time"
)

// Rand abstraction over the randomness source so tests can script
// the delay, the success roll and the noise deterministically.
type Rand interface {
	Float64() float64
}

// lockedRand guards a math/rand source; analysis goroutines share it.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

// NewRand returns a seeded, goroutine-safe randomness source.
func NewRand(seed int64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// SystemRand seeds from the wall clock, for production wiring.
func SystemRand() Rand {
	return NewRand(time.Now().UnixNano())
}
