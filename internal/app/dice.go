package app

import (
	"math/rand"
	"sync"

	"ludo/internal/domain"
)

// Roller produces die values in [1, domain.DiceFaces].
type Roller interface {
	Roll() int
}

// RandRoller draws uniformly from a math/rand source.
type RandRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandRoller wraps rng. The roller may be shared by several controllers.
func NewRandRoller(rng *rand.Rand) *RandRoller {
	return &RandRoller{rng: rng}
}

func (r *RandRoller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(domain.DiceFaces) + 1
}

// RollerFunc adapts a function to Roller.
type RollerFunc func() int

func (f RollerFunc) Roll() int { return f() }
