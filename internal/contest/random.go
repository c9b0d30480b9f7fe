// internal/contest/random.go
package contest

import (
	"math/rand"
	"time"
)

// Source is the sampling capability injected into every component that
// needs randomness: card generation, ticket issuing, draws and the cheat
// detection roll. Tests substitute a seeded or scripted implementation.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// NewSource returns a math/rand backed Source with the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSource returns a Source seeded from the wall clock. This is the
// default for live chats; it is not cryptographically secure and does not
// need to be.
func NewTimeSource() Source {
	return NewSource(time.Now().UnixNano())
}
