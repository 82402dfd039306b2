package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream creates a deterministic RNG for a named operation derived from a base seed.
	// The same (name, seed) pair always yields the same sequence.
	Stream(ctx context.Context, name string, seed int64) (*rand.Rand, error)
}
