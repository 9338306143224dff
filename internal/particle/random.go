package particle

import (
	"math/rand"
	"time"
)

// Source is the random source the simulation draws from.
// *rand.Rand satisfies it; tests inject a seeded one for reproducible runs.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// NewSource returns a seeded source. A zero seed picks one from the clock.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomInRange returns a random float64 in the range [min, max).
func RandomInRange(src Source, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + src.Float64()*(max-min)
}

// RandomIndex returns an index in [0, n). n <= 0 yields 0.
func RandomIndex(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
