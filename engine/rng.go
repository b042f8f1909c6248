package engine

import "math/rand"

// RNG wraps math/rand.Rand behind a fixed seed. All randomness in the game
// flows through here and is confined to setup decisions (enemy generation,
// starting skills, evolution rolls). Per-turn damage resolution never rolls,
// so an encounter replays identically given identical choices.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	return r.src.Intn(n)
}

// Sample returns n distinct elements drawn from ids, preserving no
// particular order. The input slice is not modified. n is clamped to
// len(ids).
func (r *RNG) Sample(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	pool := make([]string, len(ids))
	copy(pool, ids)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + r.src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
