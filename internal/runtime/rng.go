package runtime

import (
	"math/rand"
	"time"
)

// Rng is a deterministic random source. It tracks how many draws it has made
// so a save can restore the exact stream position: replaying the same seed
// and draw count reproduces the same future draws. Every Intn consumes
// exactly one value from the underlying stream, which makes the replay exact
// regardless of the bounds used by the original draws.
type Rng struct {
	seed  int64
	draws int64
	src   *rand.Rand
}

// NewRng creates a source from the given seed. Seed zero picks a seed from
// the wall clock.
func NewRng(seed int64) *Rng {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rng{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n). It panics if n <= 0, before consuming a
// draw, so the stream position stays replayable.
func (r *Rng) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	r.draws++
	return int(r.src.Int63() % int64(n))
}

// Pos returns the seed and draw count for persistence.
func (r *Rng) Pos() (seed, draws int64) { return r.seed, r.draws }

// Restore rewinds the source to a saved position by replaying draws.
func (r *Rng) Restore(seed, draws int64) {
	r.seed = seed
	r.src = rand.New(rand.NewSource(seed))
	for i := int64(0); i < draws; i++ {
		r.src.Int63()
	}
	r.draws = draws
}
