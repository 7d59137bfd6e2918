package alarm

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var ErrNoCandidates = errors.New("no alarm templates to choose from")

// NewRand returns a PCG source seeded with seed, or a randomly seeded one when
// seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Choose draws k candidates uniformly and independently, with replacement. The
// same path may be returned more than once.
func Choose(r *rand.Rand, candidates []string, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid number of alarms: %d", k)
	}
	if k > 0 && len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	picked := make([]string, k)
	for i := range picked {
		picked[i] = candidates[r.IntN(len(candidates))]
	}
	return picked, nil
}
