package dynamics

import (
	"math/rand"

	"github.com/biocircuits/boolnet/pkg/model"
)

// SamplingPolicy decides which initial states a pass simulates. Exhaustive
// enumeration is used when the state space is small enough; otherwise a fixed
// budget of pseudo-random states is drawn from a seeded source, always
// including the canonical all-zero and all-one states. The policy is a plain
// value so alternative strategies can be injected without touching the
// analyzer's core loop.
type SamplingPolicy struct {
	// Budget is the number of initial states to try in sampled mode. It is
	// clamped to the state-space size for tiny networks.
	Budget int

	// ExhaustiveThreshold is the node count at or below which all 2^n
	// states are enumerated. Input assignments parameterize the reachable
	// dynamics, so the threshold applies to the total node count.
	ExhaustiveThreshold int

	// Seed makes sampled runs reproducible.
	Seed int64
}

// Grown returns the policy for the next controller pass: same strategy with
// twice the sampling budget.
func (p SamplingPolicy) Grown() SamplingPolicy {
	p.Budget *= 2
	return p
}

// InitialStates produces the initial state vectors for one pass and reports
// whether they cover the entire state space.
func (p SamplingPolicy) InitialStates(nw *model.Network) ([]model.StateVector, bool) {
	n := nw.Size()

	if n <= p.ExhaustiveThreshold {
		return enumerateAll(n), true
	}

	// Sampling a budget at or above the space size degenerates to
	// exhaustive enumeration (64-node-plus networks can never reach this).
	if n < 63 {
		spaceSize := uint64(1) << uint(n)
		if uint64(p.Budget) >= spaceSize {
			return enumerateAll(n), true
		}
	}

	budget := p.Budget
	if budget < 2 {
		budget = 2
	}

	states := make([]model.StateVector, 0, budget)
	seen := make(map[string]bool, budget)

	add := func(s model.StateVector) {
		key := s.Key()
		if !seen[key] {
			seen[key] = true
			states = append(states, s)
		}
	}

	allZero := make(model.StateVector, n)
	allOne := make(model.StateVector, n)
	for i := range allOne {
		allOne[i] = true
	}
	add(allZero)
	add(allOne)

	rng := rand.New(rand.NewSource(p.Seed))
	for len(states) < budget {
		s := make(model.StateVector, n)
		for i := range s {
			s[i] = rng.Intn(2) == 1
		}
		add(s)
	}
	return states, false
}

// enumerateAll yields every possible assignment over n nodes in ascending
// bit-pattern order.
func enumerateAll(n int) []model.StateVector {
	total := 1 << uint(n)
	states := make([]model.StateVector, 0, total)
	for bits := 0; bits < total; bits++ {
		s := make(model.StateVector, n)
		for i := 0; i < n; i++ {
			s[i] = bits&(1<<uint(n-1-i)) != 0
		}
		states = append(states, s)
	}
	return states
}
