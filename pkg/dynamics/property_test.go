package dynamics

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/biocircuits/boolnet/pkg/model"
)

// randomNetwork builds a fully-logic network of n genes with pseudo-random
// update rules, deterministically from the seed.
func randomNetwork(seed int64, n int) *model.Network {
	rng := rand.New(rand.NewSource(seed))
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("G%d", i)
	}

	nodes := make([]model.Node, n)
	for i := range nodes {
		nodes[i] = model.Node{
			Name: names[i],
			Kind: model.KindLogic,
			Rule: randomExpr(rng, names, 2),
		}
	}

	nw, err := model.NewNetwork("random", nodes)
	if err != nil {
		panic(err)
	}
	return nw
}

func randomExpr(rng *rand.Rand, names []string, depth int) model.Expr {
	if depth == 0 || rng.Intn(3) == 0 {
		return &model.IdentExpr{Name: names[rng.Intn(len(names))]}
	}
	switch rng.Intn(3) {
	case 0:
		return &model.NotExpr{Operand: randomExpr(rng, names, depth-1)}
	case 1:
		return &model.AndExpr{
			Left:  randomExpr(rng, names, depth-1),
			Right: randomExpr(rng, names, depth-1),
		}
	default:
		return &model.OrExpr{
			Left:  randomExpr(rng, names, depth-1),
			Right: randomExpr(rng, names, depth-1),
		}
	}
}

// TestDynamicsInvariants verifies properties that must hold for attractor
// discovery over any Boolean network.
func TestDynamicsInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property 1: attractors are closed under the update map. Stepping any
	// attractor state lands on another state of the same attractor.
	properties.Property("attractors are closed under stepping", prop.ForAll(
		func(seed int64, n int) bool {
			nw := randomNetwork(seed, n)
			a := NewAnalyzer(SamplingPolicy{Budget: 10, ExhaustiveThreshold: 8, Seed: seed}, 1000, 2)

			result, err := a.Analyze(context.Background(), nw)
			if err != nil {
				return false
			}
			for _, att := range result.Attractors {
				for _, s := range att.States {
					if !att.Contains(s.Step(nw)) {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 6),
	))

	// Property 2: the attractor's identity does not depend on where the
	// trajectory entered it. Starting from any member state recovers the
	// same key.
	properties.Property("attractor identity is rotation invariant", prop.ForAll(
		func(seed int64, n int) bool {
			nw := randomNetwork(seed, n)
			a := NewAnalyzer(SamplingPolicy{Budget: 10, ExhaustiveThreshold: 8, Seed: seed}, 1000, 1)

			result, err := a.Analyze(context.Background(), nw)
			if err != nil {
				return false
			}
			for _, att := range result.Attractors {
				for _, s := range att.States {
					rediscovered, err := a.runTrajectory(nw, s.Clone())
					if err != nil || rediscovered.Key() != att.Key() {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 6),
	))

	// Property 3: a sampled pass never invents attractors. Its findings are
	// a subset of what exhaustive enumeration discovers.
	properties.Property("sampled attractors are a subset of exhaustive", prop.ForAll(
		func(seed int64, n int, budget int) bool {
			nw := randomNetwork(seed, n)

			exhaustive := NewAnalyzer(SamplingPolicy{Budget: 1, ExhaustiveThreshold: n, Seed: seed}, 1000, 2)
			ground, err := exhaustive.Analyze(context.Background(), nw)
			if err != nil {
				return false
			}
			truth := make(map[string]bool, len(ground.Attractors))
			for _, att := range ground.Attractors {
				truth[att.Key()] = true
			}

			sampled := NewAnalyzer(SamplingPolicy{Budget: budget, ExhaustiveThreshold: 0, Seed: seed}, 1000, 2)
			found, err := sampled.Analyze(context.Background(), nw)
			if err != nil {
				return false
			}
			for _, att := range found.Attractors {
				if !truth[att.Key()] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(3, 6),
		gen.IntRange(2, 6),
	))

	// Property 4: every discovered attractor period divides the trajectory
	// length bound and is at least 1, and fixed points report period 1.
	properties.Property("periods are positive and fixed points have period 1", prop.ForAll(
		func(seed int64, n int) bool {
			nw := randomNetwork(seed, n)
			a := NewAnalyzer(SamplingPolicy{Budget: 10, ExhaustiveThreshold: 8, Seed: seed}, 1000, 1)

			result, err := a.Analyze(context.Background(), nw)
			if err != nil {
				return false
			}
			for _, att := range result.Attractors {
				if att.Period() < 1 {
					return false
				}
				if att.IsFixedPoint() != (att.Period() == 1) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 6),
	))

	properties.TestingRun(t)
}
