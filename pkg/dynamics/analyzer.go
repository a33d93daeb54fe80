// Package dynamics explores the synchronous Boolean state-transition system
// of a network to discover its attractors.
package dynamics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/biocircuits/boolnet/pkg/model"
	"github.com/biocircuits/boolnet/pkg/parallel"
)

// ErrStepLimitExceeded marks a trajectory that failed to recur within the
// step limit. Synchronous Boolean dynamics over a finite state space must
// reach an attractor within 2^n steps, so hitting the limit is always an
// implementation defect in the rule evaluator, never a legitimate unbounded
// trajectory.
var ErrStepLimitExceeded = errors.New("trajectory exceeded step limit without recurrence")

// Analyzer discovers attractors by simulating trajectories from sampled
// initial states. It is read-only with respect to the network and safe for
// concurrent use.
type Analyzer struct {
	Policy    SamplingPolicy
	StepLimit int
	Workers   int
	Logger    *slog.Logger
}

// NewAnalyzer returns an analyzer with the given policy and sensible
// defaults for the remaining knobs.
func NewAnalyzer(policy SamplingPolicy, stepLimit, workers int) *Analyzer {
	if stepLimit <= 0 {
		stepLimit = 1000
	}
	if workers <= 0 {
		workers = 1
	}
	return &Analyzer{Policy: policy, StepLimit: stepLimit, Workers: workers}
}

// Analyze runs one attractor-discovery pass. Trajectories from distinct
// initial states are independent and fan out across workers; the merge step
// deduplicates attractors by their rotation-invariant key, so the result is
// identical regardless of completion order. Cancellation is honored between
// trajectories, never inside one.
func (a *Analyzer) Analyze(ctx context.Context, nw *model.Network) (*model.DynamicsResult, error) {
	initial, exhaustive := a.Policy.InitialStates(nw)

	if a.Logger != nil {
		a.Logger.Debug("dynamics pass starting",
			"network", nw.Name,
			"initial_states", len(initial),
			"exhaustive", exhaustive,
		)
	}

	attractors, err := parallel.Map(ctx, a.Workers, initial, func(s model.StateVector) (*model.Attractor, error) {
		return a.runTrajectory(nw, s)
	})
	if err != nil {
		return nil, err
	}

	merged := dedupe(attractors)
	result := &model.DynamicsResult{
		Attractors:    merged,
		SampledStates: len(initial),
		Exhaustive:    exhaustive,
	}
	classifyNodes(nw, result)

	for _, att := range merged {
		if att.Period() >= 2 {
			result.HasOscillations = true
			break
		}
	}
	return result, nil
}

// runTrajectory iterates synchronous updates from the given state until a
// previously-seen state recurs, then extracts the cycle between the first
// occurrence and the recurrence.
func (a *Analyzer) runTrajectory(nw *model.Network, start model.StateVector) (*model.Attractor, error) {
	seen := make(map[string]int, 16)
	trajectory := []model.StateVector{start}
	seen[start.Key()] = 0

	current := start
	for step := 0; step < a.StepLimit; step++ {
		next := current.Step(nw)
		if at, ok := seen[next.Key()]; ok {
			return model.NewAttractor(trajectory[at:]), nil
		}
		seen[next.Key()] = len(trajectory)
		trajectory = append(trajectory, next)
		current = next
	}
	return nil, fmt.Errorf("%w: network %q, limit %d", ErrStepLimitExceeded, nw.Name, a.StepLimit)
}

// dedupe merges attractors sharing the same rotation-invariant key and sorts
// the survivors so the result is deterministic.
func dedupe(attractors []*model.Attractor) []*model.Attractor {
	byKey := make(map[string]*model.Attractor, len(attractors))
	for _, att := range attractors {
		if att == nil || att.Period() == 0 {
			continue
		}
		byKey[att.Key()] = att
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]*model.Attractor, 0, len(keys))
	for _, k := range keys {
		merged = append(merged, byKey[k])
	}
	return merged
}

// classifyNodes fills UnstableNodes and MultistableNodes. A logic node is
// unstable when it toggles within at least one single attractor. A node
// constant within every attractor but holding different constants across
// attractors is multistable, reported separately and not counted unstable.
func classifyNodes(nw *model.Network, result *model.DynamicsResult) {
	logicIdx := nw.LogicIndexes()
	unstable := make(map[int]bool)

	for _, att := range result.Attractors {
		for _, i := range att.TogglingIndexes() {
			if nw.Node(i).Kind == model.KindLogic {
				unstable[i] = true
			}
		}
	}

	multistable := make(map[int]bool)
	if len(result.Attractors) > 1 {
		for _, i := range logicIdx {
			if unstable[i] {
				continue
			}
			first := result.Attractors[0].States[0][i]
			for _, att := range result.Attractors[1:] {
				if att.States[0][i] != first {
					// Constant within each attractor (not unstable),
					// differing between them.
					multistable[i] = true
					break
				}
			}
		}
	}

	result.UnstableNodes = sortedNames(nw, unstable)
	result.MultistableNodes = sortedNames(nw, multistable)
}

func sortedNames(nw *model.Network, set map[int]bool) []string {
	names := make([]string, 0, len(set))
	for i := range set {
		names = append(names, nw.Node(i).Name)
	}
	sort.Strings(names)
	return names
}
