// Package perturbation classifies logic nodes as robust or sensitive by
// clamping each one to a constant and re-simulating the network.
package perturbation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/biocircuits/boolnet/pkg/dynamics"
	"github.com/biocircuits/boolnet/pkg/model"
	"github.com/biocircuits/boolnet/pkg/parallel"
)

// Tester forces each logic node to 0 (knockout) and to 1 (overexpression)
// and re-runs the dynamics analyzer on the forced variants under the same
// sampling policy as the baseline. This is the dominant cost center of the
// engine: O(logic nodes) full dynamics passes.
type Tester struct {
	Analyzer *dynamics.Analyzer
	Workers  int
	Logger   *slog.Logger
}

// NewTester returns a tester re-using the given dynamics analyzer.
func NewTester(analyzer *dynamics.Analyzer, workers int) *Tester {
	if workers <= 0 {
		workers = 1
	}
	return &Tester{Analyzer: analyzer, Workers: workers}
}

// Test runs both forced variants for every logic node. Per-node work is
// independent and fans out across workers; cancellation is honored between
// nodes only.
func (t *Tester) Test(ctx context.Context, nw *model.Network, baseline *model.DynamicsResult) (*model.PerturbationResult, error) {
	names := make([]string, 0, nw.LogicCount())
	for _, i := range nw.LogicIndexes() {
		names = append(names, nw.Node(i).Name)
	}
	sort.Strings(names)

	if t.Logger != nil {
		t.Logger.Debug("perturbation pass starting", "network", nw.Name, "nodes", len(names))
	}

	tests, err := parallel.Map(ctx, t.Workers, names, func(name string) (model.NodePerturbation, error) {
		return t.testNode(ctx, nw, name, baseline)
	})
	if err != nil {
		return nil, err
	}

	result := &model.PerturbationResult{Tests: tests}
	for _, test := range tests {
		if test.Robust {
			result.RobustNodes = append(result.RobustNodes, test.Node)
		} else {
			result.SensitiveNodes = append(result.SensitiveNodes, test.Node)
		}
	}
	return result, nil
}

// testNode simulates both forced variants of a single node.
func (t *Tester) testNode(ctx context.Context, nw *model.Network, name string, baseline *model.DynamicsResult) (model.NodePerturbation, error) {
	idx, ok := nw.Lookup(name)
	if !ok {
		return model.NodePerturbation{}, fmt.Errorf("perturb %q: node not found", name)
	}

	knockout, err := t.forced(ctx, nw, name, false)
	if err != nil {
		return model.NodePerturbation{}, fmt.Errorf("knockout %q: %w", name, err)
	}
	overexpression, err := t.forced(ctx, nw, name, true)
	if err != nil {
		return model.NodePerturbation{}, fmt.Errorf("overexpression %q: %w", name, err)
	}

	robust := equivalentExcluding(baseline, knockout, idx) &&
		equivalentExcluding(baseline, overexpression, idx)

	return model.NodePerturbation{
		Node:           name,
		Knockout:       knockout,
		Overexpression: overexpression,
		Robust:         robust,
	}, nil
}

func (t *Tester) forced(ctx context.Context, nw *model.Network, name string, value bool) (*model.DynamicsResult, error) {
	variant, err := nw.Clamped(name, value)
	if err != nil {
		return nil, err
	}
	return t.Analyzer.Analyze(ctx, variant)
}

// equivalentExcluding reports whether two attractor sets are behaviorally
// equivalent when the forced node's own value is masked out of every state.
// The forced node is excluded because its value is imposed, not computed;
// equivalence requires the same attractor count and, for each baseline
// attractor, a forced attractor identical on all other nodes.
func equivalentExcluding(baseline, forced *model.DynamicsResult, exclude int) bool {
	if len(baseline.Attractors) != len(forced.Attractors) {
		return false
	}

	forcedKeys := make(map[string]int, len(forced.Attractors))
	for _, att := range forced.Attractors {
		forcedKeys[maskedKey(att, exclude)]++
	}
	for _, att := range baseline.Attractors {
		key := maskedKey(att, exclude)
		if forcedKeys[key] == 0 {
			return false
		}
		forcedKeys[key]--
	}
	return true
}

// maskedKey is an attractor identity key with one node's value blanked out.
// Masking can make rotations collide, so the key is canonicalized over the
// masked states rather than relying on the attractor's own rotation.
func maskedKey(att *model.Attractor, exclude int) string {
	period := att.Period()
	masked := make([]string, period)
	for i, s := range att.States {
		buf := []byte(s.Key())
		if exclude >= 0 && exclude < len(buf) {
			buf[exclude] = '_'
		}
		masked[i] = string(buf)
	}

	// Pick the rotation starting at the smallest masked state.
	best := ""
	for offset := 0; offset < period; offset++ {
		candidate := ""
		for i := 0; i < period; i++ {
			if i > 0 {
				candidate += "|"
			}
			candidate += masked[(offset+i)%period]
		}
		if best == "" || candidate < best {
			best = candidate
		}
	}
	return best
}
