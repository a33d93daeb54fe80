// Package analysis orchestrates the topology/dynamics/perturbation/quality
// pipeline and decides when to stop iterating.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/biocircuits/boolnet/pkg/dynamics"
	"github.com/biocircuits/boolnet/pkg/metrics"
	"github.com/biocircuits/boolnet/pkg/model"
	"github.com/biocircuits/boolnet/pkg/perturbation"
	"github.com/biocircuits/boolnet/pkg/quality"
	"github.com/biocircuits/boolnet/pkg/topology"
)

var (
	ErrStageExists     = errors.New("stage already registered")
	ErrStageUnresolved = errors.New("stage requirement has no provider")
)

// PassState is the shared scratchpad one analysis pass writes into. Each
// stage reads the fields its requirements promise and fills the fields it
// provides.
type PassState struct {
	Network *model.Network
	Plan    model.AnalysisPlan

	Topology     *model.TopologyMetrics
	Dynamics     *model.DynamicsResult
	Perturbation *model.PerturbationResult
	Quality      *model.QualityAssessment
}

// StageFunc executes one named analysis stage over the pass state.
type StageFunc func(ctx context.Context, pass *PassState) error

// StageSpec declares a stage with its capability interface: the named
// outputs it provides and the outputs of other stages it requires.
type StageSpec struct {
	Name     string
	Requires []string
	Provides []string
	Run      StageFunc
}

// Registry is an explicitly constructed, passed-around collection of
// analysis stages. It is built once per process and handed to the
// controller; there is no ambient global registry and no runtime discovery.
type Registry struct {
	stages []StageSpec
	byName map[string]int
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a stage. Names must be unique.
func (r *Registry) Register(spec StageSpec) error {
	if spec.Name == "" {
		return errors.New("stage name is required")
	}
	if spec.Run == nil {
		return errors.New("stage run function is required")
	}
	if _, exists := r.byName[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrStageExists, spec.Name)
	}
	r.byName[spec.Name] = len(r.stages)
	r.stages = append(r.stages, spec)
	return nil
}

// Names lists registered stage names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.stages))
	for i, s := range r.stages {
		names[i] = s.Name
	}
	return names
}

// Ordered resolves the execution order with Kahn's algorithm over the
// requires/provides edges, breaking ties by registration order so the
// result is deterministic. Returns an error when a requirement has no
// provider or the declarations form a cycle.
func (r *Registry) Ordered() ([]StageSpec, error) {
	providers := make(map[string]int)
	for i, s := range r.stages {
		for _, capability := range s.Provides {
			providers[capability] = i
		}
	}

	inDegree := make([]int, len(r.stages))
	dependents := make([][]int, len(r.stages))
	for i, s := range r.stages {
		for _, req := range s.Requires {
			provider, ok := providers[req]
			if !ok {
				return nil, fmt.Errorf("%w: stage %q requires %q", ErrStageUnresolved, s.Name, req)
			}
			dependents[provider] = append(dependents[provider], i)
			inDegree[i]++
		}
	}

	ordered := make([]StageSpec, 0, len(r.stages))
	done := make([]bool, len(r.stages))
	for len(ordered) < len(r.stages) {
		next := -1
		for i := range r.stages {
			if !done[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, fmt.Errorf("stage dependencies form a cycle among %v", r.Names())
		}
		done[next] = true
		ordered = append(ordered, r.stages[next])
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}
	return ordered, nil
}

// DefaultRegistry wires the four standard engine stages. The dynamics and
// perturbation stages rebuild their analyzers from the pass plan, so budget
// growth between iterations takes effect without reconstructing the registry.
func DefaultRegistry(workers int, logger *slog.Logger, m *metrics.Registry) *Registry {
	r := NewRegistry()

	// Registration errors are impossible here: fixed unique names.
	_ = r.Register(StageSpec{
		Name:     "topology",
		Provides: []string{"topology"},
		Run: func(_ context.Context, pass *PassState) error {
			pass.Topology = topology.Analyze(pass.Network)
			return nil
		},
	})

	_ = r.Register(StageSpec{
		Name:     "dynamics",
		Provides: []string{"dynamics"},
		Run: func(ctx context.Context, pass *PassState) error {
			analyzer := analyzerFromPlan(pass.Plan, workers, logger)
			result, err := analyzer.Analyze(ctx, pass.Network)
			if err != nil {
				return err
			}
			if m != nil {
				m.RecordDynamics(result.SampledStates, len(result.Attractors))
			}
			pass.Dynamics = result
			return nil
		},
	})

	_ = r.Register(StageSpec{
		Name:     "perturbation",
		Requires: []string{"dynamics"},
		Provides: []string{"perturbation"},
		Run: func(ctx context.Context, pass *PassState) error {
			analyzer := analyzerFromPlan(pass.Plan, workers, logger)
			tester := perturbation.NewTester(analyzer, workers)
			tester.Logger = logger
			result, err := tester.Test(ctx, pass.Network, pass.Dynamics)
			if err != nil {
				return err
			}
			if m != nil {
				m.RecordPerturbations(2 * len(result.Tests))
			}
			pass.Perturbation = result
			return nil
		},
	})

	_ = r.Register(StageSpec{
		Name:     "quality",
		Requires: []string{"topology", "dynamics", "perturbation"},
		Provides: []string{"quality"},
		Run: func(_ context.Context, pass *PassState) error {
			pass.Quality = quality.Assess(pass.Topology, pass.Dynamics, pass.Perturbation)
			return nil
		},
	})

	return r
}

func analyzerFromPlan(plan model.AnalysisPlan, workers int, logger *slog.Logger) *dynamics.Analyzer {
	analyzer := dynamics.NewAnalyzer(dynamics.SamplingPolicy{
		Budget:              plan.SamplingBudget,
		ExhaustiveThreshold: plan.ExhaustiveThreshold,
		Seed:                plan.Seed,
	}, plan.StepLimit, workers)
	analyzer.Logger = logger
	return analyzer
}
