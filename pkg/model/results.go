package model

import "time"

// TopologyMetrics summarizes the structure of the regulator graph.
type TopologyMetrics struct {
	NodeCount   int
	InputNodes  int
	LogicNodes  int
	EdgeCount   int
	Density     float64
	CycleCount  int
	SelfLoops   int
	SCCCount    int
	LargestSCC  int
	IsConnected bool

	// Degrees maps node name to its in/out degree in the regulator graph.
	Degrees map[string]Degree
}

// Degree is the in/out degree of a single node.
type Degree struct {
	In  int
	Out int
}

// DynamicsResult is the outcome of one attractor-discovery pass.
type DynamicsResult struct {
	// Attractors holds the distinct attractors discovered, sorted by Key
	// so the result is deterministic regardless of worker completion order.
	Attractors []*Attractor

	// UnstableNodes are logic nodes that toggle within at least one single
	// attractor, sorted by name.
	UnstableNodes []string

	// MultistableNodes are logic nodes constant within every attractor but
	// taking different constants across attractors, sorted by name. They do
	// not count as unstable.
	MultistableNodes []string

	// HasOscillations is true iff any attractor has period >= 2.
	HasOscillations bool

	// SampledStates is the number of initial states actually simulated
	// after clamping to the state-space size.
	SampledStates int

	// Exhaustive marks a pass that enumerated the full state space.
	Exhaustive bool
}

// NodePerturbation captures the forced-variant results for one logic node.
type NodePerturbation struct {
	Node string

	// Knockout and Overexpression are the dynamics obtained with the node
	// clamped to false and true respectively.
	Knockout       *DynamicsResult
	Overexpression *DynamicsResult

	// Robust is true when both forced attractor sets match the baseline's
	// with the forced node's own value excluded from the comparison.
	Robust bool
}

// PerturbationResult aggregates per-node robustness classifications.
type PerturbationResult struct {
	// Tests holds one entry per logic node, sorted by node name.
	Tests []NodePerturbation

	// RobustNodes and SensitiveNodes partition the tested nodes, each
	// sorted by name.
	RobustNodes    []string
	SensitiveNodes []string
}

// QualityAssessment is the engine's verdict on a single analysis pass.
type QualityAssessment struct {
	// Score is the plausibility score, clamped to [0, 1].
	Score float64

	// Issues and Recommendations are parallel: issue i produced
	// recommendation i.
	Issues          []string
	Recommendations []string
	IssueCount      int
}

// AnalysisPlan is the tunable budget one pass runs under.
type AnalysisPlan struct {
	SamplingBudget      int
	ExhaustiveThreshold int
	StepLimit           int
	Seed                int64
}

// IterationRecord snapshots one controller pass. Records are append-only:
// once a pass completes its record is never mutated.
type IterationRecord struct {
	ID        string
	Iteration int
	Plan      AnalysisPlan
	StartedAt time.Time
	Elapsed   time.Duration

	Topology     *TopologyMetrics
	Dynamics     *DynamicsResult
	Perturbation *PerturbationResult
	Quality      *QualityAssessment

	// Err is non-nil when the pass aborted; no Quality is recorded then.
	Err error
}
