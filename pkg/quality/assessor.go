// Package quality turns topology, dynamics, and perturbation results into a
// plausibility score with actionable issues.
package quality

import (
	"github.com/biocircuits/boolnet/pkg/model"
)

// Fixed design weights. Scoring is deterministic and monotonic: improving
// any underlying metric while holding the others fixed never lowers the
// score.
const (
	WeightStability    = 0.4
	WeightRobustness   = 0.4
	WeightConnectivity = 0.2
)

// Issue thresholds.
const (
	// UnstableRatioThreshold flags networks where too large a share of
	// logic nodes toggles inside an attractor.
	UnstableRatioThreshold = 0.3

	// CycleCountThreshold flags networks with excessive feedback.
	CycleCountThreshold = 10
)

// Issue strings and their fixed recommendations. Issue i always pairs with
// recommendation i in the assessment.
const (
	IssueDisconnected = "network has disconnected components"
	IssueManyUnstable = "many unstable nodes detected"
	IssueNoRobust     = "no robust nodes found"
	IssueManyCycles   = "excessive feedback loops detected"

	RecommendConnect     = "connect isolated components or remove orphan nodes"
	RecommendStabilize   = "review update rules of unstable nodes"
	RecommendDesensitize = "network may be too sensitive to perturbations; add redundancy"
	RecommendTrimLoops   = "review feedback loops for relevance"
)

// Assess computes the quality verdict for one pass. All three inputs must
// come from the same pass over the same network.
func Assess(topo *model.TopologyMetrics, dyn *model.DynamicsResult, perturb *model.PerturbationResult) *model.QualityAssessment {
	stability := stabilityTerm(topo, dyn)
	robustness := robustnessTerm(perturb)
	connectivity := 0.0
	if topo.IsConnected {
		connectivity = 1.0
	}

	score := WeightStability*stability +
		WeightRobustness*robustness +
		WeightConnectivity*connectivity
	score = clamp01(score)

	assessment := &model.QualityAssessment{Score: score}
	addIssue := func(issue, recommendation string) {
		assessment.Issues = append(assessment.Issues, issue)
		assessment.Recommendations = append(assessment.Recommendations, recommendation)
	}

	if !topo.IsConnected {
		addIssue(IssueDisconnected, RecommendConnect)
	}
	if unstableRatio(topo, dyn) > UnstableRatioThreshold {
		addIssue(IssueManyUnstable, RecommendStabilize)
	}
	if len(perturb.Tests) > 0 && len(perturb.RobustNodes) == 0 {
		addIssue(IssueNoRobust, RecommendDesensitize)
	}
	if topo.CycleCount > CycleCountThreshold {
		addIssue(IssueManyCycles, RecommendTrimLoops)
	}

	assessment.IssueCount = len(assessment.Issues)
	return assessment
}

// stabilityTerm is 1 minus the unstable-to-logic-node ratio: fewer unstable
// nodes always scores at least as high.
func stabilityTerm(topo *model.TopologyMetrics, dyn *model.DynamicsResult) float64 {
	return clamp01(1.0 - unstableRatio(topo, dyn))
}

func unstableRatio(topo *model.TopologyMetrics, dyn *model.DynamicsResult) float64 {
	if topo.LogicNodes == 0 {
		return 0
	}
	ratio := float64(len(dyn.UnstableNodes)) / float64(topo.LogicNodes)
	return clamp01(ratio)
}

// robustnessTerm rewards a higher fraction of robust nodes, with half the
// term granted for having any robust node at all. Monotone nondecreasing in
// the robust count.
func robustnessTerm(perturb *model.PerturbationResult) float64 {
	total := len(perturb.Tests)
	if total == 0 {
		// Nothing to perturb (no logic nodes): trivially robust.
		return 1.0
	}
	fraction := float64(len(perturb.RobustNodes)) / float64(total)
	floor := 0.0
	if len(perturb.RobustNodes) > 0 {
		floor = 0.5
	}
	return clamp01(floor + 0.5*fraction)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
