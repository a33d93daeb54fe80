package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocircuits/boolnet/pkg/model"
)

func topoWith(logic int, connected bool, cycles int) *model.TopologyMetrics {
	return &model.TopologyMetrics{
		NodeCount:   logic,
		LogicNodes:  logic,
		IsConnected: connected,
		CycleCount:  cycles,
	}
}

func dynWith(unstable ...string) *model.DynamicsResult {
	return &model.DynamicsResult{UnstableNodes: unstable}
}

func perturbWith(robust, sensitive int) *model.PerturbationResult {
	result := &model.PerturbationResult{}
	for i := 0; i < robust; i++ {
		name := fmt.Sprintf("R%d", i)
		result.RobustNodes = append(result.RobustNodes, name)
		result.Tests = append(result.Tests, model.NodePerturbation{Node: name, Robust: true})
	}
	for i := 0; i < sensitive; i++ {
		name := fmt.Sprintf("S%d", i)
		result.SensitiveNodes = append(result.SensitiveNodes, name)
		result.Tests = append(result.Tests, model.NodePerturbation{Node: name})
	}
	return result
}

func TestAssessPerfectNetwork(t *testing.T) {
	assessment := Assess(topoWith(4, true, 1), dynWith(), perturbWith(4, 0))

	assert.InDelta(t, 1.0, assessment.Score, 1e-9)
	assert.Empty(t, assessment.Issues)
	assert.Zero(t, assessment.IssueCount)
}

func TestAssessScoreComposition(t *testing.T) {
	// 1 of 4 logic nodes unstable, 2 of 4 robust, connected:
	// 0.4*(1-0.25) + 0.4*(0.5+0.5*0.5) + 0.2*1 = 0.3 + 0.3 + 0.2.
	assessment := Assess(topoWith(4, true, 0), dynWith("X"), perturbWith(2, 2))
	assert.InDelta(t, 0.8, assessment.Score, 1e-9)
}

func TestAssessIssueMapping(t *testing.T) {
	tests := []struct {
		name      string
		topo      *model.TopologyMetrics
		dyn       *model.DynamicsResult
		perturb   *model.PerturbationResult
		issue     string
		recommend string
	}{
		{
			"disconnected",
			topoWith(3, false, 0), dynWith(), perturbWith(3, 0),
			IssueDisconnected, RecommendConnect,
		},
		{
			"many unstable",
			topoWith(4, true, 0), dynWith("A", "B"), perturbWith(4, 0),
			IssueManyUnstable, RecommendStabilize,
		},
		{
			"no robust nodes",
			topoWith(3, true, 0), dynWith(), perturbWith(0, 3),
			IssueNoRobust, RecommendDesensitize,
		},
		{
			"excessive cycles",
			topoWith(3, true, 11), dynWith(), perturbWith(3, 0),
			IssueManyCycles, RecommendTrimLoops,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := Assess(tt.topo, tt.dyn, tt.perturb)
			require.Len(t, assessment.Issues, 1)
			assert.Equal(t, tt.issue, assessment.Issues[0])
			assert.Equal(t, tt.recommend, assessment.Recommendations[0])
			assert.Equal(t, 1, assessment.IssueCount)
		})
	}
}

func TestAssessIssuesPairRecommendations(t *testing.T) {
	// Everything wrong at once: issue i pairs with recommendation i.
	assessment := Assess(topoWith(2, false, 11), dynWith("A", "B"), perturbWith(0, 2))

	require.Len(t, assessment.Issues, 4)
	require.Len(t, assessment.Recommendations, 4)
	assert.Equal(t, []string{IssueDisconnected, IssueManyUnstable, IssueNoRobust, IssueManyCycles}, assessment.Issues)
	assert.Equal(t, 4, assessment.IssueCount)
}

func TestAssessUnstableThresholdBoundary(t *testing.T) {
	// Exactly 30% unstable does not trigger the issue; it must exceed it.
	at := Assess(topoWith(10, true, 0), dynWith("A", "B", "C"), perturbWith(10, 0))
	assert.NotContains(t, at.Issues, IssueManyUnstable)

	over := Assess(topoWith(10, true, 0), dynWith("A", "B", "C", "D"), perturbWith(10, 0))
	assert.Contains(t, over.Issues, IssueManyUnstable)
}

func TestAssessMonotonicInUnstableNodes(t *testing.T) {
	// More unstable nodes never raises the score.
	prev := 2.0
	for unstable := 0; unstable <= 5; unstable++ {
		names := make([]string, unstable)
		for i := range names {
			names[i] = fmt.Sprintf("U%d", i)
		}
		score := Assess(topoWith(5, true, 0), dynWith(names...), perturbWith(3, 2)).Score
		assert.LessOrEqual(t, score, prev, "unstable=%d", unstable)
		prev = score
	}
}

func TestAssessMonotonicInRobustNodes(t *testing.T) {
	// More robust nodes never lowers the score.
	prev := -1.0
	for robust := 0; robust <= 5; robust++ {
		score := Assess(topoWith(5, true, 0), dynWith(), perturbWith(robust, 5-robust)).Score
		assert.GreaterOrEqual(t, score, prev, "robust=%d", robust)
		prev = score
	}
}

func TestAssessConnectivityContribution(t *testing.T) {
	connected := Assess(topoWith(3, true, 0), dynWith(), perturbWith(3, 0)).Score
	disconnected := Assess(topoWith(3, false, 0), dynWith(), perturbWith(3, 0)).Score
	assert.InDelta(t, WeightConnectivity, connected-disconnected, 1e-9)
}

func TestAssessNoLogicNodes(t *testing.T) {
	// An input-only network has nothing to destabilize or perturb.
	assessment := Assess(topoWith(0, true, 0), dynWith(), perturbWith(0, 0))
	assert.InDelta(t, 1.0, assessment.Score, 1e-9)
	assert.Empty(t, assessment.Issues)
}

func TestAssessScoreClamped(t *testing.T) {
	assessment := Assess(topoWith(2, false, 0), dynWith("A", "B"), perturbWith(0, 2))
	assert.GreaterOrEqual(t, assessment.Score, 0.0)
	assert.LessOrEqual(t, assessment.Score, 1.0)
}
