// Package report flattens a finished analysis run into a plain structured
// value (maps, numbers, booleans, string lists). Serialization of that value
// is the caller's concern; the engine owns no output format.
package report

import (
	"time"

	"github.com/biocircuits/boolnet/pkg/analysis"
	"github.com/biocircuits/boolnet/pkg/model"
)

// EngineVersion is stamped into report metadata.
const EngineVersion = "1.0.0"

// Build renders the outcome of a controller run. The final iteration's
// results drive the detail sections; every iteration contributes a history
// entry.
func Build(nw *model.Network, outcome *analysis.Outcome) map[string]any {
	final := outcome.Final

	doc := map[string]any{
		"metadata": map[string]any{
			"generated_at":   time.Now().UTC().Format(time.RFC3339),
			"engine_version": EngineVersion,
			"analysis_type":  "iterative_quality_assessment",
		},
		"summary":    buildSummary(nw, outcome),
		"iterations": buildHistory(outcome.History),
	}

	if final == nil {
		return doc
	}
	if final.Topology != nil {
		doc["network_structure"] = buildStructure(final.Topology)
	}
	if final.Dynamics != nil {
		doc["dynamics_analysis"] = buildDynamics(nw, final.Dynamics)
	}
	if final.Perturbation != nil {
		doc["perturbation_analysis"] = buildPerturbation(final.Perturbation)
	}
	if final.Quality != nil {
		doc["quality_assessment"] = buildQuality(final.Quality)
	}
	return doc
}

func buildSummary(nw *model.Network, outcome *analysis.Outcome) map[string]any {
	summary := map[string]any{
		"network_name":     nw.Name,
		"total_iterations": len(outcome.History),
		"stop_reason":      string(outcome.Reason),
	}
	if outcome.Final != nil && outcome.Final.Quality != nil {
		summary["final_quality_score"] = outcome.Final.Quality.Score
		summary["analysis_status"] = "completed"
	} else {
		summary["final_quality_score"] = 0.0
		summary["analysis_status"] = "failed"
	}
	return summary
}

func buildStructure(topo *model.TopologyMetrics) map[string]any {
	return map[string]any{
		"total_nodes":                  topo.NodeCount,
		"input_nodes":                  topo.InputNodes,
		"logic_nodes":                  topo.LogicNodes,
		"total_edges":                  topo.EdgeCount,
		"network_density":              topo.Density,
		"is_connected":                 topo.IsConnected,
		"feedback_loops":               topo.CycleCount,
		"self_loops":                   topo.SelfLoops,
		"strongly_connected_components": topo.SCCCount,
		"largest_scc_size":             topo.LargestSCC,
	}
}

func buildDynamics(nw *model.Network, dyn *model.DynamicsResult) map[string]any {
	attractors := make([]map[string]any, 0, len(dyn.Attractors))
	for _, att := range dyn.Attractors {
		kind := "limit_cycle"
		if att.IsFixedPoint() {
			kind = "fixed_point"
		}
		states := make([]map[string]bool, 0, att.Period())
		for _, s := range att.States {
			assignment := make(map[string]bool, nw.Size())
			for i, name := range nw.Names() {
				assignment[name] = s[i]
			}
			states = append(states, assignment)
		}
		attractors = append(attractors, map[string]any{
			"type":   kind,
			"period": att.Period(),
			"states": states,
		})
	}

	return map[string]any{
		"attractors_found":  len(dyn.Attractors),
		"attractors":        attractors,
		"has_oscillations":  dyn.HasOscillations,
		"unstable_nodes":    append([]string{}, dyn.UnstableNodes...),
		"multistable_nodes": append([]string{}, dyn.MultistableNodes...),
		"sampled_states":    dyn.SampledStates,
		"exhaustive":        dyn.Exhaustive,
	}
}

func buildPerturbation(perturb *model.PerturbationResult) map[string]any {
	return map[string]any{
		"nodes_tested":    len(perturb.Tests),
		"robust_nodes":    append([]string{}, perturb.RobustNodes...),
		"sensitive_nodes": append([]string{}, perturb.SensitiveNodes...),
	}
}

func buildQuality(q *model.QualityAssessment) map[string]any {
	return map[string]any{
		"plausibility_score": q.Score,
		"issues_found":       q.IssueCount,
		"issues":             append([]string{}, q.Issues...),
		"recommendations":    append([]string{}, q.Recommendations...),
	}
}

func buildHistory(history []*model.IterationRecord) []map[string]any {
	entries := make([]map[string]any, 0, len(history))
	for _, record := range history {
		entry := map[string]any{
			"id":              record.ID,
			"iteration":       record.Iteration,
			"sampling_budget": record.Plan.SamplingBudget,
			"elapsed_ms":      record.Elapsed.Milliseconds(),
		}
		if record.Err != nil {
			entry["error"] = record.Err.Error()
		} else if record.Quality != nil {
			entry["score"] = record.Quality.Score
			entry["issues_found"] = record.Quality.IssueCount
		}
		entries = append(entries, entry)
	}
	return entries
}
