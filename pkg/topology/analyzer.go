package topology

import (
	"github.com/biocircuits/boolnet/pkg/model"
)

// Analyze computes the full set of topology metrics for a network. The
// computation is deterministic: same network, same metrics.
func Analyze(nw *model.Network) *model.TopologyMetrics {
	g := BuildGraph(nw)
	scc := StronglyConnectedComponents(g)
	cycles := DetectCycles(g)

	n := g.Size()
	metrics := &model.TopologyMetrics{
		NodeCount:   n,
		InputNodes:  len(nw.InputIndexes()),
		LogicNodes:  nw.LogicCount(),
		EdgeCount:   g.EdgeCount(),
		Density:     density(n, g.EdgeCount()),
		CycleCount:  len(cycles),
		SelfLoops:   CountSelfLoops(g),
		SCCCount:    len(scc.Components),
		LargestSCC:  scc.LargestSCC,
		IsConnected: g.IsConnected(),
		Degrees:     make(map[string]model.Degree, n),
	}

	for i := 0; i < n; i++ {
		metrics.Degrees[nw.Node(i).Name] = model.Degree{
			In:  len(g.Incoming(i)),
			Out: len(g.Outgoing(i)),
		}
	}
	return metrics
}

// density is edge_count / (n * (n-1)), guarded so a single-node network
// reports 0 rather than dividing by zero.
func density(nodes, edges int) float64 {
	if nodes <= 1 {
		return 0
	}
	return float64(edges) / float64(nodes*(nodes-1))
}
