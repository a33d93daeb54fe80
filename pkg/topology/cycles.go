package topology

// Cycle is a detected cycle as a sequence of node indexes.
type Cycle []int

// DetectCycles finds cycles in the regulator graph using DFS with three-color
// marking. One cycle is reported per back edge, which makes the count an
// upper-bounded proxy for the number of elementary cycles rather than a full
// enumeration (elementary-cycle counting is exponential in the worst case).
//
// Algorithm: depth-first search with three colors:
//   - WHITE (0): unvisited node
//   - GRAY  (1): currently visiting (node is in the recursion stack)
//   - BLACK (2): finished visiting (all descendants explored)
//
// A GRAY node encountered during DFS marks a back edge and hence a cycle.
func DetectCycles(g *Graph) []Cycle {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	n := g.Size()
	color := make([]int, n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	cycles := make([]Cycle, 0)

	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray

		for _, v := range g.Outgoing(u) {
			// Self-loop detected
			if v == u {
				cycles = append(cycles, Cycle{u})
				continue
			}

			switch color[v] {
			case white:
				parent[v] = u
				dfs(v)
			case gray:
				// Back edge found - cycle detected
				cycles = append(cycles, extractCycle(v, u, parent))
			}
			// BLACK means a forward/cross edge - no cycle from this edge
		}

		color[u] = black
	}

	for u := 0; u < n; u++ {
		if color[u] == white {
			dfs(u)
		}
	}
	return cycles
}

// extractCycle reconstructs the cycle from parent pointers, given a back edge
// from end to start.
func extractCycle(start, end int, parent []int) Cycle {
	cycle := Cycle{start}
	current := end
	for current != start && current != -1 {
		cycle = append(cycle, current)
		current = parent[current]
	}
	return cycle
}

// CountSelfLoops returns the number of nodes that regulate themselves.
func CountSelfLoops(g *Graph) int {
	count := 0
	for u := 0; u < g.Size(); u++ {
		for _, v := range g.Outgoing(u) {
			if v == u {
				count++
				break
			}
		}
	}
	return count
}
