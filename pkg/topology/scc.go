package topology

// SCC is one strongly connected component, holding member node indexes.
type SCC struct {
	ID    int
	Nodes []int
	Size  int
}

// SCCResult holds the output of Tarjan's algorithm over the regulator graph.
type SCCResult struct {
	Components []SCC
	NodeSCC    []int // node index -> component ID
	LargestSCC int   // size of the largest component
	Singletons int
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
	visited bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in
// O(V+E) time. Only outgoing edges are followed (directed graph semantics).
func StronglyConnectedComponents(g *Graph) *SCCResult {
	n := g.Size()
	state := make([]tarjanState, n)
	nodeSCC := make([]int, n)
	var stack []int
	indexCounter := 0
	var components []SCC

	var strongconnect func(u int)
	strongconnect = func(u int) {
		state[u] = tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
			visited: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, v := range g.Outgoing(u) {
			if !state[v].visited {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		// If u is a root node, pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			sccID := len(components)
			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				nodeSCC[w] = sccID
				if w == u {
					break
				}
			}
			components = append(components, SCC{ID: sccID, Nodes: members, Size: len(members)})
		}
	}

	for u := 0; u < n; u++ {
		if !state[u].visited {
			strongconnect(u)
		}
	}

	largest := 0
	singletons := 0
	for _, c := range components {
		if c.Size == 1 {
			singletons++
		}
		if c.Size > largest {
			largest = c.Size
		}
	}

	return &SCCResult{
		Components: components,
		NodeSCC:    nodeSCC,
		LargestSCC: largest,
		Singletons: singletons,
	}
}

// HasCycleBySCC reports whether the graph contains any cycle: some SCC has
// size > 1, or a node regulates itself.
func HasCycleBySCC(g *Graph, scc *SCCResult) bool {
	if scc.LargestSCC > 1 {
		return true
	}
	for u := 0; u < g.Size(); u++ {
		for _, v := range g.Outgoing(u) {
			if v == u {
				return true
			}
		}
	}
	return false
}
