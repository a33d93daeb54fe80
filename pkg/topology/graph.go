// Package topology computes graph-theoretic metrics over the regulator graph
// implied by a Boolean network's update rules.
package topology

import (
	"github.com/biocircuits/boolnet/pkg/model"
)

// Graph is the directed regulator -> regulated adjacency derived from every
// logic node's rule, indexed by the network's node order.
type Graph struct {
	nw  *model.Network
	out [][]int
	in  [][]int
}

// BuildGraph derives the regulator graph from the network. A rule regulator
// that names no existing node contributes no edge; the loader rejects such
// models, this is only defensive.
func BuildGraph(nw *model.Network) *Graph {
	n := nw.Size()
	g := &Graph{
		nw:  nw,
		out: make([][]int, n),
		in:  make([][]int, n),
	}

	for _, target := range nw.LogicIndexes() {
		for _, reg := range nw.Node(target).Rule.Regulators() {
			source, ok := nw.Lookup(reg)
			if !ok {
				continue
			}
			g.out[source] = append(g.out[source], target)
			g.in[target] = append(g.in[target], source)
		}
	}
	return g
}

// Size returns the node count.
func (g *Graph) Size() int { return len(g.out) }

// EdgeCount returns the number of regulator -> regulated pairs.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.out {
		count += len(targets)
	}
	return count
}

// Outgoing returns the nodes regulated by node i.
func (g *Graph) Outgoing(i int) []int { return g.out[i] }

// Incoming returns the regulators of node i.
func (g *Graph) Incoming(i int) []int { return g.in[i] }

// IsConnected checks whether all nodes form a single weakly-connected
// component, treating edges as undirected (BFS from node 0).
func (g *Graph) IsConnected() bool {
	n := g.Size()
	if n <= 1 {
		return true
	}

	visited := make([]bool, n)
	queue := []int{0}
	visited[0] = true
	seen := 1

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.out[current] {
			if !visited[next] {
				visited[next] = true
				seen++
				queue = append(queue, next)
			}
		}
		for _, next := range g.in[current] {
			if !visited[next] {
				visited[next] = true
				seen++
				queue = append(queue, next)
			}
		}
	}
	return seen == n
}
