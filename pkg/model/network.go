package model

import (
	"fmt"
	"sort"
)

// NodeKind distinguishes externally-driven inputs from rule-bearing logic nodes.
type NodeKind int

const (
	// KindInput nodes have no update rule. Their value is part of the
	// initial condition and is never recomputed during simulation.
	KindInput NodeKind = iota

	// KindLogic nodes recompute their value each synchronous step from
	// their Boolean update rule.
	KindLogic
)

func (k NodeKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindLogic:
		return "logic"
	default:
		return "unknown"
	}
}

// Node is a single gene in the regulatory network.
type Node struct {
	Name string
	Kind NodeKind

	// Rule is nil for input nodes.
	Rule Expr
}

// Network is the immutable in-memory representation of a Boolean
// gene-regulatory network. Node ordering is fixed at construction time and
// shared by every StateVector derived from the network, so index i always
// refers to the same gene.
type Network struct {
	Name  string
	nodes []Node
	index map[string]int
}

// NewNetwork builds a network from the given nodes. Node names must be
// unique; logic nodes must carry a rule and input nodes must not.
func NewNetwork(name string, nodes []Node) (*Network, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %q: no nodes defined", name)
	}

	ordered := make([]Node, len(nodes))
	copy(ordered, nodes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	index := make(map[string]int, len(ordered))
	for i, n := range ordered {
		if n.Name == "" {
			return nil, fmt.Errorf("network %q: node with empty name", name)
		}
		if _, dup := index[n.Name]; dup {
			return nil, fmt.Errorf("network %q: duplicate node %q", name, n.Name)
		}
		if n.Kind == KindLogic && n.Rule == nil {
			return nil, fmt.Errorf("network %q: logic node %q has no rule", name, n.Name)
		}
		if n.Kind == KindInput && n.Rule != nil {
			return nil, fmt.Errorf("network %q: input node %q has a rule", name, n.Name)
		}
		index[n.Name] = i
	}

	return &Network{Name: name, nodes: ordered, index: index}, nil
}

// Size returns the total node count.
func (nw *Network) Size() int { return len(nw.nodes) }

// Node returns the node at index i.
func (nw *Network) Node(i int) Node { return nw.nodes[i] }

// Lookup returns the index of the named node.
func (nw *Network) Lookup(name string) (int, bool) {
	i, ok := nw.index[name]
	return i, ok
}

// Names returns all node names in index order.
func (nw *Network) Names() []string {
	names := make([]string, len(nw.nodes))
	for i, n := range nw.nodes {
		names[i] = n.Name
	}
	return names
}

// LogicIndexes returns the indexes of all logic nodes in ascending order.
func (nw *Network) LogicIndexes() []int {
	idx := make([]int, 0, len(nw.nodes))
	for i, n := range nw.nodes {
		if n.Kind == KindLogic {
			idx = append(idx, i)
		}
	}
	return idx
}

// InputIndexes returns the indexes of all input nodes in ascending order.
func (nw *Network) InputIndexes() []int {
	idx := make([]int, 0, len(nw.nodes))
	for i, n := range nw.nodes {
		if n.Kind == KindInput {
			idx = append(idx, i)
		}
	}
	return idx
}

// LogicCount returns the number of logic nodes.
func (nw *Network) LogicCount() int { return len(nw.LogicIndexes()) }

// Clamped returns a copy of the network with the named node's rule replaced
// by a constant, modelling a knockout (false) or overexpression (true). The
// receiver is left untouched.
func (nw *Network) Clamped(name string, value bool) (*Network, error) {
	i, ok := nw.index[name]
	if !ok {
		return nil, fmt.Errorf("network %q: cannot clamp unknown node %q", nw.Name, name)
	}
	if nw.nodes[i].Kind != KindLogic {
		return nil, fmt.Errorf("network %q: cannot clamp input node %q", nw.Name, name)
	}

	nodes := make([]Node, len(nw.nodes))
	copy(nodes, nw.nodes)
	nodes[i].Rule = &ConstExpr{Value: value}

	index := make(map[string]int, len(nodes))
	for j, n := range nodes {
		index[n.Name] = j
	}
	return &Network{Name: nw.Name, nodes: nodes, index: index}, nil
}

// DanglingRegulators returns rule references that name no existing node,
// keyed by the logic node whose rule contains them. Loaders treat a non-empty
// result as fatal; the engine itself only logs it.
func (nw *Network) DanglingRegulators() map[string][]string {
	var dangling map[string][]string
	for _, n := range nw.nodes {
		if n.Kind != KindLogic {
			continue
		}
		for _, reg := range n.Rule.Regulators() {
			if _, ok := nw.index[reg]; !ok {
				if dangling == nil {
					dangling = make(map[string][]string)
				}
				dangling[n.Name] = append(dangling[n.Name], reg)
			}
		}
	}
	return dangling
}
