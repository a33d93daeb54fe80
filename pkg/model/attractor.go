package model

// Attractor is a fixed point (period 1) or a limit cycle (period >= 2) of the
// synchronous dynamics. The cycle order is preserved, but identity is the set
// of member states: two rotations of the same cycle are the same attractor.
type Attractor struct {
	// States holds the cycle in visit order, canonicalized so that the
	// lexicographically smallest state key comes first.
	States []StateVector
}

// NewAttractor canonicalizes a raw cycle by rotating it so the state with the
// smallest key leads. Cycle states are assumed distinct, which synchronous
// Boolean dynamics guarantees for a minimal cycle.
func NewAttractor(cycle []StateVector) *Attractor {
	if len(cycle) == 0 {
		return &Attractor{}
	}
	minAt := 0
	minKey := cycle[0].Key()
	for i := 1; i < len(cycle); i++ {
		if k := cycle[i].Key(); k < minKey {
			minKey = k
			minAt = i
		}
	}
	states := make([]StateVector, 0, len(cycle))
	for i := 0; i < len(cycle); i++ {
		states = append(states, cycle[(minAt+i)%len(cycle)].Clone())
	}
	return &Attractor{States: states}
}

// Period returns the cycle length; 1 means a fixed point.
func (a *Attractor) Period() int { return len(a.States) }

// IsFixedPoint reports whether the attractor is a single repeating state.
func (a *Attractor) IsFixedPoint() bool { return len(a.States) == 1 }

// Key returns a rotation-invariant identity string. Because the cycle is
// canonicalized on construction, concatenating the state keys in order is
// stable across discovery order and entry point.
func (a *Attractor) Key() string {
	key := ""
	for i, s := range a.States {
		if i > 0 {
			key += "|"
		}
		key += s.Key()
	}
	return key
}

// Contains reports whether the given state is a member of the cycle.
func (a *Attractor) Contains(s StateVector) bool {
	for _, member := range a.States {
		if member.Equal(s) {
			return true
		}
	}
	return false
}

// TogglingIndexes returns the node indexes whose value differs across the
// states of this single attractor, i.e. the nodes that oscillate within the
// cycle. Empty for fixed points.
func (a *Attractor) TogglingIndexes() []int {
	if len(a.States) < 2 {
		return nil
	}
	first := a.States[0]
	var toggling []int
	for i := range first {
		for _, s := range a.States[1:] {
			if s[i] != first[i] {
				toggling = append(toggling, i)
				break
			}
		}
	}
	return toggling
}
