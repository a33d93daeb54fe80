package model

// StateVector is a total Boolean assignment to every node of a network, in
// the network's node index order. Vectors are treated as immutable once
// produced; identity is the exact bit pattern.
type StateVector []bool

// Clone returns an independent copy of the vector.
func (s StateVector) Clone() StateVector {
	c := make(StateVector, len(s))
	copy(c, s)
	return c
}

// Equal reports whether two vectors have identical bit patterns.
func (s StateVector) Equal(other StateVector) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns a compact string form of the bit pattern, usable as a map key.
func (s StateVector) Key() string {
	buf := make([]byte, len(s))
	for i, v := range s {
		if v {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// Step applies one synchronous update: every logic node's next value is its
// rule evaluated on the current vector, while input nodes carry their value
// forward unchanged. The result is a fresh vector.
func (s StateVector) Step(nw *Network) StateVector {
	next := s.Clone()
	lookup := func(name string) (bool, bool) {
		i, ok := nw.Lookup(name)
		if !ok {
			return false, false
		}
		return s[i], true
	}
	for _, i := range nw.LogicIndexes() {
		next[i] = nw.Node(i).Rule.Eval(lookup)
	}
	return next
}
