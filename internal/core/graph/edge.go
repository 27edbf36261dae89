// Package graph provides edge definitions
package graph

import "fmt"

// Edge is an unordered pair of distinct vertices, stored with the smaller
// identifier first so equal pairs compare equal.
type Edge struct {
	U int `json:"u" msgpack:"u"`
	V int `json:"v" msgpack:"v"`
}

// NewEdge returns the canonical form of the pair {a, b}.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{U: a, V: b}
}

// Validate checks the edge against a graph of n vertices numbered 1..n.
func (e Edge) Validate(n int) error {
	if e.U == e.V {
		return fmt.Errorf("edge %s: %w", e, ErrSelfLoop)
	}
	if e.U > e.V {
		return fmt.Errorf("edge %s: %w", e, ErrNotCanonical)
	}
	if e.U < 1 || e.V > n {
		return fmt.Errorf("edge %s not in [1,%d]: %w", e, n, ErrVertexOutOfRange)
	}
	return nil
}

func (e Edge) String() string {
	return fmt.Sprintf("%d %d", e.U, e.V)
}
