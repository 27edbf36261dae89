// Package graph provides the core graph domain entities: undirected simple
// graphs over vertices numbered 1..n. It has no external dependencies.
package graph

import (
	"fmt"
	"math"
)

// Graph is an undirected simple graph. Edges are kept as a set; Edges returns
// them in insertion order.
type Graph struct {
	vertices int
	edges    []Edge
	seen     map[Edge]struct{}
}

// New creates an empty graph over n vertices.
func New(n int) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrInvalidVertexCount)
	}
	return &Graph{
		vertices: n,
		seen:     make(map[Edge]struct{}),
	}, nil
}

// MaxEdges returns n(n-1)/2, the edge count of the complete graph on n
// vertices, saturating at math.MaxInt.
func MaxEdges(n int) int {
	if n < 2 {
		return 0
	}
	a, b := n, (n-1)/2
	if n%2 == 0 {
		a, b = n/2, n-1
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

// CheckParams reports whether a simple graph with n vertices and m edges exists.
func CheckParams(n, m int) error {
	if n < 1 {
		return fmt.Errorf("n=%d: %w", n, ErrInvalidVertexCount)
	}
	if m < 1 {
		return fmt.Errorf("m=%d: %w", m, ErrInvalidEdgeCount)
	}
	if limit := MaxEdges(n); m > limit {
		return fmt.Errorf("m=%d > %d for n=%d: %w", m, limit, n, ErrTooManyEdges)
	}
	return nil
}

// Vertices returns the vertex count.
func (g *Graph) Vertices() int { return g.vertices }

// Size returns the number of stored edges.
func (g *Graph) Size() int { return len(g.edges) }

// AddEdge canonicalizes {a, b} and inserts it.
func (g *Graph) AddEdge(a, b int) error {
	e := NewEdge(a, b)
	if err := e.Validate(g.vertices); err != nil {
		return err
	}
	if _, dup := g.seen[e]; dup {
		return fmt.Errorf("edge %s: %w", e, ErrDuplicateEdge)
	}
	g.seen[e] = struct{}{}
	g.edges = append(g.edges, e)
	return nil
}

// HasEdge reports whether {a, b} is in the graph, in either orientation.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.seen[NewEdge(a, b)]
	return ok
}

// Edges returns a copy of the edge set in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// FromEdges builds a graph from an edge list, rejecting anything that would
// break the simple-graph invariants. Pairs need not be canonical.
func FromEdges(n int, edges []Edge) (*Graph, error) {
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, err
		}
	}
	return g, nil
}
