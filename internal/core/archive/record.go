// Package archive defines the record of a generator run and the Store
// interface that persists it, following the same entity/interface split as
// the graph package: no external dependencies here, adapters live under
// internal/adapters/repository.
package archive

import (
	"time"

	"github.com/flowgraph/randgraph/internal/core/graph"
)

// Record is one archived run.
type Record struct {
	ID        string       `json:"id"`
	Vertices  int          `json:"vertices"`
	Edges     []graph.Edge `json:"edges"`
	Seed      uint64       `json:"seed"`
	Output    string       `json:"output"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewRecord captures g under id.
func NewRecord(id string, g *graph.Graph, seed uint64, output string) *Record {
	return &Record{
		ID:        id,
		Vertices:  g.Vertices(),
		Edges:     g.Edges(),
		Seed:      seed,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate ensures the record can be stored and rebuilt.
func (r *Record) Validate() error {
	if r.ID == "" {
		return ErrInvalidRecordID
	}
	if r.Vertices < 1 {
		return graph.ErrInvalidVertexCount
	}
	if len(r.Edges) == 0 {
		return ErrNoEdges
	}
	return nil
}

// Graph rebuilds the graph, re-checking every invariant.
func (r *Record) Graph() (*graph.Graph, error) {
	return graph.FromEdges(r.Vertices, r.Edges)
}
