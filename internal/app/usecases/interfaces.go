package usecases

import (
	"context"

	"github.com/flowgraph/randgraph/internal/app/dto"
	"github.com/flowgraph/randgraph/internal/core/graph"
)

// GraphGenerator produces and checks edge-list files.
type GraphGenerator interface {
	// Generate samples a graph and writes it to req.Output
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error)

	// Verify reads an edge-list file back and checks every invariant
	Verify(path string) (*graph.Graph, error)
}

var _ GraphGenerator = (*Generator)(nil)
