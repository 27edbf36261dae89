package dto

import (
	"errors"
	"time"

	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/flowgraph/randgraph/internal/core/sampler"
	"github.com/flowgraph/randgraph/pkg/validation"
)

// GenerateRequest asks for one random simple graph written to Output
type GenerateRequest struct {
	Vertices int    `json:"vertices" validate:"min=1"`
	Edges    int    `json:"edges" validate:"min=1"`
	Output   string `json:"output" validate:"required"`
	Seed     uint64 `json:"seed"`    // 0 picks a seed from the clock
	Archive  bool   `json:"archive"` // also save the run in the configured store
}

// GraphParams lets the validator check the edge budget.
func (r *GenerateRequest) GraphParams() (int, int) {
	return r.Vertices, r.Edges
}

// Validate checks the request. An infeasible edge count also matches
// graph.ErrTooManyEdges under errors.Is.
func (r *GenerateRequest) Validate() error {
	verr := validation.Struct(r)
	if verr == nil {
		return nil
	}
	if perr := graph.CheckParams(r.Vertices, r.Edges); perr != nil {
		return errors.Join(verr, perr)
	}
	return verr
}

// GenerateResult describes a finished run
type GenerateResult struct {
	RecordID string        `json:"record_id,omitempty"`
	Output   string        `json:"output"`
	Vertices int           `json:"vertices"`
	Edges    int           `json:"edges"`
	Seed     uint64        `json:"seed"`
	Stats    sampler.Stats `json:"stats"`
	Duration time.Duration `json:"duration"`
	Graph    *graph.Graph  `json:"-"`
}
