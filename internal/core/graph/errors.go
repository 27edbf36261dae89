// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - defined once, matched with errors.Is
var (
	// Graph errors
	ErrInvalidVertexCount = errors.New("vertex count must be positive")
	ErrInvalidEdgeCount   = errors.New("edge count must be positive")
	ErrTooManyEdges       = errors.New("edge count exceeds the number of distinct vertex pairs")

	// Edge errors
	ErrSelfLoop         = errors.New("self-loops are not allowed")
	ErrDuplicateEdge    = errors.New("duplicate edge")
	ErrVertexOutOfRange = errors.New("vertex identifier out of range")
	ErrNotCanonical     = errors.New("edge endpoints are not in canonical order")
)
