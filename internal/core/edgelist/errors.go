package edgelist

import "errors"

var (
	ErrEmptyInput        = errors.New("edge list is empty")
	ErrInvalidHeader     = errors.New("invalid header line")
	ErrInvalidLine       = errors.New("invalid edge line")
	ErrEdgeCountMismatch = errors.New("edge count does not match header")
)
