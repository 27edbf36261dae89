package archive

import "errors"

var (
	ErrInvalidRecordID = errors.New("invalid record ID")
	ErrNilRecord       = errors.New("record cannot be nil")
	ErrNoEdges         = errors.New("record has no edges")
	ErrRecordNotFound  = errors.New("record not found")

	ErrInvalidLimit  = errors.New("limit cannot be negative")
	ErrInvalidOffset = errors.New("offset cannot be negative")
)
