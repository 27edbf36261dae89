package archive

import (
	"context"
	"time"
)

// Store persists records.
type Store interface {
	// Save persists a record, replacing any with the same ID
	Save(ctx context.Context, r *Record) error

	// Load retrieves a record by ID
	Load(ctx context.Context, id string) (*Record, error)

	// List returns records matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]*Record, error)

	// Delete removes a record by ID
	Delete(ctx context.Context, id string) error
}

// Filter narrows List results.
type Filter struct {
	Vertices int        `json:"vertices,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// Validate ensures filter parameters are valid
func (f *Filter) Validate() error {
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	if f.Offset < 0 {
		return ErrInvalidOffset
	}
	return nil
}

// Match reports whether r passes the non-paging parts of the filter.
func (f *Filter) Match(r *Record) bool {
	if f.Vertices > 0 && r.Vertices != f.Vertices {
		return false
	}
	if f.Since != nil && !r.CreatedAt.After(*f.Since) {
		return false
	}
	return true
}
