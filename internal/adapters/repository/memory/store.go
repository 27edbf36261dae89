// Package memory provides an in-process archive.Store. Records are kept
// serialized so callers never share edge slices with the store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/pkg/serialization"
)

type entry struct {
	record    archive.Record // Edges left nil; the blob holds them
	blob      []byte
	createdAt time.Time
}

// Store is a thread-safe map-backed archive.Store.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	serializer *serialization.Serializer
}

// NewStore creates an empty store. A nil serializer means serialization.Default.
func NewStore(serializer *serialization.Serializer) *Store {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &Store{
		entries:    make(map[string]*entry),
		serializer: serializer,
	}
}

// Save stores a record
func (s *Store) Save(_ context.Context, r *archive.Record) error {
	if r == nil {
		return archive.ErrNilRecord
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("record validation failed: %w", err)
	}

	blob, err := s.serializer.Serialize(r.Edges)
	if err != nil {
		return fmt.Errorf("failed to serialize edges: %w", err)
	}

	meta := *r
	meta.Edges = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[r.ID] = &entry{record: meta, blob: blob, createdAt: r.CreatedAt}
	return nil
}

// Load retrieves a record by ID
func (s *Store) Load(_ context.Context, id string) (*archive.Record, error) {
	if id == "" {
		return nil, archive.ErrInvalidRecordID
	}

	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, archive.ErrRecordNotFound
	}
	return s.decode(e)
}

// List returns records matching the filter, newest first
func (s *Store) List(_ context.Context, filter archive.Filter) ([]*archive.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.Match(&e.record) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *entry) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		if a.record.ID < b.record.ID {
			return -1
		}
		return 1
	})

	if filter.Offset >= len(matched) {
		return []*archive.Record{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]*archive.Record, 0, len(matched))
	for _, e := range matched {
		r, err := s.decode(e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Delete removes a record by ID
func (s *Store) Delete(_ context.Context, id string) error {
	if id == "" {
		return archive.ErrInvalidRecordID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return archive.ErrRecordNotFound
	}
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) decode(e *entry) (*archive.Record, error) {
	r := e.record
	if err := s.serializer.Deserialize(e.blob, &r.Edges); err != nil {
		return nil, fmt.Errorf("failed to deserialize edges of %s: %w", r.ID, err)
	}
	return &r, nil
}
