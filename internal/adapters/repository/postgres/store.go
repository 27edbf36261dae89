package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/pkg/serialization"
)

const columns = "id, vertices, edge_count, seed, output, format, edges, created_at"

// Store implements archive.Store for PostgreSQL
type Store struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// Connect dials databaseURL and ensures the schema.
func Connect(ctx context.Context, databaseURL string, serializer *serialization.Serializer) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := NewStore(pool, serializer)
	if err := s.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing pool. A nil serializer means serialization.Default.
func NewStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *Store {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &Store{
		pool:       pool,
		serializer: serializer,
		tableName:  "graphs",
	}
}

// Save stores a record in PostgreSQL
func (s *Store) Save(ctx context.Context, r *archive.Record) error {
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

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			vertices = EXCLUDED.vertices,
			edge_count = EXCLUDED.edge_count,
			seed = EXCLUDED.seed,
			output = EXCLUDED.output,
			format = EXCLUDED.format,
			edges = EXCLUDED.edges,
			created_at = EXCLUDED.created_at
	`, s.tableName, columns)

	_, err = s.pool.Exec(ctx, query,
		r.ID, r.Vertices, len(r.Edges), int64(r.Seed), r.Output, s.serializer.Format(), blob, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *Store) Load(ctx context.Context, id string) (*archive.Record, error) {
	if id == "" {
		return nil, archive.ErrInvalidRecordID
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, s.tableName)
	r, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, archive.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return r, nil
}

// List retrieves records based on filter criteria
func (s *Store) List(ctx context.Context, filter archive.Filter) ([]*archive.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	query, args := s.buildListQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []*archive.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Delete removes a record by ID
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return archive.ErrInvalidRecordID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return archive.ErrRecordNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *Store) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			vertices INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			output TEXT NOT NULL,
			format VARCHAR(32) NOT NULL,
			edges BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_%s_vertices ON %s (vertices);
		CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) buildListQuery(filter archive.Filter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1", columns, s.tableName)
	args := make([]any, 0, 4)
	argCount := 0

	if filter.Vertices > 0 {
		argCount++
		query += fmt.Sprintf(" AND vertices = $%d", argCount)
		args = append(args, filter.Vertices)
	}
	if filter.Since != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at > $%d", argCount)
		args = append(args, *filter.Since)
	}

	query += " ORDER BY created_at DESC, id ASC"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	return query, args
}

func scanRecord(row pgx.Row) (*archive.Record, error) {
	var (
		r         archive.Record
		edgeCount int
		seed      int64
		format    string
		blob      []byte
	)
	if err := row.Scan(&r.ID, &r.Vertices, &edgeCount, &seed, &r.Output, &format, &blob, &r.CreatedAt); err != nil {
		return nil, err
	}

	serializer, err := serialization.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	if err := serializer.Deserialize(blob, &r.Edges); err != nil {
		return nil, fmt.Errorf("failed to deserialize edges of %s: %w", r.ID, err)
	}
	if len(r.Edges) != edgeCount {
		return nil, fmt.Errorf("record %s: stored %d edges, decoded %d", r.ID, edgeCount, len(r.Edges))
	}

	r.Seed = uint64(seed)
	return &r, nil
}
