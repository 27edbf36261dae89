package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/pkg/serialization"
)

const columns = "id, vertices, edge_count, seed, output, format, edges, created_at"

// Store implements archive.Store for SQLite
type Store struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string, serializer *serialization.Serializer) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s := NewStore(db, serializer)
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database. A nil serializer means serialization.Default.
func NewStore(db *sql.DB, serializer *serialization.Serializer) *Store {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &Store{
		db:         db,
		serializer: serializer,
		tableName:  "graphs",
	}
}

// WithTableName overrides the table name. Only letters, digits and
// underscores are accepted; anything else is ignored.
func (s *Store) WithTableName(name string) *Store {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Save stores a record in SQLite
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
		INSERT OR REPLACE INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.tableName, columns)

	// seed is stored bit-for-bit as a signed integer
	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.Vertices, len(r.Edges), int64(r.Seed), r.Output, s.serializer.Format(), blob, r.CreatedAt.UnixNano())
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

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columns, s.tableName)
	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	rows, err := s.db.QueryContext(ctx, query, args...)
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

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return archive.ErrRecordNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *Store) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			vertices INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			output TEXT NOT NULL,
			format TEXT NOT NULL,
			edges BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_vertices ON %s (vertices);
		CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) buildListQuery(filter archive.Filter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1", columns, s.tableName)
	args := make([]any, 0, 4)

	if filter.Vertices > 0 {
		query += " AND vertices = ?"
		args = append(args, filter.Vertices)
	}
	if filter.Since != nil {
		query += " AND created_at > ?"
		args = append(args, filter.Since.UnixNano())
	}

	query += " ORDER BY created_at DESC, id ASC"

	// SQLite only accepts OFFSET after LIMIT; -1 means no limit
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := -1
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*archive.Record, error) {
	var (
		r         archive.Record
		edgeCount int
		seed      int64
		format    string
		blob      []byte
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.Vertices, &edgeCount, &seed, &r.Output, &format, &blob, &createdAt); err != nil {
		return nil, err
	}

	// Rows written under another format stay readable
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
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	return &r, nil
}
