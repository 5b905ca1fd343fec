// Package sqlite provides a local RowStore backed by SQLite. It is a
// development and offline stand-in for the remote NoSQL store: each
// table holds one JSON document per row, filtered in the application
// with the same equality semantics as the remote bridge.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RowStore = (*Store)(nil)

// allowedTables whitelists table names; they are interpolated into SQL.
var allowedTables = map[string]bool{
	"ocean_pages":       true,
	"ocean_blocks":      true,
	"ocean_block_links": true,
	"ocean_tags":        true,
	"ocean_block_tags":  true,
}

// Store is a SQLite-backed row store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir. An empty
// dataDir defaults to ~/.ocean/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ocean", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ocean.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert stores a document and returns its generated row id.
func (s *Store) Insert(ctx context.Context, table string, doc map[string]any) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	rowID := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (row_id, document) VALUES (?, ?)", table),
		rowID, string(payload),
	); err != nil {
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	return rowID, nil
}

// Query returns rows matching the filter. Documents are filtered in
// the application; the equality semantics match the remote bridge,
// including nil filter values matching stored nulls.
func (s *Store) Query(ctx context.Context, table string, filter driven.Filter, limit, offset int) (*driven.RowQueryResult, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT row_id, document FROM %s ORDER BY row_id", table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var matched []driven.Row
	for rows.Next() {
		var rowID, payload string
		if err := rows.Scan(&rowID, &payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", rowID, err)
		}
		if matchesFilter(doc, filter) {
			matched = append(matched, driven.Row{ID: rowID, Document: doc})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return &driven.RowQueryResult{
		Rows:    matched[offset:end],
		Total:   total,
		HasMore: end < total,
	}, nil
}

// Patch merges the update into the row's document.
func (s *Store) Patch(ctx context.Context, table, rowID string, update map[string]any) (*driven.Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT document FROM %s WHERE row_id = ?", table), rowID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: row %s in %s", domain.ErrNotFound, rowID, table)
	}
	if err != nil {
		return nil, fmt.Errorf("load row %s: %w", rowID, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", rowID, err)
	}
	for k, v := range update {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET document = ? WHERE row_id = ?", table),
		string(merged), rowID,
	); err != nil {
		return nil, fmt.Errorf("update row %s: %w", rowID, err)
	}

	return &driven.Row{ID: rowID, Document: doc}, nil
}

// Delete removes a row.
func (s *Store) Delete(ctx context.Context, table, rowID string) error {
	if err := checkTable(table); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE row_id = ?", table), rowID)
	if err != nil {
		return fmt.Errorf("delete row %s: %w", rowID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete row %s: %w", rowID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: row %s in %s", domain.ErrNotFound, rowID, table)
	}
	return nil
}

// Ping verifies the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

func checkTable(table string) error {
	if !allowedTables[table] {
		return fmt.Errorf("%w: unknown table %q", domain.ErrInvalidInput, table)
	}
	return nil
}

// matchesFilter applies equality matching. A nil filter value matches
// stored nulls and absent fields.
func matchesFilter(doc map[string]any, filter driven.Filter) bool {
	for field, want := range filter {
		got, present := doc[field]
		if want == nil {
			if present && got != nil {
				return false
			}
			continue
		}
		if !present || got == nil {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
