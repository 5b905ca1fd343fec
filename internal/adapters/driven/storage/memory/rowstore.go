// Package memory provides in-memory implementations of the driven
// storage ports. They back tests and local development; nothing
// persists across process restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
)

// Ensure RowStore implements the interface.
var _ driven.RowStore = (*RowStore)(nil)

// RowStore is a mutex-protected in-memory row store. Rows are stored
// per table keyed by row id; filters support equality matching, with a
// nil filter value matching stored nulls and absent fields.
type RowStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]map[string]any
}

// NewRowStore creates an empty in-memory row store.
func NewRowStore() *RowStore {
	return &RowStore{tables: make(map[string]map[string]map[string]any)}
}

// Insert stores a document and returns its generated row id.
func (s *RowStore) Insert(_ context.Context, table string, doc map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = make(map[string]map[string]any)
	}
	rowID := uuid.NewString()
	s.tables[table][rowID] = cloneDoc(doc)
	return rowID, nil
}

// Query returns rows matching the filter. Results are ordered by row
// id so pagination is stable.
func (s *RowStore) Query(_ context.Context, table string, filter driven.Filter, limit, offset int) (*driven.RowQueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.tables[table]))
	for rowID, doc := range s.tables[table] {
		if matches(doc, filter) {
			ids = append(ids, rowID)
		}
	}
	sort.Strings(ids)

	total := len(ids)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	rows := make([]driven.Row, 0, end-offset)
	for _, rowID := range ids[offset:end] {
		rows = append(rows, driven.Row{ID: rowID, Document: cloneDoc(s.tables[table][rowID])})
	}

	return &driven.RowQueryResult{
		Rows:    rows,
		Total:   total,
		HasMore: end < total,
	}, nil
}

// Patch merges the update into the row's document.
func (s *RowStore) Patch(_ context.Context, table, rowID string, update map[string]any) (*driven.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.tables[table][rowID]
	if !ok {
		return nil, fmt.Errorf("%w: row %s in %s", domain.ErrNotFound, rowID, table)
	}
	for k, v := range update {
		doc[k] = v
	}
	return &driven.Row{ID: rowID, Document: cloneDoc(doc)}, nil
}

// Delete removes a row.
func (s *RowStore) Delete(_ context.Context, table, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table][rowID]; !ok {
		return fmt.Errorf("%w: row %s in %s", domain.ErrNotFound, rowID, table)
	}
	delete(s.tables[table], rowID)
	return nil
}

// Ping always succeeds.
func (s *RowStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *RowStore) Close() error { return nil }

// Count returns the number of rows in a table; test helper.
func (s *RowStore) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func matches(doc map[string]any, filter driven.Filter) bool {
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

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if m, ok := v.(map[string]any); ok {
			out[k] = cloneDoc(m)
			continue
		}
		out[k] = v
	}
	return out
}
