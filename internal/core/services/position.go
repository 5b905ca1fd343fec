package services

import (
	"context"
	"fmt"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// siblingQueryLimit bounds a sibling listing. Parents with more
// children than this are outside the design envelope.
const siblingQueryLimit = 1000

// PositionManager assigns and shifts integer ordering keys for
// siblings in the content tree (pages under pages, blocks under pages
// or blocks).
//
// The row store gives no atomic read-modify-write, so concurrent
// inserts under one parent can produce duplicate positions. That is
// accepted: positions define order together with the (created_at, id)
// tie-break, and gaps are never compacted.
type PositionManager struct {
	rows driven.RowStore
}

// NewPositionManager creates a position manager over the row store.
func NewPositionManager(rows driven.RowStore) *PositionManager {
	return &PositionManager{rows: rows}
}

// siblings returns the non-archived rows in the sibling scope. The
// scope must carry the organization id; tenant scoping here is a
// correctness requirement, not a convention.
func (m *PositionManager) siblings(ctx context.Context, table string, scope driven.Filter) ([]driven.Row, error) {
	if _, ok := scope["organization_id"]; !ok {
		return nil, fmt.Errorf("%w: sibling scope missing organization_id", domain.ErrInvalidInput)
	}

	filter := driven.Filter{"is_archived": false}
	for k, v := range scope {
		filter[k] = v
	}

	res, err := m.rows.Query(ctx, table, filter, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query siblings: %w", err)
	}
	return res.Rows, nil
}

// NextPosition returns the append position for a new sibling:
// max(existing positions)+1, or 0 when the scope is empty.
func (m *PositionManager) NextPosition(ctx context.Context, table string, scope driven.Filter) (int, error) {
	rows, err := m.siblings(ctx, table, scope)
	if err != nil {
		return 0, err
	}

	next := 0
	for _, row := range rows {
		if p := rowPosition(row); p >= next {
			next = p + 1
		}
	}

	logger.Debug("Next position in %s: %d (%d siblings)", table, next, len(rows))
	return next, nil
}

// MakeRoom shifts every non-archived sibling whose position is at or
// after the insertion point up by one, and returns how many rows were
// shifted. Only insertion shifts; detaching a node from its old parent
// leaves a gap.
func (m *PositionManager) MakeRoom(ctx context.Context, table string, scope driven.Filter, at int) (int, error) {
	rows, err := m.siblings(ctx, table, scope)
	if err != nil {
		return 0, err
	}

	shifted := 0
	for _, row := range rows {
		p := rowPosition(row)
		if p < at {
			continue
		}
		if _, err := m.rows.Patch(ctx, table, row.ID, map[string]any{"position": p + 1}); err != nil {
			return shifted, fmt.Errorf("shift sibling %s: %w", row.ID, err)
		}
		shifted++
	}

	logger.Debug("Made room at position %d in %s: shifted %d siblings", at, table, shifted)
	return shifted, nil
}

// IsSelfOrDescendant reports whether candidateID is nodeID itself or
// one of its descendants, by walking parent pointers upward from the
// candidate. The walk tracks visited ids so it terminates even on
// corrupted parent chains.
func (m *PositionManager) IsSelfOrDescendant(
	ctx context.Context, table, idField, parentField, orgID, nodeID, candidateID string,
) (bool, error) {
	visited := make(map[string]bool)
	current := candidateID

	for current != "" {
		if current == nodeID {
			return true, nil
		}
		if visited[current] {
			logger.Warn("Parent chain loop detected at %s in %s", current, table)
			return false, nil
		}
		visited[current] = true

		res, err := m.rows.Query(ctx, table, driven.Filter{
			idField:           current,
			"organization_id": orgID,
		}, 1, 0)
		if err != nil {
			return false, fmt.Errorf("resolve ancestor %s: %w", current, err)
		}
		if len(res.Rows) == 0 {
			return false, nil
		}

		parent, _ := res.Rows[0].Document[parentField].(string)
		current = parent
	}

	return false, nil
}

// rowPosition reads the position field of a raw row.
func rowPosition(row driven.Row) int {
	switch n := row.Document["position"].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
