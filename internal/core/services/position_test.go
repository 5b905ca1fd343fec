package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/memory"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
)

func insertBlockRow(t *testing.T, rows *memory.RowStore, blockID string, position int, parentID any) {
	t.Helper()

	doc := map[string]any{
		"block_id":        blockID,
		"page_id":         "page-1",
		"organization_id": testOrg,
		"block_type":      "text",
		"content":         map[string]any{"text": "x"},
		"position":        position,
		"parent_block_id": parentID,
		"is_archived":     false,
		"created_at":      "2026-01-01T00:00:00Z",
		"updated_at":      "2026-01-01T00:00:00Z",
	}
	_, err := rows.Insert(context.Background(), tableBlocks, doc)
	require.NoError(t, err)
}

func blockPositions(t *testing.T, rows *memory.RowStore) map[string]int {
	t.Helper()

	res, err := rows.Query(context.Background(), tableBlocks, driven.Filter{
		"organization_id": testOrg,
	}, 0, 0)
	require.NoError(t, err)

	positions := make(map[string]int)
	for _, row := range res.Rows {
		id, _ := row.Document["block_id"].(string)
		positions[id] = rowPosition(row)
	}
	return positions
}

func TestNextPositionEmptyGroup(t *testing.T) {
	rows := memory.NewRowStore()
	pm := NewPositionManager(rows)

	pos, err := pm.NextPosition(context.Background(), tableBlocks, driven.Filter{
		"organization_id": testOrg,
		"page_id":         "page-1",
		"parent_block_id": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestNextPositionIsMaxPlusOne(t *testing.T) {
	rows := memory.NewRowStore()
	pm := NewPositionManager(rows)

	// Gaps stay: positions 0, 5.
	insertBlockRow(t, rows, "b0", 0, nil)
	insertBlockRow(t, rows, "b1", 5, nil)

	pos, err := pm.NextPosition(context.Background(), tableBlocks, driven.Filter{
		"organization_id": testOrg,
		"page_id":         "page-1",
		"parent_block_id": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, pos, "next position should be max+1, not count")
}

func TestNextPositionRequiresTenantScope(t *testing.T) {
	pm := NewPositionManager(memory.NewRowStore())

	_, err := pm.NextPosition(context.Background(), tableBlocks, driven.Filter{
		"page_id": "page-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMakeRoomShiftsAtAndAfter(t *testing.T) {
	rows := memory.NewRowStore()
	pm := NewPositionManager(rows)

	insertBlockRow(t, rows, "b0", 0, nil)
	insertBlockRow(t, rows, "b1", 1, nil)
	insertBlockRow(t, rows, "b2", 2, nil)

	shifted, err := pm.MakeRoom(context.Background(), tableBlocks, driven.Filter{
		"organization_id": testOrg,
		"page_id":         "page-1",
		"parent_block_id": nil,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, shifted)

	positions := blockPositions(t, rows)
	assert.Equal(t, 0, positions["b0"])
	assert.Equal(t, 2, positions["b1"])
	assert.Equal(t, 3, positions["b2"])
}

func TestMakeRoomIgnoresOtherGroups(t *testing.T) {
	rows := memory.NewRowStore()
	pm := NewPositionManager(rows)

	insertBlockRow(t, rows, "top", 0, nil)
	insertBlockRow(t, rows, "nested", 0, "top")

	_, err := pm.MakeRoom(context.Background(), tableBlocks, driven.Filter{
		"organization_id": testOrg,
		"page_id":         "page-1",
		"parent_block_id": nil,
	}, 0)
	require.NoError(t, err)

	positions := blockPositions(t, rows)
	assert.Equal(t, 1, positions["top"])
	assert.Equal(t, 0, positions["nested"], "nested sibling group must not shift")
}

func TestIsSelfOrDescendant(t *testing.T) {
	rows := memory.NewRowStore()
	pm := NewPositionManager(rows)
	ctx := context.Background()

	// a -> b -> c parent chain.
	insertBlockRow(t, rows, "a", 0, nil)
	insertBlockRow(t, rows, "b", 0, "a")
	insertBlockRow(t, rows, "c", 0, "b")

	got, err := pm.IsSelfOrDescendant(ctx, tableBlocks, "block_id", "parent_block_id", testOrg, "a", "c")
	require.NoError(t, err)
	assert.True(t, got, "c is a descendant of a")

	got, err = pm.IsSelfOrDescendant(ctx, tableBlocks, "block_id", "parent_block_id", testOrg, "a", "a")
	require.NoError(t, err)
	assert.True(t, got, "self counts")

	got, err = pm.IsSelfOrDescendant(ctx, tableBlocks, "block_id", "parent_block_id", testOrg, "c", "a")
	require.NoError(t, err)
	assert.False(t, got, "ancestor is not a descendant")
}
