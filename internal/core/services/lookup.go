package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
)

// findRow locates a single row by business key, the first half of the
// locate-and-apply pattern: the remote store only mutates by row id,
// so every update or delete first resolves the row here.
func findRow(ctx context.Context, rows driven.RowStore, table string, filter driven.Filter) (*driven.Row, error) {
	res, err := rows.Query(ctx, table, filter, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &res.Rows[0], nil
}

// getPageRow resolves a page by id within the organization, archived
// or not.
func getPageRow(ctx context.Context, rows driven.RowStore, orgID, pageID string) (*driven.Row, *domain.Page, error) {
	row, err := findRow(ctx, rows, tablePages, driven.Filter{
		"page_id":         pageID,
		"organization_id": orgID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: page %s", domain.ErrNotFound, pageID)
		}
		return nil, nil, fmt.Errorf("get page %s: %w", pageID, err)
	}
	return row, domain.PageFromDocument(row.Document), nil
}

// getBlockRow resolves a block by id within the organization, archived
// or not.
func getBlockRow(ctx context.Context, rows driven.RowStore, orgID, blockID string) (*driven.Row, *domain.Block, error) {
	row, err := findRow(ctx, rows, tableBlocks, driven.Filter{
		"block_id":        blockID,
		"organization_id": orgID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: block %s", domain.ErrNotFound, blockID)
		}
		return nil, nil, fmt.Errorf("get block %s: %w", blockID, err)
	}
	block, err := domain.BlockFromDocument(row.Document)
	if err != nil {
		return nil, nil, fmt.Errorf("decode block %s: %w", blockID, err)
	}
	return row, block, nil
}
