package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// maxBatchSize caps the number of blocks in one batch create call.
const maxBatchSize = 100

// Ensure BlockService implements the interface.
var _ driving.BlockService = (*BlockService)(nil)

// BlockService manages content blocks. Writes go to the row store
// first; embedding indexing is best-effort and never fails a write.
// A block whose indexing failed simply stays invisible to semantic
// search until its next content update.
type BlockService struct {
	rows      driven.RowStore
	vectors   driven.EmbeddingStore
	positions *PositionManager
	namespace string
	now       func() time.Time
}

// NewBlockService creates a block service. An empty namespace uses
// DefaultVectorNamespace.
func NewBlockService(rows driven.RowStore, vectors driven.EmbeddingStore, namespace string) *BlockService {
	if namespace == "" {
		namespace = DefaultVectorNamespace
	}
	return &BlockService{
		rows:      rows,
		vectors:   vectors,
		positions: NewPositionManager(rows),
		namespace: namespace,
		now:       time.Now,
	}
}

// blockScope builds the sibling scope for a parent block within a
// page. A nil parent scopes to top-level blocks.
func blockScope(orgID, pageID string, parentBlockID *string) driven.Filter {
	scope := driven.Filter{
		"organization_id": orgID,
		"page_id":         pageID,
	}
	if parentBlockID != nil {
		scope["parent_block_id"] = *parentBlockID
	} else {
		scope["parent_block_id"] = nil
	}
	return scope
}

// Create creates a block. A nil position appends to the end of the
// sibling group; an explicit position shifts existing siblings at or
// after it by one.
func (s *BlockService) Create(ctx context.Context, orgID, userID, pageID string, req driving.CreateBlockRequest) (*domain.Block, error) {
	if orgID == "" || userID == "" || pageID == "" {
		return nil, fmt.Errorf("%w: organization id, user id and page id are required", domain.ErrInvalidInput)
	}

	_, page, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return nil, err
	}
	if page.Archived {
		return nil, fmt.Errorf("%w: page %s is archived", domain.ErrInvalidInput, pageID)
	}

	content, err := domain.ParseContent(req.Kind, req.Content)
	if err != nil {
		return nil, err
	}

	if req.ParentBlockID != nil {
		_, parent, err := getBlockRow(ctx, s.rows, orgID, *req.ParentBlockID)
		if err != nil {
			return nil, err
		}
		if parent.PageID != pageID {
			return nil, fmt.Errorf("%w: parent block %s belongs to a different page", domain.ErrInvalidInput, parent.ID)
		}
		if parent.Archived {
			return nil, fmt.Errorf("%w: parent block %s is archived", domain.ErrInvalidInput, parent.ID)
		}
	}

	scope := blockScope(orgID, pageID, req.ParentBlockID)
	var position int
	if req.Position == nil {
		position, err = s.positions.NextPosition(ctx, tableBlocks, scope)
		if err != nil {
			return nil, err
		}
	} else {
		if *req.Position < 0 {
			return nil, fmt.Errorf("%w: position cannot be negative", domain.ErrInvalidInput)
		}
		position = *req.Position
		if _, err := s.positions.MakeRoom(ctx, tableBlocks, scope, position); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	block := &domain.Block{
		ID:             uuid.NewString(),
		PageID:         pageID,
		OrganizationID: orgID,
		UserID:         userID,
		Kind:           req.Kind,
		Content:        content,
		Properties:     req.Properties,
		ParentID:       req.ParentBlockID,
		Position:       position,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	rowID, err := s.rows.Insert(ctx, tableBlocks, block.Document())
	if err != nil {
		return nil, fmt.Errorf("insert block: %w", err)
	}

	s.index(ctx, rowID, block)

	logger.Debug("Created block %s (%s) at position %d", block.ID, block.Kind, block.Position)
	return block, nil
}

// CreateBatch creates up to maxBatchSize blocks as a sequence of
// independent creates. One item failing does not roll back the others;
// each outcome is reported in order.
func (s *BlockService) CreateBatch(ctx context.Context, orgID, userID, pageID string, reqs []driving.CreateBlockRequest) ([]driving.BatchItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", domain.ErrInvalidInput)
	}
	if len(reqs) > maxBatchSize {
		return nil, fmt.Errorf("%w: batch exceeds %d blocks", domain.ErrInvalidInput, maxBatchSize)
	}

	items := make([]driving.BatchItem, 0, len(reqs))
	for i, req := range reqs {
		block, err := s.Create(ctx, orgID, userID, pageID, req)
		items = append(items, driving.BatchItem{Index: i, Block: block, Err: err})
	}
	return items, nil
}

// Get retrieves a block by id within the organization.
func (s *BlockService) Get(ctx context.Context, orgID, blockID string) (*domain.Block, error) {
	_, block, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ListByPage returns a page's non-archived blocks in position order:
// position ascending, then creation time, then id. An empty kind and a
// nil parent apply no filter on those axes.
func (s *BlockService) ListByPage(ctx context.Context, orgID, pageID string, kind domain.BlockKind, parentBlockID *string, limit, offset int) ([]domain.Block, error) {
	if _, _, err := getPageRow(ctx, s.rows, orgID, pageID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = siblingQueryLimit
	}

	filter := driven.Filter{
		"organization_id": orgID,
		"page_id":         pageID,
		"is_archived":     false,
	}
	if kind != "" {
		if !domain.ValidBlockKind(kind) {
			return nil, fmt.Errorf("%w: unknown block type %q", domain.ErrInvalidInput, kind)
		}
		filter["block_type"] = string(kind)
	}
	if parentBlockID != nil {
		filter["parent_block_id"] = *parentBlockID
	}

	res, err := s.rows.Query(ctx, tableBlocks, filter, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}

	blocks := make([]domain.Block, 0, len(res.Rows))
	for _, row := range res.Rows {
		block, err := domain.BlockFromDocument(row.Document)
		if err != nil {
			logger.Warn("Skipping undecodable block row %s: %v", row.ID, err)
			continue
		}
		blocks = append(blocks, *block)
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Position != blocks[j].Position {
			return blocks[i].Position < blocks[j].Position
		}
		if !blocks[i].CreatedAt.Equal(blocks[j].CreatedAt) {
			return blocks[i].CreatedAt.Before(blocks[j].CreatedAt)
		}
		return blocks[i].ID < blocks[j].ID
	})

	if offset >= len(blocks) {
		return []domain.Block{}, nil
	}
	end := offset + limit
	if end > len(blocks) {
		end = len(blocks)
	}
	return blocks[offset:end], nil
}

// Update applies a partial update. Replacing the content re-validates
// it against the block's kind and replaces the stored embedding.
func (s *BlockService) Update(ctx context.Context, orgID, blockID string, req driving.UpdateBlockRequest) (*domain.Block, error) {
	row, block, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return nil, err
	}

	update := map[string]any{}
	contentChanged := false

	if req.Content != nil {
		content, err := domain.ParseContent(block.Kind, req.Content)
		if err != nil {
			return nil, err
		}
		block.Content = content
		update["content"] = content.Document()
		contentChanged = true
	}
	if req.Properties != nil {
		block.Properties = req.Properties
		update["properties"] = req.Properties
	}

	if len(update) == 0 {
		return block, nil
	}

	now := s.now().UTC()
	update["updated_at"] = now.Format(time.RFC3339Nano)
	block.UpdatedAt = now

	if _, err := s.rows.Patch(ctx, tableBlocks, row.ID, update); err != nil {
		return nil, fmt.Errorf("update block: %w", err)
	}

	if contentChanged {
		s.reindex(ctx, row.ID, block)
	}
	return block, nil
}

// Move reorders a block, optionally re-parenting it within its page.
// Siblings of the destination group at or after the new position shift
// by one; the vacated slot in the old group is left as a gap.
func (s *BlockService) Move(ctx context.Context, orgID, blockID string, newParentBlockID *string, newPosition int) (*domain.Block, error) {
	row, block, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return nil, err
	}
	if newPosition < 0 {
		return nil, fmt.Errorf("%w: position cannot be negative", domain.ErrInvalidInput)
	}

	if newParentBlockID != nil {
		if *newParentBlockID == blockID {
			return nil, fmt.Errorf("%w: block cannot be its own parent", domain.ErrInvalidInput)
		}
		_, parent, err := getBlockRow(ctx, s.rows, orgID, *newParentBlockID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent block %s", domain.ErrNotFound, *newParentBlockID)
			}
			return nil, err
		}
		if parent.PageID != block.PageID {
			return nil, fmt.Errorf("%w: parent block %s belongs to a different page", domain.ErrInvalidInput, parent.ID)
		}

		descendant, err := s.positions.IsSelfOrDescendant(
			ctx, tableBlocks, "block_id", "parent_block_id", orgID, blockID, *newParentBlockID)
		if err != nil {
			return nil, err
		}
		if descendant {
			return nil, fmt.Errorf("%w: block %s is a descendant of %s", domain.ErrInvalidInput, *newParentBlockID, blockID)
		}
	}

	scope := blockScope(orgID, block.PageID, newParentBlockID)
	if _, err := s.positions.MakeRoom(ctx, tableBlocks, scope, newPosition); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	update := map[string]any{
		"position":   newPosition,
		"updated_at": now.Format(time.RFC3339Nano),
	}
	if newParentBlockID != nil {
		update["parent_block_id"] = *newParentBlockID
	} else {
		update["parent_block_id"] = nil
	}

	if _, err := s.rows.Patch(ctx, tableBlocks, row.ID, update); err != nil {
		return nil, fmt.Errorf("move block: %w", err)
	}

	block.ParentID = newParentBlockID
	block.Position = newPosition
	block.UpdatedAt = now

	logger.Debug("Moved block %s to position %d", blockID, newPosition)
	return block, nil
}

// Convert changes the block's kind, carrying text across where the
// kinds share a textual representation. The embedding is replaced
// since the searchable text may change shape.
func (s *BlockService) Convert(ctx context.Context, orgID, blockID string, newKind domain.BlockKind) (*domain.Block, error) {
	row, block, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return nil, err
	}
	if block.Kind == newKind {
		return block, nil
	}

	content, err := domain.ConvertContent(block.Content, newKind)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if _, err := s.rows.Patch(ctx, tableBlocks, row.ID, map[string]any{
		"block_type": string(newKind),
		"content":    content.Document(),
		"updated_at": now.Format(time.RFC3339Nano),
	}); err != nil {
		return nil, fmt.Errorf("convert block: %w", err)
	}

	block.Kind = newKind
	block.Content = content
	block.UpdatedAt = now

	s.reindex(ctx, row.ID, block)

	logger.Debug("Converted block %s to %s", blockID, newKind)
	return block, nil
}

// Archive soft-deletes a block. The stored vector is left in place;
// search drops archived blocks after row resolution, so a stale vector
// can never surface one.
func (s *BlockService) Archive(ctx context.Context, orgID, blockID string) error {
	row, block, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return err
	}
	if block.Archived {
		return nil
	}

	if _, err := s.rows.Patch(ctx, tableBlocks, row.ID, map[string]any{
		"is_archived": true,
		"updated_at":  s.now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("archive block: %w", err)
	}

	logger.Debug("Archived block %s", blockID)
	return nil
}

// index stores an embedding for a freshly created block and records
// the vector reference on its row. Failures are logged, not returned;
// the block exists either way.
func (s *BlockService) index(ctx context.Context, rowID string, block *domain.Block) {
	text := block.SearchableText()
	if text == "" {
		return
	}

	stored, err := s.vectors.EmbedAndStore(ctx, text, s.namespace, map[string]any{
		"block_id":        block.ID,
		"block_type":      string(block.Kind),
		"page_id":         block.PageID,
		"organization_id": block.OrganizationID,
	})
	if err != nil {
		logger.Warn("Embedding for block %s failed, block stays unindexed: %v", block.ID, err)
		return
	}

	if _, err := s.rows.Patch(ctx, tableBlocks, rowID, map[string]any{
		"vector_id":         stored.VectorID,
		"vector_dimensions": stored.Dimensions,
	}); err != nil {
		logger.Warn("Recording vector reference for block %s failed: %v", block.ID, err)
		return
	}

	block.VectorID = &stored.VectorID
	block.VectorDimensions = stored.Dimensions
}

// reindex replaces a block's embedding after a content change. The old
// vector is deleted first so the namespace never holds two vectors for
// one block.
func (s *BlockService) reindex(ctx context.Context, rowID string, block *domain.Block) {
	if block.VectorID != nil && *block.VectorID != "" {
		if err := s.vectors.Delete(ctx, *block.VectorID); err != nil {
			logger.Warn("Deleting stale vector %s for block %s failed: %v", *block.VectorID, block.ID, err)
		}
		block.VectorID = nil
		block.VectorDimensions = 0
	}
	s.index(ctx, rowID, block)
}
