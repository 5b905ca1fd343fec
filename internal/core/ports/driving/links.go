package driving

import (
	"context"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

// CreateLinkRequest describes a new edge. TargetID names a block, or a
// page when IsPageLink is set; an edge targets exactly one of the two.
type CreateLinkRequest struct {
	SourceBlockID string
	TargetID      string
	Kind          domain.LinkKind
	IsPageLink    bool
}

// LinkService manages the directed link graph between content nodes.
type LinkService interface {
	// Create validates the endpoints, rejects edges that would close a
	// cycle, and stores the edge. Nothing is written when the cycle
	// check cannot complete.
	Create(ctx context.Context, orgID string, req CreateLinkRequest) (*domain.Link, error)

	// Delete hard-deletes an edge. Deleting an unknown edge returns
	// domain.ErrNotFound, never silent success.
	Delete(ctx context.Context, orgID, linkID string) error

	// BlockBacklinks returns all edges targeting the block. Does not
	// recurse.
	BlockBacklinks(ctx context.Context, orgID, blockID string) ([]domain.Backlink, error)

	// PageBacklinks returns all edges targeting the page.
	PageBacklinks(ctx context.Context, orgID, pageID string) ([]domain.Backlink, error)
}
