package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// Ensure LinkService implements the interface.
var _ driving.LinkService = (*LinkService)(nil)

// LinkService manages the directed link graph: edge creation with
// cycle prevention, edge deletion, and backlink resolution.
//
// The cycle check and the insert are not transactional. Two concurrent
// creates that are each acyclic but jointly close a cycle will both
// succeed; the gap is accepted and documented rather than papered
// over, and lives only here.
type LinkService struct {
	rows driven.RowStore
	now  func() time.Time
}

// NewLinkService creates a link service over the row store.
func NewLinkService(rows driven.RowStore) *LinkService {
	return &LinkService{rows: rows, now: time.Now}
}

// Create validates the endpoints and the link kind, runs the cycle
// pre-check for block targets, and stores the edge. A store failure
// during the traversal fails the whole call closed: no edge is
// written on an incomplete check.
func (s *LinkService) Create(ctx context.Context, orgID string, req driving.CreateLinkRequest) (*domain.Link, error) {
	logger.Section("Create Link")

	if !domain.ValidLinkKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown link type %q", domain.ErrInvalidInput, req.Kind)
	}
	if req.SourceBlockID == "" || req.TargetID == "" {
		return nil, fmt.Errorf("%w: source and target are required", domain.ErrInvalidInput)
	}

	if _, _, err := getBlockRow(ctx, s.rows, orgID, req.SourceBlockID); err != nil {
		return nil, err
	}

	link := &domain.Link{
		ID:             uuid.NewString(),
		SourceBlockID:  req.SourceBlockID,
		Kind:           req.Kind,
		OrganizationID: orgID,
		CreatedAt:      s.now().UTC(),
	}

	if req.IsPageLink {
		if _, _, err := getPageRow(ctx, s.rows, orgID, req.TargetID); err != nil {
			return nil, err
		}
		link.TargetPageID = req.TargetID
	} else {
		if _, _, err := getBlockRow(ctx, s.rows, orgID, req.TargetID); err != nil {
			return nil, err
		}

		cycle, err := s.wouldCreateCycle(ctx, orgID, req.SourceBlockID, req.TargetID)
		if err != nil {
			return nil, fmt.Errorf("cycle check: %w", err)
		}
		if cycle {
			logger.Info("Rejected link %s -> %s: would create a cycle", req.SourceBlockID, req.TargetID)
			return nil, fmt.Errorf("%w: linking %s to %s", domain.ErrCircularReference, req.SourceBlockID, req.TargetID)
		}
		link.TargetBlockID = req.TargetID
	}

	if _, err := s.rows.Insert(ctx, tableLinks, link.Document()); err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}

	logger.Debug("Created link %s (%s)", link.ID, link.Kind)
	return link, nil
}

// wouldCreateCycle runs a bounded depth-first traversal from the
// proposed target along forward edges (edges whose source is the
// frontier node), looking for the proposed source. Visited tracking
// terminates shared sub-paths; the step bound is the tenant's edge
// count, so the walk terminates even on corrupted data.
func (s *LinkService) wouldCreateCycle(ctx context.Context, orgID, sourceID, targetID string) (bool, error) {
	if sourceID == targetID {
		return true, nil
	}

	counted, err := s.rows.Query(ctx, tableLinks, driven.Filter{"organization_id": orgID}, 1, 0)
	if err != nil {
		return false, err
	}
	bound := counted.Total + 1

	visited := make(map[string]bool)
	stack := []string{targetID}
	steps := 0

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		steps++
		if steps > bound {
			logger.Warn("Cycle traversal exceeded edge bound %d, stopping", bound)
			break
		}

		out, err := s.rows.Query(ctx, tableLinks, driven.Filter{
			"organization_id": orgID,
			"source_block_id": current,
		}, siblingQueryLimit, 0)
		if err != nil {
			return false, err
		}

		for _, row := range out.Rows {
			edge := domain.LinkFromDocument(row.Document)
			next := edge.TargetBlockID
			if next == "" {
				// Page targets have no outgoing block edges.
				continue
			}
			if next == sourceID {
				return true, nil
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	return false, nil
}

// Delete hard-deletes an edge by id within the organization. A missing
// edge is a NotFound, so callers can tell "nothing to do" from
// "succeeded".
func (s *LinkService) Delete(ctx context.Context, orgID, linkID string) error {
	row, err := findRow(ctx, s.rows, tableLinks, driven.Filter{
		"link_id":         linkID,
		"organization_id": orgID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: link %s", domain.ErrNotFound, linkID)
		}
		return fmt.Errorf("locate link %s: %w", linkID, err)
	}

	if err := s.rows.Delete(ctx, tableLinks, row.ID); err != nil {
		return fmt.Errorf("delete link %s: %w", linkID, err)
	}

	logger.Debug("Deleted link %s", linkID)
	return nil
}

// BlockBacklinks returns all edges targeting the block, each resolved
// to its source block. The target may be archived; the edges still
// resolve, flagged, for audit visibility.
func (s *LinkService) BlockBacklinks(ctx context.Context, orgID, blockID string) ([]domain.Backlink, error) {
	_, target, err := getBlockRow(ctx, s.rows, orgID, blockID)
	if err != nil {
		return nil, err
	}
	return s.backlinks(ctx, orgID, driven.Filter{
		"organization_id": orgID,
		"target_block_id": blockID,
	}, target.Archived)
}

// PageBacklinks returns all edges targeting the page.
func (s *LinkService) PageBacklinks(ctx context.Context, orgID, pageID string) ([]domain.Backlink, error) {
	_, target, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return nil, err
	}
	return s.backlinks(ctx, orgID, driven.Filter{
		"organization_id": orgID,
		"target_page_id":  pageID,
	}, target.Archived)
}

func (s *LinkService) backlinks(ctx context.Context, orgID string, filter driven.Filter, targetArchived bool) ([]domain.Backlink, error) {
	res, err := s.rows.Query(ctx, tableLinks, filter, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query backlinks: %w", err)
	}

	backlinks := make([]domain.Backlink, 0, len(res.Rows))
	for _, row := range res.Rows {
		edge := domain.LinkFromDocument(row.Document)

		bl := domain.Backlink{Link: *edge, TargetArchived: targetArchived}
		if _, source, err := getBlockRow(ctx, s.rows, orgID, edge.SourceBlockID); err == nil {
			bl.Source = source
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		backlinks = append(backlinks, bl)
	}

	logger.Debug("Resolved %d backlinks", len(backlinks))
	return backlinks, nil
}
