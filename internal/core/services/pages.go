package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// Ensure PageService implements the interface.
var _ driving.PageService = (*PageService)(nil)

// PageService manages workspace pages and their hierarchy. Sibling
// ordering is delegated to the position manager; archival is a soft
// flag, never a row delete.
type PageService struct {
	rows      driven.RowStore
	positions *PositionManager
	now       func() time.Time
}

// NewPageService creates a page service.
func NewPageService(rows driven.RowStore) *PageService {
	return &PageService{
		rows:      rows,
		positions: NewPositionManager(rows),
		now:       time.Now,
	}
}

// pageScope builds the sibling scope for a parent. A nil parent scopes
// to root pages; the nil filter value matches stored nulls.
func pageScope(orgID string, parentID *string) driven.Filter {
	scope := driven.Filter{"organization_id": orgID}
	if parentID != nil {
		scope["parent_page_id"] = *parentID
	} else {
		scope["parent_page_id"] = nil
	}
	return scope
}

// Create creates a page appended to the end of its parent's children.
func (s *PageService) Create(ctx context.Context, orgID, userID string, req driving.CreatePageRequest) (*domain.Page, error) {
	title := strings.TrimSpace(req.Title)
	if orgID == "" || userID == "" || title == "" {
		return nil, fmt.Errorf("%w: organization id, user id and title are required", domain.ErrInvalidInput)
	}

	if req.ParentID != nil {
		_, parent, err := getPageRow(ctx, s.rows, orgID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Archived {
			return nil, fmt.Errorf("%w: parent page %s is archived", domain.ErrInvalidInput, parent.ID)
		}
	}

	position, err := s.positions.NextPosition(ctx, tablePages, pageScope(orgID, req.ParentID))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	page := &domain.Page{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		UserID:         userID,
		Title:          title,
		Icon:           req.Icon,
		CoverImage:     req.CoverImage,
		ParentID:       req.ParentID,
		Position:       position,
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.rows.Insert(ctx, tablePages, page.Document()); err != nil {
		return nil, fmt.Errorf("insert page: %w", err)
	}

	logger.Debug("Created page %s at position %d", page.ID, page.Position)
	return page, nil
}

// Get retrieves a page by id within the organization.
func (s *PageService) Get(ctx context.Context, orgID, pageID string) (*domain.Page, error) {
	_, page, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// List returns pages matching the filters in sibling order: position
// ascending, then creation time, then id.
func (s *PageService) List(ctx context.Context, orgID string, filters driving.PageFilters, limit, offset int) ([]domain.Page, error) {
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = siblingQueryLimit
	}

	filter := driven.Filter{"organization_id": orgID}
	if filters.ParentID != nil {
		if inner := *filters.ParentID; inner != nil {
			filter["parent_page_id"] = *inner
		} else {
			filter["parent_page_id"] = nil
		}
	}
	if !filters.IncludeArchived {
		filter["is_archived"] = false
	}
	if filters.Favorite != nil {
		filter["is_favorite"] = *filters.Favorite
	}

	res, err := s.rows.Query(ctx, tablePages, filter, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}

	pages := make([]domain.Page, 0, len(res.Rows))
	for _, row := range res.Rows {
		pages = append(pages, *domain.PageFromDocument(row.Document))
	}

	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Position != pages[j].Position {
			return pages[i].Position < pages[j].Position
		}
		if !pages[i].CreatedAt.Equal(pages[j].CreatedAt) {
			return pages[i].CreatedAt.Before(pages[j].CreatedAt)
		}
		return pages[i].ID < pages[j].ID
	})

	if offset >= len(pages) {
		return []domain.Page{}, nil
	}
	end := offset + limit
	if end > len(pages) {
		end = len(pages)
	}
	return pages[offset:end], nil
}

// Update applies a partial update. Hierarchy changes go through Move,
// archival through Archive; neither is reachable from here.
func (s *PageService) Update(ctx context.Context, orgID, pageID string, req driving.UpdatePageRequest) (*domain.Page, error) {
	row, page, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return nil, err
	}

	update := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: page title cannot be empty", domain.ErrInvalidInput)
		}
		update["title"] = title
		page.Title = title
	}
	if req.Icon != nil {
		update["icon"] = *req.Icon
		page.Icon = *req.Icon
	}
	if req.CoverImage != nil {
		update["cover_image"] = *req.CoverImage
		page.CoverImage = *req.CoverImage
	}
	if req.Favorite != nil {
		update["is_favorite"] = *req.Favorite
		page.Favorite = *req.Favorite
	}
	if req.Metadata != nil {
		update["metadata"] = req.Metadata
		page.Metadata = req.Metadata
	}

	if len(update) == 0 {
		return page, nil
	}

	now := s.now().UTC()
	update["updated_at"] = now.Format(time.RFC3339Nano)
	page.UpdatedAt = now

	if _, err := s.rows.Patch(ctx, tablePages, row.ID, update); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return page, nil
}

// Archive soft-deletes a page. Descendant pages and blocks are left
// untouched; readers exclude content of archived pages at query time.
func (s *PageService) Archive(ctx context.Context, orgID, pageID string) error {
	row, page, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return err
	}
	if page.Archived {
		return nil
	}

	if _, err := s.rows.Patch(ctx, tablePages, row.ID, map[string]any{
		"is_archived": true,
		"updated_at":  s.now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("archive page: %w", err)
	}

	logger.Debug("Archived page %s", pageID)
	return nil
}

// Move re-parents a page and appends it to the end of the new parent's
// children. A page cannot move under itself or any of its descendants.
func (s *PageService) Move(ctx context.Context, orgID, pageID string, newParentID *string) (*domain.Page, error) {
	row, page, err := getPageRow(ctx, s.rows, orgID, pageID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == pageID {
			return nil, fmt.Errorf("%w: page cannot be its own parent", domain.ErrInvalidInput)
		}
		_, parent, err := getPageRow(ctx, s.rows, orgID, *newParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent page %s", domain.ErrNotFound, *newParentID)
			}
			return nil, err
		}
		if parent.Archived {
			return nil, fmt.Errorf("%w: parent page %s is archived", domain.ErrInvalidInput, parent.ID)
		}

		descendant, err := s.positions.IsSelfOrDescendant(
			ctx, tablePages, "page_id", "parent_page_id", orgID, pageID, *newParentID)
		if err != nil {
			return nil, err
		}
		if descendant {
			return nil, fmt.Errorf("%w: page %s is a descendant of %s", domain.ErrInvalidInput, *newParentID, pageID)
		}
	}

	position, err := s.positions.NextPosition(ctx, tablePages, pageScope(orgID, newParentID))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	update := map[string]any{
		"position":   position,
		"updated_at": now.Format(time.RFC3339Nano),
	}
	if newParentID != nil {
		update["parent_page_id"] = *newParentID
	} else {
		update["parent_page_id"] = nil
	}

	if _, err := s.rows.Patch(ctx, tablePages, row.ID, update); err != nil {
		return nil, fmt.Errorf("move page: %w", err)
	}

	page.ParentID = newParentID
	page.Position = position
	page.UpdatedAt = now

	logger.Debug("Moved page %s to position %d", pageID, position)
	return page, nil
}
