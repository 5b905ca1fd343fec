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

// Ensure TagService implements the interface.
var _ driving.TagService = (*TagService)(nil)

// TagService manages tenant-scoped tags and their block assignments.
// Uniqueness of tag names and assignment pairs is enforced by
// read-before-write; concurrent duplicate creates can race, which is
// acceptable for a labelling feature.
type TagService struct {
	rows driven.RowStore
	now  func() time.Time
}

// NewTagService creates a tag service.
func NewTagService(rows driven.RowStore) *TagService {
	return &TagService{rows: rows, now: time.Now}
}

// Create creates a tag. Names are unique within an organization.
func (s *TagService) Create(ctx context.Context, orgID, name, color, description string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if orgID == "" || name == "" {
		return nil, fmt.Errorf("%w: organization id and tag name are required", domain.ErrInvalidInput)
	}

	if _, err := s.tagByName(ctx, orgID, name); err == nil {
		return nil, fmt.Errorf("%w: tag %q", domain.ErrAlreadyExists, name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tag := &domain.Tag{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Color:          color,
		Description:    description,
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.rows.Insert(ctx, tableTags, tag.Document()); err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	logger.Debug("Created tag %s (%s)", tag.Name, tag.ID)
	return tag, nil
}

// List returns the organization's tags in the requested order. Ties on
// usage count fall back to name so the ordering is deterministic.
func (s *TagService) List(ctx context.Context, orgID string, sortBy driving.TagSort, limit, offset int) ([]domain.Tag, error) {
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = siblingQueryLimit
	}

	res, err := s.rows.Query(ctx, tableTags, driven.Filter{
		"organization_id": orgID,
	}, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(res.Rows))
	for _, row := range res.Rows {
		tags = append(tags, *domain.TagFromDocument(row.Document))
	}

	switch sortBy {
	case driving.TagSortUsage:
		sort.Slice(tags, func(i, j int) bool {
			if tags[i].UsageCount != tags[j].UsageCount {
				return tags[i].UsageCount > tags[j].UsageCount
			}
			return tags[i].Name < tags[j].Name
		})
	default:
		sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	}

	if offset >= len(tags) {
		return []domain.Tag{}, nil
	}
	end := offset + limit
	if end > len(tags) {
		end = len(tags)
	}
	return tags[offset:end], nil
}

// Update applies a partial update to a tag.
func (s *TagService) Update(ctx context.Context, orgID, tagID string, req driving.UpdateTagRequest) (*domain.Tag, error) {
	row, tag, err := s.getTag(ctx, orgID, tagID)
	if err != nil {
		return nil, err
	}

	update := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tag name cannot be empty", domain.ErrInvalidInput)
		}
		if name != tag.Name {
			if other, err := s.tagByName(ctx, orgID, name); err == nil && other.ID != tag.ID {
				return nil, fmt.Errorf("%w: tag %q", domain.ErrAlreadyExists, name)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			update["name"] = name
			tag.Name = name
		}
	}
	if req.Color != nil {
		update["color"] = *req.Color
		tag.Color = *req.Color
	}
	if req.Description != nil {
		update["description"] = *req.Description
		tag.Description = *req.Description
	}

	if len(update) == 0 {
		return tag, nil
	}
	if _, err := s.rows.Patch(ctx, tableTags, row.ID, update); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes a tag and hard-deletes all its assignments.
func (s *TagService) Delete(ctx context.Context, orgID, tagID string) error {
	row, _, err := s.getTag(ctx, orgID, tagID)
	if err != nil {
		return err
	}

	res, err := s.rows.Query(ctx, tableTagAssignments, driven.Filter{
		"organization_id": orgID,
		"tag_id":          tagID,
	}, siblingQueryLimit, 0)
	if err != nil {
		return fmt.Errorf("query tag assignments: %w", err)
	}
	for _, assignment := range res.Rows {
		if err := s.rows.Delete(ctx, tableTagAssignments, assignment.ID); err != nil {
			return fmt.Errorf("delete tag assignment: %w", err)
		}
	}

	if err := s.rows.Delete(ctx, tableTags, row.ID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	logger.Debug("Deleted tag %s with %d assignments", tagID, len(res.Rows))
	return nil
}

// Assign tags a block. The usage count increments exactly once per
// live assignment; a duplicate assignment is rejected before any
// write.
func (s *TagService) Assign(ctx context.Context, orgID, tagID, blockID string) (*domain.TagAssignment, error) {
	tagRow, tag, err := s.getTag(ctx, orgID, tagID)
	if err != nil {
		return nil, err
	}
	if _, _, err := getBlockRow(ctx, s.rows, orgID, blockID); err != nil {
		return nil, err
	}

	if _, err := s.getAssignment(ctx, orgID, tagID, blockID); err == nil {
		return nil, fmt.Errorf("%w: tag %s already assigned to block %s", domain.ErrAlreadyExists, tagID, blockID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	assignment := &domain.TagAssignment{
		ID:             uuid.NewString(),
		TagID:          tagID,
		BlockID:        blockID,
		OrganizationID: orgID,
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.rows.Insert(ctx, tableTagAssignments, assignment.Document()); err != nil {
		return nil, fmt.Errorf("insert tag assignment: %w", err)
	}

	if _, err := s.rows.Patch(ctx, tableTags, tagRow.ID, map[string]any{
		"usage_count": tag.UsageCount + 1,
	}); err != nil {
		return nil, fmt.Errorf("increment tag usage: %w", err)
	}

	return assignment, nil
}

// Unassign removes a tag from a block. The usage count never goes
// below zero, even if a count drifted out of step with assignments.
func (s *TagService) Unassign(ctx context.Context, orgID, tagID, blockID string) error {
	tagRow, tag, err := s.getTag(ctx, orgID, tagID)
	if err != nil {
		return err
	}

	assignmentRow, err := s.getAssignment(ctx, orgID, tagID, blockID)
	if err != nil {
		return err
	}
	if err := s.rows.Delete(ctx, tableTagAssignments, assignmentRow.ID); err != nil {
		return fmt.Errorf("delete tag assignment: %w", err)
	}

	next := tag.UsageCount - 1
	if next < 0 {
		next = 0
	}
	if _, err := s.rows.Patch(ctx, tableTags, tagRow.ID, map[string]any{
		"usage_count": next,
	}); err != nil {
		return fmt.Errorf("decrement tag usage: %w", err)
	}
	return nil
}

// TagsForBlock returns the tags assigned to a block, most used first.
// Assignments pointing at a tag that no longer exists are skipped.
func (s *TagService) TagsForBlock(ctx context.Context, orgID, blockID string) ([]domain.Tag, error) {
	if _, _, err := getBlockRow(ctx, s.rows, orgID, blockID); err != nil {
		return nil, err
	}

	res, err := s.rows.Query(ctx, tableTagAssignments, driven.Filter{
		"organization_id": orgID,
		"block_id":        blockID,
	}, siblingQueryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("query tag assignments: %w", err)
	}

	tags := make([]domain.Tag, 0, len(res.Rows))
	for _, row := range res.Rows {
		assignment := domain.TagAssignmentFromDocument(row.Document)
		_, tag, err := s.getTag(ctx, orgID, assignment.TagID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].UsageCount != tags[j].UsageCount {
			return tags[i].UsageCount > tags[j].UsageCount
		}
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

func (s *TagService) getTag(ctx context.Context, orgID, tagID string) (*driven.Row, *domain.Tag, error) {
	if orgID == "" || tagID == "" {
		return nil, nil, fmt.Errorf("%w: organization id and tag id are required", domain.ErrInvalidInput)
	}
	row, err := findRow(ctx, s.rows, tableTags, driven.Filter{
		"organization_id": orgID,
		"tag_id":          tagID,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: tag %s", domain.ErrNotFound, tagID)
	}
	if err != nil {
		return nil, nil, err
	}
	return row, domain.TagFromDocument(row.Document), nil
}

func (s *TagService) tagByName(ctx context.Context, orgID, name string) (*domain.Tag, error) {
	row, err := findRow(ctx, s.rows, tableTags, driven.Filter{
		"organization_id": orgID,
		"name":            name,
	})
	if err != nil {
		return nil, err
	}
	return domain.TagFromDocument(row.Document), nil
}

func (s *TagService) getAssignment(ctx context.Context, orgID, tagID, blockID string) (*driven.Row, error) {
	return findRow(ctx, s.rows, tableTagAssignments, driven.Filter{
		"organization_id": orgID,
		"tag_id":          tagID,
		"block_id":        blockID,
	})
}
