package driving

import (
	"context"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

// TagSort selects the ordering of a tag listing.
type TagSort string

const (
	// TagSortName orders tags alphabetically.
	TagSortName TagSort = "name"

	// TagSortUsage orders tags by usage count, most used first.
	TagSortUsage TagSort = "usage_count"
)

// UpdateTagRequest carries partial tag updates. Nil fields are left
// unchanged.
type UpdateTagRequest struct {
	Name        *string
	Color       *string
	Description *string
}

// TagService manages tenant-scoped tags and their block assignments.
type TagService interface {
	// Create creates a tag. Duplicate names within an organization
	// return domain.ErrAlreadyExists.
	Create(ctx context.Context, orgID, name, color, description string) (*domain.Tag, error)

	// List returns the organization's tags in the requested order.
	List(ctx context.Context, orgID string, sort TagSort, limit, offset int) ([]domain.Tag, error)

	// Update applies a partial update; renaming onto an existing name
	// returns domain.ErrAlreadyExists.
	Update(ctx context.Context, orgID, tagID string, req UpdateTagRequest) (*domain.Tag, error)

	// Delete removes a tag and all its assignments.
	Delete(ctx context.Context, orgID, tagID string) error

	// Assign tags a block and increments the tag's usage count once.
	// Assigning an already assigned tag returns domain.ErrAlreadyExists
	// without incrementing.
	Assign(ctx context.Context, orgID, tagID, blockID string) (*domain.TagAssignment, error)

	// Unassign removes a tag from a block and decrements the usage
	// count, never below zero.
	Unassign(ctx context.Context, orgID, tagID, blockID string) error

	// TagsForBlock returns the tags assigned to a block, most used
	// first.
	TagsForBlock(ctx context.Context, orgID, blockID string) ([]domain.Tag, error)
}
