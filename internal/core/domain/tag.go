package domain

import "time"

// Tag is a tenant-scoped label. Names are unique within an
// organization; UsageCount tracks how many blocks carry the tag.
type Tag struct {
	// ID is the unique tag identifier.
	ID string

	// OrganizationID is the tenant boundary.
	OrganizationID string

	// Name is the tag name, unique per organization.
	Name string

	// Color is a display hint.
	Color string

	// Description explains the tag's purpose.
	Description string

	// UsageCount is incremented once per assignment and decremented
	// once per removal. Never negative.
	UsageCount int

	// CreatedAt is when the tag was created.
	CreatedAt time.Time
}

// Document returns the storable representation of the tag.
func (t *Tag) Document() map[string]any {
	return map[string]any{
		"tag_id":          t.ID,
		"organization_id": t.OrganizationID,
		"name":            t.Name,
		"color":           t.Color,
		"description":     t.Description,
		"usage_count":     t.UsageCount,
		"created_at":      timeDoc(t.CreatedAt),
	}
}

// TagFromDocument decodes a stored tag row.
func TagFromDocument(doc map[string]any) *Tag {
	return &Tag{
		ID:             docString(doc, "tag_id"),
		OrganizationID: docString(doc, "organization_id"),
		Name:           docString(doc, "name"),
		Color:          docString(doc, "color"),
		Description:    docString(doc, "description"),
		UsageCount:     docInt(doc, "usage_count"),
		CreatedAt:      docTime(doc, "created_at"),
	}
}

// TagAssignment binds a tag to a block. Assignments are hard-deleted
// on removal.
type TagAssignment struct {
	// ID is the unique assignment identifier.
	ID string

	// TagID is the assigned tag.
	TagID string

	// BlockID is the tagged block.
	BlockID string

	// OrganizationID is the tenant boundary.
	OrganizationID string

	// CreatedAt is when the assignment was made.
	CreatedAt time.Time
}

// Document returns the storable representation of the assignment.
func (a *TagAssignment) Document() map[string]any {
	return map[string]any{
		"assignment_id":   a.ID,
		"tag_id":          a.TagID,
		"block_id":        a.BlockID,
		"organization_id": a.OrganizationID,
		"created_at":      timeDoc(a.CreatedAt),
	}
}

// TagAssignmentFromDocument decodes a stored assignment row.
func TagAssignmentFromDocument(doc map[string]any) *TagAssignment {
	return &TagAssignment{
		ID:             docString(doc, "assignment_id"),
		TagID:          docString(doc, "tag_id"),
		BlockID:        docString(doc, "block_id"),
		OrganizationID: docString(doc, "organization_id"),
		CreatedAt:      docTime(doc, "created_at"),
	}
}
