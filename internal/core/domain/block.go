package domain

import "time"

// Block represents an ordered content unit within a page. Blocks nest
// under other blocks of the same page via ParentID.
type Block struct {
	// ID is the unique block identifier.
	ID string

	// PageID is the page this block belongs to.
	PageID string

	// OrganizationID is the tenant boundary.
	OrganizationID string

	// UserID identifies the user who created the block.
	UserID string

	// Kind identifies the content payload shape.
	Kind BlockKind

	// Content is the typed payload for Kind.
	Content BlockContent

	// Properties contains presentation attributes (color, collapsed...).
	Properties map[string]any

	// ParentID links to a parent block for nesting, nil for page-level
	// blocks.
	ParentID *string

	// Position orders the block among its siblings. Ties are broken by
	// CreatedAt, then ID.
	Position int

	// VectorID references the stored embedding for this block's
	// searchable text. Nil when the payload yields no text.
	VectorID *string

	// VectorDimensions is the dimensionality of the stored embedding.
	VectorDimensions int

	// Archived marks the block as soft-deleted.
	Archived bool

	// CreatedAt is when the block was created.
	CreatedAt time.Time

	// UpdatedAt is when the block was last modified.
	UpdatedAt time.Time
}

// SearchableText returns the text that represents this block in the
// search index. Empty for payloads with no textual content.
func (b *Block) SearchableText() string {
	if b.Content == nil {
		return ""
	}
	return b.Content.SearchableText()
}

// Document returns the storable representation of the block.
func (b *Block) Document() map[string]any {
	doc := map[string]any{
		"block_id":        b.ID,
		"page_id":         b.PageID,
		"organization_id": b.OrganizationID,
		"user_id":         b.UserID,
		"block_type":      string(b.Kind),
		"position":        b.Position,
		"properties":      b.Properties,
		"is_archived":     b.Archived,
		"created_at":      timeDoc(b.CreatedAt),
		"updated_at":      timeDoc(b.UpdatedAt),
	}
	if b.Content != nil {
		doc["content"] = b.Content.Document()
	}
	if b.ParentID != nil {
		doc["parent_block_id"] = *b.ParentID
	} else {
		doc["parent_block_id"] = nil
	}
	if b.VectorID != nil {
		doc["vector_id"] = *b.VectorID
		doc["vector_dimensions"] = b.VectorDimensions
	} else {
		doc["vector_id"] = nil
	}
	return doc
}

// BlockFromDocument decodes a stored block row. The content payload is
// re-validated against the stored kind; a row with an unknown kind or
// a malformed payload is a data error.
func BlockFromDocument(doc map[string]any) (*Block, error) {
	kind := BlockKind(docString(doc, "block_type"))
	content, err := ParseContent(kind, docMap(doc, "content"))
	if err != nil {
		return nil, err
	}
	b := &Block{
		ID:               docString(doc, "block_id"),
		PageID:           docString(doc, "page_id"),
		OrganizationID:   docString(doc, "organization_id"),
		UserID:           docString(doc, "user_id"),
		Kind:             kind,
		Content:          content,
		Properties:       docMap(doc, "properties"),
		ParentID:         docStringPtr(doc, "parent_block_id"),
		Position:         docInt(doc, "position"),
		VectorID:         docStringPtr(doc, "vector_id"),
		VectorDimensions: docInt(doc, "vector_dimensions"),
		Archived:         docBool(doc, "is_archived"),
		CreatedAt:        docTime(doc, "created_at"),
		UpdatedAt:        docTime(doc, "updated_at"),
	}
	return b, nil
}
