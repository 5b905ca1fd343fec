package domain

import "time"

// Page represents a workspace page. Pages nest under other pages and
// own an ordered list of blocks.
type Page struct {
	// ID is the unique page identifier.
	ID string

	// OrganizationID is the tenant boundary. Every query and mutation
	// is scoped to it.
	OrganizationID string

	// UserID identifies the user who created the page.
	UserID string

	// Title is the human-readable page title.
	Title string

	// Icon is an emoji or icon identifier.
	Icon string

	// CoverImage is a URL or file reference for the page cover.
	CoverImage string

	// ParentID links to the owning page, nil for root pages.
	ParentID *string

	// Position orders the page among its siblings. Positions are not
	// required to be contiguous; ties are broken by CreatedAt, then ID.
	Position int

	// Archived marks the page as soft-deleted. Archived pages are
	// excluded from ordering and search but retained for audit.
	Archived bool

	// Favorite marks the page as a user favorite.
	Favorite bool

	// CreatedAt is when the page was created.
	CreatedAt time.Time

	// UpdatedAt is when the page was last modified.
	UpdatedAt time.Time

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// Document returns the storable representation of the page.
func (p *Page) Document() map[string]any {
	doc := map[string]any{
		"page_id":         p.ID,
		"organization_id": p.OrganizationID,
		"user_id":         p.UserID,
		"title":           p.Title,
		"icon":            p.Icon,
		"cover_image":     p.CoverImage,
		"position":        p.Position,
		"is_archived":     p.Archived,
		"is_favorite":     p.Favorite,
		"created_at":      timeDoc(p.CreatedAt),
		"updated_at":      timeDoc(p.UpdatedAt),
		"metadata":        p.Metadata,
	}
	if p.ParentID != nil {
		doc["parent_page_id"] = *p.ParentID
	} else {
		doc["parent_page_id"] = nil
	}
	return doc
}

// PageFromDocument decodes a stored page row.
func PageFromDocument(doc map[string]any) *Page {
	return &Page{
		ID:             docString(doc, "page_id"),
		OrganizationID: docString(doc, "organization_id"),
		UserID:         docString(doc, "user_id"),
		Title:          docString(doc, "title"),
		Icon:           docString(doc, "icon"),
		CoverImage:     docString(doc, "cover_image"),
		ParentID:       docStringPtr(doc, "parent_page_id"),
		Position:       docInt(doc, "position"),
		Archived:       docBool(doc, "is_archived"),
		Favorite:       docBool(doc, "is_favorite"),
		CreatedAt:      docTime(doc, "created_at"),
		UpdatedAt:      docTime(doc, "updated_at"),
		Metadata:       docMap(doc, "metadata"),
	}
}
