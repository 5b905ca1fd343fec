package domain

import "time"

// LinkKind classifies a link edge.
type LinkKind string

const (
	// LinkReference is a plain reference to another block or page.
	LinkReference LinkKind = "reference"

	// LinkEmbed embeds the target's content at the source.
	LinkEmbed LinkKind = "embed"

	// LinkMention is an inline mention of the target.
	LinkMention LinkKind = "mention"
)

// ValidLinkKind reports whether k is a known link kind.
func ValidLinkKind(k LinkKind) bool {
	switch k {
	case LinkReference, LinkEmbed, LinkMention:
		return true
	}
	return false
}

// Link is a directed edge from a block to another block or to a page.
// Exactly one of TargetBlockID and TargetPageID is set.
type Link struct {
	// ID is the unique link identifier.
	ID string

	// SourceBlockID is the block containing the link.
	SourceBlockID string

	// TargetBlockID is the linked block, empty for page links.
	TargetBlockID string

	// TargetPageID is the linked page, empty for block links.
	TargetPageID string

	// Kind classifies the edge.
	Kind LinkKind

	// OrganizationID is the tenant boundary.
	OrganizationID string

	// CreatedAt is when the link was created.
	CreatedAt time.Time
}

// IsPageLink reports whether the edge targets a page.
func (l *Link) IsPageLink() bool { return l.TargetPageID != "" }

// Document returns the storable representation of the link.
func (l *Link) Document() map[string]any {
	doc := map[string]any{
		"link_id":         l.ID,
		"source_block_id": l.SourceBlockID,
		"link_type":       string(l.Kind),
		"organization_id": l.OrganizationID,
		"created_at":      timeDoc(l.CreatedAt),
	}
	if l.TargetBlockID != "" {
		doc["target_block_id"] = l.TargetBlockID
		doc["target_page_id"] = nil
	} else {
		doc["target_block_id"] = nil
		doc["target_page_id"] = l.TargetPageID
	}
	return doc
}

// LinkFromDocument decodes a stored link row.
func LinkFromDocument(doc map[string]any) *Link {
	return &Link{
		ID:             docString(doc, "link_id"),
		SourceBlockID:  docString(doc, "source_block_id"),
		TargetBlockID:  docString(doc, "target_block_id"),
		TargetPageID:   docString(doc, "target_page_id"),
		Kind:           LinkKind(docString(doc, "link_type")),
		OrganizationID: docString(doc, "organization_id"),
		CreatedAt:      docTime(doc, "created_at"),
	}
}

// Backlink is a resolved incoming edge: the link record plus its
// source block and the archival state of the target. Archived targets
// still resolve, for audit visibility, but are flagged.
type Backlink struct {
	// Link is the edge record.
	Link Link

	// Source is the block containing the link, nil if it has since
	// been removed.
	Source *Block

	// TargetArchived reports whether the link target is archived.
	TargetArchived bool
}
