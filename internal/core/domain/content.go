package domain

import (
	"fmt"
	"strings"
)

// BlockKind identifies the shape of a block's content payload.
type BlockKind string

const (
	BlockText     BlockKind = "text"
	BlockHeading  BlockKind = "heading"
	BlockList     BlockKind = "list"
	BlockTask     BlockKind = "task"
	BlockLink     BlockKind = "link"
	BlockPageLink BlockKind = "page_link"
)

// ValidBlockKind reports whether k is a known block kind.
func ValidBlockKind(k BlockKind) bool {
	switch k {
	case BlockText, BlockHeading, BlockList, BlockTask, BlockLink, BlockPageLink:
		return true
	}
	return false
}

// BlockContent is the tagged union over block payloads. Each kind
// carries its own strongly typed case; payloads are validated by
// ParseContent before they enter the repository.
type BlockContent interface {
	// Kind returns the block kind this payload belongs to.
	Kind() BlockKind

	// SearchableText returns the text used for embedding generation.
	// An empty result means the block is not indexed for search.
	SearchableText() string

	// Document returns the storable representation of the payload.
	Document() map[string]any
}

// TextContent is the payload of a plain text block.
type TextContent struct {
	Text string
}

func (c TextContent) Kind() BlockKind        { return BlockText }
func (c TextContent) SearchableText() string { return c.Text }
func (c TextContent) Document() map[string]any {
	return map[string]any{"text": c.Text}
}

// HeadingContent is the payload of a heading block.
type HeadingContent struct {
	Text  string
	Level int
}

func (c HeadingContent) Kind() BlockKind        { return BlockHeading }
func (c HeadingContent) SearchableText() string { return c.Text }
func (c HeadingContent) Document() map[string]any {
	return map[string]any{"text": c.Text, "level": c.Level}
}

// ListContent is the payload of a list block.
type ListContent struct {
	Items []string
}

func (c ListContent) Kind() BlockKind        { return BlockList }
func (c ListContent) SearchableText() string { return strings.Join(c.Items, "\n") }
func (c ListContent) Document() map[string]any {
	items := make([]any, len(c.Items))
	for i, it := range c.Items {
		items[i] = it
	}
	return map[string]any{"items": items}
}

// TaskContent is the payload of a task block.
type TaskContent struct {
	Text    string
	Checked bool
}

func (c TaskContent) Kind() BlockKind        { return BlockTask }
func (c TaskContent) SearchableText() string { return c.Text }
func (c TaskContent) Document() map[string]any {
	return map[string]any{"text": c.Text, "checked": c.Checked}
}

// LinkContent is the payload of an external link block.
type LinkContent struct {
	Text string
	URL  string
}

func (c LinkContent) Kind() BlockKind        { return BlockLink }
func (c LinkContent) SearchableText() string { return c.Text }
func (c LinkContent) Document() map[string]any {
	return map[string]any{"text": c.Text, "url": c.URL}
}

// PageLinkContent is the payload of an internal page link block.
type PageLinkContent struct {
	LinkedPageID string
	DisplayText  string
}

func (c PageLinkContent) Kind() BlockKind        { return BlockPageLink }
func (c PageLinkContent) SearchableText() string { return c.DisplayText }
func (c PageLinkContent) Document() map[string]any {
	return map[string]any{"linkedPageId": c.LinkedPageID, "displayText": c.DisplayText}
}

// ParseContent validates a raw payload against the given kind and
// returns the typed case. It is the single entry point for payloads
// crossing the boundary into the repository.
func ParseContent(kind BlockKind, raw map[string]any) (BlockContent, error) {
	if !ValidBlockKind(kind) {
		return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, kind)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	switch kind {
	case BlockText:
		return TextContent{Text: docString(raw, "text")}, nil

	case BlockHeading:
		level := docInt(raw, "level")
		if level == 0 {
			level = 1
		}
		if level < 1 || level > 3 {
			return nil, fmt.Errorf("%w: heading level must be 1-3, got %d", ErrInvalidInput, level)
		}
		return HeadingContent{Text: docString(raw, "text"), Level: level}, nil

	case BlockList:
		return ListContent{Items: docStrings(raw, "items")}, nil

	case BlockTask:
		return TaskContent{Text: docString(raw, "text"), Checked: docBool(raw, "checked")}, nil

	case BlockLink:
		u := docString(raw, "url")
		if u == "" {
			return nil, fmt.Errorf("%w: link block requires a url", ErrInvalidInput)
		}
		return LinkContent{Text: docString(raw, "text"), URL: u}, nil

	case BlockPageLink:
		id := docString(raw, "linkedPageId")
		if id == "" {
			return nil, fmt.Errorf("%w: page_link block requires linkedPageId", ErrInvalidInput)
		}
		return PageLinkContent{LinkedPageID: id, DisplayText: docString(raw, "displayText")}, nil
	}

	return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, kind)
}

// ConvertContent converts a payload to a different kind, preserving
// text where the kinds share a textual representation:
//
//   - text/heading/task/link keep their text
//   - converting to list splits that text on newlines; converting from
//     list joins its items with newlines
//   - converting to task starts unchecked
//   - link and page_link targets cannot be invented, so converting TO
//     those kinds requires the source to already carry one
func ConvertContent(from BlockContent, to BlockKind) (BlockContent, error) {
	if !ValidBlockKind(to) {
		return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, to)
	}
	if from.Kind() == to {
		return from, nil
	}

	text := from.SearchableText()

	switch to {
	case BlockText:
		return TextContent{Text: text}, nil
	case BlockHeading:
		return HeadingContent{Text: text, Level: 1}, nil
	case BlockTask:
		return TaskContent{Text: text, Checked: false}, nil
	case BlockList:
		var items []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
		return ListContent{Items: items}, nil
	case BlockLink:
		lc, ok := from.(LinkContent)
		if !ok {
			return nil, fmt.Errorf("%w: cannot convert %s block to link without a url", ErrInvalidInput, from.Kind())
		}
		return lc, nil
	case BlockPageLink:
		plc, ok := from.(PageLinkContent)
		if !ok {
			return nil, fmt.Errorf("%w: cannot convert %s block to page_link without a target page", ErrInvalidInput, from.Kind())
		}
		return plc, nil
	}

	return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, to)
}
