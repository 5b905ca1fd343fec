package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContent(t *testing.T) {
	tests := []struct {
		name    string
		kind    BlockKind
		raw     map[string]any
		wantErr bool
		check   func(t *testing.T, c BlockContent)
	}{
		{
			name: "text",
			kind: BlockText,
			raw:  map[string]any{"text": "hello"},
			check: func(t *testing.T, c BlockContent) {
				assert.Equal(t, "hello", c.SearchableText())
			},
		},
		{
			name: "heading defaults to level 1",
			kind: BlockHeading,
			raw:  map[string]any{"text": "title"},
			check: func(t *testing.T, c BlockContent) {
				assert.Equal(t, 1, c.(HeadingContent).Level)
			},
		},
		{
			name:    "heading rejects level out of range",
			kind:    BlockHeading,
			raw:     map[string]any{"text": "title", "level": 4},
			wantErr: true,
		},
		{
			name: "list joins items for search",
			kind: BlockList,
			raw:  map[string]any{"items": []any{"one", "two"}},
			check: func(t *testing.T, c BlockContent) {
				assert.Equal(t, "one\ntwo", c.SearchableText())
			},
		},
		{
			name: "task",
			kind: BlockTask,
			raw:  map[string]any{"text": "ship it", "checked": true},
			check: func(t *testing.T, c BlockContent) {
				assert.True(t, c.(TaskContent).Checked)
			},
		},
		{
			name:    "link requires url",
			kind:    BlockLink,
			raw:     map[string]any{"text": "docs"},
			wantErr: true,
		},
		{
			name:    "page link requires target",
			kind:    BlockPageLink,
			raw:     map[string]any{"displayText": "see also"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			kind:    "gallery",
			raw:     map[string]any{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseContent(tt.kind, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, tt.kind, c.Kind())
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestConvertContentTextToList(t *testing.T) {
	c, err := ConvertContent(TextContent{Text: "a\nb\nc"}, BlockList)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, c.(ListContent).Items)
}

func TestConvertContentListToText(t *testing.T) {
	c, err := ConvertContent(ListContent{Items: []string{"a", "b"}}, BlockText)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", c.(TextContent).Text)
}

func TestConvertContentToTaskStartsUnchecked(t *testing.T) {
	c, err := ConvertContent(HeadingContent{Text: "do this", Level: 2}, BlockTask)
	require.NoError(t, err)
	task := c.(TaskContent)
	assert.Equal(t, "do this", task.Text)
	assert.False(t, task.Checked)
}

func TestConvertContentCannotInventTargets(t *testing.T) {
	_, err := ConvertContent(TextContent{Text: "no url"}, BlockLink)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ConvertContent(TextContent{Text: "no page"}, BlockPageLink)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConvertContentLinkKeepsTarget(t *testing.T) {
	link := LinkContent{Text: "docs", URL: "https://example.com"}

	c, err := ConvertContent(link, BlockText)
	require.NoError(t, err)
	assert.Equal(t, "docs", c.(TextContent).Text)

	back, err := ConvertContent(link, BlockLink)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", back.(LinkContent).URL)
}

func TestHighlights(t *testing.T) {
	got := Highlights("Plan the storage migration, plan it", "the migration plan for storage")
	assert.Equal(t, []string{"plan", "the", "storage", "migration"}, got,
		"terms of three or more characters, query order, deduplicated")

	assert.Empty(t, Highlights("an of to", "short words everywhere"))
	assert.Empty(t, Highlights("absent", "nothing matches here"))
}

func TestParseSearchType(t *testing.T) {
	st, err := ParseSearchType("")
	require.NoError(t, err)
	assert.Equal(t, SearchHybrid, st)

	_, err = ParseSearchType("fuzzy")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
