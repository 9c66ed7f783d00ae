package notion

import (
	"testing"

	"refsync/core/document"
	"refsync/core/errors"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBlock(t *testing.T, raw string) *Block {
	t.Helper()
	var b Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return &b
}

func TestToNode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want document.Node
	}{
		{
			name: "paragraph with legacy text key",
			raw:  `{"type":"paragraph","paragraph":{"text":[{"type":"text","text":{"content":"hi"}}]}}`,
			want: &document.Paragraph{Text: []document.Run{{Text: "hi"}}},
		},
		{
			name: "heading",
			raw:  `{"type":"heading_2","heading_2":{"rich_text":[{"type":"text","text":{"content":"Intro"}}]}}`,
			want: &document.Heading{Level: 2, Text: []document.Run{{Text: "Intro"}}},
		},
		{
			name: "checked todo",
			raw:  `{"type":"to_do","to_do":{"rich_text":[],"checked":true}}`,
			want: &document.Todo{Text: []document.Run{}, Checked: true},
		},
		{
			name: "external image",
			raw:  `{"type":"image","image":{"type":"external","external":{"url":"https://x/y.png"},"caption":[]}}`,
			want: &document.Image{URL: "https://x/y.png", Caption: []document.Run{}},
		},
		{
			name: "unknown type",
			raw:  `{"type":"synced_block","synced_block":{}}`,
			want: &document.Unsupported{Type: "synced_block"},
		},
		{
			name: "child database without rows",
			raw:  `{"type":"child_database","child_database":{"title":"Tasks"}}`,
			want: &document.ChildDatabase{Title: "Tasks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNode(decodeBlock(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToNodeMissingPayload(t *testing.T) {
	_, err := ToNode(&Block{Type: "paragraph"})
	assert.ErrorIs(t, err, errors.ErrUnsupportedNodeKind)
}

func TestFromNode(t *testing.T) {
	item := &document.BulletedItem{Text: []document.Run{{Text: "bold", Annotations: document.Annotations{Bold: true}}}}
	item.AppendChild(&document.Code{Text: document.Plain("x := 1")})

	b, err := FromNode(item)
	require.NoError(t, err)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"object": "block",
		"type": "bulleted_list_item",
		"bulleted_list_item": {
			"rich_text": [{"type":"text","text":{"content":"bold"},"annotations":{"bold":true,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"}}],
			"children": [{
				"object": "block",
				"type": "code",
				"code": {"rich_text":[{"type":"text","text":{"content":"x := 1"}}],"language":"plain text"}
			}]
		}
	}`, string(out))

	back, err := ToNode(decodeBlock(t, string(out)))
	require.NoError(t, err)
	children, err := document.Children(back)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, document.KindCode, children[0].Kind())
}

func TestFromNodeRejectsChildPages(t *testing.T) {
	_, err := FromNode(&document.ChildPage{Title: "Nested"})
	assert.ErrorIs(t, err, errors.ErrUnsupportedNodeKind)
}

func TestParseID(t *testing.T) {
	const want = "1429989f-e8ac-4eff-bc8f-57f56486db54"
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{name: "dashed", ref: want},
		{name: "undashed", ref: "1429989fe8ac4effbc8f57f56486db54"},
		{name: "url", ref: "https://www.notion.so/acme/Reading-List-1429989fe8ac4effbc8f57f56486db54?v=abc"},
		{name: "garbage", ref: "not-an-id", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
