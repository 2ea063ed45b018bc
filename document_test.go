package pdfnodes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc(t *testing.T) *ParsedDoc {
	t.Helper()

	line := NewLineElement([4]float64{10, 700, 200, 712}, []TextSpan{
		{Text: "Introduction", IsBold: true, Size: 18},
	}, "")
	heading, err := NewTextElement(line.Text(), []*LineElement{line}, mustBbox(t, 0, 10, 700, 200, 712), fixedTokens)
	require.NoError(t, err)
	body := textAt(t, "Body text", 0, 10, 600, 300, 690)
	table := tableAt(t, "| a | b |", 1, 10, 500, 300, 600)

	return &ParsedDoc{
		Nodes: []*Node{
			mustNode(t, heading),
			mustNode(t, body),
			mustNode(t, table),
		},
		FileMetadata: FileMetadata{Filename: "sample.pdf", NumPages: 2},
	}
}

func TestParsedDoc_Tokens(t *testing.T) {
	doc := sampleDoc(t)
	expected := 0
	for _, n := range doc.Nodes {
		expected += n.Tokens()
	}
	assert.Equal(t, expected, doc.Tokens())
	assert.Equal(t, 0, (&ParsedDoc{}).Tokens())
}

func TestParsedDoc_MarshalJSONValueAndPointerAgree(t *testing.T) {
	doc := sampleDoc(t)

	fromPointer, err := json.Marshal(doc)
	require.NoError(t, err)
	fromValue, err := json.Marshal(*doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(fromPointer), string(fromValue))

	wrapped, err := json.Marshal(struct {
		Doc ParsedDoc `json:"doc"`
	}{Doc: *doc})
	require.NoError(t, err)
	assert.Contains(t, string(wrapped), `"version":"`+SerializationVersion+`"`)
	assert.Contains(t, string(wrapped), `"text":"**Introduction**"`)
	assert.NotContains(t, string(wrapped), `{}`)
}

func TestParsedDoc_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleDoc(t))
	require.NoError(t, err)

	var out struct {
		Version      string       `json:"version"`
		FileMetadata FileMetadata `json:"file_metadata"`
		Nodes        []struct {
			Text     string            `json:"text"`
			Tokens   int               `json:"tokens"`
			Bbox     []Bbox            `json:"bbox"`
			Position AggregatePosition `json:"aggregate_position"`
			Elements []struct {
				Variant string `json:"variant"`
				Lines   []struct {
					Text  string     `json:"text"`
					Spans []TextSpan `json:"spans"`
				} `json:"lines"`
			} `json:"elements"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, SerializationVersion, out.Version)
	assert.Equal(t, FileMetadata{Filename: "sample.pdf", NumPages: 2}, out.FileMetadata)
	require.Len(t, out.Nodes, 3)

	first := out.Nodes[0]
	assert.Equal(t, "**Introduction**", first.Text)
	require.Len(t, first.Bbox, 1)
	assert.Equal(t, 0, first.Bbox[0].Page)
	require.Len(t, first.Elements, 1)
	assert.Equal(t, "text", first.Elements[0].Variant)
	require.Len(t, first.Elements[0].Lines, 1)
	assert.True(t, first.Elements[0].Lines[0].Spans[0].IsBold)

	assert.Equal(t, "table", out.Nodes[2].Elements[0].Variant)
	assert.Empty(t, out.Nodes[2].Elements[0].Lines)
	assert.Equal(t, 1, out.Nodes[2].Position.MinPage)
}

func TestParsedDoc_ToMarkdown(t *testing.T) {
	md, err := sampleDoc(t).ToMarkdown()
	require.NoError(t, err)

	intro := strings.Index(md, "**Introduction**")
	body := strings.Index(md, "Body text")
	rule := strings.Index(md, "---")
	table := strings.Index(md, "| a | b |")

	require.NotEqual(t, -1, intro)
	require.NotEqual(t, -1, body)
	require.NotEqual(t, -1, rule, "page change should add a horizontal rule")
	require.NotEqual(t, -1, table)

	assert.Less(t, intro, body)
	assert.Less(t, body, rule)
	assert.Less(t, rule, table)
	assert.Equal(t, 1, strings.Count(md, "---"))
}

func TestParsedDoc_ToMarkdownEmpty(t *testing.T) {
	md, err := (&ParsedDoc{}).ToMarkdown()
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(md))
}

func TestRenderTableMarkdown(t *testing.T) {
	text, err := renderTableMarkdown([][]string{
		{"Name", "Age"},
		{"John", "25"},
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Name")
	assert.Contains(t, text, "John")
	assert.Less(t, strings.Index(text, "Name"), strings.Index(text, "John"))

	headerOnly, err := renderTableMarkdown([][]string{{"Only", "Header"}})
	require.NoError(t, err)
	assert.Contains(t, headerOnly, "Only")

	empty, err := renderTableMarkdown(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
