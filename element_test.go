package pdfnodes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTokens counts one token per rune, which keeps expectations obvious.
var fixedTokens = TokenizerFunc(func(text string) int { return len([]rune(text)) })

func textAt(t *testing.T, text string, page int, x0, y0, x1, y1 float64) *TextElement {
	t.Helper()
	el, err := NewTextElement(text, nil, mustBbox(t, page, x0, y0, x1, y1), fixedTokens)
	require.NoError(t, err)
	return el
}

func tableAt(t *testing.T, text string, page int, x0, y0, x1, y1 float64) *TableElement {
	t.Helper()
	el, err := NewTableElement(text, mustBbox(t, page, x0, y0, x1, y1), fixedTokens)
	require.NoError(t, err)
	return el
}

func TestElement_Variants(t *testing.T) {
	var text Element = textAt(t, "abc", 0, 0, 0, 10, 10)
	var table Element = tableAt(t, "| a |", 0, 0, 0, 10, 10)

	assert.Equal(t, VariantText, text.Variant())
	assert.Equal(t, VariantTable, table.Variant())
}

func TestElement_TokensUseTokenizerOnce(t *testing.T) {
	calls := 0
	counting := TokenizerFunc(func(text string) int {
		calls++
		return len(strings.Fields(text))
	})

	el, err := NewTextElement("one two three", nil, mustBbox(t, 0, 0, 0, 10, 10), counting)
	require.NoError(t, err)
	assert.Equal(t, 3, el.Tokens())
	assert.Equal(t, 3, el.Tokens())
	assert.Equal(t, 1, calls)
}

func TestElement_NilTokenizerUsesDefault(t *testing.T) {
	el, err := NewTableElement("one two three", mustBbox(t, 0, 0, 0, 10, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenizer.CountTokens("one two three"), el.Tokens())
}

func TestElement_Accessors(t *testing.T) {
	lines := []*LineElement{NewLineElement([4]float64{0, 0, 10, 10}, []TextSpan{{Text: "x"}}, "")}
	el, err := NewTextElement("x", lines, mustBbox(t, 3, 10, 20, 30, 60), fixedTokens)
	require.NoError(t, err)

	assert.Equal(t, 3, el.Page())
	assert.Equal(t, 800.0, el.Area())
	assert.Equal(t, "x", el.Text())
	require.Len(t, el.Lines(), 1)
}

func TestElement_IsAtSimilarHeightComparesTops(t *testing.T) {
	a := textAt(t, "a", 0, 0, 0, 10, 100)
	b := textAt(t, "b", 0, 20, 90, 30, 100.5)
	c := textAt(t, "c", 0, 20, 0, 30, 150)

	assert.True(t, a.IsAtSimilarHeight(b, 1))
	assert.True(t, b.IsAtSimilarHeight(a, 1))
	assert.False(t, a.IsAtSimilarHeight(c, 1), "equal bottoms do not make elements similar")
	assert.False(t, a.IsAtSimilarHeight(nil, 1))
}

func TestElement_Overlaps(t *testing.T) {
	a := textAt(t, "a", 0, 0, 0, 10, 10)
	b := tableAt(t, "b", 0, 5, 5, 15, 15)
	far := textAt(t, "far", 0, 100, 100, 110, 110)
	otherPage := textAt(t, "p", 1, 0, 0, 10, 10)

	assert.True(t, a.Overlaps(b, 0, 0))
	assert.True(t, b.Overlaps(a, 0, 0))
	assert.False(t, a.Overlaps(far, 0, 0))
	assert.False(t, a.Overlaps(otherPage, 0, 0))
	assert.False(t, a.Overlaps(nil, 0, 0))
}

func TestElement_RejectsInvalidBbox(t *testing.T) {
	inverted := Bbox{X0: 10, Y0: 10, X1: 5, Y1: 5}
	flat := Bbox{X0: 0, Y0: 10, X1: 10, Y1: 10}

	for _, bbox := range []Bbox{inverted, flat, {}} {
		text, err := NewTextElement("x", nil, bbox, fixedTokens)
		require.ErrorIs(t, err, ErrGeometry)
		assert.Nil(t, text)

		table, err := NewTableElement("| x |", bbox, fixedTokens)
		require.ErrorIs(t, err, ErrGeometry)
		assert.Nil(t, table)
	}
}
