package pdfnodes

import (
	"math"

	"github.com/pkg/errors"
)

// Variant tags the kind of content an element carries.
type Variant string

const (
	VariantText  Variant = "text"
	VariantTable Variant = "table"
)

// Element is a positioned block of content: either a *TextElement or a
// *TableElement. The set is closed; no other type can implement it.
type Element interface {
	Variant() Variant
	Text() string
	Bbox() Bbox
	Tokens() int
	Page() int
	Area() float64

	// Overlaps reports whether the two elements sit on the same page and
	// touch once the x and y ranges are widened by their margins.
	Overlaps(other Element, xMargin, yMargin float64) bool

	// IsAtSimilarHeight compares the top edges (y1) of the two elements.
	IsAtSimilarHeight(other Element, margin float64) bool

	isNil() bool
}

// isNilElement catches both an untyped nil and a typed nil pointer.
func isNilElement(e Element) bool {
	return e == nil || e.isNil()
}

// content holds what text and table elements have in common.
type content struct {
	text   string
	bbox   Bbox
	tokens int
}

func newContent(text string, bbox Bbox, tokenizer Tokenizer) (content, error) {
	if err := bbox.Validate(); err != nil {
		return content{}, errors.Wrap(err, "element bbox")
	}
	return content{
		text:   text,
		bbox:   bbox,
		tokens: tokenizerOrDefault(tokenizer).CountTokens(text),
	}, nil
}

func (c content) Text() string  { return c.text }
func (c content) Bbox() Bbox    { return c.bbox }
func (c content) Tokens() int   { return c.tokens }
func (c content) Page() int     { return c.bbox.Page }
func (c content) Area() float64 { return c.bbox.Area() }

func (c content) overlaps(other Element, xMargin, yMargin float64) bool {
	if isNilElement(other) {
		return false
	}
	return c.bbox.Overlaps(other.Bbox(), xMargin, yMargin)
}

func (c content) isAtSimilarHeight(other Element, margin float64) bool {
	if isNilElement(other) {
		return false
	}
	return math.Abs(c.bbox.Y1-other.Bbox().Y1) <= margin
}

// TextElement is a block of text lines.
type TextElement struct {
	content
	lines []*LineElement
}

// NewTextElement builds a text element. It fails with ErrGeometry when bbox
// is not a valid rectangle. The tokenizer is invoked once, here; a nil
// tokenizer falls back to DefaultTokenizer.
func NewTextElement(text string, lines []*LineElement, bbox Bbox, tokenizer Tokenizer) (*TextElement, error) {
	c, err := newContent(text, bbox, tokenizer)
	if err != nil {
		return nil, err
	}
	return &TextElement{
		content: c,
		lines:   append([]*LineElement(nil), lines...),
	}, nil
}

// Variant implements Element.
func (e *TextElement) Variant() Variant { return VariantText }

// Lines returns a copy of the element's lines.
func (e *TextElement) Lines() []*LineElement {
	return append([]*LineElement(nil), e.lines...)
}

// Overlaps implements Element.
func (e *TextElement) Overlaps(other Element, xMargin, yMargin float64) bool {
	return e.overlaps(other, xMargin, yMargin)
}

// IsAtSimilarHeight implements Element.
func (e *TextElement) IsAtSimilarHeight(other Element, margin float64) bool {
	return e.isAtSimilarHeight(other, margin)
}

func (e *TextElement) isNil() bool { return e == nil }

// TableElement is a table whose text has already been rendered. It has no
// lines; table text is opaque to span formatting.
type TableElement struct {
	content
}

// NewTableElement builds a table element. It fails with ErrGeometry when
// bbox is not a valid rectangle. The tokenizer is invoked once, here; a nil
// tokenizer falls back to DefaultTokenizer.
func NewTableElement(text string, bbox Bbox, tokenizer Tokenizer) (*TableElement, error) {
	c, err := newContent(text, bbox, tokenizer)
	if err != nil {
		return nil, err
	}
	return &TableElement{content: c}, nil
}

// Variant implements Element.
func (e *TableElement) Variant() Variant { return VariantTable }

// Overlaps implements Element.
func (e *TableElement) Overlaps(other Element, xMargin, yMargin float64) bool {
	return e.overlaps(other, xMargin, yMargin)
}

// IsAtSimilarHeight implements Element.
func (e *TableElement) IsAtSimilarHeight(other Element, margin float64) bool {
	return e.isAtSimilarHeight(other, margin)
}

func (e *TableElement) isNil() bool { return e == nil }
