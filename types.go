package pdfnodes

import "github.com/klippa-app/go-pdfium"

// Rect is a working rectangle used during extraction. Unlike Bbox it uses a
// top-left origin, the way pdfium text geometry is easiest to group.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return (r.X0 + r.X1) / 2
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// bottomLeft returns the rectangle's (x0, y0, x1, y1) with the origin moved
// to the bottom-left corner of a page of the given height.
func (r Rect) bottomLeft(pageHeight float64) [4]float64 {
	return [4]float64{r.X0, pageHeight - r.Y1, r.X1, pageHeight - r.Y0}
}

// toBbox converts the rectangle to a validated, page-anchored Bbox.
func (r Rect) toBbox(page int, pageWidth, pageHeight float64) (Bbox, error) {
	c := r.bottomLeft(pageHeight)
	return NewBbox(page, pageHeight, pageWidth, c[0], c[1], c[2], c[3])
}

// layoutChar is a single character read from pdfium.
type layoutChar struct {
	Text       rune
	Box        Rect
	FontSize   float64
	FontWeight int
	FontName   string
	FontFlags  int
}

// layoutWord is a run of characters with a single style.
type layoutWord struct {
	Text     string
	Box      Rect
	FontSize float64
	IsBold   bool
	IsItalic bool
	Baseline float64
	XHeight  float64
}

// sameStyle reports whether two words can share a span.
func (w layoutWord) sameStyle(other layoutWord) bool {
	return w.IsBold == other.IsBold &&
		w.IsItalic == other.IsItalic &&
		roundTo2(w.FontSize) == roundTo2(other.FontSize)
}

// layoutLine is a horizontal line of words.
type layoutLine struct {
	Words    []layoutWord
	Box      Rect
	Baseline float64
}

// layoutBlock is a group of consecutive lines that becomes one TextElement.
type layoutBlock struct {
	Lines []layoutLine
	Box   Rect
}

// PageExtractor turns one pdfium page into content elements.
type PageExtractor struct {
	instance  pdfium.Pdfium
	config    Config
	tokenizer Tokenizer

	pageIndex  int
	pageWidth  float64
	pageHeight float64
}
