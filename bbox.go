package pdfnodes

import (
	"math"

	"github.com/pkg/errors"
)

// Bbox is an axis-aligned rectangle anchored to a page. Coordinates follow
// CoordinateSystem, so Y0 is the bottom edge and Y1 the top edge.
type Bbox struct {
	Page       int     `json:"page"`
	PageHeight float64 `json:"page_height"`
	PageWidth  float64 `json:"page_width"`
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
}

// NewBbox validates and returns a rectangle. It fails with ErrGeometry when
// the rectangle has no positive width or height.
func NewBbox(page int, pageHeight, pageWidth, x0, y0, x1, y1 float64) (Bbox, error) {
	b := Bbox{
		Page:       page,
		PageHeight: pageHeight,
		PageWidth:  pageWidth,
		X0:         x0,
		Y0:         y0,
		X1:         x1,
		Y1:         y1,
	}
	if err := b.Validate(); err != nil {
		return Bbox{}, err
	}
	return b, nil
}

// Validate reports ErrGeometry for a box with no positive width or height.
// Boxes built as struct literals skip NewBbox, so every consumer that takes
// a Bbox checks it again here.
func (b Bbox) Validate() error {
	if !(b.X1 > b.X0) {
		return errors.Wrapf(ErrGeometry, "x1 (%g) must be greater than x0 (%g)", b.X1, b.X0)
	}
	if !(b.Y1 > b.Y0) {
		return errors.Wrapf(ErrGeometry, "y1 (%g) must be greater than y0 (%g)", b.Y1, b.Y0)
	}
	return nil
}

// Width returns the horizontal extent of the box.
func (b Bbox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b Bbox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the surface of the box.
func (b Bbox) Area() float64 {
	return (b.X1 - b.X0) * (b.Y1 - b.Y0)
}

// Combine returns the smallest rectangle enclosing both boxes. Page
// dimensions are taken from the receiver. Boxes on different pages cannot
// be combined, and neither can an invalid box.
func (b Bbox) Combine(other Bbox) (Bbox, error) {
	if err := b.Validate(); err != nil {
		return Bbox{}, err
	}
	if err := other.Validate(); err != nil {
		return Bbox{}, err
	}
	if b.Page != other.Page {
		return Bbox{}, errors.Wrapf(ErrGeometry, "cannot combine boxes from pages %d and %d", b.Page, other.Page)
	}

	return Bbox{
		Page:       b.Page,
		PageHeight: b.PageHeight,
		PageWidth:  b.PageWidth,
		X0:         math.Min(b.X0, other.X0),
		Y0:         math.Min(b.Y0, other.Y0),
		X1:         math.Max(b.X1, other.X1),
		Y1:         math.Max(b.Y1, other.Y1),
	}, nil
}

// Overlaps reports whether two boxes on the same page touch once each axis
// is widened by its margin. Boxes on different pages never overlap.
func (b Bbox) Overlaps(other Bbox, xMargin, yMargin float64) bool {
	if b.Page != other.Page {
		return false
	}
	return rangesOverlap(b.X0, b.X1, other.X0, other.X1, xMargin) &&
		rangesOverlap(b.Y0, b.Y1, other.Y0, other.Y1, yMargin)
}

// Flip mirrors the box vertically, converting between a bottom-left and a
// top-left origin. Flipping twice returns the original box.
func (b Bbox) Flip() Bbox {
	return Bbox{
		Page:       b.Page,
		PageHeight: b.PageHeight,
		PageWidth:  b.PageWidth,
		X0:         b.X0,
		Y0:         b.PageHeight - b.Y1,
		X1:         b.X1,
		Y1:         b.PageHeight - b.Y0,
	}
}

// rangesOverlap is the one-axis half of a separating-axis test. Both ranges
// are widened by margin before checking whether either lies entirely past
// the other.
func rangesOverlap(a0, a1, b0, b1, margin float64) bool {
	return !(a0-margin > b1+margin || b0-margin > a1+margin)
}
