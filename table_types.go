package pdfnodes

// Orientation of a ruling edge.
type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

// Edge is a horizontal or vertical ruling segment in top-left page
// coordinates, used to find table grids.
type Edge struct {
	X0          float64 // Left x coordinate
	X1          float64 // Right x coordinate
	Top         float64 // Top y coordinate
	Bottom      float64 // Bottom y coordinate
	Orientation Orientation
}

// Length is the extent of the edge along its orientation.
func (e Edge) Length() float64 {
	if e.Orientation == Vertical {
		return e.Bottom - e.Top
	}
	return e.X1 - e.X0
}

// position is the coordinate shared by every point of the edge: Top for a
// horizontal edge, X0 for a vertical one.
func (e Edge) position() float64 {
	if e.Orientation == Vertical {
		return e.X0
	}
	return e.Top
}

// span returns the edge's start and end along its orientation.
func (e Edge) span() (float64, float64) {
	if e.Orientation == Vertical {
		return e.Top, e.Bottom
	}
	return e.X0, e.X1
}

// detectedTable is a ruled grid with the words that fall inside it.
type detectedTable struct {
	Box   Rect
	XS    []float64 // column boundaries, left to right
	YS    []float64 // row boundaries, top to bottom
	Words []layoutWord
}

// TableSettings configures ruled table detection.
type TableSettings struct {
	// SnapTolerance aligns parallel edges whose positions differ by at most
	// this many points.
	SnapTolerance float64 `yaml:"snap_tolerance"`

	// JoinTolerance joins collinear edges separated by at most this gap.
	JoinTolerance float64 `yaml:"join_tolerance"`

	// EdgeMinLength drops edges shorter than this after joining.
	EdgeMinLength float64 `yaml:"edge_min_length"`

	// IntersectionTolerance is the slack allowed when testing whether a
	// horizontal and a vertical edge cross.
	IntersectionTolerance float64 `yaml:"intersection_tolerance"`

	// MinRows and MinCols are the smallest grid accepted as a table.
	MinRows int `yaml:"min_rows"`
	MinCols int `yaml:"min_cols"`
}

// DefaultTableSettings returns default settings for table detection.
func DefaultTableSettings() TableSettings {
	return TableSettings{
		SnapTolerance:         3.0,
		JoinTolerance:         3.0,
		EdgeMinLength:         3.0,
		IntersectionTolerance: 3.0,
		MinRows:               2,
		MinCols:               2,
	}
}
