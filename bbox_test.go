package pdfnodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPageHeight = 792.0
	testPageWidth  = 612.0
)

func mustBbox(t *testing.T, page int, x0, y0, x1, y1 float64) Bbox {
	t.Helper()
	b, err := NewBbox(page, testPageHeight, testPageWidth, x0, y0, x1, y1)
	require.NoError(t, err)
	return b
}

func TestNewBbox_RejectsDegenerateRectangles(t *testing.T) {
	cases := []struct {
		name           string
		x0, y0, x1, y1 float64
	}{
		{"zero width", 10, 10, 10, 20},
		{"zero height", 10, 10, 20, 10},
		{"inverted x", 20, 10, 10, 20},
		{"inverted y", 10, 20, 20, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBbox(0, testPageHeight, testPageWidth, tc.x0, tc.y0, tc.x1, tc.y1)
			require.ErrorIs(t, err, ErrGeometry)
		})
	}
}

func TestBbox_Dimensions(t *testing.T) {
	b := mustBbox(t, 0, 10, 20, 40, 60)
	assert.Equal(t, 30.0, b.Width())
	assert.Equal(t, 40.0, b.Height())
	assert.Equal(t, 1200.0, b.Area())
}

func TestBbox_Combine(t *testing.T) {
	a := mustBbox(t, 0, 0, 0, 10, 10)
	b := mustBbox(t, 0, 5, 5, 15, 15)

	ab, err := a.Combine(b)
	require.NoError(t, err)
	ba, err := b.Combine(a)
	require.NoError(t, err)

	assert.Equal(t, mustBbox(t, 0, 0, 0, 15, 15), ab)
	assert.Equal(t, ab, ba)
}

func TestBbox_CombineAcrossPagesFails(t *testing.T) {
	a := mustBbox(t, 0, 0, 0, 10, 10)
	b := mustBbox(t, 1, 0, 0, 10, 10)

	_, err := a.Combine(b)
	require.ErrorIs(t, err, ErrGeometry)
}

func TestBbox_ValidateLiterals(t *testing.T) {
	require.NoError(t, mustBbox(t, 0, 0, 0, 10, 10).Validate())
	require.ErrorIs(t, Bbox{X0: 10, Y0: 10, X1: 5, Y1: 5}.Validate(), ErrGeometry)
	require.ErrorIs(t, Bbox{X0: 0, Y0: 0, X1: 10, Y1: 0}.Validate(), ErrGeometry)
	require.ErrorIs(t, Bbox{}.Validate(), ErrGeometry)
}

func TestBbox_CombineRejectsInvalidBoxes(t *testing.T) {
	valid := mustBbox(t, 0, 0, 0, 10, 10)
	inverted := Bbox{X0: 10, Y0: 0, X1: 1, Y1: 10}

	_, err := valid.Combine(inverted)
	require.ErrorIs(t, err, ErrGeometry)
	_, err = inverted.Combine(valid)
	require.ErrorIs(t, err, ErrGeometry)
	_, err = Bbox{X0: 10, X1: 1}.Combine(Bbox{X0: 20, X1: 3})
	require.ErrorIs(t, err, ErrGeometry)
}

func TestBbox_CombineKeepsReceiverPageSize(t *testing.T) {
	a := mustBbox(t, 0, 0, 0, 10, 10)
	b, err := NewBbox(0, 1000, 800, 5, 5, 15, 15)
	require.NoError(t, err)

	c, err := a.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, testPageHeight, c.PageHeight)
	assert.Equal(t, testPageWidth, c.PageWidth)
}

func TestBbox_Overlaps(t *testing.T) {
	a := mustBbox(t, 0, 0, 0, 10, 10)

	cases := []struct {
		name     string
		other    Bbox
		xMargin  float64
		yMargin  float64
		expected bool
	}{
		{"intersecting", mustBbox(t, 0, 5, 5, 15, 15), 0, 0, true},
		{"touching edge", mustBbox(t, 0, 10, 0, 20, 10), 0, 0, true},
		{"apart", mustBbox(t, 0, 13, 0, 20, 10), 0, 0, false},
		{"apart but within margin", mustBbox(t, 0, 13, 0, 20, 10), 2, 0, true},
		{"vertically apart", mustBbox(t, 0, 0, 20, 10, 30), 0, 4, false},
		{"other page", mustBbox(t, 1, 0, 0, 10, 10), 100, 100, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, a.Overlaps(tc.other, tc.xMargin, tc.yMargin))
			assert.Equal(t, tc.expected, tc.other.Overlaps(a, tc.xMargin, tc.yMargin), "overlap must be symmetric")
		})
	}
}

func TestBbox_Flip(t *testing.T) {
	b := mustBbox(t, 2, 10, 100, 50, 300)

	flipped := b.Flip()
	assert.Equal(t, 10.0, flipped.X0)
	assert.Equal(t, 50.0, flipped.X1)
	assert.Equal(t, testPageHeight-300, flipped.Y0)
	assert.Equal(t, testPageHeight-100, flipped.Y1)
	assert.Equal(t, b.Area(), flipped.Area())

	assert.Equal(t, b, flipped.Flip())
}
