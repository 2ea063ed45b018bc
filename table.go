package pdfnodes

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// cellTolerance widens cell boundaries when testing word centers.
const cellTolerance = 1.0

// detectTables finds ruled grids among the edges and collects the words
// inside each. Edges are merged first; every connected set of crossing
// horizontal and vertical edges is a candidate grid.
func detectTables(edges []Edge, words []layoutWord, settings TableSettings) []detectedTable {
	if len(edges) == 0 || len(words) == 0 {
		return nil
	}

	edges = mergeEdges(edges, settings)

	var tables []detectedTable
	for _, group := range connectedEdges(edges, settings.IntersectionTolerance) {
		xs, ys := gridLines(group, settings.SnapTolerance)
		if len(xs)-1 < settings.MinCols || len(ys)-1 < settings.MinRows {
			continue
		}

		box := Rect{X0: xs[0], Y0: ys[0], X1: xs[len(xs)-1], Y1: ys[len(ys)-1]}
		var inside []layoutWord
		for _, w := range words {
			if rectContainsPoint(box, w.Box.CenterX(), w.Box.CenterY(), cellTolerance) {
				inside = append(inside, w)
			}
		}
		if len(inside) == 0 {
			continue
		}

		tables = append(tables, detectedTable{Box: box, XS: xs, YS: ys, Words: inside})
	}

	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].Box.Y0 < tables[j].Box.Y0
	})

	return tables
}

// connectedEdges partitions edges into groups linked by intersections.
func connectedEdges(edges []Edge, tolerance float64) [][]Edge {
	parent := make([]int, len(edges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i, a := range edges {
		for j := i + 1; j < len(edges); j++ {
			b := edges[j]
			if a.Orientation == b.Orientation {
				continue
			}
			h, v := a, b
			if a.Orientation == Vertical {
				h, v = b, a
			}
			if edgesIntersect(h, v, tolerance) {
				parent[find(i)] = find(j)
			}
		}
	}

	index := make(map[int]int)
	var groups [][]Edge
	for i, e := range edges {
		root := find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], e)
	}
	return groups
}

// gridLines returns the sorted, deduplicated x positions of vertical edges
// and y positions of horizontal edges.
func gridLines(edges []Edge, tolerance float64) ([]float64, []float64) {
	var xs, ys []float64
	for _, e := range edges {
		if e.Orientation == Vertical {
			xs = append(xs, e.X0)
		} else {
			ys = append(ys, e.Top)
		}
	}
	return dedupeSorted(xs, tolerance), dedupeSorted(ys, tolerance)
}

func dedupeSorted(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)
	out := []float64{values[0]}
	for _, v := range values[1:] {
		if v-out[len(out)-1] > tolerance {
			out = append(out, v)
		}
	}
	return out
}

// cells arranges the table's words into its grid and returns the text of
// every cell, dropping rows that are entirely empty.
func (t detectedTable) cells() [][]string {
	numRows, numCols := len(t.YS)-1, len(t.XS)-1
	buckets := make([][][]layoutWord, numRows)
	for r := range buckets {
		buckets[r] = make([][]layoutWord, numCols)
	}

	for _, w := range t.Words {
		r := gridIndex(t.YS, w.Box.CenterY())
		c := gridIndex(t.XS, w.Box.CenterX())
		buckets[r][c] = append(buckets[r][c], w)
	}

	var grid [][]string
	for _, row := range buckets {
		texts := make([]string, numCols)
		empty := true
		for c, words := range row {
			texts[c] = cellText(words)
			if texts[c] != "" {
				empty = false
			}
		}
		if !empty {
			grid = append(grid, texts)
		}
	}
	return grid
}

// gridIndex finds the interval of bounds holding v, clamped to the grid.
func gridIndex(bounds []float64, v float64) int {
	i := sort.SearchFloat64s(bounds, v) - 1
	return int(math.Max(0, math.Min(float64(i), float64(len(bounds)-2))))
}

// cellText reads a cell's words line by line, left to right.
func cellText(words []layoutWord) string {
	var parts []string
	for _, line := range groupWordsIntoLines(words) {
		for _, w := range line.Words {
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}

// tableToElement renders a detected table as a markdown TableElement.
func (p *PageExtractor) tableToElement(t detectedTable) (*TableElement, error) {
	grid := t.cells()
	if len(grid) == 0 {
		return nil, errors.Errorf("table on page %d has no content", p.pageIndex)
	}

	text, err := renderTableMarkdown(grid)
	if err != nil {
		return nil, err
	}

	bbox, err := t.Box.toBbox(p.pageIndex, p.pageWidth, p.pageHeight)
	if err != nil {
		return nil, err
	}

	return NewTableElement(strings.TrimSpace(text), bbox, p.tokenizer)
}

// removeTableWords returns the words whose centers lie outside every table.
func removeTableWords(words []layoutWord, tables []detectedTable) []layoutWord {
	if len(tables) == 0 {
		return words
	}
	out := make([]layoutWord, 0, len(words))
	for _, w := range words {
		inTable := false
		for _, t := range tables {
			if rectContainsPoint(t.Box, w.Box.CenterX(), w.Box.CenterY(), cellTolerance) {
				inTable = true
				break
			}
		}
		if !inTable {
			out = append(out, w)
		}
	}
	return out
}
