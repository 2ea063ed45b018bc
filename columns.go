package pdfnodes

import "math"

// columnRange is the horizontal extent of one text column.
type columnRange struct {
	X0, X1 float64
}

// detectColumns finds a multi-column layout with a vertical projection
// profile: a histogram of how many words cover each point across the page.
// Wide, sparse valleys in the histogram are column gutters. A single-column
// page yields one range covering the full width.
func detectColumns(words []layoutWord, pageWidth float64) []columnRange {
	full := []columnRange{{X0: 0, X1: pageWidth}}
	if len(words) == 0 || pageWidth <= 0 {
		return full
	}

	numBins := int(math.Ceil(pageWidth))
	bins := make([]int, numBins)
	for _, word := range words {
		start := int(word.Box.X0)
		end := int(math.Ceil(word.Box.X1))
		for bin := max(start, 0); bin < end && bin < numBins; bin++ {
			bins[bin]++
		}
	}

	valleys := findSignificantValleys(bins, pageWidth)
	if len(valleys) == 0 {
		return full
	}

	columns := make([]columnRange, 0, len(valleys)+1)
	start := 0.0
	for _, v := range valleys {
		columns = append(columns, columnRange{X0: start, X1: v})
		start = v
	}
	columns = append(columns, columnRange{X0: start, X1: pageWidth})

	return columns
}

// findSignificantValleys returns the centers of gaps in the histogram that
// are at least 20pt wide, hold under 20% of the average density and sit
// away from the page edges.
func findSignificantValleys(bins []int, pageWidth float64) []float64 {
	const (
		minValleyWidth  = 20.0
		valleyThreshold = 0.2
		edgeMargin      = 50.0
	)

	var sum, nonZero int
	for _, count := range bins {
		sum += count
		if count > 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		return nil
	}

	threshold := int(float64(sum) / float64(nonZero) * valleyThreshold)

	var valleys []float64
	valleyStart := -1
	for i, count := range bins {
		if count <= threshold {
			if valleyStart == -1 {
				valleyStart = i
			}
			continue
		}
		if valleyStart != -1 {
			if float64(i-valleyStart) >= minValleyWidth {
				center := float64(valleyStart+i) / 2.0
				if center > edgeMargin && center < pageWidth-edgeMargin {
					valleys = append(valleys, center)
				}
			}
			valleyStart = -1
		}
	}

	return valleys
}

// splitWordsByColumn assigns each word to the column holding its horizontal
// center. Columns are returned left to right.
func splitWordsByColumn(words []layoutWord, columns []columnRange) [][]layoutWord {
	out := make([][]layoutWord, len(columns))
	for _, w := range words {
		center := w.Box.CenterX()
		idx := len(columns) - 1
		for i, c := range columns {
			if center < c.X1 {
				idx = i
				break
			}
		}
		out[idx] = append(out[idx], w)
	}
	return out
}
