package pdfnodes

import (
	"math"
	"sort"
)

// mergeEdges snaps near-parallel edges onto a shared position, joins
// collinear pieces and drops what is still too short.
func mergeEdges(edges []Edge, settings TableSettings) []Edge {
	var horizontal, vertical []Edge
	for _, e := range edges {
		if e.Orientation == Vertical {
			vertical = append(vertical, e)
		} else {
			horizontal = append(horizontal, e)
		}
	}

	var result []Edge
	for _, group := range [][]Edge{horizontal, vertical} {
		snapped := snapEdges(group, settings.SnapTolerance)
		for _, line := range groupByPosition(snapped) {
			result = append(result, joinEdges(line, settings.JoinTolerance)...)
		}
	}

	return filterEdgesByLength(result, settings.EdgeMinLength)
}

// snapEdges clusters edges of one orientation whose positions lie within
// tolerance of the running cluster mean, then moves them onto that mean.
func snapEdges(edges []Edge, tolerance float64) []Edge {
	if len(edges) == 0 || tolerance <= 0 {
		return edges
	}

	type cluster struct {
		value   float64
		members []int
	}

	var clusters []cluster
	for i, e := range edges {
		pos := e.position()
		found := false
		for j := range clusters {
			if math.Abs(clusters[j].value-pos) <= tolerance {
				n := float64(len(clusters[j].members))
				clusters[j].value = (clusters[j].value*n + pos) / (n + 1)
				clusters[j].members = append(clusters[j].members, i)
				found = true
				break
			}
		}
		if !found {
			clusters = append(clusters, cluster{value: pos, members: []int{i}})
		}
	}

	result := make([]Edge, len(edges))
	copy(result, edges)
	for _, c := range clusters {
		for _, idx := range c.members {
			if result[idx].Orientation == Vertical {
				result[idx].X0 = c.value
				result[idx].X1 = c.value
			} else {
				result[idx].Top = c.value
				result[idx].Bottom = c.value
			}
		}
	}

	return result
}

// groupByPosition buckets snapped edges that share an exact position.
func groupByPosition(edges []Edge) [][]Edge {
	index := make(map[float64]int)
	var groups [][]Edge
	for _, e := range edges {
		pos := e.position()
		i, ok := index[pos]
		if !ok {
			i = len(groups)
			index[pos] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}

// joinEdges merges collinear edges that overlap or are separated by no
// more than tolerance.
func joinEdges(edges []Edge, tolerance float64) []Edge {
	if len(edges) == 0 {
		return edges
	}

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		a, _ := sorted[i].span()
		b, _ := sorted[j].span()
		return a < b
	})

	joined := []Edge{sorted[0]}
	for _, current := range sorted[1:] {
		last := &joined[len(joined)-1]
		_, lastEnd := last.span()
		start, end := current.span()

		if start > lastEnd+tolerance {
			joined = append(joined, current)
			continue
		}
		if end > lastEnd {
			if last.Orientation == Vertical {
				last.Bottom = end
			} else {
				last.X1 = end
			}
		}
	}

	return joined
}

// filterEdgesByLength filters edges by minimum length.
func filterEdgesByLength(edges []Edge, minLength float64) []Edge {
	if minLength <= 0 {
		return edges
	}

	result := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if edge.Length() >= minLength {
			result = append(result, edge)
		}
	}
	return result
}

// edgesIntersect reports whether a horizontal and a vertical edge cross.
func edgesIntersect(h, v Edge, tolerance float64) bool {
	return v.Top <= h.Top+tolerance &&
		v.Bottom >= h.Top-tolerance &&
		v.X0 >= h.X0-tolerance &&
		v.X0 <= h.X1+tolerance
}
