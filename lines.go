package pdfnodes

import (
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// extractRulingEdges reads path objects from the page and turns straight
// strokes and rectangles into horizontal and vertical edges. Page borders
// are dropped so a framed page is not read as one large table.
func (p *PageExtractor) extractRulingEdges(page references.FPDF_PAGE) ([]Edge, error) {
	countResp, err := p.instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count page objects")
	}

	var edges []Edge
	for i := range countResp.Count {
		objResp, err := p.instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page: requests.Page{
				ByReference: &page,
			},
			Index: i,
		})
		if err != nil {
			continue
		}

		typeResp, err := p.instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err != nil || typeResp.Type != enums.FPDF_PAGEOBJ_PATH {
			continue
		}

		boundsResp, err := p.instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{
			PageObject: objResp.PageObject,
		})
		if err != nil {
			continue
		}

		box := Rect{
			X0: float64(boundsResp.Left),
			Y0: p.pageHeight - float64(boundsResp.Top),
			X1: float64(boundsResp.Right),
			Y1: p.pageHeight - float64(boundsResp.Bottom),
		}

		segResp, err := p.instance.FPDFPath_CountSegments(&requests.FPDFPath_CountSegments{
			PageObject: objResp.PageObject,
		})
		if err != nil || segResp.Count < 2 {
			continue
		}

		// MOVETO + LINETO is a stroke; four or more segments outline a box.
		var candidates []Edge
		if segResp.Count == 2 {
			if edge, ok := pathToEdge(box); ok {
				candidates = append(candidates, edge)
			}
		} else if segResp.Count >= 4 {
			candidates = boundsToEdges(box)
		}

		for _, edge := range candidates {
			if !isPageBorder(edge, p.pageWidth, p.pageHeight) {
				edges = append(edges, edge)
			}
		}
	}

	return edges, nil
}

// isPageBorder reports whether an edge hugs the page boundary or spans
// nearly the whole page.
func isPageBorder(edge Edge, pageWidth, pageHeight float64) bool {
	const borderTolerance = 20.0
	const fullSpanThreshold = 0.90

	switch edge.Orientation {
	case Horizontal:
		if edge.Top < borderTolerance || edge.Top > pageHeight-borderTolerance {
			return true
		}
		return edge.Length() > pageWidth*fullSpanThreshold
	case Vertical:
		if edge.X0 < borderTolerance || edge.X0 > pageWidth-borderTolerance {
			return true
		}
		return edge.Length() > pageHeight*fullSpanThreshold
	}
	return false
}

// pathToEdge converts a thin path to an edge when it is axis aligned.
func pathToEdge(r Rect) (Edge, bool) {
	width, height := r.Width(), r.Height()

	if height < 2.0 && width > 1.0 {
		mid := r.CenterY()
		return Edge{X0: r.X0, X1: r.X1, Top: mid, Bottom: mid, Orientation: Horizontal}, true
	}
	if width < 2.0 && height > 1.0 {
		mid := r.CenterX()
		return Edge{X0: mid, X1: mid, Top: r.Y0, Bottom: r.Y1, Orientation: Vertical}, true
	}
	return Edge{}, false
}

// boundsToEdges returns the four sides of a rectangle.
func boundsToEdges(r Rect) []Edge {
	return []Edge{
		{X0: r.X0, X1: r.X1, Top: r.Y0, Bottom: r.Y0, Orientation: Horizontal},
		{X0: r.X0, X1: r.X1, Top: r.Y1, Bottom: r.Y1, Orientation: Horizontal},
		{X0: r.X0, X1: r.X0, Top: r.Y0, Bottom: r.Y1, Orientation: Vertical},
		{X0: r.X1, X1: r.X1, Top: r.Y0, Bottom: r.Y1, Orientation: Vertical},
	}
}
