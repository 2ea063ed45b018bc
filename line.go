package pdfnodes

import (
	"math"
	"strconv"
	"strings"
)

// LineElement is a horizontal run of spans sharing one rectangle. The
// rectangle is a bare (x0, y0, x1, y1) tuple rounded to two decimals; it is
// not validated and carries no page.
//
// Text and the style flags are computed once at construction.
type LineElement struct {
	bbox  [4]float64
	spans []TextSpan
	style string

	text      string
	isBold    bool
	isItalic  bool
	isHeading bool
}

// NewLineElement builds a line from its rectangle and spans. style may be
// empty.
func NewLineElement(bbox [4]float64, spans []TextSpan, style string) *LineElement {
	l := &LineElement{
		spans: append([]TextSpan(nil), spans...),
		style: style,
	}
	for i, v := range bbox {
		l.bbox[i] = roundTo2(v)
	}

	l.text = l.combineSpans()

	voters := l.styleVoters()
	l.isBold = allSpans(voters, func(s TextSpan) bool { return s.IsBold })
	l.isItalic = allSpans(voters, func(s TextSpan) bool { return s.IsItalic })
	l.isHeading = allSpans(voters, func(s TextSpan) bool { return s.IsHeading() })

	return l
}

// Bbox returns the rounded (x0, y0, x1, y1) rectangle.
func (l *LineElement) Bbox() [4]float64 {
	return l.bbox
}

// Spans returns a copy of the line's spans.
func (l *LineElement) Spans() []TextSpan {
	return append([]TextSpan(nil), l.spans...)
}

// Style returns the optional style label, or "".
func (l *LineElement) Style() string {
	return l.style
}

// Text returns the markdown text of the line.
func (l *LineElement) Text() string {
	return l.text
}

// IsBold reports whether every span but the last is bold.
func (l *LineElement) IsBold() bool {
	return l.isBold
}

// IsItalic reports whether every span but the last is italic.
func (l *LineElement) IsItalic() bool {
	return l.isItalic
}

// IsHeading reports whether every span but the last is a heading span.
func (l *LineElement) IsHeading() bool {
	return l.isHeading
}

// Overlaps reports whether the two lines touch once both axes are widened
// by margin. A nil other never overlaps.
func (l *LineElement) Overlaps(other *LineElement, margin float64) bool {
	if other == nil {
		return false
	}
	return rangesOverlap(l.bbox[0], l.bbox[2], other.bbox[0], other.bbox[2], margin) &&
		rangesOverlap(l.bbox[1], l.bbox[3], other.bbox[1], other.bbox[3], margin)
}

// IsAtSimilarHeight compares the bottom edges (y0) of the two lines.
func (l *LineElement) IsAtSimilarHeight(other *LineElement, margin float64) bool {
	if other == nil {
		return false
	}
	return math.Abs(l.bbox[1]-other.bbox[1]) <= margin
}

// Combine returns a new line covering both rectangles, with the receiver's
// spans followed by other's. The style is not carried over. A nil other
// contributes nothing.
func (l *LineElement) Combine(other *LineElement) *LineElement {
	if other == nil {
		return NewLineElement(l.bbox, l.spans, "")
	}
	bbox := [4]float64{
		math.Min(l.bbox[0], other.bbox[0]),
		math.Min(l.bbox[1], other.bbox[1]),
		math.Max(l.bbox[2], other.bbox[2]),
		math.Max(l.bbox[3], other.bbox[3]),
	}

	spans := make([]TextSpan, 0, len(l.spans)+len(other.spans))
	spans = append(spans, l.spans...)
	spans = append(spans, other.spans...)

	return NewLineElement(bbox, spans, "")
}

func (l *LineElement) combineSpans() string {
	if len(l.spans) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := range l.spans {
		var prev, next *TextSpan
		if i > 0 {
			prev = &l.spans[i-1]
		}
		if i < len(l.spans)-1 {
			next = &l.spans[i+1]
		}
		sb.WriteString(l.spans[i].FormattedText(prev, next))
	}

	return CleanMarkdownFormatting(sb.String())
}

// styleVoters returns the spans that take part in style detection. Trailing
// spans are often mis-tagged, so the last one is left out unless it is the
// only one.
func (l *LineElement) styleVoters() []TextSpan {
	if len(l.spans) > 1 {
		return l.spans[:len(l.spans)-1]
	}
	return l.spans
}

func allSpans(spans []TextSpan, pred func(TextSpan) bool) bool {
	for _, s := range spans {
		if !pred(s) {
			return false
		}
	}
	return true
}

// roundTo2 rounds to two decimals using correctly rounded decimal
// formatting, which ties to even on the exact binary value.
func roundTo2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
