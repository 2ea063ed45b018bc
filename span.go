package pdfnodes

// TextSpan is the smallest styled run of text: one font size, weight and
// slant.
type TextSpan struct {
	Text     string  `json:"text"`
	IsBold   bool    `json:"is_bold"`
	IsItalic bool    `json:"is_italic"`
	Size     float64 `json:"size"`
}

// IsHeading reports whether the span is large and bold enough to be a
// heading.
func (s TextSpan) IsHeading() bool {
	return s.Size >= MinHeadingSize && s.IsBold
}

// FormattedText wraps the span in markdown emphasis markers, but only where
// its style differs from the neighbouring span. prev and next may be nil at
// the edges of a line.
func (s TextSpan) FormattedText(prev, next *TextSpan) string {
	formatted := s.Text

	// Opening markers. Italic goes on after bold so it ends up outermost.
	if s.IsBold && (prev == nil || !prev.IsBold) {
		formatted = "**" + formatted
	}
	if s.IsItalic && (prev == nil || !prev.IsItalic) {
		formatted = "*" + formatted
	}

	// Closing markers.
	if s.IsBold && (next == nil || !next.IsBold) {
		formatted = formatted + "**"
	}
	if s.IsItalic && (next == nil || !next.IsItalic) {
		formatted = formatted + "*"
	}

	return formatted
}
