package pdfnodes

import (
	"math"
	"strings"

	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
)

// Font flag bits from the PDF font descriptor.
const (
	fontFlagItalic = 0x40
	boldWeight     = 700
)

// extractChars reads every character on the text page with its box and
// font information. Boxes are converted to a top-left origin.
func (p *PageExtractor) extractChars(textPage references.FPDF_TEXTPAGE, count int) []layoutChar {
	chars := make([]layoutChar, 0, count)

	for i := range count {
		unicodeRes, err := p.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := p.instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		box := Rect{
			X0: charBox.Left,
			Y0: p.pageHeight - charBox.Top,
			X1: charBox.Right,
			Y1: p.pageHeight - charBox.Bottom,
		}

		fontSizeVal := 12.0
		fontSize, err := p.instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil {
			fontSizeVal = fontSize.FontSize
		}

		fontWeightVal := 400
		fontWeight, err := p.instance.FPDFText_GetFontWeight(&requests.FPDFText_GetFontWeight{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil {
			fontWeightVal = fontWeight.FontWeight
		}

		fontNameVal := ""
		fontFlagsVal := 0
		fontInfo, err := p.instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil {
			fontNameVal = fontInfo.FontName
			fontFlagsVal = fontInfo.Flags
		}

		chars = append(chars, layoutChar{
			Text:       rune(unicodeRes.Unicode),
			Box:        box,
			FontSize:   fontSizeVal,
			FontWeight: fontWeightVal,
			FontName:   fontNameVal,
			FontFlags:  fontFlagsVal,
		})
	}

	return chars
}

// dedupeOverlappingChars drops a character that repeats the previous one at
// nearly the same position. Some generators draw glyphs twice to fake bold,
// which would otherwise read as doubled letters.
func dedupeOverlappingChars(chars []layoutChar) []layoutChar {
	if len(chars) < 2 {
		return chars
	}

	out := chars[:1:1]
	for _, c := range chars[1:] {
		prev := out[len(out)-1]
		if c.Text == prev.Text && !isWhitespace(c.Text) &&
			math.Abs(c.Box.X0-prev.Box.X0) < c.Box.Width()*0.3 &&
			math.Abs(c.Box.Y0-prev.Box.Y0) < c.Box.Height()*0.3 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// charIsBold and charIsItalic combine font weight, flags and name, since
// many embedded fonts only signal style through their name.
func charIsBold(c layoutChar) bool {
	return c.FontWeight >= boldWeight || strings.Contains(strings.ToLower(c.FontName), "bold")
}

func charIsItalic(c layoutChar) bool {
	name := strings.ToLower(c.FontName)
	return c.FontFlags&fontFlagItalic != 0 ||
		strings.Contains(name, "italic") ||
		strings.Contains(name, "oblique")
}

// groupCharsIntoWords splits the character stream on whitespace and on
// style changes, so every word has exactly one style.
func groupCharsIntoWords(chars []layoutChar) []layoutWord {
	var words []layoutWord
	var current []layoutChar

	flush := func() {
		if len(current) > 0 {
			words = append(words, aggregateWord(current))
			current = nil
		}
	}

	for _, c := range chars {
		if isWhitespace(c.Text) {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := current[len(current)-1]
			if charIsBold(prev) != charIsBold(c) || charIsItalic(prev) != charIsItalic(c) {
				flush()
			}
		}
		current = append(current, c)
	}
	flush()

	return words
}

// aggregateWord builds a word from its characters.
func aggregateWord(chars []layoutChar) layoutWord {
	var sb strings.Builder
	box := chars[0].Box
	var totalFontSize float64

	for _, c := range chars {
		sb.WriteRune(c.Text)
		totalFontSize += c.FontSize
		box.X0 = math.Min(box.X0, c.Box.X0)
		box.Y0 = math.Min(box.Y0, c.Box.Y0)
		box.X1 = math.Max(box.X1, c.Box.X1)
		box.Y1 = math.Max(box.Y1, c.Box.Y1)
	}

	word := layoutWord{
		Text:     expandLigatures(sb.String()),
		Box:      box,
		FontSize: totalFontSize / float64(len(chars)),
		IsBold:   charIsBold(chars[0]),
		IsItalic: charIsItalic(chars[0]),
	}
	word.Baseline = calculateBaseline(word)
	word.XHeight = calculateXHeight(word)

	return word
}

// calculateBaseline estimates the baseline as slightly above the bottom of
// the box, leaving room for descenders.
func calculateBaseline(word layoutWord) float64 {
	return word.Box.Y1 - (word.FontSize * 0.15)
}

// calculateXHeight estimates the height of lowercase letters.
func calculateXHeight(word layoutWord) float64 {
	for _, r := range word.Text {
		if r >= 'a' && r <= 'z' {
			return word.Box.Height() * 0.7
		}
	}
	return word.FontSize * 0.5
}

// ligatureMap maps ligature codepoints to their expanded letters.
var ligatureMap = map[rune]string{
	0xFB00: "ff",
	0xFB01: "fi",
	0xFB02: "fl",
	0xFB03: "ffi",
	0xFB04: "ffl",
	0xFB05: "ft",
	0xFB06: "st",
}

// expandLigatures replaces ligature glyphs with their component letters.
func expandLigatures(text string) string {
	if !strings.ContainsFunc(text, func(r rune) bool {
		_, ok := ligatureMap[r]
		return ok
	}) {
		return text
	}

	var sb strings.Builder
	for _, r := range text {
		if expansion, ok := ligatureMap[r]; ok {
			sb.WriteString(expansion)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
