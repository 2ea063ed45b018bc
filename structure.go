package pdfnodes

import (
	"math"
	"sort"
	"strings"
)

// groupWordsIntoLines groups words into horizontal lines. Words are taken
// top to bottom by vertical center; a word joins the current line when its
// center lies within the line's height or its baseline is close, and words
// within each finished line are ordered left to right.
func groupWordsIntoLines(words []layoutWord) []layoutLine {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]layoutWord, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Box.CenterY(), sorted[j].Box.CenterY()
		if ci != cj {
			return ci < cj
		}
		return sorted[i].Box.X0 < sorted[j].Box.X0
	})

	var lines []layoutLine
	var current []layoutWord
	var lineBox Rect
	var baseline, xHeight float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].Box.X0 < current[j].Box.X0
		})
		lines = append(lines, layoutLine{Words: current, Box: lineBox, Baseline: baseline})
		current = nil
	}

	for _, word := range sorted {
		if len(current) == 0 {
			current = []layoutWord{word}
			lineBox = word.Box
			baseline = word.Baseline
			xHeight = word.XHeight
			continue
		}

		centerDistance := math.Abs(word.Box.CenterY() - lineBox.CenterY())
		avgHeight := (lineBox.Height() + word.Box.Height()) / 2
		visuallySameLine := centerDistance < avgHeight*0.5

		threshold := 0.4 * xHeight
		if threshold == 0 {
			threshold = 3.0
		}
		baselineClose := math.Abs(word.Baseline-baseline) < threshold

		if visuallySameLine || baselineClose {
			current = append(current, word)
			lineBox = mergeRects(lineBox, word.Box)
			baseline = (baseline*float64(len(current)-1) + word.Baseline) / float64(len(current))
		} else {
			flush()
			current = []layoutWord{word}
			lineBox = word.Box
			baseline = word.Baseline
			xHeight = word.XHeight
		}
	}
	flush()

	return lines
}

// groupLinesIntoBlocks groups consecutive lines into blocks, breaking on an
// unusually large vertical gap or a significant change of font size.
func groupLinesIntoBlocks(lines []layoutLine) []layoutBlock {
	if len(lines) == 0 {
		return nil
	}

	threshold := calculateDynamicThreshold(lines)

	var blocks []layoutBlock
	current := []layoutLine{lines[0]}
	blockBox := lines[0].Box

	for _, line := range lines[1:] {
		prev := current[len(current)-1]
		gap := line.Box.Y0 - prev.Box.Y1

		avgFontSize := averageFontSize(current)
		fontSizeRatio := lineFontSize(line) / avgFontSize
		significantFontChange := fontSizeRatio < 0.8 || fontSizeRatio > 1.2

		if gap/avgFontSize > threshold || significantFontChange {
			blocks = append(blocks, layoutBlock{Lines: current, Box: blockBox})
			current = []layoutLine{line}
			blockBox = line.Box
			continue
		}

		current = append(current, line)
		blockBox = mergeRects(blockBox, line.Box)
	}
	blocks = append(blocks, layoutBlock{Lines: current, Box: blockBox})

	return blocks
}

// calculateDynamicThreshold derives the block break threshold from the
// distribution of line gaps, normalized by font size.
func calculateDynamicThreshold(lines []layoutLine) float64 {
	if len(lines) < 3 {
		return 0.9
	}

	var gaps, fontSizes []float64
	for i := 0; i < len(lines)-1; i++ {
		gaps = append(gaps, lines[i+1].Box.Y0-lines[i].Box.Y1)
		fontSizes = append(fontSizes, lineFontSize(lines[i]))
	}

	medianGap := calculateMedian(gaps)
	stdDev := calculateStdDev(gaps)
	medianFontSize := calculateMedian(fontSizes)
	if medianFontSize == 0 {
		medianFontSize = 12.0
	}

	return clamp((medianGap+1.5*stdDev)/medianFontSize, 0.6, 1.5)
}

// lineFontSize is the mean font size of a line's words.
func lineFontSize(line layoutLine) float64 {
	if len(line.Words) == 0 {
		return 12.0
	}
	var total float64
	for _, w := range line.Words {
		total += w.FontSize
	}
	return total / float64(len(line.Words))
}

// averageFontSize is the mean font size across several lines.
func averageFontSize(lines []layoutLine) float64 {
	var sizes []float64
	for _, l := range lines {
		sizes = append(sizes, lineFontSize(l))
	}
	avg := average(sizes)
	if avg == 0 {
		return 12.0
	}
	return avg
}

// lineSpans merges runs of same-style words into spans. Words are joined by
// a single space, which stays on the end of the earlier span.
func lineSpans(line layoutLine) []TextSpan {
	var spans []TextSpan
	for i, w := range line.Words {
		text := w.Text
		if i < len(line.Words)-1 {
			text += " "
		}

		if len(spans) > 0 && i > 0 && w.sameStyle(line.Words[i-1]) {
			spans[len(spans)-1].Text += text
			continue
		}

		spans = append(spans, TextSpan{
			Text:     text,
			IsBold:   w.IsBold,
			IsItalic: w.IsItalic,
			Size:     roundTo2(w.FontSize),
		})
	}
	return spans
}

// blockToElement converts a block into a TextElement. The element text is the
// lines' markdown text joined by newlines.
func (p *PageExtractor) blockToElement(block layoutBlock) (*TextElement, error) {
	bbox, err := block.Box.toBbox(p.pageIndex, p.pageWidth, p.pageHeight)
	if err != nil {
		return nil, err
	}

	lines := make([]*LineElement, 0, len(block.Lines))
	texts := make([]string, 0, len(block.Lines))
	for _, l := range block.Lines {
		le := NewLineElement(l.Box.bottomLeft(p.pageHeight), lineSpans(l), "")
		lines = append(lines, le)
		texts = append(texts, le.Text())
	}

	return NewTextElement(strings.Join(texts, "\n"), lines, bbox, p.tokenizer)
}
