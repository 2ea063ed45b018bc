package pdfnodes

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// PageResult is the content extracted from one page.
type PageResult struct {
	Index    int
	Width    float64
	Height   float64
	Elements []Element

	// Columns is the number of text columns found on the page.
	Columns int
	// Tables is the number of table elements produced.
	Tables int
	// Skipped counts blocks dropped because their geometry was degenerate.
	Skipped int
}

// NewPageExtractor returns an extractor for the page at pageIndex (0-based).
func NewPageExtractor(instance pdfium.Pdfium, pageIndex int, config Config, tokenizer Tokenizer) *PageExtractor {
	return &PageExtractor{
		instance:  instance,
		config:    config,
		tokenizer: tokenizerOrDefault(tokenizer),
		pageIndex: pageIndex,
	}
}

// Extract reads the page's text and rulings and returns its elements in
// reading order: tables first by position, then text blocks column by column.
func (p *PageExtractor) Extract(page references.FPDF_PAGE) (*PageResult, error) {
	widthResp, err := p.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	heightResp, err := p.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	p.pageWidth = float64(widthResp.PageWidth)
	p.pageHeight = float64(heightResp.PageHeight)

	result := &PageResult{
		Index:  p.pageIndex,
		Width:  p.pageWidth,
		Height: p.pageHeight,
	}

	textPage, err := p.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer p.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := p.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return result, nil
	}

	chars := dedupeOverlappingChars(p.extractChars(textPage.TextPage, charCount.Count))
	words := groupCharsIntoWords(chars)

	if p.config.DetectTables {
		// Missing rulings only disable table detection for this page.
		edges, err := p.extractRulingEdges(page)
		if err == nil {
			tables := detectTables(edges, words, p.config.TableSettings)
			for _, t := range tables {
				el, err := p.tableToElement(t)
				if err != nil {
					result.Skipped++
					continue
				}
				result.Elements = append(result.Elements, el)
				result.Tables++
			}
			words = removeTableWords(words, tables)
		}
	}

	elements, columns, skipped := p.textElements(words)
	result.Elements = append(result.Elements, elements...)
	result.Columns = columns
	result.Skipped += skipped

	return result, nil
}

// textElements groups the page's free words into text blocks, one column at
// a time.
func (p *PageExtractor) textElements(words []layoutWord) ([]Element, int, int) {
	columns := []columnRange{{X0: 0, X1: p.pageWidth}}
	if p.config.DetectColumns {
		columns = detectColumns(words, p.pageWidth)
	}

	var elements []Element
	skipped := 0
	for _, columnWords := range splitWordsByColumn(words, columns) {
		lines := groupWordsIntoLines(columnWords)
		for _, block := range groupLinesIntoBlocks(lines) {
			el, err := p.blockToElement(block)
			if err != nil {
				skipped++
				continue
			}
			elements = append(elements, el)
		}
	}

	return elements, len(columns), skipped
}
