package pdfnodes

import (
	"io"
	"path/filepath"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DocumentStatistics summarizes what was extracted from a document.
type DocumentStatistics struct {
	Pages         int
	Nodes         int
	TextElements  int
	TableElements int
	Lines         int
	Tokens        int
	Skipped       int
}

// Parser turns PDFs into ParsedDocs using pdfium layout extraction.
type Parser struct {
	instance  pdfium.Pdfium
	config    Config
	tokenizer Tokenizer
	logger    zerolog.Logger
}

// Option customizes a Parser.
type Option func(*Parser)

// WithTokenizer overrides the tokenizer selected by the config.
func WithTokenizer(t Tokenizer) Option {
	return func(p *Parser) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// WithLogger sets the logger used for per-page and summary events.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger.With().Str("component", "pdfnodes").Logger()
	}
}

// NewParser creates a parser with the default configuration.
func NewParser(instance pdfium.Pdfium, opts ...Option) *Parser {
	p := &Parser{
		instance:  instance,
		config:    DefaultConfig(),
		tokenizer: DefaultTokenizer,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewParserWithConfig creates a parser with a custom configuration. The
// config is validated and its tokenizer built unless WithTokenizer is given.
func NewParserWithConfig(instance pdfium.Pdfium, config Config, opts ...Option) (*Parser, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	p := &Parser{
		instance: instance,
		config:   config,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.tokenizer == nil {
		tokenizer, err := config.NewTokenizer()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create tokenizer")
		}
		p.tokenizer = tokenizer
	}

	return p, nil
}

// Config returns the parser's configuration.
func (p *Parser) Config() Config {
	return p.config
}

// ParseFile parses the PDF at path.
func (p *Parser) ParseFile(path string) (*ParsedDoc, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return p.parseDocument(doc.Document, filepath.Base(path), 0, -1)
}

// ParseBytes parses an in-memory PDF. filename is recorded in the metadata.
func (p *Parser) ParseBytes(filename string, data []byte) (*ParsedDoc, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return p.parseDocument(doc.Document, filename, 0, -1)
}

// ParseReader parses a PDF read from r. filename is recorded in the metadata.
func (p *Parser) ParseReader(filename string, r io.ReadSeeker) (*ParsedDoc, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FileReader: r,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return p.parseDocument(doc.Document, filename, 0, -1)
}

// ParsePageRange parses pages startPage through endPage inclusive, both
// 0-based. A negative or out-of-range endPage means the last page.
func (p *Parser) ParsePageRange(path string, startPage, endPage int) (*ParsedDoc, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return p.parseDocument(doc.Document, filepath.Base(path), startPage, endPage)
}

// parseDocument extracts the page range and builds one node per element,
// ordered by aggregate position.
func (p *Parser) parseDocument(docRef references.FPDF_DOCUMENT, filename string, startPage, endPage int) (*ParsedDoc, error) {
	startTime := time.Now()

	pageCount, err := p.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount.PageCount {
		endPage = pageCount.PageCount - 1
	}
	if pageCount.PageCount > 0 && startPage > endPage {
		return nil, errors.Errorf("invalid page range: start page %d is after end page %d", startPage, endPage)
	}

	parsed := &ParsedDoc{
		FileMetadata: FileMetadata{
			Filename: filename,
			NumPages: pageCount.PageCount,
		},
	}
	stats := DocumentStatistics{Pages: endPage - startPage + 1}

	for i := startPage; i <= endPage; i++ {
		pageStart := time.Now()
		result, err := p.extractPage(docRef, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract page %d", i)
		}

		p.logger.Debug().
			Str("file", filename).
			Int("page", i).
			Int("elements", len(result.Elements)).
			Int("tables", result.Tables).
			Int("columns", result.Columns).
			Dur("duration", time.Since(pageStart)).
			Msg("page extracted")
		if result.Skipped > 0 {
			p.logger.Debug().
				Int("page", i).
				Int("skipped", result.Skipped).
				Msg("skipped blocks with degenerate geometry")
		}

		for _, el := range result.Elements {
			node, err := NewNodeWithConfig([]Element{el}, p.config.Node)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to build node on page %d", i)
			}
			parsed.Nodes = append(parsed.Nodes, node)
			stats.add(el)
		}
		stats.Skipped += result.Skipped
	}

	SortNodes(parsed.Nodes)
	stats.Nodes = len(parsed.Nodes)

	if p.config.EnableMetricsLogging {
		p.logger.Info().
			Str("file", filename).
			Int("pages", stats.Pages).
			Int("nodes", stats.Nodes).
			Int("text_elements", stats.TextElements).
			Int("table_elements", stats.TableElements).
			Int("lines", stats.Lines).
			Int("tokens", stats.Tokens).
			Int("skipped", stats.Skipped).
			Dur("duration", time.Since(startTime)).
			Msg("document parsed")
	}

	return parsed, nil
}

func (s *DocumentStatistics) add(el Element) {
	s.Tokens += el.Tokens()
	switch e := el.(type) {
	case *TextElement:
		s.TextElements++
		s.Lines += len(e.Lines())
	case *TableElement:
		s.TableElements++
	}
}

// extractPage loads a single page and extracts its elements.
func (p *Parser) extractPage(docRef references.FPDF_DOCUMENT, pageIndex int) (*PageResult, error) {
	pageResp, err := p.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer p.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	result, err := NewPageExtractor(p.instance, pageIndex, p.config, p.tokenizer).Extract(pageResp.Page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract page content")
	}

	return result, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

// GetDocumentInfo returns basic information about a PDF without parsing it.
func (p *Parser) GetDocumentInfo(path string) (*DocumentInfo, error) {
	doc, err := p.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := p.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
	}, nil
}
