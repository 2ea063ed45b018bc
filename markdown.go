package pdfnodes

import (
	"bytes"
	"regexp"

	"github.com/ivanvanderbyl/markdown"
	"github.com/pkg/errors"
)

// whitespace matches what Python's \s matches for str patterns: ASCII
// whitespace including vertical tab, the information separators and the
// Unicode separator categories.
const whitespace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`

type cleanupRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// markdownCleanupRules run in order, each as a full pass over the string.
var markdownCleanupRules = []cleanupRule{
	// Space after an opening bold marker.
	{regexp.MustCompile(`(\*\*|__)` + whitespace), "${1}"},
	// Space before a closing bold marker.
	{regexp.MustCompile(whitespace + `(\*\*|__)`), "${1}"},
	// Space after an opening italic marker.
	{regexp.MustCompile(`(\*|_)` + whitespace), "${1}"},
	// Space before a closing italic marker.
	{regexp.MustCompile(whitespace + `(\*|_)`), "${1}"},
	// Keep adjacent bold markers apart so "****" does not render as one run.
	{regexp.MustCompile(`(\*\*|__)(\*\*|__)`), "${1} ${2}"},
}

// CleanMarkdownFormatting removes whitespace hugging emphasis markers and
// separates adjacent bold markers. Running it on its own output is a no-op.
func CleanMarkdownFormatting(text string) string {
	cleaned := text
	for _, rule := range markdownCleanupRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, rule.replacement)
	}
	return cleaned
}

// ToMarkdown renders the document as one markdown paragraph per node, with a
// horizontal rule wherever the next node starts on a later page.
func (d ParsedDoc) ToMarkdown() (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	lastPage := -1
	for _, node := range d.Nodes {
		if node == nil || len(node.Elements()) == 0 {
			continue
		}
		if lastPage >= 0 && node.StartPage() > lastPage {
			md.HorizontalRule().LF()
		}
		md.PlainText(node.Text())
		md.LF()
		lastPage = node.EndPage()
	}

	if err := md.Build(); err != nil {
		return "", errors.Wrap(err, "failed to build markdown")
	}

	return buf.String(), nil
}

// renderTableMarkdown renders a grid of cell contents as a markdown table.
// The first row is the header.
func renderTableMarkdown(grid [][]string) (string, error) {
	if len(grid) == 0 {
		return "", nil
	}

	header := grid[0]
	rows := grid[1:]

	// A header without data rows still needs one body row to be valid.
	if len(rows) == 0 {
		rows = [][]string{make([]string, len(header))}
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	if err := md.Build(); err != nil {
		return "", errors.Wrap(err, "failed to build table markdown")
	}

	return buf.String(), nil
}
