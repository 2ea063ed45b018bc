package pdfnodes

import "encoding/json"

// FileMetadata describes the source file of a parsed document.
type FileMetadata struct {
	Filename string `json:"filename"`
	NumPages int    `json:"num_pages"`
}

// ParsedDoc is the root artifact: the document's nodes plus file metadata.
type ParsedDoc struct {
	Nodes        []*Node
	FileMetadata FileMetadata
}

// Tokens is the total token count across all nodes.
func (d ParsedDoc) Tokens() int {
	total := 0
	for _, n := range d.Nodes {
		if n != nil {
			total += n.Tokens()
		}
	}
	return total
}

type lineJSON struct {
	Bbox  [4]float64 `json:"bbox"`
	Text  string     `json:"text"`
	Style string     `json:"style,omitempty"`
	Spans []TextSpan `json:"spans"`
}

type elementJSON struct {
	Variant Variant    `json:"variant"`
	Text    string     `json:"text"`
	Tokens  int        `json:"tokens"`
	Bbox    Bbox       `json:"bbox"`
	Lines   []lineJSON `json:"lines,omitempty"`
}

type nodeJSON struct {
	Text     string            `json:"text"`
	Tokens   int               `json:"tokens"`
	Bbox     []Bbox            `json:"bbox"`
	Position AggregatePosition `json:"aggregate_position"`
	Elements []elementJSON     `json:"elements"`
}

type docJSON struct {
	Version      string       `json:"version"`
	FileMetadata FileMetadata `json:"file_metadata"`
	Nodes        []nodeJSON   `json:"nodes"`
}

// MarshalJSON writes the document with each node's derived text, tokens and
// per-page boxes. The output records SerializationVersion.
func (d ParsedDoc) MarshalJSON() ([]byte, error) {
	out := docJSON{
		Version:      SerializationVersion,
		FileMetadata: d.FileMetadata,
		Nodes:        make([]nodeJSON, 0, len(d.Nodes)),
	}

	for _, n := range d.Nodes {
		if n == nil {
			continue
		}
		nj := nodeJSON{
			Text:     n.Text(),
			Tokens:   n.Tokens(),
			Bbox:     n.Bbox(),
			Position: n.AggregatePosition(),
			Elements: make([]elementJSON, 0, len(n.elements)),
		}
		for _, e := range n.elements {
			nj.Elements = append(nj.Elements, elementToJSON(e))
		}
		out.Nodes = append(out.Nodes, nj)
	}

	return json.Marshal(out)
}

func elementToJSON(e Element) elementJSON {
	ej := elementJSON{
		Variant: e.Variant(),
		Text:    e.Text(),
		Tokens:  e.Tokens(),
		Bbox:    e.Bbox(),
	}

	if te, ok := e.(*TextElement); ok {
		for _, l := range te.lines {
			ej.Lines = append(ej.Lines, lineJSON{
				Bbox:  l.Bbox(),
				Text:  l.Text(),
				Style: l.Style(),
				Spans: l.Spans(),
			})
		}
	}

	return ej
}
