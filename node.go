package pdfnodes

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// NodeConfig holds the size thresholds and alignment tolerance a node is
// built with.
type NodeConfig struct {
	// StubTokens: nodes below this many tokens are stubs.
	StubTokens int `yaml:"stub_tokens"`

	// LowerTokens: nodes below this many tokens are small.
	LowerTokens int `yaml:"lower_tokens"`

	// UpperTokens: nodes above this many tokens are large.
	UpperTokens int `yaml:"upper_tokens"`

	// HeightMargin is how far apart two elements' top edges may be for them
	// to be joined by a space rather than BlockSeparator.
	HeightMargin float64 `yaml:"height_margin"`
}

// DefaultNodeConfig returns the standard thresholds.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		StubTokens:   DefaultStubTokens,
		LowerTokens:  DefaultLowerTokens,
		UpperTokens:  DefaultUpperTokens,
		HeightMargin: DefaultHeightMargin,
	}
}

// AggregatePosition is a node's canonical sort key.
type AggregatePosition struct {
	MinPage int     `json:"min_page"`
	MinY0   float64 `json:"min_y0"`
	MinX0   float64 `json:"min_x0"`
}

// Less orders positions by page, then y0, then x0.
func (p AggregatePosition) Less(other AggregatePosition) bool {
	if p.MinPage != other.MinPage {
		return p.MinPage < other.MinPage
	}
	if p.MinY0 != other.MinY0 {
		return p.MinY0 < other.MinY0
	}
	return p.MinX0 < other.MinX0
}

// Node is an ordered group of elements forming one semantic unit. Its
// derived values are computed when it is built; a Node never changes
// afterwards.
//
// The zero Node has no elements, zero tokens, no boxes and empty text.
type Node struct {
	elements []Element
	config   NodeConfig

	tokens   int
	bboxes   []Bbox
	position AggregatePosition
	text     string
}

// NewNode builds a node with DefaultNodeConfig.
func NewNode(elements []Element) (*Node, error) {
	return NewNodeWithConfig(elements, DefaultNodeConfig())
}

// NewNodeWithConfig builds a node with custom thresholds. It fails with
// ErrInputContract if elements is empty or contains nil, and with
// ErrGeometry if an element carries an invalid box.
func NewNodeWithConfig(elements []Element, config NodeConfig) (*Node, error) {
	if len(elements) == 0 {
		return nil, errors.Wrap(ErrInputContract, "node requires at least one element")
	}
	for i, e := range elements {
		if isNilElement(e) {
			return nil, errors.Wrapf(ErrInputContract, "element %d is nil", i)
		}
		if err := e.Bbox().Validate(); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}

	return buildNode(append([]Element(nil), elements...), config), nil
}

func buildNode(elements []Element, config NodeConfig) *Node {
	n := &Node{
		elements: elements,
		config:   config,
	}

	for _, e := range elements {
		n.tokens += e.Tokens()
	}
	n.bboxes = aggregateBboxes(elements)
	n.position = aggregatePosition(elements)
	n.text = serializeElements(elements, config.HeightMargin)

	return n
}

// Elements returns a copy of the node's elements in insertion order.
func (n *Node) Elements() []Element {
	return append([]Element(nil), n.elements...)
}

// Config returns the thresholds the node was built with.
func (n *Node) Config() NodeConfig {
	return n.config
}

// Tokens is the sum of the elements' token counts.
func (n *Node) Tokens() int {
	return n.tokens
}

// IsStub reports whether the node is below the stub threshold.
func (n *Node) IsStub() bool {
	return n.tokens < n.config.StubTokens
}

// IsSmall reports whether the node is below the lower token limit.
func (n *Node) IsSmall() bool {
	return n.tokens < n.config.LowerTokens
}

// IsLarge reports whether the node is above the upper token limit.
func (n *Node) IsLarge() bool {
	return n.tokens > n.config.UpperTokens
}

// Bbox returns one box per distinct page, in the order pages are first seen
// among the elements.
func (n *Node) Bbox() []Bbox {
	return append([]Bbox(nil), n.bboxes...)
}

// NumPages is the number of distinct pages the node spans.
func (n *Node) NumPages() int {
	return len(n.bboxes)
}

// StartPage is the lowest page index among the elements.
func (n *Node) StartPage() int {
	return n.position.MinPage
}

// EndPage is the highest page index among the elements.
func (n *Node) EndPage() int {
	if len(n.bboxes) == 0 {
		return 0
	}
	end := n.bboxes[0].Page
	for _, b := range n.bboxes[1:] {
		if b.Page > end {
			end = b.Page
		}
	}
	return end
}

// AggregatePosition returns (min page, min y0, min x0) over all elements.
func (n *Node) AggregatePosition() AggregatePosition {
	return n.position
}

// Text returns the node's elements in reading order, joined by a space when
// an element sits at the height of the one before it and by BlockSeparator
// otherwise.
func (n *Node) Text() string {
	return n.text
}

// Overlaps reports whether any same-page pair of the two nodes' per-page
// boxes touch once widened by the margins.
func (n *Node) Overlaps(other *Node, xMargin, yMargin float64) bool {
	if other == nil {
		return false
	}
	for _, b := range n.bboxes {
		for _, ob := range other.bboxes {
			if b.Page != ob.Page {
				continue
			}
			if b.Overlaps(ob, xMargin, yMargin) {
				return true
			}
		}
	}
	return false
}

// Combine returns a new node holding the receiver's elements followed by
// other's. Nothing is deduplicated or re-sorted. The result keeps the
// receiver's config. A nil other contributes no elements.
func (n *Node) Combine(other *Node) *Node {
	var extra []Element
	if other != nil {
		extra = other.elements
	}

	elements := make([]Element, 0, len(n.elements)+len(extra))
	elements = append(elements, n.elements...)
	elements = append(elements, extra...)
	return buildNode(elements, n.config)
}

// SortNodes orders nodes in place by their aggregate position. The sort is
// stable so nodes with equal positions keep their order.
func SortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].position.Less(nodes[j].position)
	})
}

// aggregateBboxes folds element boxes into one box per page. Page
// dimensions come from the first element seen on each page; elements
// sharing a page are expected to agree on them.
func aggregateBboxes(elements []Element) []Bbox {
	var boxes []Bbox
	index := make(map[int]int)

	for _, e := range elements {
		b := e.Bbox()
		i, ok := index[b.Page]
		if !ok {
			index[b.Page] = len(boxes)
			boxes = append(boxes, b)
			continue
		}
		agg := &boxes[i]
		agg.X0 = math.Min(agg.X0, b.X0)
		agg.Y0 = math.Min(agg.Y0, b.Y0)
		agg.X1 = math.Max(agg.X1, b.X1)
		agg.Y1 = math.Max(agg.Y1, b.Y1)
	}

	return boxes
}

func aggregatePosition(elements []Element) AggregatePosition {
	if len(elements) == 0 {
		return AggregatePosition{}
	}

	first := elements[0].Bbox()
	pos := AggregatePosition{MinPage: first.Page, MinY0: first.Y0, MinX0: first.X0}
	for _, e := range elements[1:] {
		b := e.Bbox()
		if b.Page < pos.MinPage {
			pos.MinPage = b.Page
		}
		pos.MinY0 = math.Min(pos.MinY0, b.Y0)
		pos.MinX0 = math.Min(pos.MinX0, b.X0)
	}
	return pos
}

// serializeElements sorts a copy of elements top-to-bottom, left-to-right
// within each page and joins their text.
func serializeElements(elements []Element, margin float64) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := append([]Element(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := sorted[i].Bbox(), sorted[j].Bbox()
		if bi.Page != bj.Page {
			return bi.Page < bj.Page
		}
		if bi.Y1 != bj.Y1 {
			return bi.Y1 > bj.Y1
		}
		return bi.X0 < bj.X0
	})

	var sb strings.Builder
	for i, e := range sorted {
		if i > 0 {
			if e.IsAtSimilarHeight(sorted[i-1], margin) {
				sb.WriteString(" ")
			} else {
				sb.WriteString(BlockSeparator)
			}
		}
		sb.WriteString(e.Text())
	}

	return sb.String()
}
