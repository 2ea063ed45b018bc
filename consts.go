package pdfnodes

// Origin is the corner of the page that coordinates are measured from.
type Origin string

const (
	TopLeft    Origin = "top-left"
	BottomLeft Origin = "bottom-left"
)

// CoordinateSystem is the origin convention shared by every Bbox. All
// geometry comparisons in this package assume it.
const CoordinateSystem = BottomLeft

// BlockSeparator is written between elements of a node that do not sit at a
// similar height. Downstream consumers split on it to recover block breaks.
const BlockSeparator = "<br><br>"

// SerializationVersion identifies the separator and origin conventions used
// to produce node text. Bump it whenever either constant changes.
const SerializationVersion = "1"

// MinHeadingSize is the smallest font size a bold span can have and still
// count as a heading.
const MinHeadingSize = 16.0

const (
	DefaultStubTokens   = 50
	DefaultLowerTokens  = 256
	DefaultUpperTokens  = 1024
	DefaultHeightMargin = 1.0

	// MaxEmbeddingTokens is the largest node an embedding model is expected
	// to accept. It is informational only; nothing here splits nodes.
	MaxEmbeddingTokens = 8000
)
