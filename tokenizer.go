package pdfnodes

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens in a piece of text. Implementations must return
// the same count for the same text on every call, otherwise node size
// classification becomes unstable.
type Tokenizer interface {
	CountTokens(text string) int
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) int

// CountTokens calls f(text).
func (f TokenizerFunc) CountTokens(text string) int {
	return f(text)
}

// WordEstimateTokenizer approximates token counts as words * 1.3, rounded
// up. It needs no model files and is the default.
type WordEstimateTokenizer struct{}

// CountTokens implements Tokenizer.
func (WordEstimateTokenizer) CountTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.3))
}

// DefaultTokenizer is used by element constructors when no tokenizer is
// given.
var DefaultTokenizer Tokenizer = WordEstimateTokenizer{}

// DefaultTiktokenEncoding is the BPE encoding used by NewTiktokenTokenizer
// when none is named.
const DefaultTiktokenEncoding = "cl100k_base"

// TiktokenTokenizer counts tokens with an OpenAI BPE encoding.
type TiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding. The BPE ranks are
// downloaded on first use and cached under TIKTOKEN_CACHE_DIR.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultTiktokenEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load tiktoken encoding %q", encoding)
	}

	return &TiktokenTokenizer{encoding: enc}, nil
}

// CountTokens implements Tokenizer. Special tokens are treated as ordinary
// text.
func (t *TiktokenTokenizer) CountTokens(text string) int {
	return len(t.encoding.EncodeOrdinary(text))
}

// tokenizerOrDefault returns t, or DefaultTokenizer when t is nil.
func tokenizerOrDefault(t Tokenizer) Tokenizer {
	if t == nil {
		return DefaultTokenizer
	}
	return t
}
