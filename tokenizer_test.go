package pdfnodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordEstimateTokenizer(t *testing.T) {
	var tok WordEstimateTokenizer

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Equal(t, 0, tok.CountTokens("   \n\t"))
	assert.Equal(t, 2, tok.CountTokens("hello"))
	assert.Equal(t, 4, tok.CountTokens("one two three"))
	assert.Equal(t, 13, tok.CountTokens("a b c d e f g h i j"))
}

func TestWordEstimateTokenizer_Deterministic(t *testing.T) {
	var tok WordEstimateTokenizer
	text := "The quick brown fox jumps over the lazy dog"
	assert.Equal(t, tok.CountTokens(text), tok.CountTokens(text))
}

func TestTokenizerFunc(t *testing.T) {
	tok := TokenizerFunc(func(text string) int { return 7 })
	assert.Equal(t, 7, tok.CountTokens("anything"))
}

func TestTiktokenTokenizer(t *testing.T) {
	tok, err := NewTiktokenTokenizer("")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Equal(t, 2, tok.CountTokens("hello world"))
	assert.Equal(t, tok.CountTokens("<|endoftext|>"), tok.CountTokens("<|endoftext|>"))
	assert.Greater(t, tok.CountTokens("<|endoftext|>"), 1, "special tokens are counted as text")
}
