// Package tokenizer converts free text into a space-delimited token stream
// used for substring-based search indexing. Tokens are indexing metadata
// only and are never shown to users.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"
)

// Tokenizer segments text into word units. It supports scripts without
// whitespace-delimited words (CJK) through gse's embedded dictionary.
// Segmentation is deterministic: identical input yields the identical
// token string.
type Tokenizer struct {
	seg gse.Segmenter
}

// New creates a Tokenizer with the default embedded dictionary loaded.
func New() (*Tokenizer, error) {
	t := &Tokenizer{}
	if err := t.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmenter dictionary: %w", err)
	}
	return t, nil
}

// Tokenize segments text and joins the resulting words with single spaces.
// Empty input returns the empty string.
func (t *Tokenizer) Tokenize(text string) string {
	if text == "" {
		return ""
	}

	segments := t.seg.Cut(text, true)
	words := make([]string, 0, len(segments))
	for _, word := range segments {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return strings.Join(words, " ")
}
