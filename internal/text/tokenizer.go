// Package text splits raw text into terms for vectorization and keyword matching.
package text

import (
	"strings"

	"golang.org/x/text/cases"
)

// Tokenizer splits text on runs of whitespace.
// Punctuation is kept as part of the term and nothing is stemmed.
type Tokenizer struct {
	// Lowercase case-folds text before splitting, so "Artificial" and
	// "artificial" are the same term.
	Lowercase bool
}

// NewTokenizer returns a tokenizer with the given case policy.
func NewTokenizer(lowercase bool) Tokenizer {
	return Tokenizer{Lowercase: lowercase}
}

// Tokenize returns the terms of text in order. Empty or all-whitespace
// input yields no terms.
func (t Tokenizer) Tokenize(text string) []string {
	return strings.Fields(t.Fold(text))
}

// Fold applies the tokenizer's case policy to s.
func (t Tokenizer) Fold(s string) string {
	if !t.Lowercase || s == "" {
		return s
	}
	// a Caser carries state, so one is built per call
	return cases.Fold().String(s)
}
