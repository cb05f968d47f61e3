package keywords

import (
	"sort"
	"strings"
	"unicode"

	"voiceqa/internal/text"
)

// FrequencyExtractor ranks the terms of a text by frequency (stopwords filtered).
// It supplies evaluation keywords when none are configured.
type FrequencyExtractor struct {
	tokenizer text.Tokenizer
	stopwords map[string]struct{}
}

// NewFrequencyExtractor creates a frequency-based keyword extractor.
func NewFrequencyExtractor(tokenizer text.Tokenizer) *FrequencyExtractor {
	return &FrequencyExtractor{
		tokenizer: tokenizer,
		stopwords: defaultStopwords(),
	}
}

// Extract returns up to max distinct terms of s, most frequent first.
// Equal counts keep the order of first appearance.
func (x *FrequencyExtractor) Extract(s string, max int) []string {
	if max <= 0 {
		max = 3
	}
	freq := map[string]int{}
	var order []string
	for _, tok := range x.tokenizer.Tokenize(s) {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if tok == "" {
			continue
		}
		if _, stop := x.stopwords[strings.ToLower(tok)]; stop {
			continue
		}
		if _, ok := freq[tok]; !ok {
			order = append(order, tok)
		}
		freq[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if max > len(order) {
		max = len(order)
	}
	return order[:max]
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "my", "me", "you", "your", "we", "our", "do", "does", "always",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
