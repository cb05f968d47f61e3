// Package tfidf builds a term vocabulary over a document collection and
// weights token sequences by term frequency and inverse document frequency.
//
// A Model is built per retrieval from the current documents and is not
// cached, so IDF always reflects the collection it was fitted on.
package tfidf

import (
	"math"

	"voiceqa/internal/embedding"
)

// Model is a fitted vocabulary with its document set.
type Model struct {
	vocabulary map[string]int
	terms      []string
	documents  [][]string
	docFreq    map[string]int
}

var _ embedding.Model = (*Model)(nil)

// Fit assigns vocabulary indices in first-occurrence order while scanning
// documents, and records the documents as the population for IDF.
// Document i of the model is documents[i].
func Fit(documents [][]string) *Model {
	m := &Model{
		vocabulary: make(map[string]int),
		documents:  documents,
		docFreq:    make(map[string]int),
	}
	for _, doc := range documents {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := m.vocabulary[tok]; !ok {
				m.vocabulary[tok] = len(m.terms)
				m.terms = append(m.terms, tok)
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			m.docFreq[tok]++
		}
	}
	return m
}

// Fitter adapts Fit to embedding.Fitter.
func Fitter(documents [][]string) embedding.Model { return Fit(documents) }

// Name returns the identifier of this model.
func (m *Model) Name() string { return "tfidf" }

// Dimension is the vocabulary size.
func (m *Model) Dimension() int { return len(m.terms) }

// Index returns the vocabulary index of term.
func (m *Model) Index(term string) (int, bool) {
	i, ok := m.vocabulary[term]
	return i, ok
}

// Terms returns the vocabulary in index order.
func (m *Model) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// Documents returns the document set the model was fitted on.
func (m *Model) Documents() [][]string { return m.documents }

// IDF returns ln(N / (1 + df)) for term using the fitted document frequencies.
func (m *Model) IDF(term string) float64 {
	return idf(len(m.documents), m.docFreq[term])
}

// Vectorize returns a vector of length Dimension. Each distinct token known
// to the vocabulary is weighted tf*idf; unknown tokens are dropped.
func (m *Model) Vectorize(tokens []string) []float64 {
	vec := make([]float64, len(m.terms))
	if len(tokens) == 0 {
		return vec
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	total := float64(len(tokens))
	for tok, count := range counts {
		idx, ok := m.vocabulary[tok]
		if !ok {
			continue
		}
		vec[idx] = float64(count) / total * m.IDF(tok)
	}
	return vec
}

// TermFrequency is the share of tokens equal to term, 0 for no tokens.
func TermFrequency(term string, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	count := 0
	for _, tok := range tokens {
		if tok == term {
			count++
		}
	}
	return float64(count) / float64(len(tokens))
}

// InverseDocumentFrequency is ln(N / (1 + k)) where k is the number of
// documents containing term. It is negative once k+1 exceeds N.
func InverseDocumentFrequency(term string, documents [][]string) float64 {
	k := 0
	for _, doc := range documents {
		for _, tok := range doc {
			if tok == term {
				k++
				break
			}
		}
	}
	return idf(len(documents), k)
}

func idf(n, df int) float64 {
	return math.Log(float64(n) / float64(1+df))
}
