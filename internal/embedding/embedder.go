package embedding

// Model maps a token sequence to a dense vector over a fixed vocabulary.
// All vectors produced by one Model share the same dimension.
type Model interface {
	Name() string
	Dimension() int
	Vectorize(tokens []string) []float64
}

// Fitter builds a Model from a document collection, one token sequence per document.
type Fitter func(documents [][]string) Model
