package vectorstore

import "voiceqa/internal/domain"

// Storage holds the response vectors of one retrieval and scores queries against them.
type Storage interface {
	Init(dimension int) error
	Upsert(pairs []domain.QAPair, vectors [][]float64) error
	Best(vector []float64) (domain.Match, error)
	Search(vector []float64, topK int) ([]domain.Match, error)
	Clear() error
}
