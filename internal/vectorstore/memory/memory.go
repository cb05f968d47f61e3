package memory

import (
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"voiceqa/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Entries keep their insertion order, which breaks similarity ties.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	pairs     []domain.QAPair
}

func NewStorage() *Storage { return &Storage{} }

// Init resets the store for vectors of the given dimension. A zero
// dimension is allowed: a vocabulary can be empty when every response is blank.
func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.pairs = nil
	return nil
}

func (s *Storage) Upsert(pairs []domain.QAPair, vectors [][]float64) error {
	if len(pairs) != len(vectors) {
		return errors.New("pairs and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.pairs = append(s.pairs, pairs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Best returns the entry most similar to vector. Only a strictly greater
// similarity replaces the current best, so the first entry wins a tie.
func (s *Storage) Best(vector []float64) (domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pairs) == 0 {
		return domain.Match{}, domain.ErrNoCandidates
	}
	best := domain.Match{Score: -1}
	for i := range s.vectors {
		sim := Cosine(vector, s.vectors[i])
		if sim > best.Score {
			best = domain.Match{Pair: s.pairs[i], Score: sim}
		}
	}
	return best, nil
}

// Search returns up to topK entries by descending similarity, ties in insertion order.
func (s *Storage) Search(vector []float64, topK int) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pairs) == 0 {
		return nil, domain.ErrNoCandidates
	}
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = Cosine(vector, s.vectors[i])
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Match, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.Match{Pair: s.pairs[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.pairs = nil
	return nil
}

// Len is the number of stored entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}

// Cosine returns dot(a,b) / (|a| |b|). It is 0 when either vector is
// empty or has zero norm, and when the dimensions differ.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
