package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceqa/internal/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "negative weights against itself", a: []float64{-0.3, -0.1}, b: []float64{-0.3, -0.1}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "half", a: []float64{1, 0, 1}, b: []float64{0, 1, 1}, want: 0.5},
		{name: "opposite", a: []float64{1, 1}, b: []float64{-1, -1}, want: -1},
		{name: "zero vector", a: []float64{1, 2}, b: []float64{0, 0}, want: 0},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
		{name: "dimension mismatch", a: []float64{1}, b: []float64{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-12)
		})
	}
}

func newStore(t *testing.T, pairs []domain.QAPair, vectors [][]float64) *Storage {
	t.Helper()
	s := NewStorage()
	require.NoError(t, s.Init(len(vectors[0])))
	require.NoError(t, s.Upsert(pairs, vectors))
	return s
}

func TestBest(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "q1", Response: "r1"},
		{Question: "q2", Response: "r2"},
		{Question: "q3", Response: "r3"},
	}
	vectors := [][]float64{{1, 0}, {0, 1}, {0, 1}}
	s := newStore(t, pairs, vectors)

	best, err := s.Best([]float64{0, 2})
	require.NoError(t, err)
	assert.Equal(t, "r2", best.Pair.Response, "first of two tied entries wins")
	assert.InDelta(t, 1.0, best.Score, 1e-12)

	best, err = s.Best([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "r1", best.Pair.Response, "all-zero similarities keep the first entry")
	assert.Zero(t, best.Score)
}

func TestBestEmpty(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(3))
	_, err := s.Best([]float64{1, 0, 0})
	assert.ErrorIs(t, err, domain.ErrNoCandidates)

	_, err = s.Search([]float64{1, 0, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
}

func TestSearch(t *testing.T) {
	pairs := []domain.QAPair{
		{Response: "a"}, {Response: "b"}, {Response: "c"}, {Response: "d"},
	}
	vectors := [][]float64{{0, 1}, {1, 0}, {1, 1}, {1, 0}}
	s := newStore(t, pairs, vectors)

	res, err := s.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "b", res[0].Pair.Response)
	assert.Equal(t, "d", res[1].Pair.Response)
	assert.Equal(t, "c", res[2].Pair.Response)

	all, err := s.Search([]float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	def, err := s.Search([]float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, def, 4)
}

func TestUpsertValidation(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	assert.Error(t, s.Upsert([]domain.QAPair{{}}, nil))
	assert.Error(t, s.Upsert([]domain.QAPair{{}}, [][]float64{{1}}))
	assert.Error(t, s.Init(-1))
	assert.NoError(t, s.Init(0))
}

func TestClear(t *testing.T) {
	s := newStore(t, []domain.QAPair{{Response: "x"}}, [][]float64{{1}})
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
}
