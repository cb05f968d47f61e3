package retrieval

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceqa/internal/domain"
	"voiceqa/internal/text"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(l)
}

func TestRetrieveExactResponse(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "What subject do you like?", Response: "Artificial Intelligence is my favourite subject"},
	}
	for _, lower := range []bool{false, true} {
		r := NewRetriever(text.NewTokenizer(lower), testLogger())
		m, err := r.Retrieve("Artificial Intelligence is my favourite subject", pairs)
		require.NoError(t, err)
		assert.Equal(t, pairs[0].Response, m.Pair.Response)
		assert.InDelta(t, 1.0, m.Score, 1e-9)
	}
}

func TestRetrieveDisjointResponseScoresZero(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "a", Response: "cats purr softly"},
		{Question: "b", Response: "dogs bark loudly at night"},
		{Question: "c", Response: "birds sing"},
	}
	r := NewRetriever(text.NewTokenizer(true), testLogger())

	ranked, err := r.Rank("dogs bark", pairs, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "dogs bark loudly at night", ranked[0].Pair.Response)
	assert.Greater(t, ranked[0].Score, 0.0)
	for _, m := range ranked[1:] {
		assert.Zero(t, m.Score, m.Pair.Response)
	}

	best, err := r.Retrieve("dogs bark", pairs)
	require.NoError(t, err)
	assert.Equal(t, ranked[0].Pair, best.Pair)
	assert.InDelta(t, ranked[0].Score, best.Score, 1e-12)
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	r := NewRetriever(text.NewTokenizer(true), testLogger())
	_, err := r.Retrieve("anything", nil)
	assert.ErrorIs(t, err, domain.ErrNoCandidates)

	_, err = r.Rank("anything", []domain.QAPair{}, 5)
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
}

func TestRetrieveTieKeepsFirst(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "x", Response: "alpha beta"},
		{Question: "y", Response: "gamma delta"},
		{Question: "z", Response: "alpha beta"},
		{Question: "w", Response: "epsilon zeta"},
	}
	r := NewRetriever(text.NewTokenizer(true), testLogger())

	m, err := r.Retrieve("alpha beta", pairs)
	require.NoError(t, err)
	assert.Equal(t, "x", m.Pair.Question)
	assert.InDelta(t, 1.0, m.Score, 1e-9)

	// nothing in common with any response: every score is 0, first pair stays
	m, err = r.Retrieve("unrelated words", pairs)
	require.NoError(t, err)
	assert.Equal(t, "x", m.Pair.Question)
	assert.Zero(t, m.Score)
}

func TestRetrieveCasePolicy(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "q1", Response: "machine learning"},
		{Question: "q2", Response: "Deep Learning models"},
		{Question: "q3", Response: "cooking recipes"},
	}

	folded := NewRetriever(text.NewTokenizer(true), testLogger())
	m, err := folded.Retrieve("DEEP models", pairs)
	require.NoError(t, err)
	assert.Equal(t, "q2", m.Pair.Question)

	exact := NewRetriever(text.NewTokenizer(false), testLogger())
	m, err = exact.Retrieve("DEEP MODELS", pairs)
	require.NoError(t, err)
	assert.Equal(t, "q1", m.Pair.Question, "no shared term: first pair wins at zero")
	assert.Zero(t, m.Score)
}

func TestRetrieveDeterministic(t *testing.T) {
	pairs := []domain.QAPair{
		{Question: "a", Response: "the quick brown fox"},
		{Question: "b", Response: "the lazy dog sleeps"},
		{Question: "c", Response: "a quick brown dog"},
	}
	r := NewRetriever(text.NewTokenizer(true), testLogger())

	first, err := r.Retrieve("quick dog", pairs)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Retrieve("quick dog", pairs)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRetrieveNilLogger(t *testing.T) {
	r := NewRetriever(text.NewTokenizer(true), nil)
	_, err := r.Retrieve("x", []domain.QAPair{{Question: "q", Response: "x"}})
	assert.NoError(t, err)
}
