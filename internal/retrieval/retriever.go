// Package retrieval ranks stored responses against a query by TF-IDF cosine similarity.
package retrieval

import (
	"github.com/sirupsen/logrus"

	"voiceqa/internal/domain"
	"voiceqa/internal/embedding"
	"voiceqa/internal/embedding/tfidf"
	"voiceqa/internal/text"
	"voiceqa/internal/vectorstore"
	"voiceqa/internal/vectorstore/memory"
)

// Retriever scores a query against every response of a corpus snapshot.
// The vocabulary and document set are rebuilt on each call, so nothing is
// shared between calls.
type Retriever struct {
	tokenizer text.Tokenizer
	fit       embedding.Fitter
	newStore  func() vectorstore.Storage
	logger    *logrus.Entry
}

var _ domain.Retriever = (*Retriever)(nil)

// NewRetriever returns a TF-IDF retriever backed by the in-memory store.
func NewRetriever(tokenizer text.Tokenizer, logger *logrus.Entry) *Retriever {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Retriever{
		tokenizer: tokenizer,
		fit:       tfidf.Fitter,
		newStore:  func() vectorstore.Storage { return memory.NewStorage() },
		logger:    logger.WithField("component", "retriever"),
	}
}

// Retrieve returns the response most similar to query. Ties keep the first
// pair in the order given. An empty pairs slice yields domain.ErrNoCandidates.
func (r *Retriever) Retrieve(query string, pairs []domain.QAPair) (domain.Match, error) {
	store, qvec, err := r.index(query, pairs)
	if err != nil {
		return domain.Match{}, err
	}
	best, err := store.Best(qvec)
	if err != nil {
		return domain.Match{}, err
	}
	r.logger.WithFields(logrus.Fields{
		"question": best.Pair.Question,
		"score":    best.Score,
	}).Debug("best response selected")
	return best, nil
}

// Rank returns up to topK pairs ordered by similarity to query.
func (r *Retriever) Rank(query string, pairs []domain.QAPair, topK int) ([]domain.Match, error) {
	store, qvec, err := r.index(query, pairs)
	if err != nil {
		return nil, err
	}
	return store.Search(qvec, topK)
}

func (r *Retriever) index(query string, pairs []domain.QAPair) (vectorstore.Storage, []float64, error) {
	if len(pairs) == 0 {
		return nil, nil, domain.ErrNoCandidates
	}
	documents := make([][]string, len(pairs))
	for i, p := range pairs {
		documents[i] = r.tokenizer.Tokenize(p.Response)
	}
	model := r.fit(documents)

	store := r.newStore()
	if err := store.Init(model.Dimension()); err != nil {
		return nil, nil, err
	}
	vectors := make([][]float64, len(documents))
	for i, doc := range documents {
		vectors[i] = model.Vectorize(doc)
	}
	if err := store.Upsert(pairs, vectors); err != nil {
		return nil, nil, err
	}

	qtokens := r.tokenizer.Tokenize(query)
	r.logger.WithFields(logrus.Fields{
		"model":       model.Name(),
		"vocabulary":  model.Dimension(),
		"documents":   len(documents),
		"query_terms": len(qtokens),
	}).Debug("index built")
	return store, model.Vectorize(qtokens), nil
}
