package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"voiceqa/internal/corpus"
	"voiceqa/internal/domain"
)

// Options carries the reference answer and the optional audio stages.
type Options struct {
	IdealAnswer string
	Keywords    []string
	Capturer    domain.Capturer
	Transcriber domain.Transcriber
}

// QAService answers spoken or typed questions from a loaded corpus.
// The corpus is read-only after construction.
type QAService struct {
	corpus      *corpus.Corpus
	retriever   domain.Retriever
	evaluator   domain.Evaluator
	capturer    domain.Capturer
	transcriber domain.Transcriber
	ideal       string
	keywords    []string
	logger      *logrus.Entry
}

// NewQAService wires the pipeline stages. An empty corpus is a setup
// failure and returns domain.ErrEmptyCorpus.
func NewQAService(c *corpus.Corpus, retriever domain.Retriever, evaluator domain.Evaluator, opts Options, logger *logrus.Entry) (*QAService, error) {
	if c == nil || c.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &QAService{
		corpus:      c,
		retriever:   retriever,
		evaluator:   evaluator,
		capturer:    opts.Capturer,
		transcriber: opts.Transcriber,
		ideal:       opts.IdealAnswer,
		keywords:    opts.Keywords,
		logger:      logger.WithField("component", "service"),
	}, nil
}

// Question is the prompt put to the user: the first question of the corpus source.
func (s *QAService) Question() string {
	q, _ := s.corpus.First()
	return q
}

// Keywords returns the keyword set responses are scored against.
func (s *QAService) Keywords() []string { return s.keywords }

// Retrieve returns the stored response most similar to query.
func (s *QAService) Retrieve(query string) (domain.Match, error) {
	return s.retriever.Retrieve(query, s.corpus.Pairs())
}

// Rank returns up to topK stored responses ordered by similarity to query.
func (s *QAService) Rank(query string, topK int) ([]domain.Match, error) {
	return s.retriever.Rank(query, s.corpus.Pairs(), topK)
}

// Evaluate scores response against the configured ideal answer and keywords.
func (s *QAService) Evaluate(response string) (domain.Evaluation, error) {
	return s.evaluator.Evaluate(response, s.ideal, s.keywords)
}

// Answer retrieves the best response for query and scores both the query
// itself and the retrieved response.
func (s *QAService) Answer(query string) (domain.Report, error) {
	report := domain.Report{
		Question:   s.Question(),
		Transcript: domain.Transcript{Raw: query, Text: query},
	}
	match, err := s.Retrieve(query)
	if err != nil {
		return report, fmt.Errorf("retrieve: %w", err)
	}
	report.Match = match

	if report.Spoken, err = s.Evaluate(query); err != nil {
		return report, fmt.Errorf("evaluate answer: %w", err)
	}
	if report.Retrieved, err = s.Evaluate(match.Pair.Response); err != nil {
		return report, fmt.Errorf("evaluate response: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"similarity": match.Score,
		"spoken":     report.Spoken.Score,
		"retrieved":  report.Retrieved.Score,
	}).Info("answer scored")
	return report, nil
}

// Run records the user's answer, transcribes it and scores it.
// Stages run in order and each takes the previous stage's output.
func (s *QAService) Run(ctx context.Context) (domain.Report, error) {
	if s.capturer == nil || s.transcriber == nil {
		return domain.Report{}, errors.New("capture and transcription stages are not configured")
	}
	rec, err := s.capturer.Capture(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("capture: %w", err)
	}
	tr, err := s.transcriber.Transcribe(ctx, rec)
	if err != nil {
		return domain.Report{}, fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(tr.Text) == "" {
		s.logger.Warn("transcript is empty after removing silence")
	}
	report, err := s.Answer(tr.Text)
	report.Transcript = tr
	return report, err
}
