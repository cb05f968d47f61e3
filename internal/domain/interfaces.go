package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoCandidates is returned when a retrieval runs against a corpus with no responses.
	ErrNoCandidates = errors.New("no candidate responses")
	// ErrInvalidEvaluationInput is returned for an empty keyword set or an ideal answer without terms.
	ErrInvalidEvaluationInput = errors.New("invalid evaluation input")
	// ErrEmptyCorpus is returned when the corpus store holds no complete question/response pair.
	ErrEmptyCorpus = errors.New("corpus has no question/response pairs")
	// ErrCorpusUnavailable is returned when the corpus store cannot be opened.
	ErrCorpusUnavailable = errors.New("corpus store unavailable")
	// ErrInvalidRecording is returned when a recording does not match the expected audio format.
	ErrInvalidRecording = errors.New("invalid recording")
)

// QAPair is one stored question/response record.
type QAPair struct {
	Question string
	Response string
}

// Match is the best-scoring pair of a retrieval, or one entry of a ranking.
type Match struct {
	Pair  QAPair
	Score float64
}

// Evaluation holds the heuristic score of a response and its two components.
type Evaluation struct {
	MatchRatio   float64
	LengthFactor float64
	Score        float64
	Matched      []string
	Missing      []string
}

// Recording is the audio produced by the capture stage.
type Recording struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Transcript is the text produced by the transcription stage.
type Transcript struct {
	Raw  string
	Text string
}

// Report is the outcome of a full question/answer round.
type Report struct {
	Question   string
	Transcript Transcript
	Match      Match
	// Spoken scores the transcript itself against the ideal answer.
	Spoken Evaluation
	// Retrieved scores the best stored response against the ideal answer.
	Retrieved Evaluation
}

// Capturer produces a recording of the user's spoken answer.
type Capturer interface {
	Capture(ctx context.Context) (Recording, error)
}

// Transcriber converts a recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, rec Recording) (Transcript, error)
}

// Retriever finds the stored response most similar to a query.
type Retriever interface {
	Retrieve(query string, pairs []QAPair) (Match, error)
	Rank(query string, pairs []QAPair, topK int) ([]Match, error)
}

// Evaluator scores a response against an ideal answer and a keyword set.
type Evaluator interface {
	Evaluate(response, ideal string, keywords []string) (Evaluation, error)
}
