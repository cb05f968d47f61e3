// Package evaluation scores a response against an ideal answer by keyword
// coverage and relative length.
package evaluation

import (
	"fmt"
	"math"
	"strings"

	"voiceqa/internal/domain"
	"voiceqa/internal/text"
)

// Weights combines the two score components. They must be non-negative and sum to 1.
type Weights struct {
	Keywords float64
	Length   float64
}

// DefaultWeights favours keyword coverage over length.
var DefaultWeights = Weights{Keywords: 0.7, Length: 0.3}

// Validate checks that w is a convex combination.
func (w Weights) Validate() error {
	if w.Keywords < 0 || w.Length < 0 {
		return fmt.Errorf("weights must be non-negative, got %v/%v", w.Keywords, w.Length)
	}
	if math.Abs(w.Keywords+w.Length-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %v", w.Keywords+w.Length)
	}
	return nil
}

// Evaluator scores responses. It has no state beyond its configuration.
type Evaluator struct {
	tokenizer text.Tokenizer
	weights   Weights
}

var _ domain.Evaluator = (*Evaluator)(nil)

// NewEvaluator returns an evaluator using tokenizer for responses, ideal answers and keywords.
func NewEvaluator(tokenizer text.Tokenizer, weights Weights) (*Evaluator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{tokenizer: tokenizer, weights: weights}, nil
}

// Evaluate computes
//
//	match  = |keywords found as exact tokens of response| / |keywords|
//	length = min(|tokens(response)| / |tokens(ideal)|, 1)
//	score  = wk*match + wl*length
//
// Keywords are folded with the tokenizer's case policy and treated as a set.
// An empty keyword set or an ideal answer without terms returns
// domain.ErrInvalidEvaluationInput.
func (e *Evaluator) Evaluate(response, ideal string, keywords []string) (domain.Evaluation, error) {
	set := e.keywordSet(keywords)
	if len(set) == 0 {
		return domain.Evaluation{}, fmt.Errorf("%w: no keywords", domain.ErrInvalidEvaluationInput)
	}
	idealTokens := e.tokenizer.Tokenize(ideal)
	if len(idealTokens) == 0 {
		return domain.Evaluation{}, fmt.Errorf("%w: ideal answer has no terms", domain.ErrInvalidEvaluationInput)
	}

	respTokens := e.tokenizer.Tokenize(response)
	present := make(map[string]struct{}, len(respTokens))
	for _, tok := range respTokens {
		present[tok] = struct{}{}
	}

	ev := domain.Evaluation{}
	for _, kw := range set {
		if _, ok := present[kw]; ok {
			ev.Matched = append(ev.Matched, kw)
		} else {
			ev.Missing = append(ev.Missing, kw)
		}
	}
	ev.MatchRatio = float64(len(ev.Matched)) / float64(len(set))
	ev.LengthFactor = math.Min(float64(len(respTokens))/float64(len(idealTokens)), 1.0)
	ev.Score = e.weights.Keywords*ev.MatchRatio + e.weights.Length*ev.LengthFactor
	return ev, nil
}

// keywordSet folds, trims and de-duplicates keywords, keeping first appearance order.
func (e *Evaluator) keywordSet(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = e.tokenizer.Fold(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
