// Package corpus loads the question/response pairs the retriever searches.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"voiceqa/internal/domain"
)

// Order selects the iteration order of Pairs. It decides which response
// wins when two responses score the same similarity.
type Order string

const (
	// Lexical iterates by question text.
	Lexical Order = "lexical"
	// Insertion iterates by the first appearance of each question in the source.
	Insertion Order = "insertion"
)

// ParseOrder maps a config value to an Order; the empty string means Lexical.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Lexical, "":
		return Lexical, nil
	case Insertion:
		return Insertion, nil
	default:
		return "", fmt.Errorf("unknown corpus order %q", s)
	}
}

// Corpus is an immutable set of question/response pairs.
type Corpus struct {
	order     Order
	questions []string
	responses map[string]string
	pairs     []domain.QAPair
}

// Load reads alternating question and response lines from r.
// A pair is kept only when both lines are non-empty; an unpaired trailing
// question is dropped. A repeated question keeps its last response.
func Load(r io.Reader, order Order) (*Corpus, error) {
	c := &Corpus{order: order, responses: make(map[string]string)}
	var firstSeen []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		question := strings.TrimRight(scanner.Text(), "\r")
		if !scanner.Scan() {
			break
		}
		response := strings.TrimRight(scanner.Text(), "\r")
		if question == "" || response == "" {
			continue
		}
		if _, ok := c.responses[question]; !ok {
			firstSeen = append(firstSeen, question)
		}
		c.responses[question] = response
		c.questions = append(c.questions, question)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	keys := firstSeen
	if order != Insertion {
		keys = make([]string, len(firstSeen))
		copy(keys, firstSeen)
		sort.Strings(keys)
	}
	c.pairs = make([]domain.QAPair, len(keys))
	for i, q := range keys {
		c.pairs[i] = domain.QAPair{Question: q, Response: c.responses[q]}
	}
	return c, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, order Order) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorpusUnavailable, err)
	}
	defer f.Close()
	return Load(f, order)
}

// Pairs returns one pair per distinct question in the corpus order.
// The returned slice is a copy.
func (c *Corpus) Pairs() []domain.QAPair {
	out := make([]domain.QAPair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

// Questions returns every accepted question in source order, duplicates included.
func (c *Corpus) Questions() []string {
	out := make([]string, len(c.questions))
	copy(out, c.questions)
	return out
}

// First returns the first accepted question of the source.
func (c *Corpus) First() (string, bool) {
	if len(c.questions) == 0 {
		return "", false
	}
	return c.questions[0], true
}

// Lookup returns the response stored for question.
func (c *Corpus) Lookup(question string) (string, bool) {
	r, ok := c.responses[question]
	return r, ok
}

// Len is the number of distinct questions.
func (c *Corpus) Len() int { return len(c.pairs) }

// Order reports the iteration order of Pairs.
func (c *Corpus) Order() Order { return c.order }
