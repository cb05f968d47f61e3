package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceqa/internal/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		order     Order
		wantPairs []domain.QAPair
		wantQs    []string
	}{
		{
			name:      "empty",
			input:     "",
			wantPairs: []domain.QAPair{},
			wantQs:    []string{},
		},
		{
			name:  "single pair",
			input: "What subject do you like?\nArtificial Intelligence is my favourite subject\n",
			wantPairs: []domain.QAPair{
				{Question: "What subject do you like?", Response: "Artificial Intelligence is my favourite subject"},
			},
			wantQs: []string{"What subject do you like?"},
		},
		{
			name:  "crlf terminators",
			input: "q1\r\nr1\r\n",
			wantPairs: []domain.QAPair{
				{Question: "q1", Response: "r1"},
			},
			wantQs: []string{"q1"},
		},
		{
			name:  "trailing question dropped",
			input: "q1\nr1\nq2\n",
			wantPairs: []domain.QAPair{
				{Question: "q1", Response: "r1"},
			},
			wantQs: []string{"q1"},
		},
		{
			name:  "blank line pair skipped",
			input: "q1\nr1\n\nr2\nq3\nr3\n",
			wantPairs: []domain.QAPair{
				{Question: "q1", Response: "r1"},
				{Question: "q3", Response: "r3"},
			},
			wantQs: []string{"q1", "q3"},
		},
		{
			name:  "lexical order",
			input: "zeta\nlast\nalpha\nfirst\n",
			order: Lexical,
			wantPairs: []domain.QAPair{
				{Question: "alpha", Response: "first"},
				{Question: "zeta", Response: "last"},
			},
			wantQs: []string{"zeta", "alpha"},
		},
		{
			name:  "insertion order",
			input: "zeta\nlast\nalpha\nfirst\n",
			order: Insertion,
			wantPairs: []domain.QAPair{
				{Question: "zeta", Response: "last"},
				{Question: "alpha", Response: "first"},
			},
			wantQs: []string{"zeta", "alpha"},
		},
		{
			name:  "duplicate question last wins",
			input: "q\nold\nother\nx\nq\nnew\n",
			order: Insertion,
			wantPairs: []domain.QAPair{
				{Question: "q", Response: "new"},
				{Question: "other", Response: "x"},
			},
			wantQs: []string{"q", "other", "q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(strings.NewReader(tt.input), tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPairs, c.Pairs())
			assert.Equal(t, tt.wantQs, c.Questions())
			assert.Equal(t, len(tt.wantPairs), c.Len())
		})
	}
}

func TestLookupAndFirst(t *testing.T) {
	c, err := Load(strings.NewReader("b\n2\na\n1\n"), Lexical)
	require.NoError(t, err)

	r, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", r)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	first, ok := c.First()
	assert.True(t, ok)
	assert.Equal(t, "b", first, "first question follows the source, not the iteration order")

	empty, err := Load(strings.NewReader(""), Lexical)
	require.NoError(t, err)
	_, ok = empty.First()
	assert.False(t, ok)
}

func TestPairsReturnsCopy(t *testing.T) {
	c, err := Load(strings.NewReader("q\nr\n"), Lexical)
	require.NoError(t, err)
	p := c.Pairs()
	p[0].Response = "changed"
	assert.Equal(t, "r", c.Pairs()[0].Response)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlp.txt")
	require.NoError(t, os.WriteFile(path, []byte("q\nr\n"), 0o644))

	c, err := LoadFile(path, Insertion)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, Insertion, c.Order())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"), Lexical)
	assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Lexical, o)

	o, err = ParseOrder(" Insertion ")
	require.NoError(t, err)
	assert.Equal(t, Insertion, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}
