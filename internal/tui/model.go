package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voiceqa/internal/domain"
	"voiceqa/internal/text"
)

// QAPort is the TUI-facing subset of the QA service.
type QAPort interface {
	Question() string
	Rank(query string, topK int) ([]domain.Match, error)
	Evaluate(response string) (domain.Evaluation, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   QAPort
	tokenizer text.Tokenizer
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.Match
	scores    []domain.Evaluation
	status    string
	evalErr   error
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. The tokenizer decides which words of
// a response are highlighted as shared with the answer.
func New(service QAPort, tokenizer text.Tokenizer, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your answer and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if topK <= 0 {
		topK = 10
	}
	return Model{service: service, tokenizer: tokenizer, topK: topK, input: ti, viewport: vp, status: "Loaded. Type an answer to search."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + question
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.runQuery(q)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runQuery(q string) Model {
	res, err := m.service.Rank(q, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		m.scores = nil
		return m
	}
	scores := make([]domain.Evaluation, len(res))
	var evalErr error
	for i, r := range res {
		ev, err := m.service.Evaluate(r.Pair.Response)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		scores[i] = ev
	}
	m.results = res
	m.scores = scores
	m.evalErr = evalErr
	m.cursor = 0
	m.lastQuery = q
	ev, err := m.service.Evaluate(q)
	switch {
	case err != nil:
		m.status = fmt.Sprintf("Results for %q (evaluation unavailable: %v)", q, err)
	case evalErr != nil:
		m.status = fmt.Sprintf("Results for %q  answer score=%.3f (result evaluation failed: %v)", q, ev.Score, evalErr)
	default:
		m.status = fmt.Sprintf("Results for %q  answer score=%.3f", q, ev.Score)
	}
	return m
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Voice QA")
	question := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Question: " + m.service.Question())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + question + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	ev := m.scores[m.cursor]
	evaluation := fmt.Sprintf("%.3f", ev.Score)
	if m.evalErr != nil {
		evaluation = "n/a"
	}
	title := fmt.Sprintf("Result %d/%d  similarity=%.3f  evaluation=%s", m.cursor+1, len(m.results), r.Score, evaluation)
	body := highlightTerms(r.Pair.Response, m.lastQuery, m.tokenizer)
	return title + "\n\n" + questionStyle.Render(r.Pair.Question) + "\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	questionStyle  = lipgloss.NewStyle().Italic(true)
)

// highlightTerms marks the words of response that match a query term.
func highlightTerms(response, query string, tok text.Tokenizer) string {
	words := strings.Fields(response)
	hits := queryHits(words, query, tok)
	if hits == nil {
		return response
	}
	for i, w := range words {
		if hits[i] {
			words[i] = highlightStyle.Render(w)
		}
	}
	return strings.Join(words, " ")
}

// queryHits reports, per word, whether it equals a query term under the
// tokenizer's case policy. It returns nil when the query has no terms.
func queryHits(words []string, query string, tok text.Tokenizer) []bool {
	terms := tok.Tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	hits := make([]bool, len(words))
	for i, w := range words {
		_, hits[i] = set[tok.Fold(w)]
	}
	return hits
}
