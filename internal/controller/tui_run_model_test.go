package controller

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/mutiny/internal/model"
)

func update(t *testing.T, rm runModel, msg tea.Msg) runModel {
	t.Helper()

	model, _ := rm.Update(msg)

	next, ok := model.(runModel)
	require.True(t, ok)

	return next
}

func TestResultItem(t *testing.T) {
	subject := testSubject("IsPositive")

	item := newResultItem(evilResult(subject, "0123456789abcdef", m.Alive))
	assert.Equal(t, "01234567 example.com/calc.IsPositive comparison alive", item.FilterValue())

	neutral := newResultItem(m.MutationResult{
		Mutation: m.Mutation{ID: "n", Subject: subject, Kind: m.Neutral, Operator: "neutral"},
		Outcome:  m.Error,
	})
	assert.Equal(t, "neutral error", neutral.status)
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, statusColor("killed"), statusColor("timeout"))
	assert.NotEqual(t, statusColor("killed"), statusColor("alive"))
	assert.NotEqual(t, statusColor("error"), statusColor("alive"))
	assert.Equal(t, statusColor("alive"), statusColor("neutral killed"))
}

func TestRunModel_Progress(t *testing.T) {
	subject := testSubject("IsPositive")
	rm := newRunModel()

	assert.Zero(t, rm.percent())

	rm = update(t, rm, runInfoMsg{info: RunInfo{Mutations: 4, Jobs: 2, ShardTotal: 1}})
	rm = update(t, rm, resultMsg{result: evilResult(subject, "a", m.Killed)})
	rm = update(t, rm, resultMsg{result: evilResult(subject, "b", m.Alive)})

	assert.Equal(t, 2, rm.completed)
	assert.InDelta(t, 0.5, rm.percent(), 1e-9)
	assert.Equal(t, m.Totals{Killed: 1, Alive: 1}, rm.totals)
	assert.Equal(t, "example.com/calc.IsPositive", rm.current)
	assert.Len(t, rm.results.Items(), 2)
}

func TestRunModel_NeutralResults(t *testing.T) {
	subject := testSubject("Add")
	rm := newRunModel()

	rm = update(t, rm, resultMsg{result: m.MutationResult{
		Mutation: m.Mutation{ID: "n1", Subject: subject, Kind: m.Neutral},
		Outcome:  m.Alive,
	}})
	assert.Zero(t, rm.neutral)
	assert.Empty(t, rm.results.Items())

	rm = update(t, rm, resultMsg{result: m.MutationResult{
		Mutation: m.Mutation{ID: "n2", Subject: subject, Kind: m.Neutral},
		Outcome:  m.Killed,
		Output:   "--- FAIL: TestAdd",
	}})
	assert.Equal(t, 1, rm.neutral)
	assert.Zero(t, rm.completed)
	assert.Len(t, rm.results.Items(), 1)
	assert.Contains(t, rm.View(), "Neutral failures: 1")
}

func TestRunModel_Keys(t *testing.T) {
	subject := testSubject("IsPositive")
	rm := newRunModel()
	rm = update(t, rm, resultMsg{result: evilResult(subject, "a", m.Alive)})

	assert.Empty(t, rm.detail())

	rm = update(t, rm, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, rm.showDetail)
	assert.Contains(t, rm.detail(), "+\treturn n >= 0")

	rm = update(t, rm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	assert.False(t, rm.showDetail)

	_, cmd := rm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRunModel_FilteringSwallowsQuit(t *testing.T) {
	rm := newRunModel()
	rm = update(t, rm, resultMsg{result: evilResult(testSubject("Add"), "a", m.Killed)})
	rm = update(t, rm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	require.Equal(t, list.Filtering, rm.results.FilterState())

	model, _ := rm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Equal(t, "q", model.(runModel).results.FilterInput.Value())
}

func TestRunModel_Detail(t *testing.T) {
	subject := testSubject("IsPositive")
	rm := newRunModel()
	rm.showDetail = true

	rm = update(t, rm, resultMsg{result: evilResult(subject, "e", m.Error)})
	assert.Equal(t, "--- FAIL: TestIsPositive", rm.detail())

	rm = newRunModel()
	rm.showDetail = true
	rm = update(t, rm, resultMsg{result: m.MutationResult{Mutation: m.Mutation{ID: "k", Subject: subject, Kind: m.Evil}}})
	assert.Equal(t, "(no details)", rm.detail())
}

func TestRunModel_WindowSizeAndVerdict(t *testing.T) {
	rm := newRunModel()

	rm = update(t, rm, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, rm.width)
	assert.Equal(t, 40, rm.height)
	assert.Equal(t, 116, rm.results.Width())

	assert.Contains(t, rm.View(), "mutiny")
	assert.NotContains(t, rm.View(), "mutiny results")

	rm = update(t, rm, verdictMsg{env: m.EnvResult{Totals: m.Totals{Killed: 2}, Success: true}})
	assert.True(t, rm.finished)

	view := rm.View()
	assert.Contains(t, view, "mutiny results")
	assert.Contains(t, view, "PASS")
	assert.Contains(t, view, "killed 2")
}

func TestResultDelegate_Render(t *testing.T) {
	rm := newRunModel()
	rm = update(t, rm, resultMsg{result: evilResult(testSubject("IsPositive"), "0123456789", m.Alive)})

	var buf bytes.Buffer
	resultDelegate{}.Render(&buf, rm.results, 0, rm.results.Items()[0])

	assert.Contains(t, buf.String(), "01234567")
	assert.Contains(t, buf.String(), "alive")
	assert.Contains(t, buf.String(), "example.com/calc.IsPositive")
}

func TestTruncate(t *testing.T) {
	assert.Empty(t, truncate("abc", 0))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}

func TestClipLines(t *testing.T) {
	assert.Equal(t, "a\nb", clipLines("a\nb\n", 2))
	assert.Equal(t, "a\nb\n… 2 more line(s)", clipLines("a\nb\nc\nd", 2))
}
