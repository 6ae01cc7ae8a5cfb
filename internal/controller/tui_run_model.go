package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "gooze.dev/pkg/mutiny/internal/model"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	listChrome    = 10
	minListHeight = 5
)

// resultItem is one finished unit in the results list.
type resultItem struct {
	id       string
	subject  string
	operator string
	status   string
	diff     string
	output   string
}

func newResultItem(result m.MutationResult) resultItem {
	status := result.Outcome.String()
	if !result.Mutation.Scored() {
		status = "neutral " + status
	}

	return resultItem{
		id:       shortID(result.Mutation.ID),
		subject:  subjectOf(result.Mutation),
		operator: result.Mutation.Operator,
		status:   status,
		diff:     result.Mutation.Diff,
		output:   result.Output,
	}
}

// FilterValue implements list.Item.
func (r resultItem) FilterValue() string {
	return r.id + " " + r.subject + " " + r.operator + " " + r.status
}

// resultDelegate renders one line per result.
type resultDelegate struct{}

func (d resultDelegate) Height() int  { return 1 }
func (d resultDelegate) Spacing() int { return 0 }
func (d resultDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d resultDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	result, ok := item.(resultItem)
	if !ok {
		return
	}

	statusStyle := lipgloss.NewStyle().Foreground(statusColor(result.status)).Bold(true).Width(16)
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(10)
	operatorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Width(12)
	subjectStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	if index == l.Index() {
		selected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		statusStyle = statusStyle.Inherit(selected).Foreground(lipgloss.Color("0"))
		idStyle = idStyle.Inherit(selected).Foreground(lipgloss.Color("0"))
		operatorStyle = operatorStyle.Inherit(selected).Foreground(lipgloss.Color("0"))
		subjectStyle = selected
	}

	subjectWidth := l.Width() - 40

	_, _ = fmt.Fprintf(w, "%s%s%s%s",
		idStyle.Render(result.id),
		statusStyle.Render(result.status),
		operatorStyle.Render(result.operator),
		subjectStyle.Render(truncate(result.subject, subjectWidth)),
	)
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case "killed", "timeout":
		return lipgloss.Color("2")
	case "error":
		return lipgloss.Color("3")
	default:
		return lipgloss.Color("1")
	}
}

// runModel handles the TUI display during a run.
type runModel struct {
	width       int
	height      int
	progressBar progress.Model
	info        RunInfo
	completed   int
	totals      m.Totals
	neutral     int
	current     string
	results     list.Model
	showDetail  bool
	finished    bool
	env         m.EnvResult
}

func newRunModel() runModel {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	results := list.New([]list.Item{}, resultDelegate{}, defaultWidth, defaultHeight-listChrome)
	results.SetShowPagination(false)
	results.SetShowFilter(true)
	results.SetShowHelp(false)
	results.SetShowTitle(false)
	results.SetShowStatusBar(false)
	results.FilterInput.Placeholder = "Filter results..."

	return runModel{
		width:       defaultWidth,
		height:      defaultHeight,
		progressBar: bar,
		results:     results,
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm = rm.handleWindowSize(msg)

	case tea.KeyMsg:
		return rm.handleKeyMsg(msg)

	case runInfoMsg:
		rm.info = msg.info
		rm.completed = 0

	case resultMsg:
		rm, cmd = rm.handleResult(msg.result)

	case verdictMsg:
		rm.finished = true
		rm.env = msg.env
	}

	return rm, cmd
}

func (rm runModel) handleWindowSize(msg tea.WindowSizeMsg) runModel {
	rm.width = msg.Width
	rm.height = msg.Height
	rm.results.SetSize(max(rm.width-4, 20), rm.listHeight())

	return rm
}

func (rm runModel) listHeight() int {
	height := rm.height - listChrome
	if rm.showDetail {
		height -= rm.height / 3
	}

	return max(height, minListHeight)
}

func (rm runModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if rm.results.FilterState() == list.Filtering {
		var cmd tea.Cmd

		rm.results, cmd = rm.results.Update(msg)

		return rm, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return rm, tea.Quit
	case "enter", " ", "space":
		rm.showDetail = !rm.showDetail
		rm.results.SetHeight(rm.listHeight())

		return rm, nil
	}

	var cmd tea.Cmd

	rm.results, cmd = rm.results.Update(msg)

	return rm, cmd
}

func (rm runModel) handleResult(result m.MutationResult) (runModel, tea.Cmd) {
	rm.current = subjectOf(result.Mutation)

	switch {
	case result.Mutation.Scored():
		rm.completed++
		rm.totals.Add(result.Outcome)
	case result.Outcome == m.Alive:
		return rm, nil
	default:
		rm.neutral++
	}

	cmd := rm.results.InsertItem(len(rm.results.Items()), newResultItem(result))

	return rm, cmd
}

func (rm runModel) percent() float64 {
	if rm.info.Mutations == 0 {
		return 0
	}

	return float64(rm.completed) / float64(rm.info.Mutations)
}

func (rm runModel) View() string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("mutiny")
	if rm.finished {
		title = titleStyle.Render("mutiny results")
	}

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  |  Jobs: %s  |  Shard: %s / %s  |  Killed: %s  Alive: %s  Timeout: %s  Error: %s",
		accent.Render(fmt.Sprint(rm.completed)),
		accent.Render(fmt.Sprint(rm.info.Mutations)),
		accent.Render(fmt.Sprint(rm.info.Jobs)),
		accent.Render(fmt.Sprint(rm.info.ShardIndex)),
		accent.Render(fmt.Sprint(rm.info.ShardTotal)),
		accent.Render(fmt.Sprint(rm.totals.Killed)),
		accent.Render(fmt.Sprint(rm.totals.Alive)),
		accent.Render(fmt.Sprint(rm.totals.Timeout)),
		accent.Render(fmt.Sprint(rm.totals.Error)),
	))

	sections := []string{title, summary, lipgloss.NewStyle().Padding(0, 2).Render(rm.progressBar.ViewAs(rm.percent()))}

	if rm.neutral > 0 {
		sections = append(sections, summaryStyle.Render(fmt.Sprintf("Neutral failures: %d", rm.neutral)))
	}

	if !rm.finished && rm.current != "" {
		sections = append(sections, footerStyle.Render("last: "+truncate(rm.current, rm.width-8)))
	}

	sections = append(sections, resultsBoxStyle.Render(rm.results.View()))

	if detail := rm.detail(); detail != "" {
		sections = append(sections, detailBoxStyle.Width(max(rm.width-4, 20)).Render(detail))
	}

	if rm.finished {
		sections = append(sections, renderVerdictLine(verdictOf(rm.env)))
	}

	sections = append(sections, footerStyle.Render("up/k down/j | / filter | enter details | q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (rm runModel) detail() string {
	if !rm.showDetail {
		return ""
	}

	item, ok := rm.results.SelectedItem().(resultItem)
	if !ok {
		return ""
	}

	text := item.output
	if item.status == "alive" || text == "" {
		text = item.diff
	}

	if text == "" {
		text = "(no details)"
	}

	return clipLines(text, max(rm.height/3-2, 3))
}
