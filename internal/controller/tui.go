package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
)

var (
	accentColor = lipgloss.Color("6")

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 0, 0, 2)

	resultsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// TUI implements UI using Bubble Tea. A run is displayed by a live program;
// plans and reports are rendered once.
type TUI struct {
	output  io.Writer
	options []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer, options ...tea.ProgramOption) *TUI {
	return &TUI{output: output, options: options}
}

// Start launches the live program in run mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if startConfig(options).mode != ModeRun {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	programOptions := append([]tea.ProgramOption{tea.WithOutput(t.output), tea.WithContext(ctx)}, t.options...)
	program := tea.NewProgram(newRunModel(), programOptions...)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			slog.Error("tui stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// Close stops the live program.
func (t *TUI) Close(context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the live program or ctx ends.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
		program.Quit()
		<-done
	}
}

// DisplayPlan renders the subjects of a plan.
func (t *TUI) DisplayPlan(ctx context.Context, plan domain.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.Subjects))
	for _, planned := range plan.Subjects {
		tests := strconv.Itoa(len(planned.Tests))
		if !planned.Covered() {
			tests = "none"
		}

		rows = append(rows, []string{
			planned.Subject.Identification(),
			string(planned.Subject.Kind),
			tests,
			strconv.Itoa(planned.EvilCount()),
		})
	}

	sections := []string{
		titleStyle.Render("mutiny plan"),
		summaryStyle.Render(fmt.Sprintf("Subjects: %d  |  Tests: %d  |  Mutations: %d",
			len(plan.Subjects), len(plan.Tests), plan.MutationCount())),
		renderStyledTable([]string{"Subject", "Kind", "Tests", "Mutations"}, rows, func(row []string) lipgloss.Style {
			if row[2] == "none" {
				return failStyle
			}

			return lipgloss.NewStyle()
		}),
	}

	for _, warning := range plan.Warnings {
		sections = append(sections, footerStyle.Render("warning: "+warning))
	}

	return t.print(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// DisplayRunInfo forwards the run size to the live program.
func (t *TUI) DisplayRunInfo(_ context.Context, info RunInfo) {
	t.send(runInfoMsg{info: info})
}

// DisplayResult forwards one result to the live program.
func (t *TUI) DisplayResult(_ context.Context, result m.MutationResult) {
	t.send(resultMsg{result: result})
}

// DisplayVerdict marks the live program finished.
func (t *TUI) DisplayVerdict(_ context.Context, env m.EnvResult) {
	t.send(verdictMsg{env: env})
}

// DisplayReport renders a saved report.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(report.Subjects))
	for _, subject := range report.Subjects {
		rows = append(rows, subjectRow(subject.Identification, subject.Totals, subject.Uncovered, subject.NeutralFailure))
	}

	heading := "Run " + report.RunID
	if report.Shard != "" {
		heading += "  |  Shard " + report.Shard
	}

	sections := []string{
		titleStyle.Render("mutiny report"),
		summaryStyle.Render(heading),
		renderStyledTable(totalsHeader, rows, func(row []string) lipgloss.Style {
			if row[2] != "0" || row[5] == "uncovered" || row[5] == "neutral failure" {
				return failStyle
			}

			return lipgloss.NewStyle()
		}),
	}

	for _, record := range report.Mutations {
		if record.Kind != m.Evil || record.Outcome != m.Alive.String() {
			continue
		}

		sections = append(sections,
			failStyle.Render(fmt.Sprintf("  alive %s %s (%s)", shortID(record.ID), record.Subject, record.Operator)),
			detailBoxStyle.Render(strings.TrimRight(record.Diff, "\n")),
		)
	}

	sections = append(sections, renderVerdictLine(verdict{
		success:         report.Success,
		killRatio:       report.KillRatio,
		totals:          report.Totals,
		pending:         report.Pending,
		uncovered:       report.Uncovered,
		neutralFailures: report.NeutralFailures,
		runtime:         report.Runtime.String(),
	}))

	return t.print(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (t *TUI) print(view string) error {
	_, err := fmt.Fprintln(t.output, view)
	return err
}

func renderStyledTable(header []string, rows [][]string, rowStyle func(row []string) lipgloss.Style) string {
	headerStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accentColor)).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if row < 0 || row >= len(rows) {
				return cellStyle
			}

			return cellStyle.Inherit(rowStyle(rows[row]))
		}).
		Render()
}

func renderVerdictLine(v verdict) string {
	status := passStyle.Render("PASS")
	if !v.success {
		status = failStyle.Render("FAIL")
	}

	line := fmt.Sprintf("%s  score %.2f%%  killed %d  alive %d  timeout %d  error %d  in %s",
		status, v.killRatio*100, v.totals.Killed, v.totals.Alive, v.totals.Timeout, v.totals.Error, v.runtime)

	var notes []string

	if len(v.uncovered) > 0 {
		notes = append(notes, fmt.Sprintf("%d uncovered subject(s)", len(v.uncovered)))
	}

	if len(v.neutralFailures) > 0 {
		notes = append(notes, fmt.Sprintf("%d neutral failure(s)", len(v.neutralFailures)))
	}

	if v.pending > 0 {
		notes = append(notes, fmt.Sprintf("%d pending", v.pending))
	}

	if len(notes) > 0 {
		line += "  (" + strings.Join(notes, ", ") + ")"
	}

	return summaryStyle.Render(line)
}

func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	if width == 1 {
		return "…"
	}

	runes := []rune(text)

	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}

	return string(runes) + "…"
}

func clipLines(text string, limit int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= limit {
		return strings.Join(lines, "\n")
	}

	return strings.Join(lines[:limit], "\n") + fmt.Sprintf("\n… %d more line(s)", len(lines)-limit)
}
