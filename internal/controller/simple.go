package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
)

const shortIDLength = 8

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(context.Context) {}

// DisplayPlan prints subjects with their coverage and mutation counts.
func (s *SimpleUI) DisplayPlan(ctx context.Context, plan domain.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.Subjects))
	uncovered := 0

	for _, planned := range plan.Subjects {
		tests := strconv.Itoa(len(planned.Tests))
		if !planned.Covered() {
			tests = "none"
			uncovered++
		}

		rows = append(rows, []string{
			planned.Subject.Identification(),
			string(planned.Subject.Kind),
			tests,
			strconv.Itoa(planned.EvilCount()),
		})
	}

	s.printf("\n%s", renderTable(
		[]string{"Subject", "Kind", "Tests", "Mutations"},
		rows,
		[]string{
			fmt.Sprintf("Subjects %d", len(plan.Subjects)),
			"",
			fmt.Sprintf("%d", len(plan.Tests)),
			fmt.Sprintf("%d", plan.MutationCount()),
		},
	))

	if uncovered > 0 {
		s.printf("%d subject(s) have no covering tests\n", uncovered)
	}

	for _, warning := range plan.Warnings {
		s.printf("warning: %s\n", warning)
	}

	return nil
}

// DisplayRunInfo shows what is about to be scheduled.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Running %d mutations of %d subject(s) with %d worker(s) (Shard %d/%d)\n",
		info.Mutations, info.Subjects, info.Jobs, info.ShardIndex, info.ShardTotal)
}

// DisplayResult prints one line per scored result, with the diff of
// survivors and the output of errors.
func (s *SimpleUI) DisplayResult(ctx context.Context, result m.MutationResult) {
	if ctx.Err() != nil {
		return
	}

	mutation := result.Mutation

	if !mutation.Scored() {
		if result.Outcome != m.Alive {
			s.printf("[neutral %s] %s\n%s\n", result.Outcome, subjectOf(mutation), indent(result.Output, "    "))
		}

		return
	}

	s.printf("[%s] %s %s (%s)\n", result.Outcome, shortID(mutation.ID), subjectOf(mutation), mutation.Operator)

	switch result.Outcome {
	case m.Alive:
		s.printf("%s\n", indent(mutation.Diff, "    "))
	case m.Error:
		s.printf("%s\n", indent(result.Output, "    "))
	}
}

// DisplayVerdict prints per-subject totals and the run verdict.
func (s *SimpleUI) DisplayVerdict(ctx context.Context, env m.EnvResult) {
	if ctx.Err() != nil {
		return
	}

	rows := make([][]string, 0, len(env.Subjects))
	for _, subject := range env.Subjects {
		rows = append(rows, subjectRow(subject.Identification, subject.Totals, subject.Uncovered, subject.NeutralFailure))
	}

	s.printf("\n%s", renderTable(totalsHeader, rows, totalsFooter(env.Totals)))
	s.printVerdict(verdictOf(env))
}

// DisplayReport prints a saved report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Run %s started %s", report.RunID, report.StartedAt.Format("2006-01-02 15:04:05"))

	if report.Shard != "" {
		s.printf(" (Shard %s)", report.Shard)
	}

	s.printf("\n")

	rows := make([][]string, 0, len(report.Subjects))
	for _, subject := range report.Subjects {
		rows = append(rows, subjectRow(subject.Identification, subject.Totals, subject.Uncovered, subject.NeutralFailure))
	}

	s.printf("\n%s", renderTable(totalsHeader, rows, totalsFooter(report.Totals)))

	for _, record := range report.Mutations {
		if record.Kind == m.Evil && record.Outcome == m.Alive.String() {
			s.printf("[alive] %s %s (%s)\n%s\n", shortID(record.ID), record.Subject, record.Operator, record.Diff)
		}
	}

	s.printVerdict(verdict{
		success:         report.Success,
		killRatio:       report.KillRatio,
		totals:          report.Totals,
		pending:         report.Pending,
		uncovered:       report.Uncovered,
		neutralFailures: report.NeutralFailures,
		runtime:         report.Runtime.String(),
	})

	return nil
}

func (s *SimpleUI) printVerdict(v verdict) {
	for _, id := range v.uncovered {
		s.printf("uncovered: %s\n", id)
	}

	for _, id := range v.neutralFailures {
		s.printf("neutral failure: %s\n", id)
	}

	if v.pending > 0 {
		s.printf("pending: %d mutation(s) were not run\n", v.pending)
	}

	s.printf("Mutation score: %.2f%% (%d killed, %d alive, %d timeout, %d error) in %s\n",
		v.killRatio*100, v.totals.Killed, v.totals.Alive, v.totals.Timeout, v.totals.Error, v.runtime)

	if v.success {
		s.printf("PASS\n")
	} else {
		s.printf("FAIL\n")
	}
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// verdict is the part of a verdict shared by live results and saved reports.
type verdict struct {
	success         bool
	killRatio       float64
	totals          m.Totals
	pending         int
	uncovered       []string
	neutralFailures []string
	runtime         string
}

func verdictOf(env m.EnvResult) verdict {
	return verdict{
		success:         env.Success,
		killRatio:       env.Totals.KillRatio(),
		totals:          env.Totals,
		pending:         env.Pending,
		uncovered:       env.Uncovered,
		neutralFailures: env.NeutralFailures,
		runtime:         env.Runtime.Round(time.Millisecond).String(),
	}
}

var totalsHeader = []string{"Subject", "Killed", "Alive", "Timeout", "Error", "Score"}

func subjectRow(id string, totals m.Totals, uncovered, neutralFailure bool) []string {
	score := formatRatio(totals)

	switch {
	case uncovered:
		score = "uncovered"
	case neutralFailure:
		score = "neutral failure"
	}

	return []string{
		id,
		strconv.Itoa(totals.Killed),
		strconv.Itoa(totals.Alive),
		strconv.Itoa(totals.Timeout),
		strconv.Itoa(totals.Error),
		score,
	}
}

func totalsFooter(totals m.Totals) []string {
	return []string{
		"Total",
		strconv.Itoa(totals.Killed),
		strconv.Itoa(totals.Alive),
		strconv.Itoa(totals.Timeout),
		strconv.Itoa(totals.Error),
		formatRatio(totals),
	}
}

func formatRatio(totals m.Totals) string {
	if totals.Scored() == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", totals.KillRatio()*100)
}

func renderTable(header []string, rows [][]string, footer []string) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.AppendBulk(rows)
	table.SetFooter(footer)
	table.Render()

	return tableBuffer.String()
}

func subjectOf(mutation m.Mutation) string {
	if mutation.Subject == nil {
		return "?"
	}

	return mutation.Subject.Identification()
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}

	return id[:shortIDLength]
}

// indent prefixes every line of text.
func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}
