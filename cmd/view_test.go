package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

func TestViewCmd_DisplaysLatestReport(t *testing.T) {
	outputDir := t.TempDir()

	_, err := adapter.NewYAMLReportStore().SaveReport(m.Path(outputDir), m.Report{
		RunID:     "run-42",
		StartedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
		Runtime:   time.Second,
		Success:   true,
		KillRatio: 1,
		Totals:    m.Totals{Killed: 2},
		Subjects:  []m.SubjectReport{{Identification: "example.com/calc.Add", Totals: m.Totals{Killed: 2}}},
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view", "--output", outputDir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Run run-42 started 2026-05-06 07:08:09")
	assert.Contains(t, out.String(), "example.com/calc.Add")
	assert.Contains(t, out.String(), "PASS")
}

func TestViewCmd_NoReport(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view", "--output", t.TempDir()})
	require.ErrorIs(t, cmd.Execute(), adapter.ErrNoReport)
}

func TestViewCmd_PositionalArgsAreRejected(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view", "./custom-reports"})
	require.Error(t, cmd.Execute())
}
