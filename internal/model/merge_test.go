package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shardReport(started time.Time, runtime time.Duration, totals Totals, records ...OutcomeRecord) Report {
	return Report{
		StartedAt:     started,
		Runtime:       runtime,
		SubjectCount:  2,
		TestCount:     4,
		MutationCount: totals.Killed + totals.Alive + totals.Timeout + totals.Error,
		Totals:        totals,
		Uncovered:     []string{"example.com/calc.Mean"},
		Subjects: []SubjectReport{
			{Identification: "example.com/calc.Add", Mutations: 4, Totals: totals},
			{Identification: "example.com/calc.Mean", Uncovered: true},
		},
		Mutations: records,
	}
}

func TestMergeReports(t *testing.T) {
	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := shardReport(early.Add(time.Minute), 3*time.Second, Totals{Killed: 2}, OutcomeRecord{ID: "a"}, OutcomeRecord{ID: "b"})
	second := shardReport(early, 5*time.Second, Totals{Killed: 1, Timeout: 1}, OutcomeRecord{ID: "c"}, OutcomeRecord{ID: "d"})

	merged := MergeReports("merged", first, second)

	assert.Equal(t, "merged", merged.RunID)
	assert.Equal(t, early, merged.StartedAt)
	assert.Equal(t, 5*time.Second, merged.Runtime)
	assert.Equal(t, 2, merged.SubjectCount)
	assert.Equal(t, 4, merged.TestCount)
	assert.Equal(t, 4, merged.MutationCount)
	assert.Equal(t, Totals{Killed: 3, Timeout: 1}, merged.Totals)
	assert.InDelta(t, 1.0, merged.KillRatio, 1e-9)
	assert.Equal(t, []string{"example.com/calc.Mean"}, merged.Uncovered)
	assert.Len(t, merged.Mutations, 4)

	require.Len(t, merged.Subjects, 2)
	assert.Equal(t, Totals{Killed: 3, Timeout: 1}, merged.Subjects[0].Totals)
	assert.Equal(t, 4, merged.Subjects[0].Mutations)
	assert.True(t, merged.Subjects[1].Uncovered)

	assert.False(t, merged.Success, "an uncovered subject fails the merged run")
}

func TestMergeReports_Verdict(t *testing.T) {
	clean := func(totals Totals) Report {
		report := shardReport(time.Time{}, time.Second, totals)
		report.Uncovered = nil
		report.Subjects = report.Subjects[:1]

		return report
	}

	tests := []struct {
		name    string
		reports []Report
		want    bool
	}{
		{"no reports", nil, false},
		{"all killed", []Report{clean(Totals{Killed: 1}), clean(Totals{Timeout: 1})}, true},
		{"one survivor", []Report{clean(Totals{Killed: 1}), clean(Totals{Alive: 1})}, false},
		{"errors only", []Report{clean(Totals{Error: 2})}, true},
		{
			name: "pending in one shard",
			reports: func() []Report {
				pending := clean(Totals{Killed: 1})
				pending.Pending = 1

				return []Report{clean(Totals{Killed: 1}), pending}
			}(),
			want: false,
		},
		{
			name: "neutral failure in one shard",
			reports: func() []Report {
				failed := clean(Totals{})
				failed.NeutralFailures = []string{"example.com/calc.Add"}

				return []Report{clean(Totals{Killed: 1}), failed}
			}(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeReports("id", tt.reports...).Success)
		})
	}
}

func TestMergeReports_SameIdentificationDifferentFiles(t *testing.T) {
	shard := func(totals Totals) Report {
		return Report{
			TestCount: 1,
			Totals:    totals,
			Subjects: []SubjectReport{
				{Identification: "example.com/calc.Add", Path: "calc_linux.go", Totals: totals},
				{Identification: "example.com/calc.Add", Path: "calc_windows.go"},
			},
		}
	}

	merged := MergeReports("id", shard(Totals{Killed: 1}), shard(Totals{Killed: 2}))

	require.Len(t, merged.Subjects, 2)
	assert.Equal(t, Totals{Killed: 3}, merged.Subjects[0].Totals)
	assert.Equal(t, Totals{}, merged.Subjects[1].Totals)
}
