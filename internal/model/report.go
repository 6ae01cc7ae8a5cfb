package model

import "time"

// OutcomeRecord is the flattened, serializable form of one MutationResult.
// It is what the outcome stream spills to disk and what reports store.
type OutcomeRecord struct {
	ID       string        `yaml:"id"`
	Subject  string        `yaml:"subject"`
	Path     Path          `yaml:"path"`
	Line     int           `yaml:"line"`
	Operator string        `yaml:"operator"`
	Kind     MutationKind  `yaml:"kind"`
	Outcome  string        `yaml:"outcome"`
	Failed   []string      `yaml:"failed,omitempty"`
	Duration time.Duration `yaml:"duration"`
	Diff     string        `yaml:"diff,omitempty"`
	Output   string        `yaml:"output,omitempty"`
}

// NewOutcomeRecord flattens a result. Output is only kept for outcomes a
// human has to triage.
func NewOutcomeRecord(result MutationResult) OutcomeRecord {
	record := OutcomeRecord{
		ID:       result.Mutation.ID,
		Operator: result.Mutation.Operator,
		Kind:     result.Mutation.Kind,
		Outcome:  result.Outcome.String(),
		Failed:   result.Failed,
		Duration: result.Duration,
		Diff:     result.Mutation.Diff,
	}

	if subject := result.Mutation.Subject; subject != nil {
		record.Subject = subject.Identification()
		record.Path = subject.Path
		record.Line = subject.Lines().Start
	}

	if result.Outcome == Error || (result.Mutation.Kind == Neutral && result.Outcome != Alive) {
		record.Output = result.Output
	}

	return record
}

// SubjectReport is the serializable form of a SubjectResult.
type SubjectReport struct {
	Identification string      `yaml:"identification"`
	Path           Path        `yaml:"path"`
	Kind           SubjectKind `yaml:"kind"`
	Tests          int         `yaml:"tests"`
	Mutations      int         `yaml:"mutations"`
	Totals         Totals      `yaml:"totals"`
	Uncovered      bool        `yaml:"uncovered,omitempty"`
	NeutralFailure bool        `yaml:"neutral_failure,omitempty"`
}

// Report is a persisted run summary.
type Report struct {
	RunID           string          `yaml:"run_id"`
	StartedAt       time.Time       `yaml:"started_at"`
	Runtime         time.Duration   `yaml:"runtime"`
	Success         bool            `yaml:"success"`
	KillRatio       float64         `yaml:"kill_ratio"`
	SubjectCount    int             `yaml:"subject_count"`
	MutationCount   int             `yaml:"mutation_count"`
	TestCount       int             `yaml:"test_count"`
	Pending         int             `yaml:"pending"`
	Totals          Totals          `yaml:"totals"`
	Uncovered       []string        `yaml:"uncovered,omitempty"`
	NeutralFailures []string        `yaml:"neutral_failures,omitempty"`
	Shard           string          `yaml:"shard,omitempty"`
	Subjects        []SubjectReport `yaml:"subjects"`
	Mutations       []OutcomeRecord `yaml:"mutations"`
}

// NewReport summarizes an EnvResult. Mutation records are supplied
// separately since they are read back from the outcome stream.
func NewReport(runID string, startedAt time.Time, env EnvResult, records []OutcomeRecord) Report {
	subjects := make([]SubjectReport, 0, len(env.Subjects))
	for _, s := range env.Subjects {
		subjects = append(subjects, SubjectReport(s))
	}

	return Report{
		RunID:           runID,
		StartedAt:       startedAt,
		Runtime:         env.Runtime,
		Success:         env.Success,
		KillRatio:       env.Totals.KillRatio(),
		SubjectCount:    env.SubjectCount,
		MutationCount:   env.MutationCount,
		TestCount:       env.TestCount,
		Pending:         env.Pending,
		Totals:          env.Totals,
		Uncovered:       env.Uncovered,
		NeutralFailures: env.NeutralFailures,
		Subjects:        subjects,
		Mutations:       records,
	}
}
