package model

import "time"

// Outcome classifies the execution of one mutation.
type Outcome int

const (
	// Killed means at least one covering test failed.
	Killed Outcome = iota
	// Alive means every covering test passed.
	Alive
	// Timeout means the invocation exceeded the per-mutation bound.
	Timeout
	// Error means the invocation failed for reasons unrelated to the change.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Killed:
		return "killed"
	case Alive:
		return "alive"
	case Timeout:
		return "timeout"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MutationResult is the classified execution of one mutation.
type MutationResult struct {
	Mutation Mutation
	Outcome  Outcome
	Output   string
	Failed   []string
	Duration time.Duration
}

// Totals counts outcomes.
type Totals struct {
	Killed  int `yaml:"killed"`
	Alive   int `yaml:"alive"`
	Timeout int `yaml:"timeout"`
	Error   int `yaml:"error"`
}

// Add counts one outcome.
func (t *Totals) Add(outcome Outcome) {
	switch outcome {
	case Killed:
		t.Killed++
	case Alive:
		t.Alive++
	case Timeout:
		t.Timeout++
	case Error:
		t.Error++
	}
}

// Count returns the total for one outcome.
func (t Totals) Count(outcome Outcome) int {
	switch outcome {
	case Killed:
		return t.Killed
	case Alive:
		return t.Alive
	case Timeout:
		return t.Timeout
	case Error:
		return t.Error
	default:
		return 0
	}
}

// Scored is the denominator of the kill ratio. Errors are inconclusive and
// excluded; timeouts count as kills.
func (t Totals) Scored() int {
	return t.Killed + t.Timeout + t.Alive
}

// KillRatio is (killed + timeout) / scored, or 1 when nothing was scored.
func (t Totals) KillRatio() float64 {
	if t.Scored() == 0 {
		return 1
	}

	return float64(t.Killed+t.Timeout) / float64(t.Scored())
}

// SubjectResult holds per-subject statistics.
type SubjectResult struct {
	Identification string
	Path           Path
	Kind           SubjectKind
	Tests          int
	Mutations      int
	Totals         Totals
	Uncovered      bool
	NeutralFailure bool
}

// EnvResult is the verdict of a whole run.
type EnvResult struct {
	SubjectCount  int
	MutationCount int
	TestCount     int
	Totals        Totals
	// Pending counts scored mutations never dispatched (fail-fast, cancellation).
	Pending         int
	Uncovered       []string
	NeutralFailures []string
	Subjects        []SubjectResult
	Results         []MutationResult
	Runtime         time.Duration
	Success         bool
}

// Query returns the scored results with the given outcome in subject order.
func (e EnvResult) Query(outcome Outcome) []MutationResult {
	var selected []MutationResult

	for _, result := range e.Results {
		if result.Mutation.Scored() && result.Outcome == outcome {
			selected = append(selected, result)
		}
	}

	return selected
}
