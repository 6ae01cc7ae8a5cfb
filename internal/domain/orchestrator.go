package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Orchestrator coordinates applying a mutation to a worker's copy of the
// project and running the covering tests to classify the mutation.
type Orchestrator interface {
	TestMutation(ctx context.Context, ws *Workspace, mutation m.Mutation, tests []string, timeout time.Duration) m.MutationResult
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and test runner adapters.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter) Orchestrator {
	return &orchestrator{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
	}
}

// TestMutation writes the mutated file into ws, runs tests under timeout and
// restores the file. Failures of the orchestration itself are reported as
// error outcomes.
func (to *orchestrator) TestMutation(ctx context.Context, ws *Workspace, mutation m.Mutation, tests []string, timeout time.Duration) m.MutationResult {
	start := time.Now()
	result := m.MutationResult{Mutation: mutation}

	finish := func(outcome m.Outcome, output string) m.MutationResult {
		result.Outcome = outcome
		result.Output = output
		result.Duration = time.Since(start)

		return result
	}

	if mutation.Subject == nil {
		return finish(m.Error, "mutation has no subject")
	}

	target, err := ws.Path(to.fsAdapter, mutation.Subject.Path)
	if err != nil {
		return finish(m.Error, err.Error())
	}

	original, err := to.fsAdapter.ReadFile(target)
	if err != nil {
		slog.Error("Failed to read workspace file", "path", target, "error", err)
		return finish(m.Error, fmt.Sprintf("failed to read %s: %v", target, err))
	}

	if err := to.writeMutatedFile(target, mutation.Code); err != nil {
		return finish(m.Error, err.Error())
	}

	defer to.restore(ws, target, original)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := to.testAdapter.RunGoTest(runCtx, m.Path(filepath.Dir(string(target))), tests)
	result.Failed = run.Failed

	outcome := Classify(run)
	if outcome == m.Error && run.Err != nil {
		return finish(outcome, run.Err.Error()+"\n"+run.Output)
	}

	return finish(outcome, run.Output)
}

// Classify maps a test run onto an outcome. A deadline is a timeout even if
// some tests had already failed.
func Classify(run m.TestRun) m.Outcome {
	switch {
	case run.TimedOut:
		return m.Timeout
	case len(run.Failed) > 0:
		return m.Killed
	case run.Err != nil:
		return m.Error
	default:
		return m.Alive
	}
}

func (to *orchestrator) writeMutatedFile(path m.Path, content []byte) error {
	if err := to.fsAdapter.WriteFile(path, content, 0o600); err != nil {
		slog.Error("Failed to write mutated file", "path", path, "error", err)
		return fmt.Errorf("failed to write mutated file: %w", err)
	}

	return nil
}

func (to *orchestrator) restore(ws *Workspace, path m.Path, original []byte) {
	if err := to.fsAdapter.WriteFile(path, original, 0o600); err != nil {
		slog.Error("Failed to restore workspace file", "path", path, "error", err)

		ws.broken = true
	}
}
