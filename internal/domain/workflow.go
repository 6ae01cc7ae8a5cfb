package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"gooze.dev/pkg/mutiny/internal/adapter"
	"gooze.dev/pkg/mutiny/internal/domain/mutagens"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Workflow is the entry point of the engine: a function from Config to a
// plan or a verdict. It performs no output I/O of its own.
type Workflow interface {
	// Plan loads sources, matches subjects, maps coverage and generates
	// mutations. Fatal configuration errors are returned here.
	Plan(ctx context.Context, config m.Config) (Plan, error)
	// Execute schedules the plan's units for this shard and aggregates the
	// verdict. Results are streamed to observe.
	Execute(ctx context.Context, config m.Config, plan Plan, observe Observer) m.EnvResult
	// Run is Plan followed by Execute.
	Run(ctx context.Context, config m.Config, observe Observer) (m.EnvResult, error)
}

type workflow struct {
	fs           adapter.SourceFSAdapter
	goFiles      adapter.GoFileAdapter
	tests        adapter.TestRunnerAdapter
	vcs          adapter.VCSAdapter
	orchestrator Orchestrator
	mutagen      Mutagen
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	goFileAdapter adapter.GoFileAdapter,
	testAdapter adapter.TestRunnerAdapter,
	vcsAdapter adapter.VCSAdapter,
	orchestrator Orchestrator,
	mutagen Mutagen,
) Workflow {
	return &workflow{
		fs:           fsAdapter,
		goFiles:      goFileAdapter,
		tests:        testAdapter,
		vcs:          vcsAdapter,
		orchestrator: orchestrator,
		mutagen:      mutagen,
	}
}

func (w *workflow) Run(ctx context.Context, config m.Config, observe Observer) (m.EnvResult, error) {
	plan, err := w.Plan(ctx, config)
	if err != nil {
		return m.EnvResult{}, err
	}

	return w.Execute(ctx, config, plan, observe), nil
}

func (w *workflow) Execute(ctx context.Context, config m.Config, plan Plan, observe Observer) m.EnvResult {
	start := time.Now()
	units := BuildUnits(plan, config.ShardIndex, config.ShardTotal)

	slog.Info("scheduling mutations",
		"subjects", len(plan.Subjects),
		"units", len(units),
		"jobs", config.Jobs,
		"shard", fmt.Sprintf("%d/%d", config.ShardIndex, config.ShardTotal),
	)

	pool := NewWorkspacePool(w.fs, plan.Root, config.Jobs)
	defer pool.Close()

	scheduler := NewScheduler(w.orchestrator, pool, ScheduleOptions{
		Jobs:     config.Jobs,
		FailFast: config.FailFast,
		Timeout:  config.MutationTimeout,
	})

	results := scheduler.Run(ctx, units, observe)
	env := Aggregate(plan, units, results, time.Since(start))

	if err := ctx.Err(); err != nil {
		slog.Warn("run cancelled", "pending", env.Pending, "error", err)
	}

	slog.Info("run finished",
		"success", env.Success,
		"killed", env.Totals.Killed,
		"alive", env.Totals.Alive,
		"timeout", env.Totals.Timeout,
		"error", env.Totals.Error,
		"pending", env.Pending,
	)

	return env
}

func (w *workflow) Plan(ctx context.Context, config m.Config) (Plan, error) {
	if err := config.Validate(); err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	operators, err := mutagens.Lookup(config.Operators...)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	excludes, err := compileExcludes(config.Exclude)
	if err != nil {
		return Plan{}, err
	}

	filters, err := parseFilters(config)
	if err != nil {
		return Plan{}, err
	}

	if len(config.Paths) == 0 {
		return Plan{}, fmt.Errorf("%w: no paths", ErrInvalidConfig)
	}

	anchor, _ := splitPattern(config.Paths[0])

	root, err := w.fs.FindProjectRoot(anchor)
	if err != nil {
		return Plan{}, fmt.Errorf("find project root: %w", err)
	}

	modulePath, err := w.fs.ModulePath(root)
	if err != nil {
		return Plan{}, fmt.Errorf("read module path: %w", err)
	}

	files, err := w.loadSources(ctx, root, modulePath, config.Paths, excludes)
	if err != nil {
		return Plan{}, err
	}

	var scopes []m.Scope
	for _, pkg := range groupByPackage(files) {
		scopes = append(scopes, w.goFiles.ExtractScopes(ctx, pkg)...)
	}

	if config.Since != "" {
		filters.Diffs, err = w.diffExpressions(ctx, root, config.Since)
		if err != nil {
			return Plan{}, err
		}
	}

	warner := &LogWarner{}

	subjects := NewMatcher(w.goFiles, warner).Match(scopes, files, filters)
	if len(subjects) == 0 {
		return Plan{}, ErrNoSubjects
	}

	tests, err := w.discoverTests(ctx, files)
	if err != nil {
		return Plan{}, err
	}

	if len(tests) == 0 {
		return Plan{}, ErrNoTests
	}

	plan := Plan{Root: root, Tests: tests, Warnings: warner.Warnings()}
	byPath := make(map[m.Path]m.SourceFile, len(files))

	for _, file := range files {
		byPath[file.Path] = file
	}

	for _, subject := range subjects {
		planned, err := w.planSubject(ctx, subject, byPath[subject.Path], tests, config, operators)
		if err != nil {
			return Plan{}, err
		}

		plan.Subjects = append(plan.Subjects, planned)
	}

	return plan, nil
}

func (w *workflow) planSubject(ctx context.Context, subject m.Subject, file m.SourceFile, tests []m.Test, config m.Config, operators []mutagens.Operator) (PlannedSubject, error) {
	planned := PlannedSubject{
		Subject: subject,
		Tests:   Coverage(config.Coverage, subject, tests),
	}

	mutations, err := w.mutagen.GenerateMutations(ctx, &planned.Subject, file, operators, config.Neutral)
	if err != nil {
		return PlannedSubject{}, err
	}

	planned.Mutations = mutations

	if !planned.Covered() {
		slog.Warn("subject has no covering tests", "subject", subject.Identification())
	}

	return planned, nil
}

func parseFilters(config m.Config) (Filters, error) {
	var (
		filters Filters
		err     error
	)

	if filters.Ignore, err = m.ParseExpressions(config.Ignore); err != nil {
		return Filters{}, err
	}

	if filters.Start, err = m.ParseExpressions(config.StartExpressions); err != nil {
		return Filters{}, err
	}

	if len(config.Subjects) > 0 {
		if filters.Subjects, err = m.ParseExpressions(config.Subjects); err != nil {
			return Filters{}, err
		}
	}

	return filters, nil
}

// diffExpressions always returns a non-nil list so that an empty diff
// selects nothing.
func (w *workflow) diffExpressions(ctx context.Context, root m.Path, since string) ([]m.Expression, error) {
	changed, err := w.vcs.ChangedLines(ctx, root, since, "")
	if err != nil {
		return nil, fmt.Errorf("diff since %s: %w", since, err)
	}

	expressions := make([]m.Expression, 0, len(changed))
	for filePath, ranges := range changed {
		expressions = append(expressions, m.Diff{Path: filePath, Ranges: ranges})
	}

	slog.Debug("diff expressions", "since", since, "files", len(expressions))

	return expressions, nil
}

// discoverTests lists the tests of every scanned package directory.
func (w *workflow) discoverTests(ctx context.Context, files []m.SourceFile) ([]m.Test, error) {
	var tests []m.Test

	for _, pkg := range groupByPackage(files) {
		found, err := w.tests.DiscoverTests(ctx, pkg[0].Dir)
		if err != nil {
			return nil, fmt.Errorf("discover tests in %s: %w", pkg[0].Dir, err)
		}

		for _, test := range found {
			test.Package = pkg[0].Package
			test.ID = test.Package + "." + test.Name
			tests = append(tests, test)
		}
	}

	return tests, nil
}

// Coverage returns the names of the tests covering subject.
func Coverage(mode m.CoverageMode, subject m.Subject, tests []m.Test) []string {
	var names []string

	companion := m.Path(strings.TrimSuffix(string(subject.Path), ".go") + "_test.go")

	for _, test := range tests {
		if test.Package != subject.Scope.Raw.Package {
			continue
		}

		if mode == m.CoverageFile && filepath.Clean(string(test.File)) != filepath.Clean(string(companion)) {
			continue
		}

		names = append(names, test.Name)
	}

	return names
}

// BuildUnits lays out covered subjects' mutations in subject order, neutral
// unit first. Evil units are numbered globally and kept when their number
// modulo total equals index. A neutral unit is kept when its subject has
// evil units in the shard, or has none at all on shard 0.
func BuildUnits(plan Plan, index, total int) []Unit {
	if total < 1 {
		index, total = 0, 1
	}

	var (
		units []Unit
		evil  int
	)

	for _, planned := range plan.Subjects {
		if !planned.Covered() {
			continue
		}

		var neutral, kept []Unit

		for _, mutation := range planned.Mutations {
			unit := Unit{Mutation: mutation, Tests: planned.Tests}

			if !mutation.Scored() {
				neutral = append(neutral, unit)
				continue
			}

			if evil%total == index {
				kept = append(kept, unit)
			}

			evil++
		}

		if len(kept) > 0 || (planned.EvilCount() == 0 && index == 0) {
			units = append(units, neutral...)
		}

		units = append(units, kept...)
	}

	return units
}

// IsFatal reports whether err aborts a run before scheduling.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoTests) ||
		errors.Is(err, ErrNoSubjects) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, m.ErrMalformedExpression)
}
