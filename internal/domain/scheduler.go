package domain

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Unit is one mutation scheduled against its covering tests.
type Unit struct {
	Mutation m.Mutation
	Tests    []string
}

// ScheduleOptions are read-only once scheduling starts.
type ScheduleOptions struct {
	Jobs     int
	FailFast bool
	Timeout  time.Duration
}

// Observer receives each result as it completes. Calls are serialized.
type Observer func(result m.MutationResult)

// Scheduler runs units on a bounded worker pool.
type Scheduler interface {
	// Run executes units and returns one slot per unit in input order. A nil
	// slot is a unit that was never dispatched.
	Run(ctx context.Context, units []Unit, observe Observer) []*m.MutationResult
}

type scheduler struct {
	orchestrator Orchestrator
	workspaces   *WorkspacePool
	options      ScheduleOptions
}

// NewScheduler creates a Scheduler running units through orchestrator in
// workspaces taken from pool.
func NewScheduler(orchestrator Orchestrator, pool *WorkspacePool, options ScheduleOptions) Scheduler {
	if options.Jobs < 1 {
		options.Jobs = 1
	}

	return &scheduler{orchestrator: orchestrator, workspaces: pool, options: options}
}

// Run executes the neutral units first. A subject whose neutral unit does
// not come out alive has its evil units withheld. Fail-fast stops dispatch
// after the first alive evil result; units already running finish.
func (s *scheduler) Run(ctx context.Context, units []Unit, observe Observer) []*m.MutationResult {
	results := make([]*m.MutationResult, len(units))

	var mu sync.Mutex

	record := func(index int, result m.MutationResult) {
		mu.Lock()
		defer mu.Unlock()

		results[index] = &result

		if observe != nil {
			observe(result)
		}
	}

	var neutral, evil []int

	for i, unit := range units {
		if unit.Mutation.Kind == m.Neutral {
			neutral = append(neutral, i)
		} else {
			evil = append(evil, i)
		}
	}

	var stop atomic.Bool

	s.dispatch(ctx, units, neutral, &stop, record)

	// Keyed by subject identity: build-tag variants share an identification.
	blocked := make(map[*m.Subject]struct{})

	for _, i := range neutral {
		if result := results[i]; result == nil || result.Outcome != m.Alive {
			subject := units[i].Mutation.Subject
			blocked[subject] = struct{}{}
			slog.Warn("neutral check failed, skipping subject", "subject", subject.Identification(), "path", subject.Path)
		}
	}

	runnable := evil[:0:0]

	for _, i := range evil {
		if _, skip := blocked[units[i].Mutation.Subject]; !skip {
			runnable = append(runnable, i)
		}
	}

	s.dispatch(ctx, units, runnable, &stop, record)

	return results
}

func (s *scheduler) dispatch(ctx context.Context, units []Unit, indexes []int, stop *atomic.Bool, record func(int, m.MutationResult)) {
	var group errgroup.Group

	group.SetLimit(s.options.Jobs)

	for _, index := range indexes {
		if stop.Load() || ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			// the slot may have been freed by the unit that raised stop
			if stop.Load() || ctx.Err() != nil {
				return nil
			}

			result := s.execute(ctx, units[index])

			// stop is raised before the result becomes visible to observers
			if s.options.FailFast && result.Mutation.Scored() && result.Outcome == m.Alive {
				if stop.CompareAndSwap(false, true) {
					slog.Info("fail fast: alive mutation observed, stopping dispatch", "mutation", result.Mutation.ID)
				}
			}

			record(index, result)

			return nil
		})
	}

	_ = group.Wait()
}

func (s *scheduler) execute(ctx context.Context, unit Unit) m.MutationResult {
	ws, err := s.workspaces.Acquire(ctx)
	if err != nil {
		slog.Error("Failed to acquire workspace", "mutation", unit.Mutation.ID, "error", err)
		return m.MutationResult{Mutation: unit.Mutation, Outcome: m.Error, Output: err.Error()}
	}

	defer s.workspaces.Release(ws)

	return s.orchestrator.TestMutation(ctx, ws, unit.Mutation, unit.Tests, s.options.Timeout)
}
