// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"

	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to plan listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithRunMode sets the UI to mutation execution mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

func startConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeList}
	for _, option := range options {
		option(&config)
	}

	return config
}

// RunInfo describes what a run is about to schedule.
type RunInfo struct {
	Subjects   int
	Uncovered  int
	Mutations  int
	Jobs       int
	ShardIndex int
	ShardTotal int
}

// NewRunInfo summarizes the scored units of a plan for one shard.
func NewRunInfo(plan domain.Plan, units []domain.Unit, config m.Config) RunInfo {
	info := RunInfo{
		Subjects:   len(plan.Subjects),
		Jobs:       config.Jobs,
		ShardIndex: config.ShardIndex,
		ShardTotal: config.ShardTotal,
	}

	for _, planned := range plan.Subjects {
		if !planned.Covered() {
			info.Uncovered++
		}
	}

	for _, unit := range units {
		if unit.Mutation.Scored() {
			info.Mutations++
		}
	}

	return info
}

// UI displays plans, live results and verdicts.
// DisplayResult is called from scheduler workers, one call at a time.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayPlan(ctx context.Context, plan domain.Plan) error
	DisplayRunInfo(ctx context.Context, info RunInfo)
	DisplayResult(ctx context.Context, result m.MutationResult)
	DisplayVerdict(ctx context.Context, env m.EnvResult)
	DisplayReport(ctx context.Context, report m.Report) error
}
