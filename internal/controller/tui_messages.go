package controller

import m "gooze.dev/pkg/mutiny/internal/model"

// Message types.
type runInfoMsg struct {
	info RunInfo
}

type resultMsg struct {
	result m.MutationResult
}

type verdictMsg struct {
	env m.EnvResult
}
