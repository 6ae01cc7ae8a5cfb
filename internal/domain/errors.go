package domain

import "errors"

// Fatal configuration errors. They abort a run before scheduling.
var (
	ErrNoTests       = errors.New("no tests found")
	ErrNoSubjects    = errors.New("no subjects matched")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrInvalidMutant marks a defective mutation operator: it produced a tree
// that cannot be rendered as valid Go.
var ErrInvalidMutant = errors.New("mutation operator produced an invalid tree")
