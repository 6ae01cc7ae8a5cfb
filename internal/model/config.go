package model

import (
	"runtime"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// CoverageMode selects how subjects map onto covering tests.
type CoverageMode string

const (
	// CoveragePackage maps a subject to every test in its package directory.
	CoveragePackage CoverageMode = "package"
	// CoverageFile maps a subject to tests in the companion _test.go file.
	CoverageFile CoverageMode = "file"
)

// DefaultMutationTimeout bounds one mutation's test invocation.
const DefaultMutationTimeout = 2 * time.Minute

// Config is the immutable run configuration.
type Config struct {
	Paths            []Path        `validate:"min=1,dive,required"`
	Exclude          []string      `validate:"dive,required"`
	Jobs             int           `validate:"gte=1"`
	MutationTimeout  time.Duration `validate:"gt=0"`
	FailFast         bool
	Neutral          bool
	Operators        []string     `validate:"dive,required"`
	Coverage         CoverageMode `validate:"oneof=package file"`
	Subjects         []string     `validate:"dive,required"`
	Ignore           []string     `validate:"dive,required"`
	StartExpressions []string     `validate:"dive,required"`
	Since            string
	ShardIndex       int `validate:"gte=0,ltfield=ShardTotal"`
	ShardTotal       int `validate:"gte=1"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Paths:           []Path{"./..."},
		Jobs:            runtime.NumCPU(),
		MutationTimeout: DefaultMutationTimeout,
		Coverage:        CoveragePackage,
		ShardIndex:      0,
		ShardTotal:      1,
	}
}

var configValidate = validator.New()

// Validate checks the field constraints declared on Config.
func (c Config) Validate() error {
	return configValidate.Struct(c)
}

// PartialConfig overrides the fields that are non-nil.
type PartialConfig struct {
	Paths            *[]Path
	Exclude          *[]string
	Jobs             *int
	MutationTimeout  *time.Duration
	FailFast         *bool
	Neutral          *bool
	Operators        *[]string
	Coverage         *CoverageMode
	Subjects         *[]string
	Ignore           *[]string
	StartExpressions *[]string
	Since            *string
	ShardIndex       *int
	ShardTotal       *int
}

// Reduce folds partial overrides left to right over base; the last writer
// wins per field.
func Reduce(base Config, partials ...PartialConfig) Config {
	config := base.clone()
	for _, partial := range partials {
		config = config.With(partial)
	}

	return config
}

// With returns a copy of c with the partial's set fields applied.
func (c Config) With(p PartialConfig) Config {
	out := c.clone()

	setSlice(&out.Paths, p.Paths)
	setSlice(&out.Exclude, p.Exclude)
	setValue(&out.Jobs, p.Jobs)
	setValue(&out.MutationTimeout, p.MutationTimeout)
	setValue(&out.FailFast, p.FailFast)
	setValue(&out.Neutral, p.Neutral)
	setSlice(&out.Operators, p.Operators)
	setValue(&out.Coverage, p.Coverage)
	setSlice(&out.Subjects, p.Subjects)
	setSlice(&out.Ignore, p.Ignore)
	setSlice(&out.StartExpressions, p.StartExpressions)
	setValue(&out.Since, p.Since)
	setValue(&out.ShardIndex, p.ShardIndex)
	setValue(&out.ShardTotal, p.ShardTotal)

	return out
}

func (c Config) clone() Config {
	c.Paths = slices.Clone(c.Paths)
	c.Exclude = slices.Clone(c.Exclude)
	c.Operators = slices.Clone(c.Operators)
	c.Subjects = slices.Clone(c.Subjects)
	c.Ignore = slices.Clone(c.Ignore)
	c.StartExpressions = slices.Clone(c.StartExpressions)

	return c
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setSlice[T any](dst *[]T, src *[]T) {
	if src != nil {
		*dst = slices.Clone(*src)
	}
}
