package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "mutiny", configBaseName)
	assert.Equal(t, "mutiny.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "jobs", jobsFlagName)
	assert.Equal(t, "run.jobs", jobsConfigKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, ".mutiny", defaultReportsDir)
	assert.Equal(t, 0, defaultJobs)
	assert.Equal(t, "MUTINY", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestFileConfig_Defaults(t *testing.T) {
	partial, err := fileConfig()
	require.NoError(t, err)

	config := m.Reduce(m.DefaultConfig(), partial)

	assert.Equal(t, []m.Path{"./..."}, config.Paths)
	assert.Equal(t, m.DefaultConfig().Jobs, config.Jobs)
	assert.Equal(t, m.DefaultConfig().MutationTimeout, config.MutationTimeout)
	assert.Equal(t, m.CoveragePackage, config.Coverage)
	assert.Equal(t, 1, config.ShardTotal)
	assert.Empty(t, config.Subjects)
}

func TestFileConfig_Environment(t *testing.T) {
	t.Setenv("MUTINY_RUN_JOBS", "4")
	t.Setenv("MUTINY_RUN_MUTATION_TIMEOUT", "45")
	t.Setenv("MUTINY_RUN_SHARD", "2/4")
	t.Setenv("MUTINY_MUTATION_COVERAGE", "file")
	t.Setenv("MUTINY_MATCH_SINCE", "origin/main")

	partial, err := fileConfig()
	require.NoError(t, err)

	config := m.Reduce(m.DefaultConfig(), partial)

	assert.Equal(t, 4, config.Jobs)
	assert.Equal(t, 45*time.Second, config.MutationTimeout)
	assert.Equal(t, 2, config.ShardIndex)
	assert.Equal(t, 4, config.ShardTotal)
	assert.Equal(t, m.CoverageFile, config.Coverage)
	assert.Equal(t, "origin/main", config.Since)
}

func TestFileConfig_InvalidShard(t *testing.T) {
	t.Setenv("MUTINY_RUN_SHARD", "4/4")

	_, err := fileConfig()
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}
