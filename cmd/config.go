package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutiny"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName          = "output"
	excludeFlagName         = "exclude"
	verboseFlagName         = "verbose"
	jobsFlagName            = "jobs"
	mutationTimeoutFlagName = "mutation-timeout"
	failFastFlagName        = "fail-fast"
	neutralFlagName         = "neutral"
	operatorsFlagName       = "operators"
	coverageFlagName        = "coverage"
	subjectFlagName         = "subject"
	ignoreFlagName          = "ignore"
	startFlagName           = "start"
	sinceFlagName           = "since"
	shardFlagName           = "shard"

	outputConfigKey    = "output"
	includeConfigKey   = "paths.include"
	excludeConfigKey   = "paths.exclude"
	jobsConfigKey      = "run.jobs"
	mutationTimeoutKey = "run.mutation_timeout"
	failFastConfigKey  = "run.fail_fast"
	neutralConfigKey   = "run.neutral"
	shardConfigKey     = "run.shard"
	operatorsConfigKey = "mutation.operators"
	coverageConfigKey  = "mutation.coverage"
	subjectsConfigKey  = "match.subjects"
	ignoreConfigKey    = "match.ignore"
	startConfigKey     = "match.start"
	sinceConfigKey     = "match.since"

	defaultReportsDir = ".mutiny"
	// defaultJobs of zero means one worker per CPU.
	defaultJobs = 0

	envPrefix = "MUTINY"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutiny.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	defaults := m.DefaultConfig()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputConfigKey, defaultReportsDir)
	viper.SetDefault(includeConfigKey, []string{"./..."})
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(jobsConfigKey, defaultJobs)
	viper.SetDefault(mutationTimeoutKey, int64(defaults.MutationTimeout.Seconds()))
	viper.SetDefault(failFastConfigKey, defaults.FailFast)
	viper.SetDefault(neutralConfigKey, defaults.Neutral)
	viper.SetDefault(shardConfigKey, "")
	viper.SetDefault(operatorsConfigKey, []string{})
	viper.SetDefault(coverageConfigKey, string(defaults.Coverage))
	viper.SetDefault(subjectsConfigKey, []string{})
	viper.SetDefault(ignoreConfigKey, []string{})
	viper.SetDefault(startConfigKey, []string{})
	viper.SetDefault(sinceConfigKey, "")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		fmt.Fprintf(os.Stderr, "mutiny: ignoring %s: %v\n", configFileName, err)
	}
}

// fileConfig is the partial read from mutiny.yaml and MUTINY_* variables.
// Unset numeric and enum keys are left to the built-in defaults.
func fileConfig() (m.PartialConfig, error) {
	var partial m.PartialConfig

	if include := viper.GetStringSlice(includeConfigKey); len(include) > 0 {
		paths := parsePaths(include)
		partial.Paths = &paths
	}

	if jobs := viper.GetInt(jobsConfigKey); jobs > 0 {
		partial.Jobs = &jobs
	}

	if seconds := viper.GetInt64(mutationTimeoutKey); seconds > 0 {
		timeout := time.Duration(seconds) * time.Second
		partial.MutationTimeout = &timeout
	}

	if coverage := viper.GetString(coverageConfigKey); coverage != "" {
		mode := m.CoverageMode(coverage)
		partial.Coverage = &mode
	}

	if shard := viper.GetString(shardConfigKey); shard != "" {
		index, total, err := parseShard(shard)
		if err != nil {
			return m.PartialConfig{}, err
		}

		partial.ShardIndex, partial.ShardTotal = &index, &total
	}

	exclude := viper.GetStringSlice(excludeConfigKey)
	operators := viper.GetStringSlice(operatorsConfigKey)
	subjects := viper.GetStringSlice(subjectsConfigKey)
	ignore := viper.GetStringSlice(ignoreConfigKey)
	start := viper.GetStringSlice(startConfigKey)
	since := viper.GetString(sinceConfigKey)
	failFast := viper.GetBool(failFastConfigKey)
	neutral := viper.GetBool(neutralConfigKey)

	partial.Exclude = &exclude
	partial.Operators = &operators
	partial.Subjects = &subjects
	partial.Ignore = &ignore
	partial.StartExpressions = &start
	partial.Since = &since
	partial.FailFast = &failFast
	partial.Neutral = &neutral

	return partial, nil
}

// flagConfig is the partial made of the flags set on the command line and
// the positional paths.
func flagConfig(flags *pflag.FlagSet, args []string) (m.PartialConfig, error) {
	var partial m.PartialConfig

	if len(args) > 0 {
		paths := parsePaths(args)
		partial.Paths = &paths
	}

	changed := func(name string) bool {
		flag := flags.Lookup(name)
		return flag != nil && flag.Changed
	}

	if changed(jobsFlagName) {
		jobs := runJobsFlag
		partial.Jobs = &jobs
	}

	if changed(mutationTimeoutFlagName) {
		timeout := runMutationTimeoutFlag
		partial.MutationTimeout = &timeout
	}

	if changed(failFastFlagName) {
		failFast := runFailFastFlag
		partial.FailFast = &failFast
	}

	if changed(neutralFlagName) {
		neutral := runNeutralFlag
		partial.Neutral = &neutral
	}

	if changed(operatorsFlagName) {
		operators := append([]string(nil), operatorsFlag...)
		partial.Operators = &operators
	}

	if changed(coverageFlagName) {
		mode := m.CoverageMode(coverageFlag)
		partial.Coverage = &mode
	}

	if changed(subjectFlagName) {
		subjects := append([]string(nil), subjectsFlag...)
		partial.Subjects = &subjects
	}

	if changed(ignoreFlagName) {
		ignore := append([]string(nil), ignoreFlag...)
		partial.Ignore = &ignore
	}

	if changed(startFlagName) {
		start := append([]string(nil), startFlag...)
		partial.StartExpressions = &start
	}

	if changed(sinceFlagName) {
		since := sinceFlag
		partial.Since = &since
	}

	if changed(shardFlagName) {
		index, total, err := parseShard(runShardFlag)
		if err != nil {
			return m.PartialConfig{}, err
		}

		partial.ShardIndex, partial.ShardTotal = &index, &total
	}

	return partial, nil
}

// loadConfig reduces the defaults, the config file and the command line into
// one validated Config.
func loadConfig(flags *pflag.FlagSet, args []string) (m.Config, error) {
	fromFile, err := fileConfig()
	if err != nil {
		return m.Config{}, err
	}

	fromFlags, err := flagConfig(flags, args)
	if err != nil {
		return m.Config{}, err
	}

	config := m.Reduce(m.DefaultConfig(), fromFile, fromFlags)
	if err := config.Validate(); err != nil {
		return m.Config{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	slog.Debug("configuration loaded",
		"paths", config.Paths,
		"jobs", config.Jobs,
		"mutation_timeout", config.MutationTimeout,
		"coverage", config.Coverage,
		"shard", fmt.Sprintf("%d/%d", config.ShardIndex, config.ShardTotal),
	)

	return config, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
