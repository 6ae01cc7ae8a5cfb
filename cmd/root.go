// Package cmd provides the root command and CLI setup for mutiny.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gooze.dev/pkg/mutiny/internal/adapter"
	"gooze.dev/pkg/mutiny/internal/controller"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var sourceFSAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var vcsAdapter adapter.VCSAdapter
var reportStore adapter.ReportStore
var orchestrator domain.Orchestrator
var mutagen domain.Mutagen
var workflow domain.Workflow

// newUI picks the display for a command's output stream.
var newUI = func(cmd *cobra.Command) controller.UI {
	return controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
}

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	vcsAdapter = adapter.NewGitVCSAdapter()
	reportStore = adapter.NewYAMLReportStore()
	orchestrator = domain.NewOrchestrator(sourceFSAdapter, testAdapter)
	mutagen = domain.NewMutagen(goFileAdapter)
	workflow = domain.NewWorkflow(
		sourceFSAdapter,
		goFileAdapter,
		testAdapter,
		vcsAdapter,
		orchestrator,
		mutagen,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories`

const rootLongDescription = `Mutiny is a mutation testing tool for Go. It selects subjects (functions
and methods), applies small semantic changes (mutations) to them and runs the
covering tests against each mutant. A mutant that no test kills marks a gap in
the test suite.

` + pathPatternsHelp

const runLongDescription = `Run mutation testing for the given paths (default: current module).

Exits with status 1 when a mutant survives, a subject has no covering tests,
a neutral check fails or a mutation is left unrun.

` + pathPatternsHelp

const listLongDescription = `List the matched subjects, their covering tests and the number of
mutations each would receive.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutiny",
		Short: "Go mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			defaultReportsDir,
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "write debug logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// configureMatchFlags adds the subject selection flags shared by run and list.
func configureMatchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringSliceVar(&operatorsFlag, operatorsFlagName, nil, "mutation operators to apply (default: all)")
	flags.StringVar(&coverageFlag, coverageFlagName, string(m.CoveragePackage), "test coverage mode: package or file")
	flags.StringArrayVar(&subjectsFlag, subjectFlagName, nil, "subject expression to match, e.g. example.com/pkg.Type* (can be repeated)")
	flags.StringArrayVar(&ignoreFlag, ignoreFlagName, nil, "subject expression to skip (can be repeated)")
	flags.StringArrayVar(&startFlag, startFlagName, nil, "only descend into scopes matching this expression (can be repeated)")
	flags.StringVar(&sinceFlag, sinceFlagName, "", "only match subjects touched since this git revision")
}

var (
	operatorsFlag []string
	coverageFlag  string
	subjectsFlag  []string
	ignoreFlag    []string
	startFlag     []string
	sinceFlag     string
)

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the run; the partial verdict is still reported.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseShard(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 0, fmt.Errorf("%w: shard %q must be INDEX/TOTAL with 0 <= INDEX < TOTAL", domain.ErrInvalidConfig, shard)
	}

	return index, total, nil
}
