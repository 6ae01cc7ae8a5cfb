package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutiny/internal/controller"
	"gooze.dev/pkg/mutiny/internal/domain"
	m "gooze.dev/pkg/mutiny/internal/model"
	"gooze.dev/pkg/mutiny/pkg"
)

// errRunFailed is returned when the verdict is unsuccessful so the process
// exits with status 1.
var errRunFailed = errors.New("mutation testing failed")

var runJobsFlag int
var runMutationTimeoutFlag time.Duration
var runFailFastFlag bool
var runNeutralFlag bool
var runShardFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run [paths...]",
		Short:        "Run mutation testing",
		Long:         runLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}

			return runMutations(cmd.Context(), cmd, config, m.Path(viper.GetString(outputConfigKey)))
		},
	}

	configureRunFlags(cmd)
	configureMatchFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runJobsFlag, jobsFlagName, "j", defaultJobs, "number of parallel workers (default: one per CPU)")
	cmd.Flags().DurationVar(&runMutationTimeoutFlag, mutationTimeoutFlagName, m.DefaultMutationTimeout, "time limit for the tests of one mutation")
	cmd.Flags().BoolVar(&runFailFastFlag, failFastFlagName, false, "stop scheduling after the first surviving mutant")
	cmd.Flags().BoolVar(&runNeutralFlag, neutralFlagName, false, "run the unmodified program once per subject before its mutations")
	cmd.Flags().StringVarP(&runShardFlag, shardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

// runMutations plans, executes and reports one run. The outcome stream is
// spilled to disk while the run is in progress and folded into the saved
// report afterwards.
func runMutations(ctx context.Context, cmd *cobra.Command, config m.Config, outputDir m.Path) error {
	startedAt := time.Now()

	plan, err := workflow.Plan(ctx, config)
	if err != nil {
		return err
	}

	spill, err := pkg.NewFileSpill[m.OutcomeRecord](string(outputDir))
	if err != nil {
		return fmt.Errorf("open outcome stream: %w", err)
	}

	defer func() {
		if err := spill.Remove(); err != nil {
			slog.Warn("failed to remove outcome stream", "path", spill.Path(), "error", err)
		}
	}()

	ui := newUI(cmd)
	if err := ui.Start(ctx, controller.WithRunMode()); err != nil {
		return err
	}

	// The verdict is displayed and saved even when ctx was cancelled mid-run.
	display := context.WithoutCancel(ctx)

	units := domain.BuildUnits(plan, config.ShardIndex, config.ShardTotal)
	ui.DisplayRunInfo(display, controller.NewRunInfo(plan, units, config))

	env := workflow.Execute(ctx, config, plan, func(result m.MutationResult) {
		ui.DisplayResult(display, result)

		if err := spill.Append(m.NewOutcomeRecord(result)); err != nil {
			slog.Error("failed to record outcome", "mutation", result.Mutation.ID, "error", err)
		}
	})

	ui.DisplayVerdict(display, env)

	saveErr := saveReport(outputDir, startedAt, config, env, spill)

	ui.Wait(ctx)
	ui.Close(display)

	if saveErr != nil {
		return saveErr
	}

	if !env.Success {
		return errRunFailed
	}

	return nil
}

func saveReport(outputDir m.Path, startedAt time.Time, config m.Config, env m.EnvResult, spill pkg.FileSpill[m.OutcomeRecord]) error {
	records, err := spill.Collect()
	if err != nil {
		return fmt.Errorf("read outcome stream: %w", err)
	}

	report := m.NewReport(reportStore.NewRunID(), startedAt, env, records)
	if config.ShardTotal > 1 {
		report.Shard = fmt.Sprintf("%d/%d", config.ShardIndex, config.ShardTotal)
	}

	path, err := reportStore.SaveReport(outputDir, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("report saved", "path", path, "run_id", report.RunID)

	return nil
}
