package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutiny/internal/controller"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <report>...",
		Short: "Merge sharded reports into a single report",
		Long: `Merge the reports written by the shards of one run (mutiny run --shard i/n)
into a single report saved in the reports directory. Exits with status 1 when
the merged verdict is unsuccessful.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]m.Report, 0, len(args))

			for _, arg := range args {
				report, err := reportStore.LoadReport(m.Path(arg))
				if err != nil {
					return err
				}

				reports = append(reports, report)
			}

			merged := m.MergeReports(reportStore.NewRunID(), reports...)

			path, err := reportStore.SaveReport(m.Path(viper.GetString(outputConfigKey)), merged)
			if err != nil {
				return err
			}

			slog.Info("merged report saved", "path", path, "shards", len(reports))

			ctx := cmd.Context()

			ui := newUI(cmd)
			if err := ui.Start(ctx, controller.WithListMode()); err != nil {
				return err
			}
			defer ui.Close(ctx)

			if err := ui.DisplayReport(ctx, merged); err != nil {
				return err
			}

			if !merged.Success {
				return errRunFailed
			}

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
