package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutiny/internal/controller"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the latest mutation report",
		Long:  "View the latest mutation report saved in the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := reportStore.LoadReport(m.Path(viper.GetString(outputConfigKey)))
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			ui := newUI(cmd)
			if err := ui.Start(ctx, controller.WithListMode()); err != nil {
				return err
			}
			defer ui.Close(ctx)

			return ui.DisplayReport(ctx, report)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
