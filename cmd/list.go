package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutiny/internal/controller"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

const testsFlagName = "tests"

func newListCmd() *cobra.Command {
	var listTests bool

	cmd := &cobra.Command{
		Use:          "list [paths...]",
		Short:        "List subjects and mutation counts",
		Long:         listLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			plan, err := workflow.Plan(ctx, config)
			if err != nil {
				return err
			}

			if listTests {
				printTests(cmd, plan.Tests)
				return nil
			}

			ui := newUI(cmd)
			if err := ui.Start(ctx, controller.WithListMode()); err != nil {
				return err
			}
			defer ui.Close(ctx)

			return ui.DisplayPlan(ctx, plan)
		},
	}

	configureMatchFlags(cmd)
	cmd.Flags().BoolVar(&listTests, testsFlagName, false, "list the discovered tests instead of the subjects")

	return cmd
}

// printTests prints one test identification per line.
func printTests(cmd *cobra.Command, tests []m.Test) {
	out := cmd.OutOrStdout()

	for _, test := range tests {
		fmt.Fprintln(out, test.ID)
	}

	fmt.Fprintf(out, "%d test(s)\n", len(tests))
}

func init() {
	rootCmd.AddCommand(listCmd)
}
