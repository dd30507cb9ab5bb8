package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/display"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/pipeline"
)

var flagSweepStep int

var sweepCmd = &cobra.Command{
	Use:   "sweep [file]",
	Short: "Show how many products survive each merge threshold",
	Long: "Runs the merge step at every threshold from 0 to 100 and reports the\n" +
		"resulting product count. Useful for picking --merge-score.",
	Example: `  cookr sweep list.txt
  cookr sweep list.txt --step 10 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().IntVar(&flagSweepStep, "step", 5, "Threshold increment (1-100)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if flagSweepStep < 1 || flagSweepStep > pipeline.MaxScore {
		return invalidArgsError(
			"--step must be between 1 and 100",
			"cookr sweep list.txt --step 5",
		)
	}

	text, err := readInput(cmd, args, true)
	if err != nil {
		return err
	}

	parsed := ingredient.ParseText(text)
	if len(parsed) == 0 {
		return notFoundError(
			"no products found in input",
			"Put one product per line, e.g. `Pomidory 200 g`.",
		)
	}

	points := pipeline.Sweep(parsed, flagSweepStep)
	if flagJSON {
		return display.PrintSweepJSON(cmd.OutOrStdout(), points)
	}
	display.PrintSweep(cmd.OutOrStdout(), points, len(parsed))
	return nil
}
