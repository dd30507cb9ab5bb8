package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/display"
	"github.com/tayloree/cookr/internal/pipeline"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [file]",
	Short: "Summarise the list by category",
	Example: `  cookr categories list.txt
  cat list.txt | cookr categories --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args, true)
	if err != nil {
		return err
	}

	list, err := a.fetchRules(cmd.Context())
	if err != nil {
		return err
	}
	printRulesContext(cmd, a, len(list))

	opts := a.options()
	opts.Categorise = true
	res := pipeline.Run(text, list, opts)

	if len(res.Products) == 0 {
		return notFoundError(
			"no products found in input",
			"Put one product per line, e.g. `Pomidory 200 g`.",
		)
	}

	if flagJSON {
		return display.PrintCategoriesJSON(cmd.OutOrStdout(), res.Groups)
	}
	display.PrintCategories(cmd.OutOrStdout(), res.Groups)
	return nil
}
