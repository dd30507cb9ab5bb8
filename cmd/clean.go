package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/ingredient"
)

var flagWrite bool

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Tidy a list: split glued items, drop unit words, fix spacing",
	Example: `  cookr clean list.txt
  cookr clean list.txt --write
  pbpaste | cookr clean | pbcopy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTextTransform(cmd, args, ingredient.CleanUp)
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort list lines alphabetically",
	Example: `  cookr sort list.txt
  cookr sort list.txt -w`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTextTransform(cmd, args, ingredient.SortLines)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(sortCmd)

	cleanCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "Rewrite the input file in place")
	sortCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "Rewrite the input file in place")
}

// runTextTransform applies an editor action to the input and prints the
// result, or writes it back to the input file with --write.
func runTextTransform(cmd *cobra.Command, args []string, transform func(string) string) error {
	if flagWrite && (len(args) == 0 || args[0] == "-") {
		return invalidArgsError(
			"--write needs an input file",
			"cookr "+cmd.Name()+" list.txt --write",
		)
	}

	text, err := readInput(cmd, args, true)
	if err != nil {
		return err
	}

	out := transform(text)
	if flagWrite {
		return writeFile(args[0], out)
	}
	return writeMarkdown(cmd.OutOrStdout(), "", out)
}
