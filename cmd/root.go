package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/cookr/internal/display"
	"github.com/tayloree/cookr/internal/pipeline"
)

var (
	flagConfig          string
	flagRulesFile       string
	flagRulesSource     string
	flagJSON            bool
	flagLogLevel        string
	flagMerge           bool
	flagMergeScore      int
	flagCategorise      bool
	flagCategoriseScore int
	flagShowMerged      bool
	flagUnknown         string
	flagCopy            bool
	flagOutput          string
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

var rootCmd = &cobra.Command{
	Use:   "cookr [file]",
	Short: "Turn a grocery list into a Markdown checklist",
	Long: "cookr reads free-form grocery text (one product per line, amounts in grams),\n" +
		"merges near-duplicate products, groups them by shop category and prints a\n" +
		"Markdown checklist. Input comes from a file argument or stdin.\n\n" +
		"Category rules are read from a YAML/JSON file or the Contentful Delivery API.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -merge-score 30, merge-score=30, --merge-scor 30).",
	Example: `  cookr list.txt
  cookr list.txt --rules rules.yaml --merge-score 30
  pbpaste | cookr --categorise=false --copy
  cookr list.txt --json
  cookr categories list.txt
  cookr watch list.txt -o list.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Config file (default ./cookr.yaml or $COOKR_CONFIG)")
	pf.StringVarP(&flagRulesFile, "rules", "r", "", "Matching rules file (YAML or JSON)")
	pf.StringVar(&flagRulesSource, "rules-source", "", "Rule source: auto, file, contentful, or none")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	registerPipelineFlags(pf)

	rootCmd.Flags().BoolVar(&flagCopy, "copy", false, "Also copy the Markdown to the clipboard")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the Markdown to a file instead of stdout")
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 && isTerminal(stdin) {
		if err := printQuickStart(stdout, !isTerminal(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	setCommandIO(rootCmd, stdin, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdin io.Reader, stdout, stderr io.Writer) {
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdin, stdout, stderr)
	}
}

// resetCLIState restores every flag to its default before a runCLI call.
// Cobra keeps parsed values and the Changed bit between executions,
// including the help flag.
func resetCLIState() {
	resetFlags(rootCmd)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func registerPipelineFlags(f *pflag.FlagSet) {
	defaults := pipeline.DefaultOptions()

	f.BoolVar(&flagMerge, "merge", defaults.MergeSimilar, "Merge products with similar names")
	f.IntVar(&flagMergeScore, "merge-score", defaults.MergeMaxScore, "Merge threshold, 0-100 (lower is stricter)")
	f.BoolVar(&flagCategorise, "categorise", defaults.Categorise, "Group products by category")
	f.IntVar(&flagCategoriseScore, "categorise-score", defaults.CategoriseMaxScore, "Category fuzzy threshold, 0-100 (lower is stricter)")
	f.BoolVar(&flagShowMerged, "show-merged", defaults.ShowMerged, "List the lines behind each merged product")
	f.StringVar(&flagUnknown, "unknown", defaults.Unknown, "Name of the bucket for uncategorised products")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args, true)
	if err != nil {
		return err
	}

	rules, err := a.loadRules(cmd.Context())
	if err != nil {
		return err
	}

	res := pipeline.Run(text, rules, a.options())
	a.logger.Info("rendered list",
		"products", len(res.Products),
		"parsed", len(res.Parsed),
		"merged", res.MergedCount,
	)

	if flagCopy {
		if err := copyToClipboard(res.Markdown); err != nil {
			return internalError("copying to clipboard", err)
		}
		display.PrintWarning(cmd.ErrOrStderr(), "copied to clipboard")
	}

	if flagJSON {
		return display.PrintResultJSON(cmd.OutOrStdout(), res)
	}
	return writeMarkdown(cmd.OutOrStdout(), flagOutput, res.Markdown)
}
