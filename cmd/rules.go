package cmd

import (
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/category"
	"github.com/tayloree/cookr/internal/display"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/pipeline"
)

var flagQuery string

var rulesCmd = &cobra.Command{
	Use:   "rules [file]",
	Short: "Show the matching rules and which products each one catches",
	Long: "Lists the configured category matching rules in declaration order. When a\n" +
		"list is given (file argument or piped stdin), each rule shows the products\n" +
		"it categorised. Declaration order breaks ties between rules.",
	Example: `  cookr rules --rules rules.yaml
  cookr rules list.txt --query pomid
  cookr rules list.txt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Fuzzy-filter rules by pattern or category name")
}

func runRules(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args, false)
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

	reports := filterRuleReports(category.Inspect(list, res.Categories), flagQuery)
	if flagQuery != "" && len(reports) == 0 {
		return notFoundError(
			"no rules match query "+flagQuery,
			"cookr rules --query pom",
		)
	}

	if flagJSON {
		return display.PrintRuleReportJSON(cmd.OutOrStdout(), reports)
	}
	display.PrintRuleReport(cmd.OutOrStdout(), reports, a.source.Name())
	return nil
}

type ruleReports []category.RuleReport

func (r ruleReports) String(i int) string {
	return r[i].Rule.Contains + " " + r[i].Rule.Category.Name
}

func (r ruleReports) Len() int { return len(r) }

// filterRuleReports keeps the reports whose pattern or category fuzzily
// matches query, in declaration order.
func filterRuleReports(reports []category.RuleReport, query string) []category.RuleReport {
	if query == "" {
		return reports
	}

	matches := fuzzy.FindFrom(ingredient.NormalizeText(query), ruleReports(reports))
	keep := make([]bool, len(reports))
	for _, m := range matches {
		keep[m.Index] = true
	}

	out := make([]category.RuleReport, 0, len(matches))
	for i, r := range reports {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}
