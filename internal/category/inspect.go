package category

import "github.com/tayloree/cookr/internal/ingredient"

// RuleReport lists the products a single rule was responsible for.
type RuleReport struct {
	Rule     ingredient.MatchingRule
	Products []ingredient.Product
}

// Inspect builds one report per rule, in declared order. A product belongs
// to a rule's report when it sits in the rule's category bucket and was
// matched by the rule's pattern.
func Inspect(rules []ingredient.MatchingRule, c Categorised) []RuleReport {
	reports := make([]RuleReport, 0, len(rules))
	for _, rule := range rules {
		report := RuleReport{Rule: rule}
		for _, p := range c[rule.Category.Name] {
			if p.Match == rule.Contains {
				report.Products = append(report.Products, p)
			}
		}
		reports = append(reports, report)
	}
	return reports
}
