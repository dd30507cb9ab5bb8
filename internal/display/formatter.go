package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/cookr/internal/category"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/pipeline"
)

const sweepBarWidth = 60

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	literalTag   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ProductJSON is the JSON output shape for a product.
type ProductJSON struct {
	Name          string        `json:"name"`
	Amount        int           `json:"amount"`
	Merged        []ProductJSON `json:"merged,omitempty"`
	Match         string        `json:"match,omitempty"`
	MatchCategory string        `json:"matchCategory,omitempty"`
	MatchScore    *float64      `json:"matchScore,omitempty"`
}

// ResultJSON is the JSON output shape for a pipeline pass.
type ResultJSON struct {
	Markdown    string                   `json:"markdown"`
	Products    []ProductJSON            `json:"products"`
	Categories  map[string][]ProductJSON `json:"categories,omitempty"`
	MergedCount int                      `json:"mergedCount"`
}

// RuleReportJSON is the JSON output shape for one rule in the rule report.
type RuleReportJSON struct {
	ID       string        `json:"id"`
	Contains string        `json:"contains"`
	Category string        `json:"category"`
	Products []ProductJSON `json:"products"`
}

// CategoryJSON is the JSON output shape for a category summary row.
type CategoryJSON struct {
	Name    string `json:"name"`
	Unknown bool   `json:"unknown,omitempty"`
	Count   int    `json:"count"`
	Amount  int    `json:"amount"`
}

// SweepJSON is the JSON output shape for one merge threshold.
type SweepJSON struct {
	Score    int `json:"score"`
	Products int `json:"products"`
	Merged   int `json:"merged"`
}

// PrintResultJSON renders a pipeline result as JSON.
func PrintResultJSON(w io.Writer, res pipeline.Result) error {
	out := ResultJSON{
		Markdown:    res.Markdown,
		Products:    toProductsJSON(res.Products),
		MergedCount: res.MergedCount,
	}
	if res.Categories != nil {
		out.Categories = make(map[string][]ProductJSON, len(res.Categories))
		for name, products := range res.Categories {
			out.Categories[name] = toProductsJSON(products)
		}
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintRuleReport renders which products each rule matched.
func PrintRuleReport(w io.Writer, reports []category.RuleReport, source string) {
	matched := 0
	for _, r := range reports {
		if len(r.Products) > 0 {
			matched++
		}
	}

	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render("Matching rules"),
		cyanStyle.Render(fmt.Sprintf("%d rules, %d matched (%s)", len(reports), matched, source)),
	)

	for _, r := range reports {
		fmt.Fprintf(w, "  %s %s %s\n",
			titleStyle.Render(r.Rule.Contains),
			dimStyle.Render("→"),
			cyanStyle.Render(r.Rule.Category.Name),
		)
		if len(r.Products) == 0 {
			fmt.Fprintf(w, "    %s\n", dimStyle.Render("no products"))
			continue
		}
		for _, p := range r.Products {
			fmt.Fprintf(w, "    %s %s\n", p.Name, formatScore(p.MatchScore))
		}
	}
	fmt.Fprintln(w)
}

// PrintRuleReportJSON renders the rule report as JSON.
func PrintRuleReportJSON(w io.Writer, reports []category.RuleReport) error {
	out := make([]RuleReportJSON, 0, len(reports))
	for _, r := range reports {
		out = append(out, RuleReportJSON{
			ID:       r.Rule.ID,
			Contains: r.Rule.Contains,
			Category: r.Rule.Category.Name,
			Products: toProductsJSON(r.Products),
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintCategories renders each category with its product count, in render
// order.
func PrintCategories(w io.Writer, groups []category.Group) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Categories (%d):", len(groups))))
	for _, g := range groups {
		name := cyanStyle.Render(g.Name)
		if g.Unknown {
			name = warningStyle.Render(g.Name)
		}
		fmt.Fprintf(w, "  %s: %d products, %d g\n", name, len(g.Products), ingredient.TotalAmount(g.Products))
	}
	fmt.Fprintln(w)
}

// PrintCategoriesJSON renders the category summary as JSON.
func PrintCategoriesJSON(w io.Writer, groups []category.Group) error {
	out := make([]CategoryJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, CategoryJSON{
			Name:    g.Name,
			Unknown: g.Unknown,
			Count:   len(g.Products),
			Amount:  ingredient.TotalAmount(g.Products),
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintSweep renders how many products survive each merge threshold.
func PrintSweep(w io.Writer, points []pipeline.SweepPoint, parsed int) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render("Merge threshold sweep"),
		cyanStyle.Render(fmt.Sprintf("%d parsed products", parsed)),
	)

	prev := -1
	for _, p := range points {
		bar := strings.Repeat("█", min(p.Products, sweepBarWidth))
		if p.Products > sweepBarWidth {
			bar += "…"
		}
		line := fmt.Sprintf("  %3d  %4d products  %3d merged  %s", p.Score, p.Products, p.Merged, dimStyle.Render(bar))
		if prev >= 0 && p.Products != prev {
			line = scoreStyle.Render(line)
		}
		fmt.Fprintln(w, line)
		prev = p.Products
	}
	fmt.Fprintln(w)
}

// PrintSweepJSON renders the sweep as JSON.
func PrintSweepJSON(w io.Writer, points []pipeline.SweepPoint) error {
	out := make([]SweepJSON, 0, len(points))
	for _, p := range points {
		out = append(out, SweepJSON(p))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintRulesContext prints a dim line showing where rules came from.
func PrintRulesContext(w io.Writer, source string, count int) {
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("Using rules: %s (%d rules)", source, count)))
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func formatScore(score float64) string {
	if score == category.LiteralScore {
		return literalTag.Render("literal")
	}
	return scoreStyle.Render(fmt.Sprintf("%.3f", score))
}

func toProductsJSON(products []ingredient.Product) []ProductJSON {
	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return out
}

func toProductJSON(p ingredient.Product) ProductJSON {
	out := ProductJSON{
		Name:          p.Name,
		Amount:        p.Amount,
		Match:         p.Match,
		MatchCategory: p.MatchCategory,
	}
	if len(p.Merged) > 0 {
		out.Merged = toProductsJSON(p.Merged)
	}
	if p.MatchCategory != "" {
		score := p.MatchScore
		out.MatchScore = &score
	}
	return out
}
