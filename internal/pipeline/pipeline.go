// Package pipeline turns raw shopping-list text into a Markdown checklist.
//
// Run is a pure function of its inputs: it performs no I/O, never logs and
// never modifies the rules it is given. Callers fetch rules ahead of time
// and decide what to do with the result.
package pipeline

import (
	"github.com/tayloree/cookr/internal/category"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/markdown"
	"github.com/tayloree/cookr/internal/merge"
)

// MaxScore is the upper bound of the user-facing score scale.
const MaxScore = 100

// Options is the user-facing configuration bundle. Scores are on a 0..100
// scale and are divided by 100 before reaching the matchers.
type Options struct {
	MergeSimilar       bool
	MergeMaxScore      int
	Categorise         bool
	CategoriseMaxScore int
	ShowMerged         bool
	// Unknown names the bucket for uncategorised products. Empty means
	// category.DefaultUnknown.
	Unknown string
}

// DefaultOptions mirrors the defaults of the interactive editor.
func DefaultOptions() Options {
	return Options{
		MergeSimilar:       true,
		MergeMaxScore:      20,
		Categorise:         true,
		CategoriseMaxScore: 20,
		ShowMerged:         true,
		Unknown:            category.DefaultUnknown,
	}
}

// Result holds everything one pass produces.
type Result struct {
	// Parsed is the product list before merging, in input order.
	Parsed []ingredient.Product
	// Products is the merged list sorted by name, or, when categorising,
	// the flattened list in render order.
	Products []ingredient.Product
	// Categories is nil when categorisation is disabled.
	Categories category.Categorised
	Groups     []category.Group
	Markdown   string
	// MergedCount is how many parsed products were absorbed into others.
	MergedCount int
}

// Run executes one full pass over text.
func Run(text string, rules []ingredient.MatchingRule, opts Options) Result {
	parsed := ingredient.ParseText(text)
	return RunProducts(parsed, rules, opts)
}

// RunProducts executes a pass over already-parsed products.
func RunProducts(parsed []ingredient.Product, rules []ingredient.MatchingRule, opts Options) Result {
	merged := merge.Reduce(parsed, merge.Options{
		Enabled:  opts.MergeSimilar,
		MaxScore: scale(opts.MergeMaxScore),
	})

	res := Result{
		Parsed:      parsed,
		Products:    merged,
		MergedCount: merge.Count(merged),
	}

	catOpts := category.Options{
		Enabled:  opts.Categorise,
		MaxScore: scale(opts.CategoriseMaxScore),
		Unknown:  opts.Unknown,
	}
	res.Categories = category.Categorise(merged, rules, catOpts)
	if res.Categories != nil {
		res.Groups = category.Groups(res.Categories, catOpts.UnknownName())
		res.Products = category.Products(res.Categories, catOpts.UnknownName())
	}

	res.Markdown = markdown.Render(res.Products, res.Groups, markdown.Options{ShowMerged: opts.ShowMerged})
	return res
}

func scale(score int) float64 {
	return float64(score) / MaxScore
}
