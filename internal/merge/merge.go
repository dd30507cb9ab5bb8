// Package merge folds near-duplicate products into one entry.
package merge

import (
	"sort"

	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/similarity"
)

// Options controls the fold.
type Options struct {
	Enabled bool
	// MaxScore is the similarity score, in [0, 1], a match must stay strictly
	// below to be merged.
	MaxScore float64
}

// Reduce folds products and sorts the result by name.
func Reduce(products []ingredient.Product, opts Options) []ingredient.Product {
	out := Fold(products, opts)
	SortByName(out)
	return out
}

// Fold walks products left to right. Each product is looked up among the
// products kept so far; a close enough match is removed and replaced by the
// combination of both, appended at the end. Otherwise the product is
// appended unchanged. With merging disabled Fold returns a copy of products.
//
// The input slice and its products are never modified.
func Fold(products []ingredient.Product, opts Options) []ingredient.Product {
	acc := make([]ingredient.Product, 0, len(products))
	if !opts.Enabled {
		return append(acc, products...)
	}

	ix := similarity.NewIndex()
	for _, p := range products {
		match, ok := ix.Query(p.Name, opts.MaxScore)
		if !ok {
			acc = append(acc, p)
			ix.Add(p.Name)
			continue
		}

		combined := Combine(p, acc[match.Index])
		acc = append(acc[:match.Index], acc[match.Index+1:]...)
		ix.Remove(match.Index)
		acc = append(acc, combined)
		ix.Add(combined.Name)
	}
	return acc
}

// Combine merges incoming into existing. The incoming name wins, amounts
// are summed and the provenance of both sides is kept as leaf products.
func Combine(incoming, existing ingredient.Product) ingredient.Product {
	leaves := make([]ingredient.Product, 0, len(incoming.Merged)+len(existing.Merged)+2)
	leaves = append(leaves, incoming.Leaves()...)
	leaves = append(leaves, existing.Leaves()...)

	return ingredient.Product{
		Name:   incoming.Name,
		Amount: incoming.Amount + existing.Amount,
		Merged: leaves,
	}
}

// SortByName orders products by name, byte-wise and case-sensitive. Equal
// names keep their relative order.
func SortByName(products []ingredient.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

// Count returns how many source products were absorbed into others.
func Count(products []ingredient.Product) int {
	n := 0
	for _, p := range products {
		if len(p.Merged) > 0 {
			n += len(p.Merged) - 1
		}
	}
	return n
}
