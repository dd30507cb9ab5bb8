package ingredient

// Product is a single shopping-list entry parsed from one line of text.
type Product struct {
	Name   string
	Amount int

	// Merged holds the source products absorbed into this one. Empty for
	// products that were never merged.
	Merged []Product

	// Set by the categoriser.
	Match         string
	MatchCategory string
	MatchScore    float64
}

// Leaves returns the original products that make up p.
func (p Product) Leaves() []Product {
	if len(p.Merged) > 0 {
		return p.Merged
	}
	leaf := p
	leaf.Merged = nil
	return []Product{leaf}
}

// TotalAmount sums the amounts of every product in the slice.
func TotalAmount(products []Product) int {
	total := 0
	for _, p := range products {
		total += p.Amount
	}
	return total
}

// Category is an ingredient category referenced by matching rules.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MatchingRule assigns products whose name matches Contains to Category.
type MatchingRule struct {
	ID       string   `json:"id" yaml:"id"`
	Contains string   `json:"contains" yaml:"contains"`
	Category Category `json:"category" yaml:"category"`
}
