// Package category assigns merged products to categories using matching
// rules: fuzzy match first, literal pattern second, unknown bucket last.
package category

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/similarity"
)

const (
	// DefaultUnknown names the bucket for products no rule matched.
	DefaultUnknown = "Nieznane"

	// LiteralScore marks products matched by a literal rule rather than a
	// fuzzy one.
	LiteralScore = -1.0
)

// Options controls categorisation.
type Options struct {
	Enabled bool
	// MaxScore is the fuzzy score, in [0, 1], a rule must stay strictly
	// below to match.
	MaxScore float64
	// Unknown names the fallback bucket. Empty means DefaultUnknown.
	Unknown string
}

// UnknownName returns the effective fallback bucket name.
func (o Options) UnknownName() string {
	if strings.TrimSpace(o.Unknown) == "" {
		return DefaultUnknown
	}
	return o.Unknown
}

// Categorised maps a category name to the products assigned to it.
type Categorised map[string][]ingredient.Product

// Group is one rendered category block.
type Group struct {
	Name     string
	Unknown  bool
	Products []ingredient.Product
}

// Categorise assigns every product to exactly one bucket. It returns nil
// when categorisation is disabled. Products keep their input order within a
// bucket; the inputs are not modified.
func Categorise(products []ingredient.Product, rules []ingredient.MatchingRule, opts Options) Categorised {
	if !opts.Enabled {
		return nil
	}

	m := newMatcher(rules)
	unknown := opts.UnknownName()
	out := Categorised{}
	for _, p := range products {
		p = m.assign(p, opts.MaxScore, unknown)
		out[p.MatchCategory] = append(out[p.MatchCategory], p)
	}
	return out
}

// Groups returns the buckets in render order: the unknown bucket first,
// then the rest by name.
func Groups(c Categorised, unknown string) []Group {
	if unknown == "" {
		unknown = DefaultUnknown
	}

	names := make([]string, 0, len(c))
	for name := range c {
		if name != unknown {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(c))
	if products, ok := c[unknown]; ok {
		groups = append(groups, Group{Name: unknown, Unknown: true, Products: products})
	}
	for _, name := range names {
		groups = append(groups, Group{Name: name, Products: c[name]})
	}
	return groups
}

// Products flattens c back into a single slice in render order.
func Products(c Categorised, unknown string) []ingredient.Product {
	var out []ingredient.Product
	for _, g := range Groups(c, unknown) {
		out = append(out, g.Products...)
	}
	return out
}

type literalRule struct {
	re     *regexp.Regexp
	folded string
}

type matcher struct {
	rules    []ingredient.MatchingRule
	index    *similarity.Index
	literals []literalRule
}

func newMatcher(rules []ingredient.MatchingRule) *matcher {
	m := &matcher{
		rules:    rules,
		index:    similarity.NewIndex(),
		literals: make([]literalRule, len(rules)),
	}
	for i, rule := range rules {
		m.index.Add(rule.Contains)
		if strings.TrimSpace(rule.Contains) == "" {
			continue
		}
		lit := literalRule{folded: string(similarity.Fold(rule.Contains))}
		if re, err := regexp.Compile("(?i)" + rule.Contains); err == nil {
			lit.re = re
		}
		m.literals[i] = lit
	}
	return m
}

func (m *matcher) assign(p ingredient.Product, maxScore float64, unknown string) ingredient.Product {
	if res, ok := m.index.Query(p.Name, maxScore); ok {
		return withRule(p, m.rules[res.Index], res.Score)
	}
	if i, ok := m.literal(p.Name); ok {
		return withRule(p, m.rules[i], LiteralScore)
	}

	p.Match = ""
	p.MatchCategory = unknown
	p.MatchScore = similarity.NoMatch
	return p
}

// literal returns the first rule, in declared order, whose pattern matches
// name case-insensitively. Patterns that are not valid regular expressions
// are matched as plain substrings.
func (m *matcher) literal(name string) (int, bool) {
	folded := string(similarity.Fold(name))
	for i, lit := range m.literals {
		switch {
		case lit.re != nil:
			if lit.re.MatchString(name) {
				return i, true
			}
		case lit.folded != "":
			if strings.Contains(folded, lit.folded) {
				return i, true
			}
		}
	}
	return 0, false
}

func withRule(p ingredient.Product, rule ingredient.MatchingRule, score float64) ingredient.Product {
	p.Match = rule.Contains
	p.MatchCategory = rule.Category.Name
	p.MatchScore = score
	return p
}
