// Package markdown renders products as a GitHub-flavoured task list.
package markdown

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tayloree/cookr/internal/category"
	"github.com/tayloree/cookr/internal/ingredient"
)

const searchBase = "https://duckduckgo.com/?q="

// Options controls rendering.
type Options struct {
	// ShowMerged bolds product names and lists the products absorbed into
	// merged entries as nested checkboxes.
	ShowMerged bool
}

// Render emits grouped output when groups is non-nil and a flat list of
// products otherwise.
func Render(products []ingredient.Product, groups []category.Group, opts Options) string {
	if groups != nil {
		return RenderGrouped(groups, opts)
	}
	return RenderFlat(products, opts)
}

// RenderFlat renders one checkbox line per product, in order.
func RenderFlat(products []ingredient.Product, opts Options) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, Line(p, opts))
	}
	return strings.Join(lines, "\n")
}

// RenderGrouped renders each group as its own block. Every group except the
// unknown one is preceded by a "## <name>" heading. Blocks are separated by
// a blank line; empty groups are skipped.
func RenderGrouped(groups []category.Group, opts Options) string {
	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.Products) == 0 {
			continue
		}
		body := RenderFlat(g.Products, opts)
		if !g.Unknown {
			body = "## " + g.Name + "\n" + body
		}
		blocks = append(blocks, body)
	}
	return strings.Join(blocks, "\n\n")
}

// Line renders a single product, including its merge detail when enabled.
func Line(p ingredient.Product, opts Options) string {
	name := p.Name
	if opts.ShowMerged {
		name = "**" + name + "**"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- [ ]  %s `%d g` [🔗](%s)", name, p.Amount, SearchURL(p.Name))
	if opts.ShowMerged {
		for _, m := range p.Merged {
			fmt.Fprintf(&b, "\n    - [ ] %s %d g", m.Name, m.Amount)
		}
	}
	return b.String()
}

// SearchURL returns an image search link for name.
func SearchURL(name string) string {
	return searchBase + url.QueryEscape(name) + "&atb=v272-1&iax=images&ia=images"
}
