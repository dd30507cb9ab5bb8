package ingredient

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reParenthesis = regexp.MustCompile(`\([^)]*\)`)
	reGluedItem   = regexp.MustCompile(`(\([^)]*\)) (\p{Lu})`)
)

// SplitItems breaks two items glued on one line ("Pomidory (400g) Cebula")
// into separate lines. The split point is a closed parenthetical followed by
// a space and a capitalized word.
func SplitItems(text string) string {
	return reGluedItem.ReplaceAllString(text, "$1\n$2")
}

// RemoveUnits drops every non-nested "(...)" span.
func RemoveUnits(text string) string {
	return reParenthesis.ReplaceAllString(text, "")
}

// NormalizeText composes the text to NFC and unifies line endings so that
// visually identical names compare equal.
func NormalizeText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// CleanUp is the whole-text clean-up transform. It splits glued items,
// removes parenthetical units, stray commas and asterisks. Applying it twice
// yields the same text as applying it once.
func CleanUp(text string) string {
	text = SplitItems(NormalizeText(text))
	text = RemoveUnits(text)
	text = strings.ReplaceAll(text, ", ", " ")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "*", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// SortLines sorts the raw lines of text lexically.
func SortLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(NormalizeText(text), "\n")
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
