// Package similarity scores how closely a short query string matches a
// candidate string. Scores follow a lower-is-better scheme in [0, 1]: 0 is a
// perfect match, 1 is no match at all.
package similarity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// NoMatch is the score of a pair that does not match.
	NoMatch = 1.0

	// Threshold is the worst score still reported as a match. Anything worse
	// scores NoMatch.
	Threshold = 0.6

	// locationDistance controls how fast a match that starts late in the
	// candidate is penalized: a start offset of locationDistance runes costs
	// a full point.
	locationDistance = 100.0
)

// Fold prepares s for comparison: NFC composition, Unicode case folding and
// whitespace collapsing.
func Fold(s string) []rune {
	s = cases.Fold().String(norm.NFC.String(s))
	return []rune(strings.Join(strings.Fields(s), " "))
}

// Score compares query against candidate. The query may match anywhere
// inside the candidate; the score is the number of edits needed per query
// rune plus a penalty for how far into the candidate the match starts.
func Score(query, candidate string) (float64, bool) {
	return scoreFolded(Fold(query), Fold(candidate))
}

func scoreFolded(q, t []rune) (float64, bool) {
	if len(q) == 0 || len(t) == 0 {
		return NoMatch, false
	}
	if equalRunes(q, t) {
		return 0, true
	}

	edits, start := bestAlignment(q, t)
	score := float64(edits)/float64(len(q)) + float64(start)/locationDistance
	if score > Threshold {
		return NoMatch, false
	}
	return score, true
}

// bestAlignment finds the cheapest alignment of q against any substring of t
// and returns its edit count and the rune offset where it starts. Among
// alignments with the same edit count the earliest start wins.
func bestAlignment(q, t []rune) (edits, start int) {
	n := len(t)
	prevCost := make([]int, n+1)
	prevStart := make([]int, n+1)
	currCost := make([]int, n+1)
	currStart := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prevCost[j] = 0
		prevStart[j] = j
	}

	for i := 1; i <= len(q); i++ {
		currCost[0] = i
		currStart[0] = 0
		for j := 1; j <= n; j++ {
			cost, from := prevCost[j-1], prevStart[j-1]
			if q[i-1] != t[j-1] {
				cost++
			}
			if c := prevCost[j] + 1; better(c, prevStart[j], cost, from) {
				cost, from = c, prevStart[j]
			}
			if c := currCost[j-1] + 1; better(c, currStart[j-1], cost, from) {
				cost, from = c, currStart[j-1]
			}
			currCost[j], currStart[j] = cost, from
		}
		prevCost, currCost = currCost, prevCost
		prevStart, currStart = currStart, prevStart
	}

	bestScore := -1.0
	for j := 0; j <= n; j++ {
		s := float64(prevCost[j])/float64(len(q)) + float64(prevStart[j])/locationDistance
		if bestScore < 0 || s < bestScore {
			bestScore = s
			edits, start = prevCost[j], prevStart[j]
		}
	}
	return edits, start
}

func better(cost, start, bestCost, bestStart int) bool {
	if cost != bestCost {
		return cost < bestCost
	}
	return start < bestStart
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
