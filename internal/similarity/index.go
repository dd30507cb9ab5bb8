package similarity

import "sort"

// Result is one candidate returned by a query.
type Result struct {
	// Index is the candidate's position in the index at query time.
	Index int
	Name  string
	Score float64
}

type entry struct {
	name   string
	folded []rune
}

// Index is a fuzzy lookup structure over an ordered, mutable list of names.
// Positions follow insertion order and shift down on Remove, so callers can
// keep a parallel slice in sync.
type Index struct {
	entries []entry
}

// NewIndex builds an index over names, in order.
func NewIndex(names ...string) *Index {
	ix := &Index{entries: make([]entry, 0, len(names))}
	for _, name := range names {
		ix.Add(name)
	}
	return ix
}

// Len returns the number of names in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Add appends name at the end of the index.
func (ix *Index) Add(name string) {
	ix.entries = append(ix.entries, entry{name: name, folded: Fold(name)})
}

// Remove deletes the entry at position i.
func (ix *Index) Remove(i int) {
	if i < 0 || i >= len(ix.entries) {
		return
	}
	ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
}

// Search returns every matching entry, best score first. Entries with equal
// scores keep their index order.
func (ix *Index) Search(query string) []Result {
	q := Fold(query)

	var results []Result
	for i, e := range ix.entries {
		score, ok := scoreFolded(q, e.folded)
		if !ok {
			continue
		}
		results = append(results, Result{Index: i, Name: e.name, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// Query returns the best match for query whose score is strictly below
// maxScore.
func (ix *Index) Query(query string, maxScore float64) (Result, bool) {
	results := ix.Search(query)
	if len(results) == 0 || results[0].Score >= maxScore {
		return Result{}, false
	}
	return results[0], true
}
