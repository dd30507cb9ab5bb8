package pipeline

import (
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/merge"
)

// SweepPoint is the merge outcome at one threshold.
type SweepPoint struct {
	Score    int
	Products int
	Merged   int
}

// Sweep reduces parsed at every merge threshold from 0 to MaxScore in
// increments of step and reports how many products remain at each one.
func Sweep(parsed []ingredient.Product, step int) []SweepPoint {
	if step <= 0 {
		step = 5
	}

	points := make([]SweepPoint, 0, MaxScore/step+1)
	for score := 0; score <= MaxScore; score += step {
		reduced := merge.Fold(parsed, merge.Options{Enabled: true, MaxScore: scale(score)})
		points = append(points, SweepPoint{
			Score:    score,
			Products: len(reduced),
			Merged:   len(parsed) - len(reduced),
		})
	}
	return points
}
