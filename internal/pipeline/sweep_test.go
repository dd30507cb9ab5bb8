package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/pipeline"
)

func TestSweep(t *testing.T) {
	parsed := ingredient.ParseText("Pomidory 200 g\nPomidor 100 g\nKasza 100 g\nKaszo 50 g\nMleko 1 g")

	points := pipeline.Sweep(parsed, 5)

	require.Len(t, points, 21)
	assert.Equal(t, pipeline.SweepPoint{Score: 0, Products: 5, Merged: 0}, points[0])
	// Pomidor/Pomidory score 0 and need a threshold above it.
	assert.Equal(t, 4, points[1].Products)
	// Kasza/Kaszo score exactly 0.2 and only merge above it.
	assert.Equal(t, 4, points[4].Products)
	assert.Equal(t, 3, points[5].Products)
	assert.Equal(t, 100, points[20].Score)

	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, points[i].Products, points[i-1].Products, "score %d", points[i].Score)
		assert.Equal(t, len(parsed), points[i].Products+points[i].Merged)
	}
}

func TestSweep_DefaultStep(t *testing.T) {
	points := pipeline.Sweep(nil, 0)

	require.Len(t, points, 21)
	for _, p := range points {
		assert.Zero(t, p.Products)
	}
}
