package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPMinimizerConvergesOnQuadratic(t *testing.T) {
	dims := []Dimension{{Name: "k", Kind: Real, Low: 0, High: 1}}
	target := 0.3

	gp := NewGPMinimizer(42)
	history := gp.Minimize(30, dims, func(point []float64) float64 {
		k := point[0]
		return (k - target) * (k - target) // minimize; best at k=target
	})

	best := history[0]
	for _, h := range history[1:] {
		if h.Value < best.Value {
			best = h
		}
	}
	assert.InDelta(t, target, best.Point[0], 0.05)

	for i, h := range history {
		if i > 0 {
			assert.False(t, math.IsNaN(h.Value))
		}
		assert.GreaterOrEqual(t, h.Value, best.Value)
	}
}

func TestBuildDimensionsClassifiesKinds(t *testing.T) {
	grid := map[string][]float64{
		"short":   {5, 10, 15, 20},
		"std_dev": {1.8, 2.0, 2.2},
	}
	dims := BuildDimensions(grid)
	byName := map[string]Dimension{}
	for _, d := range dims {
		byName[d.Name] = d
	}
	assert.Equal(t, Integer, byName["short"].Kind)
	assert.Equal(t, Real, byName["std_dev"].Kind)
}
