package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMAWarmup(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := SMA(x, 3)
	require.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestEMASeed(t *testing.T) {
	x := []float64{10, 12, 14}
	out := EMA(x, 2) // alpha = 2/3
	assert.InDelta(t, 10.0, out[0], 1e-9)
	assert.InDelta(t, 2.0/3*12+1.0/3*10, out[1], 1e-9)
}

func TestRSIFlat(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = 10
	}
	out := RSI(x, 14)
	// no up or down moves at all -> avgDown == 0 everywhere it's defined -> RSI 100
	for i := 14; i < len(out); i++ {
		assert.InDelta(t, 100.0, out[i], 1e-9)
	}
}

func TestKDJClip(t *testing.T) {
	high := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	low := []float64{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	close := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	k, d, j := KDJ(high, low, close, 9, 3, 3)
	require.Len(t, k, 10)
	require.Len(t, d, 10)
	for _, v := range j {
		assert.LessOrEqual(t, v, 150.0)
		assert.GreaterOrEqual(t, v, -50.0)
	}
}

func TestBollingerWidth(t *testing.T) {
	close := []float64{10, 10, 10, 10, 10}
	middle, upper, lower := Bollinger(close, 3, 2)
	for i := 0; i < 2; i++ { // warm-up: fewer than 3 bars in the window
		assert.True(t, math.IsNaN(middle[i]))
		assert.True(t, math.IsNaN(upper[i]))
		assert.True(t, math.IsNaN(lower[i]))
	}
	for i := 2; i < len(close); i++ {
		assert.InDelta(t, 10.0, middle[i], 1e-9)
		assert.InDelta(t, 10.0, upper[i], 1e-9)
		assert.InDelta(t, 10.0, lower[i], 1e-9)
	}
}

func TestOBVDirection(t *testing.T) {
	close := []float64{10, 11, 10, 10}
	vol := []float64{100, 100, 100, 100}
	out := OBV(close, vol)
	assert.Equal(t, []float64{0, 100, 0, 0}, out)
}
