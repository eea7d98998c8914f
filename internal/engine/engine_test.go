package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare-backtester/internal/bar"
)

func mkBars(spec []struct {
	d          string
	o, h, l, c, v float64
}) []bar.Bar {
	out := make([]bar.Bar, len(spec))
	for i, s := range spec {
		d, _ := time.Parse("2006-01-02", s.d)
		out[i] = bar.Bar{Date: d, Open: s.o, High: s.h, Low: s.l, Close: s.c, Volume: s.v}
	}
	return out
}

func TestTwoBarFlatNoTrades(t *testing.T) {
	bars := mkBars([]struct {
		d             string
		o, h, l, c, v float64
	}{
		{"2024-01-02", 10, 10, 10, 10, 1e6},
		{"2024-01-03", 10, 10, 10, 10, 1e6},
	})
	series := bar.NewSeries(bars)
	e := New(NewConfig())
	trades, _, perf := e.Run(series, []bool{false, false}, []bool{false, false})
	assert.Empty(t, trades)
	assert.InDelta(t, 0, perf.TotalReturn, 1e-9)
	assert.InDelta(t, 0, perf.SharpeRatio, 1e-9)
	assert.InDelta(t, perf.InitialCapital, perf.FinalCapital, 1e-6)
}

func TestStopLossTriggersBeforeSignal(t *testing.T) {
	bars := mkBars([]struct {
		d             string
		o, h, l, c, v float64
	}{
		{"2024-01-02", 100, 100, 100, 100, 1e6},
		{"2024-01-03", 95, 96, 94.0, 95.0, 1e6},
	})
	series := bar.NewSeries(bars)
	cfg := NewConfig()
	e := New(cfg)
	buy := []bool{true, false}
	sell := []bool{false, true}
	trades, _, perf := e.Run(series, buy, sell)
	require.Len(t, trades, 2)
	assert.Equal(t, SideBuy, trades[0].Side)
	assert.Equal(t, SideSell, trades[1].Side)
	assert.Equal(t, ReasonStopLoss, trades[1].Reason)
	assert.InDelta(t, 100.1, trades[0].ExecPrice, 1e-6)
	assert.Equal(t, 9900, trades[0].Shares)
	expectedStop := 100.1 * 0.95 * 0.999
	assert.InDelta(t, expectedStop, trades[1].ExecPrice, 1e-6)
	assert.Equal(t, 1, perf.StopLossCount)
}

func TestPositionSizeZeroNeverBuys(t *testing.T) {
	bars := mkBars([]struct {
		d             string
		o, h, l, c, v float64
	}{
		{"2024-01-02", 10, 10, 10, 10, 1e6},
		{"2024-01-03", 11, 11, 11, 11, 1e6},
	})
	series := bar.NewSeries(bars)
	cfg := NewConfig(WithPositionSize(0))
	e := New(cfg)
	trades, _, _ := e.Run(series, []bool{true, true}, []bool{false, false})
	assert.Empty(t, trades)
}

func TestZeroFrictionNoSignalsPreservesCapital(t *testing.T) {
	bars := mkBars([]struct {
		d             string
		o, h, l, c, v float64
	}{
		{"2024-01-02", 10, 10, 10, 10, 1e6},
		{"2024-01-03", 11, 11, 11, 11, 1e6},
		{"2024-01-04", 9, 9, 9, 9, 1e6},
	})
	series := bar.NewSeries(bars)
	cfg := NewConfig(WithCommissionRate(0), WithSlippageRate(0), WithStampTaxRate(0), WithMinCommission(0))
	e := New(cfg)
	_, _, perf := e.Run(series, []bool{false, false, false}, []bool{false, false, false})
	assert.InDelta(t, perf.InitialCapital, perf.FinalCapital, 1e-9)
}
