package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
)

func syntheticGoldenCross() *bar.Series {
	var bars []bar.Bar
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		bars = append(bars, bar.Bar{Date: d, Open: 10, High: 10, Low: 10, Close: 10, Volume: 1e6})
		d = d.AddDate(0, 0, 1)
	}
	for i := 0; i < 20; i++ {
		c := 10 + 2*float64(i)/19
		bars = append(bars, bar.Bar{Date: d, Open: c, High: c, Low: c, Close: c, Volume: 1e6})
		d = d.AddDate(0, 0, 1)
	}
	return bar.NewSeries(bars)
}

func TestDualMAGoldenCross(t *testing.T) {
	series := syntheticGoldenCross()
	s := DualMA{}
	buy, sell := s.Signals(series, Params{"short": 5, "long": 20})
	buys := 0
	for _, b := range buy {
		if b {
			buys++
		}
	}
	assert.GreaterOrEqual(t, buys, 1)
	_ = sell
}

func TestRSIReversalValidation(t *testing.T) {
	s := RSIReversal{}
	err := s.Validate(Params{"rsi_period": 14, "oversold": 50, "overbought": 40})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ParamsInvalid)
}

func TestRegistryUnknownStrategy(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("does_not_exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.StrategyUnknown)
}

func TestRegistryAllCanonicalNamesPresent(t *testing.T) {
	r := NewRegistry()
	names := map[string]bool{}
	for _, n := range r.Names() {
		names[n] = true
	}
	for _, want := range []string{
		"dual_ma", "macd_trend", "kdj_oversold", "kdj_bollinger", "kdj_macd",
		"rsi_reversal", "bollinger", "volume_breakout", "bollinger_rsi",
	} {
		assert.True(t, names[want], "missing strategy %s", want)
	}
}

func TestBollingerValidation(t *testing.T) {
	s := Bollinger{}
	assert.NoError(t, s.Validate(Params{"period": 20, "std_dev": 2.0}))
	assert.Error(t, s.Validate(Params{"period": 300, "std_dev": 2.0}))
	assert.Error(t, s.Validate(Params{"period": 20, "std_dev": 5.0}))
}
