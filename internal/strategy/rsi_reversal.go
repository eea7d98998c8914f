package strategy

import (
	"fmt"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/indicators"
)

// RSIReversal buys on an oversold RSI dip and sells on an overbought spike.
type RSIReversal struct{}

func (RSIReversal) Name() string { return "rsi_reversal" }

func (RSIReversal) DefaultParams() Params {
	return Params{"rsi_period": 14, "oversold": 30, "overbought": 70}
}

func (RSIReversal) ParamGrid() Grid {
	return Grid{
		"rsi_period": {9, 14, 21, 25},
		"oversold":   {25, 30, 35},
		"overbought": {70, 75, 80},
	}
}

func (RSIReversal) RequiredIndicators() []string { return nil }

func (RSIReversal) Validate(p Params) error {
	oversold := floatParam(p, "oversold", 30)
	overbought := floatParam(p, "overbought", 70)
	if oversold >= overbought {
		return fmt.Errorf("oversold must be < overbought: %w", errs.ParamsInvalid)
	}
	if oversold > 40 {
		return fmt.Errorf("oversold must be <= 40: %w", errs.ParamsInvalid)
	}
	if overbought < 60 {
		return fmt.Errorf("overbought must be >= 60: %w", errs.ParamsInvalid)
	}
	return nil
}

func (RSIReversal) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close := series.Close()
	rsi := indicators.RSI(close, intParam(p, "rsi_period", 14))
	oversold := floatParam(p, "oversold", 30)
	overbought := floatParam(p, "overbought", 70)

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		if isNaN(rsi[i]) {
			continue
		}
		if rsi[i] < oversold {
			buy[i] = true
		}
		if rsi[i] > overbought {
			sell[i] = true
		}
	}
	return buy, sell
}
