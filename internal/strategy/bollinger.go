package strategy

import (
	"fmt"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/indicators"
)

// Bollinger buys on a close below the lower band and sells above the upper.
type Bollinger struct{}

func (Bollinger) Name() string { return "bollinger" }

func (Bollinger) DefaultParams() Params { return Params{"period": 20, "std_dev": 2.0} }

func (Bollinger) ParamGrid() Grid {
	return Grid{
		"period":  {15, 20, 25, 30, 40},
		"std_dev": {1.8, 2.0, 2.2, 2.5},
	}
}

func (Bollinger) RequiredIndicators() []string { return nil }

func (Bollinger) Validate(p Params) error {
	period := intParam(p, "period", 20)
	stdDev := floatParam(p, "std_dev", 2.0)
	if period < 5 || period > 200 {
		return fmt.Errorf("period must be in [5,200]: %w", errs.ParamsInvalid)
	}
	if stdDev < 1.0 || stdDev > 3.0 {
		return fmt.Errorf("std_dev must be in [1.0,3.0]: %w", errs.ParamsInvalid)
	}
	return nil
}

func (Bollinger) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close := series.Close()
	_, upper, lower := indicators.Bollinger(close, intParam(p, "period", 20), floatParam(p, "std_dev", 2.0))

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		if isNaN(upper[i]) || isNaN(lower[i]) {
			continue
		}
		if close[i] < lower[i] {
			buy[i] = true
		}
		if close[i] > upper[i] {
			sell[i] = true
		}
	}
	return buy, sell
}
