package strategy

import (
	"fmt"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/indicators"
)

// VolumeBreakout buys on a volume spike accompanying a higher close, and
// sells when volume dries up alongside a lower close.
type VolumeBreakout struct{}

func (VolumeBreakout) Name() string { return "volume_breakout" }

func (VolumeBreakout) DefaultParams() Params {
	return Params{"volume_period": 20, "volume_multiplier": 2.0}
}

func (VolumeBreakout) ParamGrid() Grid {
	return Grid{
		"volume_period":     {5, 10, 20},
		"volume_multiplier": {1.5, 2.0, 2.5, 3.0},
	}
}

func (VolumeBreakout) RequiredIndicators() []string { return nil }

func (VolumeBreakout) Validate(p Params) error {
	multiplier := floatParam(p, "volume_multiplier", 2.0)
	if multiplier < 1.0 || multiplier > 5.0 {
		return fmt.Errorf("volume_multiplier must be in [1.0,5.0]: %w", errs.ParamsInvalid)
	}
	return nil
}

func (VolumeBreakout) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close, volume := series.Close(), series.Volume()
	volMA := indicators.SMA(volume, intParam(p, "volume_period", 20))
	multiplier := floatParam(p, "volume_multiplier", 2.0)

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 1; i < n; i++ {
		if isNaN(volMA[i]) {
			continue
		}
		if volume[i] > volMA[i]*multiplier && close[i] > close[i-1] {
			buy[i] = true
		}
		if volume[i] < volMA[i] && close[i] < close[i-1] {
			sell[i] = true
		}
	}
	return buy, sell
}
