package indicators

import (
	"time"

	"ashare-backtester/internal/bar"
)

// ResampleWeekly aggregates daily bars into calendar weeks starting Monday
// (ISO weekday), using first/max/min/last/sum for open/high/low/close/volume.
func ResampleWeekly(bars []bar.Bar) []bar.Bar {
	if len(bars) == 0 {
		return nil
	}
	var weeks []bar.Bar
	weekStart := mondayOf(bars[0].Date)
	cur := bar.Bar{Date: weekOfDate(bars[0].Date), Open: bars[0].Open, High: bars[0].High, Low: bars[0].Low, Close: bars[0].Close, Volume: bars[0].Volume}
	for i := 1; i < len(bars); i++ {
		b := bars[i]
		ws := mondayOf(b.Date)
		if ws.Equal(weekStart) {
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}
		weeks = append(weeks, cur)
		weekStart = ws
		cur = bar.Bar{Date: weekOfDate(b.Date), Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	weeks = append(weeks, cur)
	return weeks
}

// WeeklyToDaily forward-fills a weekly-indexed series of values back onto
// the original daily index (each day carries the value of the calendar week
// it falls in).
func WeeklyToDaily(daily []bar.Bar, weeklyBars []bar.Bar, weeklyValues []float64) []float64 {
	out := make([]float64, len(daily))
	wi := 0
	for i, d := range daily {
		ws := mondayOf(d.Date)
		for wi < len(weeklyBars)-1 && weeklyBars[wi+1].Date.Compare(ws) <= 0 {
			wi++
		}
		if wi < len(weeklyValues) {
			out[i] = weeklyValues[wi]
		} else {
			out[i] = NaN
		}
	}
	return out
}

func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, -(wd - 1)).Truncate(24 * time.Hour)
}

func weekOfDate(t time.Time) time.Time { return mondayOf(t) }
