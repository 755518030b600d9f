package portfolio

import (
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// benchmarkPeriods are the fixed trailing windows, in trading days.
var benchmarkPeriods = []struct {
	Label string
	Days  int
}{
	{"1D", 1},
	{"1W", 5},
	{"1M", 21},
	{"3M", 63},
	{"6M", 126},
	{"1Y", 252},
}

// BenchmarkReturns computes the benchmark's percent return over each fixed
// trailing window, plus a year-to-date window anchored at the first bar on or
// after January 1 of the current year. Periods without enough history are
// silently omitted.
func BenchmarkReturns(series *model.PriceSeries, now time.Time) map[string]float64 {
	n := series.Len()
	if n == 0 {
		return map[string]float64{}
	}

	bars := series.Bars
	current := bars[n-1].Close
	returns := make(map[string]float64, len(benchmarkPeriods)+1)

	for _, p := range benchmarkPeriods {
		if n <= p.Days {
			continue
		}
		start := bars[n-1-p.Days].Close
		if start == 0 {
			continue
		}
		returns[p.Label] = (current - start) / start * 100
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	for _, b := range bars {
		if !b.Date.Before(yearStart) {
			if b.Close != 0 {
				returns["YTD"] = (current - b.Close) / b.Close * 100
			}
			break
		}
	}
	return returns
}
