package timeline

import (
	"math"

	"github.com/okian/screener/internal/domain/model"
)

// Summary is the temporal view of one candidate's employment ranges.
type Summary struct {
	Intervals   []Interval
	Merged      []Interval
	TotalMonths float64
	TotalYears  float64
	Gaps        []model.Period
	Overlaps    []model.Period
}

// Summarize parses ranges against the normalizer clock read once at call time.
func (n *Normalizer) Summarize(ranges []model.DateRange) Summary {
	intervals := n.Intervals(ranges, n.now())
	months := TotalMonths(intervals)
	return Summary{
		Intervals:   intervals,
		Merged:      Merge(intervals),
		TotalMonths: months,
		TotalYears:  math.Round(months/12*100) / 100,
		Gaps:        Gaps(intervals),
		Overlaps:    Overlaps(intervals),
	}
}
