// Package timeline turns free-text employment ranges into intervals and
// derives tenure, gaps and overlaps from them.
//
// Duration is computed on merged runs. Gaps and overlaps are computed on the
// sorted but unmerged list so that concurrent roles stay visible.
package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/okian/screener/internal/domain/model"
)

const (
	// MinIntervalMonths drops shorter spans as projects or coursework.
	MinIntervalMonths = 2.0
	// GapThresholdDays is the day distance above which a gap is recorded.
	GapThresholdDays = 92
	// OverlapTolerance is how far a start may precede the previous end.
	OverlapTolerance = 30 * 24 * time.Hour
)

// Interval is a parsed employment span with Start <= End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Months returns the interval length in months.
func (i Interval) Months() float64 {
	return MonthsBetween(i.Start, i.End)
}

// Normalizer parses date-range tokens into intervals.
type Normalizer struct {
	now      func() time.Time
	baseYear int
}

// New creates a Normalizer using the wall clock in UTC.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:      func() time.Time { return time.Now().UTC() },
		baseYear: defaultBaseYear,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Intervals parses ranges and returns the valid intervals sorted by start.
// now substitutes open-ended or unparseable end tokens. Pairs with an
// unparseable start or with start after end are dropped, as are spans
// shorter than MinIntervalMonths.
func (n *Normalizer) Intervals(ranges []model.DateRange, now time.Time) []Interval {
	out := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		start, err := n.ParseToken(r.Start)
		if err != nil {
			continue
		}
		end := now
		if !IsOngoing(r.End) {
			if e, err := n.ParseToken(r.End); err == nil {
				end = e
			}
		}
		if start.After(end) {
			continue
		}
		iv := Interval{Start: start, End: end}
		if iv.Months() < MinIntervalMonths {
			continue
		}
		out = append(out, iv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// MonthsBetween counts whole months plus a day_diff/30 fraction. The order
// of a and b does not matter and the result is never negative.
func MonthsBetween(a, b time.Time) float64 {
	if b.Before(a) {
		a, b = b, a
	}
	years := b.Year() - a.Year()
	months := int(b.Month()) - int(a.Month())
	days := b.Day() - a.Day()
	total := float64(years*12+months) + float64(days)/30.0
	return math.Max(0, total)
}

// Merge collapses overlapping or touching intervals into maximal runs.
// The input must be sorted by start.
func Merge(sorted []Interval) []Interval {
	if len(sorted) == 0 {
		return nil
	}
	merged := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if !iv.Start.After(cur.End) {
			if iv.End.After(cur.End) {
				cur.End = iv.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	return append(merged, cur)
}

// TotalMonths sums the merged-run durations of a sorted interval list.
func TotalMonths(sorted []Interval) float64 {
	var total float64
	for _, run := range Merge(sorted) {
		total += run.Months()
	}
	return total
}
