package timeline

import (
	"time"

	"github.com/okian/screener/internal/domain/model"
)

const isoDate = "2006-01-02"

// Gaps records each break longer than GapThresholdDays between consecutive
// intervals of a sorted, unmerged list.
func Gaps(sorted []Interval) []model.Period {
	gaps := []model.Period{}
	for i := 1; i < len(sorted); i++ {
		prevEnd := sorted[i-1].End
		curStart := sorted[i].Start
		days := floorDays(curStart.Sub(prevEnd))
		if days > GapThresholdDays {
			gaps = append(gaps, period(prevEnd, curStart, days))
		}
	}
	return gaps
}

// Overlaps records each interval starting more than OverlapTolerance before
// the previous one ends. The window runs from its start to the earlier end.
func Overlaps(sorted []Interval) []model.Period {
	overlaps := []model.Period{}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if !cur.Start.Add(OverlapTolerance).Before(prev.End) {
			continue
		}
		end := prev.End
		if cur.End.Before(end) {
			end = cur.End
		}
		overlaps = append(overlaps, period(cur.Start, end, floorDays(end.Sub(cur.Start))))
	}
	return overlaps
}

func period(start, end time.Time, days int) model.Period {
	return model.Period{Start: start.Format(isoDate), End: end.Format(isoDate), Days: days}
}

func floorDays(d time.Duration) int {
	day := 24 * time.Hour
	q := d / day
	if d < 0 && d%day != 0 {
		q--
	}
	return int(q)
}
