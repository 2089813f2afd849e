package scoring

import (
	"sort"

	"github.com/okian/screener/internal/domain/model"
)

// Sort orders candidates by overall score descending, then fewer flags,
// then fewer gaps. Equal candidates keep their input order.
func Sort(cands []model.ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := &cands[i], &cands[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if len(a.Flags) != len(b.Flags) {
			return len(a.Flags) < len(b.Flags)
		}
		return len(a.Gaps) < len(b.Gaps)
	})
}

// Ranked reports whether cands are in Sort order.
func Ranked(cands []model.ScoredCandidate) bool {
	for i := 1; i < len(cands); i++ {
		a, b := &cands[i-1], &cands[i]
		switch {
		case a.OverallScore > b.OverallScore:
		case a.OverallScore < b.OverallScore:
			return false
		case len(a.Flags) > len(b.Flags):
			return false
		case len(a.Flags) == len(b.Flags) && len(a.Gaps) > len(b.Gaps):
			return false
		}
	}
	return true
}
