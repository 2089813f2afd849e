package analytics

import (
	"fmt"
	"math"

	"github.com/okian/screener/internal/domain/model"
)

// Success weights and penalty indicator contributions.
const (
	successOverall    = 0.55
	successTrend      = 0.15
	successHardCov    = 0.15
	successSemantic   = 0.10
	successPenalty    = 0.05
	indicatorGaps     = 0.30
	indicatorOverlaps = 0.20
	indicatorExagg    = 0.20
)

// Success blends a scored candidate into a hiring-success estimate and
// returns the weighted terms behind it.
func Success(c *model.ScoredCandidate) (float64, []string) {
	var indicator float64
	if len(c.Gaps) > 0 {
		indicator += indicatorGaps
	}
	if len(c.Overlaps) > 0 {
		indicator += indicatorOverlaps
	}
	if c.HasFlag(model.FlagPotentialExaggeration) {
		indicator += indicatorExagg
	}

	s := successOverall*c.OverallScore +
		successTrend*c.TrendScore +
		successHardCov*c.HardSkillCoverage +
		successSemantic*c.SemanticScore -
		successPenalty*indicator

	explain := []string{
		fmt.Sprintf("overall*0.55=%.3f", successOverall*c.OverallScore),
		fmt.Sprintf("trend*0.15=%.3f", successTrend*c.TrendScore),
		fmt.Sprintf("hard_cov*0.15=%.3f", successHardCov*c.HardSkillCoverage),
		fmt.Sprintf("semantic*0.10=%.3f", successSemantic*c.SemanticScore),
		fmt.Sprintf("penalty*0.05=%.3f", successPenalty*indicator),
	}
	return math.Max(0, math.Min(1, s)), explain
}
