package scoring

import (
	"math"

	"github.com/okian/screener/internal/domain/model"
)

// Risk reasons.
const (
	RiskEmploymentGaps    = "employment_gaps"
	RiskOverlappingRoles  = "overlapping_roles"
	RiskDuplicateClaims   = "duplicate_claims"
	RiskExaggeration      = "exaggeration"
	RiskNoExperienceDates = "no_experience_dates"
	RiskMissingContact    = "missing_contact"
)

// Risk contributions and label thresholds.
const (
	riskGaps          = 0.25
	riskOverlaps      = 0.20
	riskDuplicates    = 0.15
	riskExaggeration  = 0.20
	riskNoRanges      = 0.15
	riskNoContact     = 0.10
	riskMediumAtLeast = 0.3
	riskHighAtLeast   = 0.6
)

// Assessment is the trustworthiness axis of a candidate. It is independent
// of match quality.
type Assessment struct {
	Score   float64
	Label   string
	Reasons []string
}

// Risk assesses a profile and its analysis.
func Risk(profile *model.EnrichedProfile, res *model.AnalysisResult) Assessment {
	a := Assessment{Reasons: []string{}}
	add := func(w float64, reason string) {
		a.Score += w
		a.Reasons = append(a.Reasons, reason)
	}
	if res.HasFlag(model.FlagEmploymentGaps) {
		add(riskGaps, RiskEmploymentGaps)
	}
	if res.HasFlag(model.FlagOverlappingRoles) {
		add(riskOverlaps, RiskOverlappingRoles)
	}
	if res.HasFlag(model.FlagDuplicateClaims) {
		add(riskDuplicates, RiskDuplicateClaims)
	}
	if res.HasFlag(model.FlagPotentialExaggeration) {
		add(riskExaggeration, RiskExaggeration)
	}
	if len(profile.ExperienceRanges) == 0 {
		add(riskNoRanges, RiskNoExperienceDates)
	}
	if !profile.Contacts.HasEmail() || !profile.Contacts.HasPhone() {
		add(riskNoContact, RiskMissingContact)
	}
	a.Score = clamp01(a.Score)
	a.Label = RiskLabel(a.Score)
	return a
}

// RiskLabel buckets a risk score.
func RiskLabel(score float64) string {
	switch {
	case score >= riskHighAtLeast:
		return model.RiskHigh
	case score >= riskMediumAtLeast:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
