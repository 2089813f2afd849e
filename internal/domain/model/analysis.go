package model

// Candidate-level flags.
const (
	FlagEmploymentGaps        = "employment_gaps_detected"
	FlagOverlappingRoles      = "overlapping_roles_detected"
	FlagDuplicateClaims       = "possible_duplicate_claims"
	FlagSensitiveJobText      = "remove_sensitive_attributes_from_job_description"
	FlagPotentialExaggeration = "potential_exaggeration_detected"
)

// Period is a gap or overlap window between two employment intervals.
// Dates are ISO-8601 calendar dates.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// AnalysisResult is derived per candidate for one job context.
type AnalysisResult struct {
	Gaps                 []Period `json:"gaps"`
	Overlaps             []Period `json:"overlaps"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	StatedYears          *float64 `json:"stated_years"`
	Flags                []string `json:"flags"`
	AnomalyReasons       []string `json:"anomaly_reasons"`
	MissingHardSkills    []string `json:"missing_hard_skills"`
}

// HasFlag reports whether flag was raised.
func (a *AnalysisResult) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
