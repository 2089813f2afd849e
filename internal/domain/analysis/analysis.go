// Package analysis cross-checks an enriched profile against its own text and
// a job context: tenure, gaps, overlaps, stated-years consistency,
// exaggerated metrics and duplicate claims.
package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/timeline"
)

// Input is one candidate in one job context.
type Input struct {
	Profile model.EnrichedProfile

	// Text is the candidate analysis text. When empty, the ranges-only
	// fallback check is used instead of stated-years comparison.
	Text string

	// JobText is the job description before redaction.
	JobText string

	HardSkills []string
}

// Analyzer derives AnalysisResults.
type Analyzer struct {
	timeline *timeline.Normalizer
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.timeline == nil {
		a.timeline = timeline.New()
	}
	return a
}

// Analyze computes the AnalysisResult for in.
func (a *Analyzer) Analyze(in Input) model.AnalysisResult {
	summary := a.timeline.Summarize(in.Profile.ExperienceRanges)

	res := model.AnalysisResult{
		Gaps:                 summary.Gaps,
		Overlaps:             summary.Overlaps,
		TotalExperienceYears: summary.TotalYears,
		StatedYears:          StatedYears(in.Text),
		Flags:                []string{},
		MissingHardSkills:    MissingHardSkills(in.HardSkills, &in.Profile, strings.ToLower(in.Text)),
	}

	if in.Text != "" {
		res.AnomalyReasons = MetricAnomalies(in.Text)
		if res.StatedYears != nil && math.Abs(res.TotalExperienceYears-*res.StatedYears) > statedYearsSlack {
			res.AnomalyReasons = append(res.AnomalyReasons, ReasonDurationInconsistency)
		}
	} else {
		res.AnomalyReasons = []string{}
		if res.TotalExperienceYears < veryLowYears {
			res.AnomalyReasons = append(res.AnomalyReasons, ReasonVeryLowExperience)
		}
	}

	if len(res.Gaps) > 0 {
		res.Flags = append(res.Flags, model.FlagEmploymentGaps)
	}
	if len(res.Overlaps) > 0 {
		res.Flags = append(res.Flags, model.FlagOverlappingRoles)
	}
	if len(DuplicateClaims(in.Profile.Education)) > 0 {
		res.Flags = append(res.Flags, model.FlagDuplicateClaims)
	}
	if SensitiveJobText(in.JobText) {
		res.Flags = append(res.Flags, model.FlagSensitiveJobText)
	}
	if len(res.AnomalyReasons) > 0 {
		res.Flags = append(res.Flags, model.FlagPotentialExaggeration)
	}
	return res
}

// MissingHardSkills returns the lowercased required skills found neither in
// the profile skill set nor in lowered text, sorted ascending.
func MissingHardSkills(hard []string, profile *model.EnrichedProfile, lowered string) []string {
	set := map[string]struct{}{}
	for _, s := range hard {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || profile.HasSkill(s) || strings.Contains(lowered, s) {
			continue
		}
		set[s] = struct{}{}
	}
	missing := make([]string, 0, len(set))
	for s := range set {
		missing = append(missing, s)
	}
	sort.Strings(missing)
	return missing
}
