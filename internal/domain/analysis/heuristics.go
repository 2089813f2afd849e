package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Anomaly reasons.
const (
	ReasonManySuperlatives      = "many_superlatives_without_metrics"
	ReasonClaimsWithoutTimeline = "claims_without_timeframe"
	ReasonDurationInconsistency = "duration_inconsistency_vs_stated_years"
	ReasonVeryLowExperience     = "very_low_total_experience_in_ranges"
)

const (
	extremePercent     = 300
	extremeMultiplier  = 10
	superlativeLimit   = 5
	statedYearsSlack   = 1.5
	veryLowYears       = 0.25
	duplicateMinLength = 15
	maxDuplicates      = 5
)

var superlatives = []string{
	"world-class", "world class", "best", "unparalleled", "unmatched", "exceptional",
	"revolutionary", "groundbreaking", "state-of-the-art", "cutting-edge", "cutting edge",
}

var improvementWords = []string{
	"increase", "increased", "increaseed", "boost", "boosted", "improve", "improved", "reduce", "reduced",
	"grew", "grow", "accelerate", "accelerated", "decrease", "decreased", "cut",
}

var (
	percentRe     = regexp.MustCompile(`(?i)\b(\d{1,3})\s*%|\b(\d{1,3})\s*percent\b`)
	multiplierRe  = regexp.MustCompile(`\b(\d{1,3})\s*[xX]\b`)
	timeframeRe   = regexp.MustCompile(`\b(months?|years?|weeks?)\b`)
	yearsRangeRe  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*[-to]{1,3}\s*(\d+(?:\.\d+)?)\s*(?:years?|yrs)\b`)
	yearsSingleRe = regexp.MustCompile(`(?i)(?:(?:over|more than|approximately|approx|~)\s*)?(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs)\b`)
	sensitiveRe   = regexp.MustCompile(`(?i)\b(\d{2}\s*years?\s*old|male\b|female\b|married\b|single\b)\b`)
)

// StatedYears extracts a self-reported experience duration. A range such as
// "3-5 years" yields its midpoint and takes priority over a single bound.
func StatedYears(text string) *float64 {
	if text == "" {
		return nil
	}
	if m := yearsRangeRe.FindStringSubmatch(text); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			v := (a + b) / 2
			return &v
		}
	}
	if m := yearsSingleRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

// MetricAnomalies returns exaggeration reasons found in text.
func MetricAnomalies(text string) []string {
	reasons := []string{}
	if text == "" {
		return reasons
	}
	t := strings.ToLower(text)

	var pct []int
	for _, m := range percentRe.FindAllStringSubmatch(t, -1) {
		v := m[1]
		if v == "" {
			v = m[2]
		}
		if n, err := strconv.Atoi(v); err == nil {
			pct = append(pct, n)
		}
	}
	if extreme := atLeast(pct, extremePercent); len(extreme) > 0 {
		reasons = append(reasons, fmt.Sprintf("extreme_percent_claims: %s%%", intList(extreme)))
	}

	var mult []int
	for _, m := range multiplierRe.FindAllStringSubmatch(t, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			mult = append(mult, n)
		}
	}
	if extreme := atLeast(mult, extremeMultiplier); len(extreme) > 0 {
		reasons = append(reasons, fmt.Sprintf("extreme_multiplier_claims: %sx", intList(extreme)))
	}

	count := 0
	for _, s := range superlatives {
		count += strings.Count(t, s)
	}
	if count >= superlativeLimit && len(pct) == 0 && len(mult) == 0 {
		reasons = append(reasons, ReasonManySuperlatives)
	}

	if containsAny(t, improvementWords) && !timeframeRe.MatchString(t) {
		reasons = append(reasons, ReasonClaimsWithoutTimeline)
	}
	return reasons
}

// DuplicateClaims returns trimmed lines repeated case-insensitively whose
// normalized form is longer than 15 characters, at most five.
func DuplicateClaims(lines []string) []string {
	seen := map[string]struct{}{}
	dups := []string{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok && len(key) > duplicateMinLength {
			dups = append(dups, trimmed)
		}
		seen[key] = struct{}{}
	}
	if len(dups) > maxDuplicates {
		dups = dups[:maxDuplicates]
	}
	return dups
}

// SensitiveJobText reports whether job text mentions age, gender or marital status.
func SensitiveJobText(jobText string) bool {
	return sensitiveRe.MatchString(jobText)
}

func atLeast(vals []int, floor int) []int {
	set := map[int]struct{}{}
	for _, v := range vals {
		if v >= floor {
			set[v] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// intList renders values as "[a, b]".
func intList(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
