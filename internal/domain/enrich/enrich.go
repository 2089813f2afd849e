// Package enrich expands a raw extracted profile with normalized skills,
// education levels, certifications, contacts and extra experience ranges.
// Enrichment only adds information; nothing in the raw profile is removed.
package enrich

import (
	"sort"
	"strings"

	"github.com/okian/screener/internal/domain/model"
)

// Enricher builds EnrichedProfiles from RawProfiles.
type Enricher struct{}

// New returns an Enricher.
func New() *Enricher {
	return &Enricher{}
}

// Enrich derives an EnrichedProfile from raw and the document text.
// contactText is scanned for contacts; when empty, text is used.
func (e *Enricher) Enrich(raw model.RawProfile, text, contactText string) model.EnrichedProfile {
	if contactText == "" {
		contactText = text
	}
	lowered := strings.ToLower(text)

	out := model.EnrichedProfile{
		RawProfile: model.RawProfile{
			Skills:           Skills(raw.Skills, lowered),
			Education:        append([]string(nil), raw.Education...),
			ExperienceRanges: append([]model.DateRange(nil), raw.ExperienceRanges...),
		},
		EducationNormalized: NormalizeEducation(raw.Education),
		Certifications:      Certifications(lowered),
		Contacts:            DetectContacts(contactText),
	}

	for _, r := range SupplementalRanges(text) {
		if !containsRange(out.ExperienceRanges, r) {
			out.ExperienceRanges = append(out.ExperienceRanges, r)
		}
	}
	if out.ExperienceRanges == nil {
		out.ExperienceRanges = []model.DateRange{}
	}
	if out.Education == nil {
		out.Education = []string{}
	}
	return out
}

// Skills returns the lowercased, sorted union of existing skills, phrase
// hits and synonym resolutions found in lowered text.
func Skills(existing []string, lowered string) []string {
	set := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = struct{}{}
		}
	}
	for _, ph := range multiWordSkills {
		if strings.Contains(lowered, ph) {
			set[ph] = struct{}{}
		}
	}
	for key, canon := range skillSynonyms {
		if strings.Contains(key, " ") && strings.Contains(lowered, key) {
			set[canon] = struct{}{}
		}
	}
	for _, tok := range tokenRe.Split(lowered, -1) {
		if canon, ok := skillSynonyms[tok]; ok {
			set[canon] = struct{}{}
		}
	}

	skills := make([]string, 0, len(set))
	for s := range set {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// NormalizeEducation maps each line to its highest-priority degree level.
// Lines matching no level are omitted.
func NormalizeEducation(lines []string) []model.Education {
	out := []model.Education{}
	for _, line := range lines {
		for _, dp := range degreePatterns {
			if dp.re.MatchString(line) {
				out = append(out, model.Education{Raw: line, Level: dp.level})
				break
			}
		}
	}
	return out
}

// Certifications returns up to ten unique certification mentions in
// first-seen order. lowered must already be lowercased.
func Certifications(lowered string) []string {
	certs := []string{}
	seen := map[string]struct{}{}
	for _, re := range certPatterns {
		for _, m := range re.FindAllString(lowered, -1) {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			certs = append(certs, m)
		}
	}
	if len(certs) > maxCertifications {
		certs = certs[:maxCertifications]
	}
	return certs
}

// DetectContacts finds the first email, first phone and up to five links.
func DetectContacts(text string) model.Contacts {
	var c model.Contacts
	c.Email = emailRe.FindString(text)
	c.Phone = phoneRe.FindString(text)
	if links := linkRe.FindAllString(text, maxLinks); len(links) > 0 {
		c.Links = links
	}
	return c
}

// SupplementalRanges scans text line by line for numeric or year-only
// ranges that sit in an employment context and not a project one.
func SupplementalRanges(text string) []model.DateRange {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []model.DateRange
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || projectRe.MatchString(line) {
			continue
		}
		lo := max(0, i-1)
		hi := min(len(lines), i+2)
		if !employmentRe.MatchString(strings.Join(lines[lo:hi], " ")) {
			continue
		}
		m := numericRangeRe.FindStringSubmatch(line)
		if m == nil {
			m = yearRangeRe.FindStringSubmatch(line)
		}
		if m != nil {
			out = append(out, model.DateRange{Start: m[1], End: m[2]})
		}
	}
	return out
}

func containsRange(ranges []model.DateRange, r model.DateRange) bool {
	for _, x := range ranges {
		if x == r {
			return true
		}
	}
	return false
}
