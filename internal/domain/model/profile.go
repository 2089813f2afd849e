// Package model contains domain models passed between layers.
//
// Profiles move through fixed stages: RawProfile -> EnrichedProfile ->
// AnalysisResult -> ScoredCandidate. Each stage adds fields and never
// drops what the previous one carried.
package model

// DateRange is an unparsed (start, end) token pair as found in a document.
// End may be "present" or "current".
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RawProfile is the output of the NLP front-end.
type RawProfile struct {
	Skills           []string    `json:"skills"`
	Education        []string    `json:"education"`
	ExperienceRanges []DateRange `json:"experience_ranges"`
}

// DegreeLevel is a normalized education level.
type DegreeLevel string

// Degree levels, highest first.
const (
	DegreePhD      DegreeLevel = "phd"
	DegreeMasters  DegreeLevel = "masters"
	DegreeBachelor DegreeLevel = "bachelor"
	DegreeDiploma  DegreeLevel = "diploma"
)

// Education is one raw education line with its detected level.
type Education struct {
	Raw   string      `json:"raw"`
	Level DegreeLevel `json:"level"`
}

// Contacts holds the first email, first phone and up to five links found.
type Contacts struct {
	Email string   `json:"email,omitempty"`
	Phone string   `json:"phone,omitempty"`
	Links []string `json:"links,omitempty"`
}

// HasEmail reports whether an email was detected.
func (c Contacts) HasEmail() bool { return c.Email != "" }

// HasPhone reports whether a phone number was detected.
func (c Contacts) HasPhone() bool { return c.Phone != "" }

// EnrichedProfile extends a RawProfile with normalized and detected fields.
type EnrichedProfile struct {
	RawProfile
	EducationNormalized []Education `json:"education_normalized"`
	Certifications      []string    `json:"certifications"`
	Contacts            Contacts    `json:"contacts"`
}

// HasSkill reports whether skill (already lowercased) is in the skill set.
func (p *EnrichedProfile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
