// Package fairness masks sensitive attributes in free text before it reaches
// any scoring or vectorization step.
package fairness

import (
	"regexp"
	"strings"
)

// Token replaces every masked substring.
const Token = "[REDACTED]"

// Categories, in detection order.
const (
	CategoryGender      = "gender"
	CategoryAge         = "age"
	CategoryMarital     = "marital"
	CategoryReligion    = "religion"
	CategoryNationality = "nationality"
	CategoryEthnicity   = "ethnicity"
	CategoryContact     = "contact"
)

// Result is redacted text with the categories found.
type Result struct {
	Text       string
	Categories []string
}

// Notes joins the detected categories with commas.
func (r Result) Notes() string {
	return strings.Join(r.Categories, ",")
}

// Redactor masks sensitive attributes.
type Redactor interface {
	Redact(text string) Result
}

type rule struct {
	category string
	re       *regexp.Regexp
}

// PatternRedactor applies fixed category patterns in order. Later patterns
// see the output of earlier ones.
type PatternRedactor struct {
	rules []rule
}

// New creates a PatternRedactor with the default categories.
func New() *PatternRedactor {
	return &PatternRedactor{rules: []rule{
		{CategoryGender, regexp.MustCompile(`(?i)\b(?:he|she|him|her|his|hers|male|female|man|woman)\b|\b(?:mrs|mr|ms)\.`)},
		{CategoryAge, regexp.MustCompile(`(?i)\b\d{2}\s*years?\s*old\b|\bage\s*\d{2}\b`)},
		{CategoryMarital, regexp.MustCompile(`(?i)\b(?:single|married|divorced|widowed)\b`)},
		{CategoryReligion, regexp.MustCompile(`(?i)\b(?:hindu|muslim|christian|sikh|buddhist|jain|jewish)\b`)},
		{CategoryNationality, regexp.MustCompile(`(?i)\b(?:indian|american|british|chinese|japanese|german|french|italian|spanish|russian)\b`)},
		{CategoryEthnicity, regexp.MustCompile(`(?i)\b(?:black|white|asian|hispanic|latino|native american|caucasian)\b`)},
		{CategoryContact, regexp.MustCompile(`(?i)\b(?:\+?\d{1,3}[\s-]?)?(?:\d{3,4}[\s-]?){2,3}\d{3,4}\b|\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)},
	}}
}

// Redact masks every category match in text.
func (p *PatternRedactor) Redact(text string) Result {
	res := Result{Categories: []string{}}
	out := text
	for _, r := range p.rules {
		if !r.re.MatchString(out) {
			continue
		}
		out = r.re.ReplaceAllLiteralString(out, Token)
		res.Categories = append(res.Categories, r.category)
	}
	res.Text = out
	return res
}
