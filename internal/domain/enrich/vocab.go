package enrich

import (
	"regexp"

	"github.com/okian/screener/internal/domain/model"
)

// skillSynonyms maps abbreviations to canonical skill names. Single-word keys
// match tokens; multi-word keys match as substrings.
var skillSynonyms = map[string]string{
	"js":                          "javascript",
	"nodejs":                      "node",
	"ts":                          "typescript",
	"tf":                          "tensorflow",
	"scikit learn":                "scikit-learn",
	"nltk":                        "nlp",
	"natural language processing": "nlp",
	"ml":                          "machine learning",
	"dl":                          "deep learning",
}

// Phrases matched by case-insensitive substring over the whole text.
var multiWordSkills = []string{
	"machine learning",
	"data science",
	"deep learning",
	"natural language processing",
	"computer vision",
	"project management",
	"data analysis",
	"web development",
	"object oriented programming",
	"rest api",
	"microservices",
}

type degreePattern struct {
	re    *regexp.Regexp
	level model.DegreeLevel
}

// Priority order: first match wins.
var degreePatterns = []degreePattern{
	{regexp.MustCompile(`(?i)\b(ph\.?d|doctor(?:ate)?|dphil)\b`), model.DegreePhD},
	{regexp.MustCompile(`(?i)\b(m\.?tech|ms|m\.sc|masters?|mba)\b`), model.DegreeMasters},
	{regexp.MustCompile(`(?i)\b(b\.?tech|b\.?e\.?|b\.sc|bachelors?)\b`), model.DegreeBachelor},
	{regexp.MustCompile(`(?i)\b(diploma|associate)\b`), model.DegreeDiploma},
}

var certPatterns = []*regexp.Regexp{
	regexp.MustCompile(`aws\s*(developer|architect|solutions|practitioner)`),
	regexp.MustCompile(`azure\s*(fundamentals|developer|architect)`),
	regexp.MustCompile(`gcp\s*(professional|associate)`),
	regexp.MustCompile(`\bpmp\b`),
	regexp.MustCompile(`scrum\s*(master|product\s*owner)`),
	regexp.MustCompile(`\b(ocajp|ocpjp|oca|ocp)\b`),
	regexp.MustCompile(`\b(rhcsa|rhce)\b`),
	regexp.MustCompile(`\b(ckad|cka)\b`),
	regexp.MustCompile(`\bcissp\b|security\+`),
	regexp.MustCompile(`\bitil\b`),
}

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`)
	linkRe  = regexp.MustCompile(`https?://[^\s)]+`)
	tokenRe = regexp.MustCompile(`[^a-zA-Z0-9+#.\-]`)

	employmentRe = regexp.MustCompile(`(?i)\b(employer|company|role|position|engineer|developer|manager|analyst|intern|consultant|at)\b`)
	projectRe    = regexp.MustCompile(`(?i)\b(project|capstone|thesis|assignment|coursework|mini\s*project)\b`)

	numericRangeRe = regexp.MustCompile(`(?i)(\d{1,2}[/\-]\d{4})\s*[–—\-to]+\s*(\d{1,2}[/\-]\d{4}|present|current)`)
	yearRangeRe    = regexp.MustCompile(`(?i)(\b\d{4}\b)\s*[–—\-to]+\s*(\b\d{4}\b|present|current)`)
)

const (
	maxCertifications = 10
	maxLinks          = 5
)
