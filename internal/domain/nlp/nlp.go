// Package nlp extracts a RawProfile from resume text with a skill taxonomy,
// line heuristics and section-aware date range detection.
package nlp

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/okian/screener/internal/domain/model"
	"github.com/xeipuuv/gojsonschema"
)

// Extraction limits.
const (
	MaxEducationLines = 10
	MaxRanges         = 10
)

const taxonomySchema = `{"type": "array", "items": {"type": "string", "minLength": 1}}`

// DefaultTaxonomy returns the built-in skill list.
func DefaultTaxonomy() []string {
	return []string{
		"python", "java", "javascript", "react", "node", "django", "flask",
		"sql", "mysql", "postgresql", "mongodb", "nlp", "spacy", "pytorch",
		"tensorflow", "scikit-learn", "git", "docker", "kubernetes", "aws",
		"azure", "gcp", "html", "css", "linux", "rest", "fastapi", "opencv",
	}
}

var (
	multiWordSkills = []string{
		"machine learning", "data science", "deep learning", "natural language processing",
		"computer vision", "project management", "data analysis", "web development",
	}

	tokenSplitRe = regexp.MustCompile(`[^a-zA-Z0-9+#.\-]`)
	educationRe  = regexp.MustCompile(`(?i)(b\.?tech|b\.?e\.?|m\.?tech|bachelor|master|ph\.?d|degree|university|college)`)

	monthDateRe = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+\d{4}`)
	rangeRe     = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4})\s*[\x{2013}\-to]+\s*((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}|present|current)`)
	expHeadRe   = regexp.MustCompile(`(?i)\b(experience|work experience|employment|employment history|professional experience|work history|internship|internships)\b`)
	projHeadRe  = regexp.MustCompile(`(?i)\b(projects?|academic projects?|capstone|thesis|coursework|academic)\b`)
	employRe    = regexp.MustCompile(`(?i)\b(employer|company|role|position|engineer|developer|manager|analyst|intern|consultant|at)\b`)
	projectRe   = regexp.MustCompile(`(?i)\b(project|capstone|thesis|assignment|coursework|mini\s*project)\b`)
)

// Extractor turns text into a RawProfile.
type Extractor interface {
	Extract(text string) model.RawProfile
}

// Heuristic is the default Extractor.
type Heuristic struct {
	taxonomy map[string]struct{}
}

// NewHeuristic creates a Heuristic over taxonomy, or the default taxonomy
// when it is empty.
func NewHeuristic(taxonomy []string) *Heuristic {
	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy()
	}
	h := &Heuristic{taxonomy: make(map[string]struct{}, len(taxonomy))}
	for _, s := range taxonomy {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			h.taxonomy[s] = struct{}{}
		}
	}
	return h
}

// LoadTaxonomyFile reads a JSON array of skill names.
func LoadTaxonomyFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTaxonomy, path, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(taxonomySchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTaxonomy, strings.Join(msgs, "; "))
	}
	var skills []string
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}
	return skills, nil
}

// Extract implements Extractor.
func (h *Heuristic) Extract(text string) model.RawProfile {
	return model.RawProfile{
		Skills:           h.skills(strings.ToLower(text)),
		Education:        educationLines(text),
		ExperienceRanges: experienceRanges(text),
	}
}

func (h *Heuristic) skills(lowered string) []string {
	found := map[string]struct{}{}
	for _, tok := range tokenSplitRe.Split(lowered, -1) {
		if _, ok := h.taxonomy[tok]; ok && tok != "" {
			found[tok] = struct{}{}
		}
	}
	for _, phrase := range multiWordSkills {
		if strings.Contains(lowered, phrase) {
			found[phrase] = struct{}{}
		}
	}
	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func educationLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !educationRe.MatchString(line) {
			continue
		}
		out = append(out, line)
		if len(out) == MaxEducationLines {
			break
		}
	}
	return out
}

type section int

const (
	sectionNone section = iota
	sectionExperience
	sectionProjects
)

// experienceRanges finds month-name ranges on a line, or else in its
// three-line window, skipping repeats. Inside an experience section every
// range counts; inside a projects section none do; elsewhere the window
// needs an employment keyword and no project keyword.
func experienceRanges(text string) []model.DateRange {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := []model.DateRange{}
	seen := map[model.DateRange]struct{}{}
	sec := sectionNone
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case expHeadRe.MatchString(line):
			sec = sectionExperience
		case projHeadRe.MatchString(line):
			sec = sectionProjects
		}

		lower := strings.ToLower(line)
		if !strings.Contains(lower, "present") && !strings.Contains(lower, "current") && !monthDateRe.MatchString(line) {
			continue
		}
		var prev, next string
		if i > 0 {
			prev = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		window := prev + " " + line + " " + next
		m := rangeRe.FindStringSubmatch(line)
		if m == nil {
			m = rangeRe.FindStringSubmatch(window)
		}
		if m == nil || sec == sectionProjects {
			continue
		}
		if sec != sectionExperience && (!employRe.MatchString(window) || projectRe.MatchString(window)) {
			continue
		}
		dr := model.DateRange{Start: m[1], End: m[2]}
		if _, dup := seen[dr]; dup {
			continue
		}
		seen[dr] = struct{}{}
		out = append(out, dr)
		if len(out) == MaxRanges {
			break
		}
	}
	return out
}
