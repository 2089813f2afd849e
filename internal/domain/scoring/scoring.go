// Package scoring ranks a cohort of analyzed candidates against a job.
package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/okian/screener/internal/domain/analysis"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/vectorspace"
	"github.com/okian/screener/pkg/logger"
	"github.com/okian/screener/pkg/metrics"
)

// Signal weights.
const (
	weightKeyword  = 0.50
	weightSemantic = 0.35
	weightTrend    = 0.15
	weightHardCov  = 0.7
	weightNiceCov  = 0.3
)

// Bonus and penalty constants.
const (
	certEach          = 0.03
	certCap           = 0.06
	certCapEmphasized = 0.08
	contactEmail      = 0.007
	contactPhone      = 0.007
	contactLinks      = 0.006
	contactCap        = 0.02
	penaltyCap        = 0.10
	consistencyHigh   = 0.02
	consistencyLow    = 0.01
	consistencyHighAt = 0.5
	consistencyLowAt  = 0.25
	explainEpsilon    = 1e-6
)

// Explain tags for job-side emphasis.
const (
	TagCertEmphasis       = "jd_emphasis:certifications"
	TagComplianceEmphasis = "jd_emphasis:compliance"
)

var (
	educationBonus = map[model.DegreeLevel]float64{
		model.DegreePhD:      0.06,
		model.DegreeMasters:  0.03,
		model.DegreeBachelor: 0.01,
		model.DegreeDiploma:  0,
	}

	flagPenalty = map[string]float64{
		model.FlagEmploymentGaps:        0.05,
		model.FlagOverlappingRoles:      0.03,
		model.FlagDuplicateClaims:       0.02,
		model.FlagPotentialExaggeration: 0.04,
	}

	certEmphasisRe       = regexp.MustCompile(`aws|azure|gcp|certified|cissp|pmp|cka|ckad|rhce|oci|oracle`)
	complianceEmphasisRe = regexp.MustCompile(`pci|hipaa|sox|soc\s*2|iso\s*27001|gdpr`)
)

// Input is one ranking batch.
type Input struct {
	// JobText is the redacted job description.
	JobText    string
	Candidates []model.Candidate
	HardSkills []string
	NiceSkills []string
}

// Result is a ranked batch.
type Result struct {
	Candidates []model.ScoredCandidate

	// SemanticDegraded is set when the vector space could not be built and
	// every semantic score defaulted to 0.
	SemanticDegraded bool
}

// Scorer ranks a batch of candidates.
type Scorer interface {
	// Score ranks in, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// Engine implements Scorer with lexical, semantic and trend signals plus
// deterministic bonuses and penalties.
type Engine struct {
	vectorizer *vectorspace.Vectorizer
	trends     *TrendTable
	logger     logger.Logger
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		vectorizer: vectorspace.New(),
		trends:     NewTrendTable(),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trends returns the trend table in use.
func (e *Engine) Trends() *TrendTable { return e.trends }

// Score scores and ranks every candidate. It fails only when ctx is done.
func (e *Engine) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	semantic, degraded := e.semanticScores(ctx, in)

	jdLower := strings.ToLower(in.JobText)
	job := jobContext{
		hard:       lowerSet(in.HardSkills),
		nice:       lowerSet(in.NiceSkills),
		certFocus:  certEmphasisRe.MatchString(jdLower),
		compliance: complianceEmphasisRe.MatchString(jdLower),
	}

	out := make([]model.ScoredCandidate, len(in.Candidates))
	for i := range in.Candidates {
		out[i] = e.scoreOne(&in.Candidates[i], semantic[i], &job)
	}
	Sort(out)
	return Result{Candidates: out, SemanticDegraded: degraded}, nil
}

type jobContext struct {
	hard       []string
	nice       []string
	certFocus  bool
	compliance bool
}

// semanticScores returns the cosine similarity of each candidate to the job
// in one shared vector space, or zeros when the space cannot be built.
func (e *Engine) semanticScores(ctx context.Context, in Input) ([]float64, bool) {
	zeros := make([]float64, len(in.Candidates))
	if len(in.Candidates) == 0 {
		return zeros, false
	}
	docs := make([]string, 0, len(in.Candidates)+1)
	docs = append(docs, in.JobText)
	for i := range in.Candidates {
		docs = append(docs, candidateText(&in.Candidates[i]))
	}

	m, err := e.vectorizer.Fit(docs)
	if err == nil {
		var sims []float64
		sims, err = vectorspace.Similarities(m.Rows[0], m.Rows[1:])
		if err == nil {
			return sims, false
		}
	}
	e.logger.Warn(ctx, "semantic scoring degraded", logger.String("step", "semantic"), logger.Error(err))
	metrics.RecordAnalyticsDegraded("semantic")
	return zeros, true
}

func (e *Engine) scoreOne(c *model.Candidate, semantic float64, job *jobContext) model.ScoredCandidate {
	lowered := strings.ToLower(candidateText(c))
	skills := make(map[string]struct{}, len(c.Profile.Skills))
	for _, s := range c.Profile.Skills {
		skills[strings.ToLower(s)] = struct{}{}
	}

	hardCov := coverage(job.hard, lowered, skills)
	niceCov := coverage(job.nice, lowered, skills)
	keyword := weightHardCov*hardCov + weightNiceCov*niceCov
	trendSkills, trend := e.trends.Match(lowered, skills)

	base := weightKeyword*keyword + weightSemantic*semantic + weightTrend*trend

	certLimit := certCap
	if job.certFocus {
		certLimit = certCapEmphasized
	}
	certBonus := math.Min(certLimit, certEach*float64(len(c.Profile.Certifications)))
	eduBonus := highestEducationBonus(c.Profile.EducationNormalized)
	contactBonus := contactCompleteness(c.Profile.Contacts)

	var penalties float64
	for _, f := range c.Analysis.Flags {
		penalties += flagPenalty[f]
	}
	penalties = math.Min(penaltyCap, penalties)

	overall := clamp01(base + certBonus + eduBonus + contactBonus - penalties)

	consistency := consistencyRatio(job.hard, lowered, skills)
	var consistencyBonus float64
	switch {
	case consistency >= consistencyHighAt:
		consistencyBonus = consistencyHigh
	case consistency >= consistencyLowAt:
		consistencyBonus = consistencyLow
	}
	if overall+consistencyBonus > 1 {
		consistencyBonus = math.Max(0, 1-overall)
	}
	overall = clamp01(overall + consistencyBonus)

	agreement := 1 - math.Min(1, math.Abs(keyword-semantic))
	confidence := clamp01(0.5*agreement + 0.25*hardCov + 0.25*(1-math.Min(1, penalties)))

	explain := make([]string, 0, 10)
	explain = appendTerm(explain, "keyword*0.50=%.3f", weightKeyword*keyword)
	explain = appendTerm(explain, "semantic*0.35=%.3f", weightSemantic*semantic)
	explain = appendTerm(explain, "trend*0.15=%.3f", weightTrend*trend)
	explain = appendTerm(explain, "cert_bonus+=%.3f", certBonus)
	explain = appendTerm(explain, "edu_bonus+=%.3f", eduBonus)
	explain = appendTerm(explain, "contact_bonus+=%.3f", contactBonus)
	explain = appendTerm(explain, "penalties-=%.3f", penalties)
	explain = appendTerm(explain, "consistency_bonus+=%.3f", consistencyBonus)
	if job.certFocus {
		explain = append(explain, TagCertEmphasis)
	}
	if job.compliance {
		explain = append(explain, TagComplianceEmphasis)
	}

	res := c.Analysis
	res.MissingHardSkills = analysis.MissingHardSkills(job.hard, &c.Profile, lowered)
	risk := Risk(&c.Profile, &res)

	return model.ScoredCandidate{
		Filename:          c.Filename,
		RawText:           c.RawText,
		RedactedText:      c.Text,
		RedactionNotes:    c.RedactionNotes,
		EnrichedProfile:   c.Profile,
		AnalysisResult:    res,
		KeywordScore:      keyword,
		SemanticScore:     semantic,
		TrendScore:        trend,
		TrendSkills:       trendSkills,
		HardSkillCoverage: round3(hardCov),
		NiceSkillCoverage: round3(niceCov),
		Consistency:       round3(consistency),
		OverallScore:      overall,
		OverallExplain:    explain,
		Confidence:        confidence,
		RiskScore:         risk.Score,
		RiskLabel:         risk.Label,
		RiskReasons:       risk.Reasons,
	}
}

// candidateText prefers the redacted text.
func candidateText(c *model.Candidate) string {
	if c.Text != "" {
		return c.Text
	}
	return c.RawText
}

// lowerSet lowercases, trims and dedupes skills, keeping first-seen order.
func lowerSet(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// coverage is the fraction of skills found in lowered text or the skill set.
func coverage(list []string, lowered string, skills map[string]struct{}) float64 {
	if len(list) == 0 {
		return 0
	}
	hits := 0
	for _, s := range list {
		if _, ok := skills[s]; ok || strings.Contains(lowered, s) {
			hits++
		}
	}
	return float64(hits) / float64(len(list))
}

// consistencyRatio is the fraction of required skills confirmed by both the
// skill set and the text.
func consistencyRatio(hard []string, lowered string, skills map[string]struct{}) float64 {
	if len(hard) == 0 {
		return 0
	}
	hits := 0
	for _, s := range hard {
		if _, ok := skills[s]; ok && strings.Contains(lowered, s) {
			hits++
		}
	}
	return float64(hits) / float64(len(hard))
}

func highestEducationBonus(edu []model.Education) float64 {
	var best float64
	for _, e := range edu {
		if b, ok := educationBonus[model.DegreeLevel(strings.ToLower(string(e.Level)))]; ok && b > best {
			best = b
		}
	}
	return best
}

func contactCompleteness(c model.Contacts) float64 {
	var b float64
	if c.HasEmail() {
		b += contactEmail
	}
	if c.HasPhone() {
		b += contactPhone
	}
	if len(c.Links) > 0 {
		b += contactLinks
	}
	return math.Min(contactCap, b)
}

func appendTerm(explain []string, format string, v float64) []string {
	if v > explainEpsilon {
		return append(explain, fmt.Sprintf(format, v))
	}
	return explain
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
