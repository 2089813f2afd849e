package model

import "github.com/okian/screener/internal/domain/types"

// Risk labels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Submission is one extracted document held in a session bucket.
// Derived fields are recomputed from it on every request.
type Submission struct {
	Filename       string     `json:"filename"`
	RawText        string     `json:"raw_text"`
	RedactedText   string     `json:"redacted_text"`
	RedactionNotes string     `json:"redaction_notes"`
	Raw            RawProfile `json:"raw"`
}

// Candidate is an enriched and analyzed submission ready for scoring.
// Text is the redacted analysis text.
type Candidate struct {
	Filename       string
	RawText        string
	Text           string
	RedactionNotes string
	Profile        EnrichedProfile
	Analysis       AnalysisResult
}

// ScoredCandidate is valid only within one ranking batch.
type ScoredCandidate struct {
	Filename       string `json:"filename"`
	RawText        string `json:"raw_text"`
	RedactedText   string `json:"redacted_text"`
	RedactionNotes string `json:"redaction_notes"`

	EnrichedProfile
	AnalysisResult

	KeywordScore      float64  `json:"keyword_score"`
	SemanticScore     float64  `json:"semantic_score"`
	TrendScore        float64  `json:"trend_score"`
	TrendSkills       []string `json:"trend_skills"`
	HardSkillCoverage float64  `json:"hard_skill_coverage"`
	NiceSkillCoverage float64  `json:"nice_skill_coverage"`
	Consistency       float64  `json:"consistency"`
	OverallScore      float64  `json:"overall_score"`
	OverallExplain    []string `json:"overall_explain"`
	Confidence        float64  `json:"confidence"`
	RiskScore         float64  `json:"risk_score"`
	RiskLabel         string   `json:"risk_label"`
	RiskReasons       []string `json:"risk_reasons"`

	*Insights
}

// Insights are the cohort analytics attached to a scored candidate.
type Insights struct {
	PCA            types.Point      `json:"pca"`
	ClusterID      int              `json:"cluster_id"`
	Neighbors      []types.Neighbor `json:"neighbors"`
	SuccessScore   float64          `json:"success_score"`
	SuccessExplain []string         `json:"success_explain"`
}
