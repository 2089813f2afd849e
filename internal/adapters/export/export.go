// Package export renders ranked results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/screener/internal/domain/model"
)

// ContentType of the rendered document.
const ContentType = "text/csv"

const (
	listSeparator  = "; "
	filenameLayout = "20060102_150405"
)

// Header is the fixed column order.
var Header = []string{
	"filename",
	"overall_score",
	"keyword_score",
	"semantic_score",
	"hard_skill_coverage",
	"nice_skill_coverage",
	"missing_hard_skills",
	"gaps",
	"flags",
}

// Row is the subset of a ranked result that is exported. It decodes from
// the JSON the ranking endpoints return, so clients can post results back.
// Error entries decode with zero scores.
type Row struct {
	Filename          string         `json:"filename"`
	OverallScore      float64        `json:"overall_score"`
	KeywordScore      float64        `json:"keyword_score"`
	SemanticScore     float64        `json:"semantic_score"`
	HardSkillCoverage float64        `json:"hard_skill_coverage"`
	NiceSkillCoverage float64        `json:"nice_skill_coverage"`
	MissingHardSkills []string       `json:"missing_hard_skills"`
	Gaps              []model.Period `json:"gaps"`
	Flags             []string       `json:"flags"`
}

// FromScored converts scored candidates into rows, preserving order.
func FromScored(cands []model.ScoredCandidate) []Row {
	rows := make([]Row, len(cands))
	for i := range cands {
		c := &cands[i]
		rows[i] = Row{
			Filename:          c.Filename,
			OverallScore:      c.OverallScore,
			KeywordScore:      c.KeywordScore,
			SemanticScore:     c.SemanticScore,
			HardSkillCoverage: c.HardSkillCoverage,
			NiceSkillCoverage: c.NiceSkillCoverage,
			MissingHardSkills: c.MissingHardSkills,
			Gaps:              c.Gaps,
			Flags:             c.Flags,
		}
	}
	return rows
}

// Record formats one row in header order.
func (r *Row) Record() []string {
	gaps := make([]string, len(r.Gaps))
	for i, g := range r.Gaps {
		gaps[i] = g.Start + " - " + g.End
	}
	return []string{
		r.Filename,
		fmt.Sprintf("%.4f", r.OverallScore),
		fmt.Sprintf("%.4f", r.KeywordScore),
		fmt.Sprintf("%.4f", r.SemanticScore),
		fmt.Sprintf("%.2f", r.HardSkillCoverage),
		fmt.Sprintf("%.2f", r.NiceSkillCoverage),
		strings.Join(r.MissingHardSkills, listSeparator),
		strings.Join(gaps, listSeparator),
		strings.Join(r.Flags, listSeparator),
	}
}

// Write renders the header and every row.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(rows[i].Record()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename returns the attachment name for an export made at now.
func Filename(now time.Time) string {
	return "ranked_results_" + now.Format(filenameLayout) + ".csv"
}
