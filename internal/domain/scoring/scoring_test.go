package scoring_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func candidate(name, text string, skills ...string) model.Candidate {
	return model.Candidate{
		Filename: name,
		RawText:  text,
		Text:     text,
		Profile: model.EnrichedProfile{
			RawProfile: model.RawProfile{Skills: skills},
		},
		Analysis: model.AnalysisResult{Flags: []string{}},
	}
}

func TestEngineScore(t *testing.T) {
	convey.Convey("Given a scoring engine", t, func() {
		ctx := context.Background()
		e := scoring.NewEngine()

		convey.Convey("When a Python developer is matched against a Python/Django job", func() {
			res, err := e.Score(ctx, scoring.Input{
				JobText:    "Need a Python developer with Django experience",
				Candidates: []model.Candidate{candidate("a.txt", "Python Django developer with 3 years experience", "python", "django")},
				HardSkills: []string{"python"},
				NiceSkills: []string{"django"},
			})

			convey.Convey("Then both lists are fully covered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Candidates, convey.ShouldHaveLength, 1)
				c := res.Candidates[0]
				convey.So(c.HardSkillCoverage, convey.ShouldEqual, 1.0)
				convey.So(c.NiceSkillCoverage, convey.ShouldEqual, 1.0)
				convey.So(c.KeywordScore, convey.ShouldAlmostEqual, 1.0, 1e-12)
				convey.So(c.OverallScore, convey.ShouldBeGreaterThan, 0)
				convey.So(c.MissingHardSkills, convey.ShouldBeEmpty)
				convey.So(c.SemanticScore, convey.ShouldBeGreaterThan, 0)
				convey.So(c.Consistency, convey.ShouldEqual, 1.0)
				convey.So(c.OverallExplain[0], convey.ShouldEqual, "keyword*0.50=0.500")
				convey.So(c.OverallExplain, convey.ShouldContain, "consistency_bonus+=0.020")
			})
		})

		convey.Convey("When there are no candidates", func() {
			res, err := e.Score(ctx, scoring.Input{JobText: "anything"})

			convey.Convey("Then the result is empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Candidates, convey.ShouldBeEmpty)
				convey.So(res.SemanticDegraded, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When skill lists and texts are empty", func() {
			res, err := e.Score(ctx, scoring.Input{
				JobText:    "the",
				Candidates: []model.Candidate{candidate("empty.txt", ""), candidate("stop.txt", "a the of")},
			})

			convey.Convey("Then scores stay in range and semantic degrades to zero", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.SemanticDegraded, convey.ShouldBeTrue)
				for _, c := range res.Candidates {
					convey.So(c.SemanticScore, convey.ShouldEqual, 0)
					convey.So(c.KeywordScore, convey.ShouldEqual, 0)
					convey.So(c.OverallExplain, convey.ShouldNotContain, "keyword*0.50=0.000")
					convey.So(c.OverallExplain, convey.ShouldNotContain, "semantic*0.35=0.000")
					convey.So(c.OverallExplain, convey.ShouldNotContain, "trend*0.15=0.000")
					convey.So(c.OverallScore, convey.ShouldBeBetweenOrEqual, 0, 1)
					convey.So(c.RiskScore, convey.ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		convey.Convey("When a candidate carries every flag and no contacts", func() {
			c := candidate("risky.txt", "Kubernetes AWS Terraform engineer")
			c.Analysis.Flags = []string{
				model.FlagEmploymentGaps,
				model.FlagOverlappingRoles,
				model.FlagDuplicateClaims,
				model.FlagPotentialExaggeration,
			}
			res, err := e.Score(ctx, scoring.Input{JobText: "Kubernetes engineer", Candidates: []model.Candidate{c}})

			convey.Convey("Then penalties are capped and risk is high", func() {
				convey.So(err, convey.ShouldBeNil)
				got := res.Candidates[0]
				convey.So(got.OverallExplain, convey.ShouldContain, "penalties-=0.100")
				convey.So(got.RiskScore, convey.ShouldEqual, 1.0)
				convey.So(got.RiskLabel, convey.ShouldEqual, model.RiskHigh)
				convey.So(got.RiskReasons, convey.ShouldResemble, []string{
					scoring.RiskEmploymentGaps,
					scoring.RiskOverlappingRoles,
					scoring.RiskDuplicateClaims,
					scoring.RiskExaggeration,
					scoring.RiskNoExperienceDates,
					scoring.RiskMissingContact,
				})
				convey.So(got.TrendSkills, convey.ShouldContain, "kubernetes")
				convey.So(got.TrendScore, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When a candidate has bonuses", func() {
			c := candidate("bonus.txt", "Rust developer")
			c.Profile.Certifications = []string{"aws certified", "cka", "pmp"}
			c.Profile.EducationNormalized = []model.Education{
				{Raw: "BSc CS", Level: model.DegreeBachelor},
				{Raw: "PhD CS", Level: model.DegreePhD},
			}
			c.Profile.Contacts = model.Contacts{Email: "a@b.com", Phone: "+1 555 000 1111", Links: []string{"https://x.dev"}}
			c.Profile.ExperienceRanges = []model.DateRange{{Start: "2020", End: "2022"}}

			convey.Convey("Then the certification cap is 0.06 by default", func() {
				res, _ := e.Score(ctx, scoring.Input{JobText: "Rust developer", Candidates: []model.Candidate{c}})
				got := res.Candidates[0]
				convey.So(got.OverallExplain, convey.ShouldContain, "cert_bonus+=0.060")
				convey.So(got.OverallExplain, convey.ShouldContain, "edu_bonus+=0.060")
				convey.So(got.OverallExplain, convey.ShouldContain, "contact_bonus+=0.020")
				convey.So(got.OverallExplain, convey.ShouldNotContain, scoring.TagCertEmphasis)
				convey.So(got.RiskScore, convey.ShouldEqual, 0)
				convey.So(got.RiskLabel, convey.ShouldEqual, model.RiskLow)
			})

			convey.Convey("Then the cap rises when the job emphasizes certifications", func() {
				res, _ := e.Score(ctx, scoring.Input{JobText: "AWS certified Rust developer, HIPAA", Candidates: []model.Candidate{c}})
				got := res.Candidates[0]
				convey.So(got.OverallExplain, convey.ShouldContain, "cert_bonus+=0.080")
				convey.So(got.OverallExplain, convey.ShouldContain, scoring.TagCertEmphasis)
				convey.So(got.OverallExplain, convey.ShouldContain, scoring.TagComplianceEmphasis)
			})
		})

		convey.Convey("When the same batch is scored twice", func() {
			in := scoring.Input{
				JobText: "Go engineer with Kubernetes and Kafka",
				Candidates: []model.Candidate{
					candidate("a.txt", "Golang services on Kubernetes", "go"),
					candidate("b.txt", "Kafka pipelines and Spark jobs", "kafka"),
					candidate("c.txt", "Frontend React TypeScript"),
				},
				HardSkills: []string{"go", "kubernetes"},
				NiceSkills: []string{"kafka"},
			}
			a, _ := e.Score(ctx, in)
			b, _ := e.Score(ctx, in)

			convey.Convey("Then the results are identical and ranked", func() {
				convey.So(a, convey.ShouldResemble, b)
				convey.So(scoring.Ranked(a.Candidates), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := e.Score(cctx, scoring.Input{})

			convey.Convey("Then it fails", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSort(t *testing.T) {
	convey.Convey("Given candidates with equal overall scores", t, func() {
		cands := []model.ScoredCandidate{
			{Filename: "two-flags", OverallScore: 0.5, AnalysisResult: model.AnalysisResult{Flags: []string{"x", "y"}}},
			{Filename: "top", OverallScore: 0.9},
			{Filename: "one-flag-gap", OverallScore: 0.5, AnalysisResult: model.AnalysisResult{Flags: []string{"x"}, Gaps: []model.Period{{}}}},
			{Filename: "one-flag", OverallScore: 0.5, AnalysisResult: model.AnalysisResult{Flags: []string{"x"}}},
		}

		convey.Convey("When sorted", func() {
			scoring.Sort(cands)

			convey.Convey("Then fewer flags then fewer gaps win ties", func() {
				names := make([]string, len(cands))
				for i, c := range cands {
					names[i] = c.Filename
				}
				convey.So(names, convey.ShouldResemble, []string{"top", "one-flag", "one-flag-gap", "two-flags"})
				convey.So(scoring.Ranked(cands), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When order is broken", func() {
			convey.So(scoring.Ranked([]model.ScoredCandidate{{OverallScore: 0.1}, {OverallScore: 0.2}}), convey.ShouldBeFalse)
		})
	})
}

func TestRiskLabel(t *testing.T) {
	convey.Convey("Given risk scores at the thresholds", t, func() {
		convey.So(scoring.RiskLabel(0.29), convey.ShouldEqual, model.RiskLow)
		convey.So(scoring.RiskLabel(0.3), convey.ShouldEqual, model.RiskMedium)
		convey.So(scoring.RiskLabel(0.59), convey.ShouldEqual, model.RiskMedium)
		convey.So(scoring.RiskLabel(0.6), convey.ShouldEqual, model.RiskHigh)
	})
}

func TestTrendTable(t *testing.T) {
	convey.Convey("Given trend overrides", t, func() {
		table := scoring.NewTrendTable(map[string]float64{"ZIG": 1, "aws": 0.5})

		convey.Convey("Then keys are lowercased and merged over defaults", func() {
			w, ok := table.Weight("zig")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(w, convey.ShouldEqual, 1)
			w, _ = table.Weight("aws")
			convey.So(w, convey.ShouldEqual, 0.5)
			_, ok = table.Weight("kubernetes")
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("Then matches come from text or the skill set", func() {
			skills, score := table.Match("zig compiler", map[string]struct{}{"rust": {}})
			convey.So(skills, convey.ShouldResemble, []string{"rust", "zig"})
			convey.So(score, convey.ShouldBeBetween, 0, 1)
		})
	})
}

func TestParseTrendWeights(t *testing.T) {
	convey.Convey("Given trend weight documents", t, func() {
		convey.Convey("When valid", func() {
			m, err := scoring.ParseTrendWeights([]byte(`{"AWS": 0.5, "zig": 1}`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldResemble, map[string]float64{"aws": 0.5, "zig": 1})
		})

		convey.Convey("When a weight is out of range", func() {
			_, err := scoring.ParseTrendWeights([]byte(`{"aws": 2}`))
			convey.So(errors.Is(err, scoring.ErrInvalidTrendWeights), convey.ShouldBeTrue)
		})

		convey.Convey("When the document is not an object", func() {
			_, err := scoring.ParseTrendWeights([]byte(`[1, 2]`))
			convey.So(errors.Is(err, scoring.ErrInvalidTrendWeights), convey.ShouldBeTrue)
		})

		convey.Convey("When loaded from a file", func() {
			path := filepath.Join(t.TempDir(), "trends.json")
			convey.So(os.WriteFile(path, []byte(`{"deno": 0.4}`), 0o600), convey.ShouldBeNil)

			m, err := scoring.LoadTrendWeightsFile(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(m["deno"], convey.ShouldEqual, 0.4)

			_, err = scoring.LoadTrendWeightsFile(filepath.Join(t.TempDir(), "missing.json"))
			convey.So(errors.Is(err, scoring.ErrInvalidTrendWeights), convey.ShouldBeTrue)
		})
	})
}
