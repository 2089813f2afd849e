package analysis_test

import (
	"testing"
	"time"

	"github.com/okian/screener/internal/domain/analysis"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/timeline"
	"github.com/smartystreets/goconvey/convey"
)

func newAnalyzer() *analysis.Analyzer {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	return analysis.New(analysis.WithNormalizer(timeline.New(timeline.WithClock(func() time.Time { return now }))))
}

func TestStatedYears(t *testing.T) {
	convey.Convey("Given free text", t, func() {
		convey.Convey("When a range is present", func() {
			v := analysis.StatedYears("I have 3-5 years of experience and 10+ years of hobby coding")

			convey.Convey("Then its midpoint wins", func() {
				convey.So(v, convey.ShouldNotBeNil)
				convey.So(*v, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When a single bound is present", func() {
			v := analysis.StatedYears("Over 5+ yrs building APIs")

			convey.Convey("Then it is returned", func() {
				convey.So(*v, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When nothing is stated", func() {
			convey.So(analysis.StatedYears("loves Go"), convey.ShouldBeNil)
			convey.So(analysis.StatedYears(""), convey.ShouldBeNil)
		})
	})
}

func TestMetricAnomalies(t *testing.T) {
	convey.Convey("Given resume text", t, func() {
		convey.Convey("When extreme percentages and multipliers appear", func() {
			got := analysis.MetricAnomalies("Grew revenue 500% and cut costs by 300 percent, 12x faster, 2x cheaper, 500% again over 2 years")

			convey.Convey("Then both are reported with sorted unique values", func() {
				convey.So(got, convey.ShouldResemble, []string{
					"extreme_percent_claims: [300, 500]%",
					"extreme_multiplier_claims: [12]x",
				})
			})
		})

		convey.Convey("When superlatives appear without any metric", func() {
			got := analysis.MetricAnomalies("Best engineer. World-class, exceptional, revolutionary, cutting-edge work over 3 years.")

			convey.Convey("Then unsupported superlatives are reported", func() {
				convey.So(got, convey.ShouldResemble, []string{analysis.ReasonManySuperlatives})
			})
		})

		convey.Convey("When improvement claims lack a timeframe", func() {
			got := analysis.MetricAnomalies("Improved latency by 20%")

			convey.Convey("Then the missing timeframe is reported", func() {
				convey.So(got, convey.ShouldResemble, []string{analysis.ReasonClaimsWithoutTimeline})
			})
		})

		convey.Convey("When the text is plain", func() {
			convey.So(analysis.MetricAnomalies("Maintained services for 2 years"), convey.ShouldBeEmpty)
			convey.So(analysis.MetricAnomalies(""), convey.ShouldBeEmpty)
		})
	})
}

func TestDuplicateClaims(t *testing.T) {
	convey.Convey("Given education lines", t, func() {
		lines := []string{
			"B.Tech Computer Science",
			"  b.tech computer science ",
			"MBA",
			"mba",
			"",
		}

		convey.Convey("Then only long repeated lines are reported", func() {
			convey.So(analysis.DuplicateClaims(lines), convey.ShouldResemble, []string{"b.tech computer science"})
		})

		convey.Convey("Then at most five are reported", func() {
			var many []string
			for i := 0; i < 8; i++ {
				many = append(many, "Master of Science in Physics")
			}
			convey.So(len(analysis.DuplicateClaims(many)), convey.ShouldEqual, 5)
		})
	})
}

func TestAnalyze(t *testing.T) {
	convey.Convey("Given an analyzer with a fixed clock", t, func() {
		a := newAnalyzer()

		convey.Convey("When the history has a gap, an overlap and a duplicate", func() {
			res := a.Analyze(analysis.Input{
				Profile: model.EnrichedProfile{RawProfile: model.RawProfile{
					Skills:    []string{"go", "python"},
					Education: []string{"Bachelor of Engineering", "bachelor of engineering"},
					ExperienceRanges: []model.DateRange{
						{Start: "Jan 2015", End: "Dec 2016"},
						{Start: "Jun 2016", End: "Dec 2017"},
						{Start: "Jan 2019", End: "Jan 2020"},
					},
				}},
				Text:       "Go developer with 4 years of experience. Knows docker.",
				JobText:    "Looking for a male engineer, 25 years old",
				HardSkills: []string{"Go", "Docker", "Rust", "rust"},
			})

			convey.Convey("Then flags follow the fixed order", func() {
				convey.So(res.Flags, convey.ShouldResemble, []string{
					model.FlagEmploymentGaps,
					model.FlagOverlappingRoles,
					model.FlagDuplicateClaims,
					model.FlagSensitiveJobText,
				})
			})

			convey.Convey("Then tenure and stated years agree", func() {
				convey.So(res.TotalExperienceYears, convey.ShouldEqual, 3.92)
				convey.So(*res.StatedYears, convey.ShouldEqual, 4)
				convey.So(res.AnomalyReasons, convey.ShouldBeEmpty)
			})

			convey.Convey("Then missing skills consider the skill set and the text", func() {
				convey.So(res.MissingHardSkills, convey.ShouldResemble, []string{"rust"})
			})
		})

		convey.Convey("When stated years disagree with the ranges", func() {
			res := a.Analyze(analysis.Input{
				Profile: model.EnrichedProfile{RawProfile: model.RawProfile{
					ExperienceRanges: []model.DateRange{{Start: "Jan 2022", End: "Jan 2023"}},
				}},
				Text: "10 years of experience",
			})

			convey.Convey("Then the inconsistency is an exaggeration", func() {
				convey.So(res.AnomalyReasons, convey.ShouldResemble, []string{analysis.ReasonDurationInconsistency})
				convey.So(res.Flags, convey.ShouldResemble, []string{model.FlagPotentialExaggeration})
			})
		})

		convey.Convey("When no text is available", func() {
			res := a.Analyze(analysis.Input{})

			convey.Convey("Then only the ranges-only fallback applies", func() {
				convey.So(res.StatedYears, convey.ShouldBeNil)
				convey.So(res.AnomalyReasons, convey.ShouldResemble, []string{analysis.ReasonVeryLowExperience})
				convey.So(res.Flags, convey.ShouldResemble, []string{model.FlagPotentialExaggeration})
				convey.So(res.Gaps, convey.ShouldBeEmpty)
				convey.So(res.MissingHardSkills, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When text is present but experience is near zero", func() {
			res := a.Analyze(analysis.Input{Text: "eager learner"})

			convey.Convey("Then the fallback is not used", func() {
				convey.So(res.AnomalyReasons, convey.ShouldBeEmpty)
				convey.So(res.Flags, convey.ShouldBeEmpty)
			})
		})
	})
}
