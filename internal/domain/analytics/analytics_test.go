package analytics_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/screener/internal/domain/analytics"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

func TestRun(t *testing.T) {
	convey.Convey("Given an analytics analyzer", t, func() {
		ctx := context.Background()
		a := analytics.New()

		convey.Convey("When there are no candidates", func() {
			rep := a.Run(ctx, analytics.Input{JobText: "Go engineer"})

			convey.Convey("Then every step is empty and healthy", func() {
				convey.So(rep.PCA.Value, convey.ShouldBeEmpty)
				convey.So(rep.Clusters.Value, convey.ShouldBeEmpty)
				convey.So(rep.Neighbors.Value, convey.ShouldBeEmpty)
				convey.So(rep.PCA.Degraded, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When there is one candidate", func() {
			rep := a.Run(ctx, analytics.Input{
				JobText:   "Go engineer",
				Filenames: []string{"a.txt"},
				Texts:     []string{"Go services and Kubernetes"},
			})

			convey.Convey("Then defaults are returned without degradation", func() {
				convey.So(rep.PCA.Value, convey.ShouldResemble, []types.Point{{}})
				convey.So(rep.Clusters.Value, convey.ShouldResemble, []int{0})
				convey.So(rep.Neighbors.Value, convey.ShouldResemble, [][]types.Neighbor{{}})
				convey.So(rep.Clusters.Degraded, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When several candidates are given", func() {
			in := analytics.Input{
				JobText:   "Backend engineer with Go and Kafka",
				Filenames: []string{"a.txt", "b.txt", "c.txt"},
				Texts: []string{
					"Go microservices with Kafka and Postgres",
					"Go services with Kafka streaming",
					"React frontend with TypeScript and CSS",
				},
			}
			rep := a.Run(ctx, in)

			convey.Convey("Then every step yields one value per candidate", func() {
				convey.So(rep.PCA.Degraded, convey.ShouldBeFalse)
				convey.So(rep.Clusters.Degraded, convey.ShouldBeFalse)
				convey.So(rep.Neighbors.Degraded, convey.ShouldBeFalse)
				convey.So(rep.PCA.Value, convey.ShouldHaveLength, 3)
				convey.So(rep.Clusters.Value, convey.ShouldHaveLength, 3)
				for _, l := range rep.Clusters.Value {
					convey.So(l, convey.ShouldBeBetweenOrEqual, 0, 1)
				}
			})

			convey.Convey("Then neighbors exclude self and are sorted", func() {
				nb := rep.Neighbors.Value[0]
				convey.So(nb, convey.ShouldHaveLength, 2)
				convey.So(nb[0].Filename, convey.ShouldEqual, "b.txt")
				convey.So(nb[0].Sim, convey.ShouldBeGreaterThanOrEqualTo, nb[1].Sim)
			})

			convey.Convey("Then the run is reproducible", func() {
				convey.So(a.Run(ctx, in), convey.ShouldResemble, rep)
			})
		})

		convey.Convey("When the corpus has no vocabulary", func() {
			rep := a.Run(ctx, analytics.Input{
				JobText:   "the",
				Filenames: []string{"a.txt", "b.txt"},
				Texts:     []string{"", "of"},
			})

			convey.Convey("Then every step degrades to defaults", func() {
				convey.So(rep.PCA.Degraded, convey.ShouldBeTrue)
				convey.So(rep.Clusters.Degraded, convey.ShouldBeTrue)
				convey.So(rep.Neighbors.Degraded, convey.ShouldBeTrue)
				convey.So(rep.PCA.Value, convey.ShouldResemble, []types.Point{{}, {}})
				convey.So(rep.Clusters.Value, convey.ShouldResemble, []int{0, 0})
				convey.So(rep.Neighbors.Value, convey.ShouldResemble, [][]types.Neighbor{{}, {}})
			})
		})
	})
}

func TestClusterCount(t *testing.T) {
	convey.Convey("Given cohort sizes", t, func() {
		convey.So(analytics.ClusterCount(1), convey.ShouldEqual, 1)
		convey.So(analytics.ClusterCount(2), convey.ShouldEqual, 2)
		convey.So(analytics.ClusterCount(4), convey.ShouldEqual, 2)
		convey.So(analytics.ClusterCount(9), convey.ShouldEqual, 3)
		convey.So(analytics.ClusterCount(50), convey.ShouldEqual, 6)
	})
}

func TestKMeans(t *testing.T) {
	convey.Convey("Given two well separated groups", t, func() {
		points := [][]float64{{0, 0}, {10, 10}, {0, 0.1}, {10, 10.1}}

		convey.Convey("When clustered with k=2", func() {
			labels, err := analytics.DefaultKMeans(2).Fit(points)

			convey.Convey("Then each group shares a label", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(labels[0], convey.ShouldEqual, labels[2])
				convey.So(labels[1], convey.ShouldEqual, labels[3])
				convey.So(labels[0], convey.ShouldNotEqual, labels[1])
			})
		})

		convey.Convey("When k exceeds the number of points", func() {
			_, err := analytics.DefaultKMeans(5).Fit(points)
			convey.So(errors.Is(err, analytics.ErrTooFewPoints), convey.ShouldBeTrue)
		})

		convey.Convey("When every point is identical", func() {
			labels, err := analytics.DefaultKMeans(2).Fit([][]float64{{1, 1}, {1, 1}, {1, 1}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(labels, convey.ShouldHaveLength, 3)
		})
	})
}

func TestProject(t *testing.T) {
	convey.Convey("Given points on a line", t, func() {
		x := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})

		convey.Convey("When projected", func() {
			pts, err := analytics.Project(x)

			convey.Convey("Then the first component spans the line with a positive sign", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pts[0].X, convey.ShouldAlmostEqual, -math.Sqrt2, 1e-9)
				convey.So(pts[1].X, convey.ShouldAlmostEqual, 0, 1e-9)
				convey.So(pts[2].X, convey.ShouldAlmostEqual, math.Sqrt2, 1e-9)
				for _, p := range pts {
					convey.So(p.Y, convey.ShouldAlmostEqual, 0, 1e-9)
				}
			})
		})

		convey.Convey("When there is a single row", func() {
			_, err := analytics.Project(mat.NewDense(1, 2, []float64{1, 2}))
			convey.So(errors.Is(err, analytics.ErrTooFewPoints), convey.ShouldBeTrue)
		})
	})
}

func TestNeighbors(t *testing.T) {
	convey.Convey("Given a similarity matrix", t, func() {
		sim := [][]float64{
			{1, 0.2, 0.9},
			{0.2, 1, 0.2},
			{0.9, 0.2, 1},
		}

		convey.Convey("When the limit is one", func() {
			nb, err := analytics.Neighbors(sim, []string{"a", "b", "c"}, 1)

			convey.Convey("Then only the closest other candidate is kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(nb[0], convey.ShouldResemble, []types.Neighbor{{Filename: "c", Sim: 0.9}})
				convey.So(nb[1], convey.ShouldResemble, []types.Neighbor{{Filename: "a", Sim: 0.2}})
			})
		})

		convey.Convey("When shapes disagree", func() {
			_, err := analytics.Neighbors(sim, []string{"a"}, 5)
			convey.So(errors.Is(err, analytics.ErrNeighbors), convey.ShouldBeTrue)
		})
	})
}

func TestSuccessAndAttach(t *testing.T) {
	convey.Convey("Given scored candidates", t, func() {
		risky := model.ScoredCandidate{
			Filename:          "risky.txt",
			OverallScore:      1,
			TrendScore:        1,
			HardSkillCoverage: 1,
			SemanticScore:     1,
			AnalysisResult: model.AnalysisResult{
				Gaps:     []model.Period{{Start: "2020-06-01", End: "2020-10-01", Days: 122}},
				Overlaps: []model.Period{{Start: "2020-06-01", End: "2020-12-01", Days: 183}},
				Flags:    []string{model.FlagPotentialExaggeration},
			},
		}

		convey.Convey("When success is computed", func() {
			s, explain := analytics.Success(&risky)

			convey.Convey("Then the penalty indicator is subtracted", func() {
				convey.So(s, convey.ShouldAlmostEqual, 0.915, 1e-9)
				convey.So(explain, convey.ShouldResemble, []string{
					"overall*0.55=0.550",
					"trend*0.15=0.150",
					"hard_cov*0.15=0.150",
					"semantic*0.10=0.100",
					"penalty*0.05=0.035",
				})
			})
		})

		convey.Convey("When a report is attached to reordered candidates", func() {
			scored := []model.ScoredCandidate{risky, {Filename: "clean.txt"}}
			rep := analytics.Report{
				PCA:       types.OK([]types.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}),
				Clusters:  types.OK([]int{0, 1}),
				Neighbors: types.OK([][]types.Neighbor{{{Filename: "risky.txt", Sim: 0.5}}, {{Filename: "clean.txt", Sim: 0.5}}}),
			}
			analytics.Attach(scored, []string{"clean.txt", "risky.txt"}, rep)

			convey.Convey("Then values follow the filename", func() {
				convey.So(scored[0].Insights.PCA, convey.ShouldResemble, types.Point{X: 3, Y: 4})
				convey.So(scored[0].Insights.ClusterID, convey.ShouldEqual, 1)
				convey.So(scored[1].Insights.Neighbors[0].Filename, convey.ShouldEqual, "risky.txt")
				convey.So(scored[1].Insights.SuccessScore, convey.ShouldEqual, 0)
				convey.So(scored[0].Insights.SuccessScore, convey.ShouldAlmostEqual, 0.915, 1e-9)
			})
		})
	})
}
