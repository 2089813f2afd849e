package vectorspace_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/screener/internal/domain/vectorspace"
	"github.com/smartystreets/goconvey/convey"
)

func rowNorm(r []float64) float64 {
	var s float64
	for _, x := range r {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestTokenize(t *testing.T) {
	convey.Convey("Given mixed text", t, func() {
		got := vectorspace.Tokenize("C++ and Go, a_b x 2024! Café")

		convey.Convey("Then word runs of two or more runes are lowercased", func() {
			convey.So(got, convey.ShouldResemble, []string{"and", "go", "a_b", "2024", "café"})
		})
	})
}

func TestFit(t *testing.T) {
	convey.Convey("Given a vectorizer", t, func() {
		v := vectorspace.New()

		convey.Convey("When the corpus has no usable tokens", func() {
			_, err := v.Fit([]string{"", "the and of", "a"})

			convey.Convey("Then the vocabulary is empty", func() {
				convey.So(err, convey.ShouldEqual, vectorspace.ErrEmptyVocabulary)
			})
		})

		convey.Convey("When documents share terms", func() {
			m, err := v.Fit([]string{"Python Django developer", "python developer", "django"})

			convey.Convey("Then terms are sorted and rows are unit length", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.Terms, convey.ShouldResemble, []string{"developer", "django", "python"})
				convey.So(m.Dims(), convey.ShouldEqual, 3)
				for _, r := range m.Rows {
					convey.So(rowNorm(r), convey.ShouldAlmostEqual, 1, 1e-9)
				}
			})

			convey.Convey("Then the job-like row is closer to the matching document", func() {
				sims, err := vectorspace.Similarities(m.Rows[0], m.Rows[1:])
				convey.So(err, convey.ShouldBeNil)
				convey.So(sims[0], convey.ShouldBeGreaterThan, 0)
				convey.So(sims[1], convey.ShouldBeGreaterThan, 0)
				convey.So(sims[0], convey.ShouldBeLessThanOrEqualTo, 1+1e-9)
			})

			convey.Convey("Then Dense copies the requested rows", func() {
				d := m.Dense(1)
				r, c := d.Dims()
				convey.So(r, convey.ShouldEqual, 2)
				convey.So(c, convey.ShouldEqual, 3)
				convey.So(m.Dense(3), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the vocabulary is capped", func() {
			m, err := vectorspace.New(vectorspace.WithMaxFeatures(1)).Fit([]string{"alpha alpha beta", "gamma"})

			convey.Convey("Then the most frequent term is kept and other rows are zero", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.Terms, convey.ShouldResemble, []string{"alpha"})
				convey.So(m.Rows[0], convey.ShouldResemble, []float64{1})
				convey.So(m.Rows[1], convey.ShouldResemble, []float64{0})
			})
		})

		convey.Convey("When fitting twice", func() {
			docs := []string{"golang kubernetes docker", "docker compose", "rust"}
			a, _ := v.Fit(docs)
			b, _ := v.Fit(docs)

			convey.Convey("Then the result is identical", func() {
				convey.So(a, convey.ShouldResemble, b)
			})
		})
	})
}

func TestCosine(t *testing.T) {
	convey.Convey("Given vectors", t, func() {
		convey.Convey("When they are identical", func() {
			s, err := vectorspace.Cosine([]float64{1, 2}, []float64{1, 2})
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldAlmostEqual, 1, 1e-12)
		})

		convey.Convey("When one is zero", func() {
			s, err := vectorspace.Cosine([]float64{0, 0}, []float64{1, 2})
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, 0)
		})

		convey.Convey("When lengths differ", func() {
			_, err := vectorspace.Cosine([]float64{1}, []float64{1, 2})
			convey.So(errors.Is(err, vectorspace.ErrDimensionMismatch), convey.ShouldBeTrue)
		})

		convey.Convey("When computing all pairs", func() {
			p, err := vectorspace.Pairwise([][]float64{{1, 0}, {0, 1}, {1, 1}})

			convey.Convey("Then the matrix is symmetric with a unit diagonal", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p[0][0], convey.ShouldEqual, 1)
				convey.So(p[0][1], convey.ShouldEqual, 0)
				convey.So(p[0][2], convey.ShouldAlmostEqual, p[2][0], 1e-12)
				convey.So(p[1][2], convey.ShouldAlmostEqual, math.Sqrt2/2, 1e-12)
			})
		})
	})
}
