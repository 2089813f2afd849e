package service_test

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/scoring"
)

const pythonJob = "Need a Python developer with Django experience"

func txt(name, body string) model.Document {
	return model.Document{Filename: name, Data: []byte(body)}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(64))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("a matching candidate gets full keyword coverage", func() {
			resp, err := svc.Process(ctx, service.Request{
				JobText:    pythonJob,
				HardSkills: []string{"python"},
				NiceSkills: []string{"django"},
				Documents:  []model.Document{txt("cv.txt", "Python Django developer with 3 years experience")},
			})
			So(err, ShouldBeNil)
			So(resp.Errors, ShouldBeEmpty)
			So(len(resp.Results), ShouldEqual, 1)

			c := resp.Results[0]
			So(c.Filename, ShouldEqual, "cv.txt")
			So(c.HardSkillCoverage, ShouldEqual, 1.0)
			So(c.NiceSkillCoverage, ShouldEqual, 1.0)
			So(c.KeywordScore, ShouldAlmostEqual, 1.0, 1e-9)
			So(c.OverallScore, ShouldBeGreaterThan, 0)
			So(c.MissingHardSkills, ShouldBeEmpty)
			So(c.Insights, ShouldBeNil)
		})

		Convey("unreadable documents are reported without failing the batch", func() {
			resp, err := svc.Process(ctx, service.Request{
				JobText:    pythonJob,
				HardSkills: []string{"python"},
				Documents: []model.Document{
					txt("good.txt", "Python engineer"),
					txt("virus.exe", "MZ"),
					txt("broken.docx", "not a zip"),
				},
			})
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 1)
			So(resp.Results[0].Filename, ShouldEqual, "good.txt")
			So(len(resp.Errors), ShouldEqual, 2)
			So(resp.Errors[0].Filename, ShouldEqual, "virus.exe")
			So(resp.Errors[1].Filename, ShouldEqual, "broken.docx")
			So(resp.Errors[1].Error, ShouldNotBeEmpty)
		})

		Convey("sensitive attributes are masked before scoring", func() {
			resp, err := svc.Process(ctx, service.Request{
				JobText:   "Go developer",
				Documents: []model.Document{txt("cv.txt", "25 years old male developer, email a@b.com")},
			})
			So(err, ShouldBeNil)
			c := resp.Results[0]
			So(c.RedactedText, ShouldNotContainSubstring, "a@b.com")
			So(c.RedactedText, ShouldNotContainSubstring, "male")
			So(c.RedactedText, ShouldNotContainSubstring, "25 years old")
			So(c.RedactionNotes, ShouldContainSubstring, "gender")
			So(c.RedactionNotes, ShouldContainSubstring, "age")
			So(c.RawText, ShouldContainSubstring, "a@b.com")
			So(c.Contacts.Email, ShouldEqual, "a@b.com")
		})

		Convey("sessions accumulate, replace by filename and reset on a new context", func() {
			req := func(job string, docs ...model.Document) service.Request {
				return service.Request{JobText: job, HardSkills: []string{"python"}, SessionID: "s-1", Documents: docs}
			}

			resp, err := svc.Process(ctx, req(pythonJob, txt("a.txt", "Python developer")))
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 1)

			resp, err = svc.Process(ctx, req(pythonJob, txt("b.txt", "Java developer")))
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 2)

			resp, err = svc.Process(ctx, req(pythonJob, txt("b.txt", "Python and Django developer")))
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 2)
			for _, c := range resp.Results {
				So(c.MissingHardSkills, ShouldBeEmpty)
			}
			So(svc.Stats(ctx)["sessions"], ShouldEqual, 1)

			resp, err = svc.Process(ctx, req("Need a Rust developer", txt("c.txt", "Rust developer")))
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 1)
			So(resp.Results[0].Filename, ShouldEqual, "c.txt")
		})

		Convey("results are ranked", func() {
			resp, err := svc.Process(ctx, service.Request{
				JobText:    pythonJob,
				HardSkills: []string{"python", "django"},
				Documents: []model.Document{
					txt("weak.txt", "Accountant with Excel skills"),
					txt("strong.txt", "Senior Python developer. Django, PostgreSQL, Docker."),
					txt("mid.txt", "Python scripting for data analysis"),
				},
			})
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 3)
			So(scoring.Ranked(resp.Results), ShouldBeTrue)
			So(resp.Results[0].Filename, ShouldEqual, "strong.txt")
			for _, c := range resp.Results {
				So(c.OverallScore, ShouldBeBetweenOrEqual, 0, 1)
				So(c.RiskScore, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("analytics attaches cohort insights", func() {
			resp, err := svc.Analytics(ctx, service.Request{
				JobText:    pythonJob,
				HardSkills: []string{"python"},
				Documents: []model.Document{
					txt("a.txt", "Python Django developer building REST APIs"),
					txt("b.txt", "Python Flask developer building web services"),
					txt("c.txt", "Marketing manager running brand campaigns"),
				},
			})
			So(err, ShouldBeNil)
			So(len(resp.Results), ShouldEqual, 3)
			So(resp.DegradedSteps, ShouldBeEmpty)
			for _, c := range resp.Results {
				So(c.Insights, ShouldNotBeNil)
				So(c.ClusterID, ShouldBeBetweenOrEqual, 0, 1)
				So(len(c.Neighbors), ShouldEqual, 2)
				So(c.SuccessScore, ShouldBeBetweenOrEqual, 0, 1)
				So(len(c.SuccessExplain), ShouldEqual, 5)
			}
		})

		Convey("analytics on a single candidate uses the defaults", func() {
			resp, err := svc.Analytics(ctx, service.Request{
				JobText:   pythonJob,
				Documents: []model.Document{txt("solo.txt", "Python developer")},
			})
			So(err, ShouldBeNil)
			c := resp.Results[0]
			So(c.PCA.X, ShouldEqual, 0)
			So(c.PCA.Y, ShouldEqual, 0)
			So(c.ClusterID, ShouldEqual, 0)
			So(c.Neighbors, ShouldBeEmpty)
		})
	})

	Convey("Given a small payload cap", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := service.New(service.WithPayloadTextCap(10))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		resp, err := svc.Process(ctx, service.Request{
			JobText:   pythonJob,
			Documents: []model.Document{txt("long.txt", "Python "+strings.Repeat("é", 40))},
		})
		So(err, ShouldBeNil)
		So(utf8.RuneCountInString(resp.Results[0].RawText), ShouldEqual, 10)
		So(utf8.RuneCountInString(resp.Results[0].RedactedText), ShouldEqual, 10)
	})
}
