package enrich_test

import (
	"testing"

	"github.com/okian/screener/internal/domain/enrich"
	"github.com/okian/screener/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSkills(t *testing.T) {
	convey.Convey("Given existing skills and document text", t, func() {
		convey.Convey("When the text carries abbreviations and phrases", func() {
			got := enrich.Skills(
				[]string{"Python", " SQL "},
				"built ml pipelines in js/ts and did natural language processing with nltk. rest api design.",
			)

			convey.Convey("Then synonyms and phrases are added, lowercased and sorted", func() {
				convey.So(got, convey.ShouldResemble, []string{
					"javascript",
					"machine learning",
					"natural language processing",
					"nlp",
					"python",
					"rest api",
					"sql",
					"typescript",
				})
			})
		})

		convey.Convey("When abbreviations appear inside longer words", func() {
			got := enrich.Skills(nil, "html5 and tfs and jsx")

			convey.Convey("Then they are not resolved", func() {
				convey.So(got, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestNormalizeEducation(t *testing.T) {
	convey.Convey("Given raw education lines", t, func() {
		lines := []string{
			"PhD in Computer Science, MIT",
			"M.Tech Data Science",
			"Masters in CS",
			"B.Tech Electronics",
			"Diploma in Networking",
			"High school",
		}

		got := enrich.NormalizeEducation(lines)

		convey.Convey("Then each line gets one level and unmatched lines are omitted", func() {
			convey.So(got, convey.ShouldResemble, []model.Education{
				{Raw: "PhD in Computer Science, MIT", Level: model.DegreePhD},
				{Raw: "M.Tech Data Science", Level: model.DegreeMasters},
				{Raw: "Masters in CS", Level: model.DegreeMasters},
				{Raw: "B.Tech Electronics", Level: model.DegreeBachelor},
				{Raw: "Diploma in Networking", Level: model.DegreeDiploma},
			})
		})

		convey.Convey("Then the higher level wins on a mixed line", func() {
			got := enrich.NormalizeEducation([]string{"Bachelor then PhD"})
			convey.So(got[0].Level, convey.ShouldEqual, model.DegreePhD)
		})
	})
}

func TestCertifications(t *testing.T) {
	convey.Convey("Given lowercased text with certifications", t, func() {
		text := "aws solutions architect, cka, pmp, cka again, scrum master, security+ and itil"

		got := enrich.Certifications(text)

		convey.Convey("Then unique hits are kept in pattern order", func() {
			convey.So(got, convey.ShouldResemble, []string{
				"aws solutions",
				"pmp",
				"scrum master",
				"cka",
				"security+",
				"itil",
			})
		})

		convey.Convey("Then words containing cert letters do not match", func() {
			convey.So(enrich.Certifications("local stackable ocaml"), convey.ShouldBeEmpty)
		})
	})
}

func TestDetectContacts(t *testing.T) {
	convey.Convey("Given text with contact details", t, func() {
		text := "Jane Roe\njane.roe@example.com | +1 (555) 123-4567\nhttps://github.com/jane https://jane.dev)"

		c := enrich.DetectContacts(text)

		convey.Convey("Then the first email, phone and links are found", func() {
			convey.So(c.Email, convey.ShouldEqual, "jane.roe@example.com")
			convey.So(c.Phone, convey.ShouldEqual, "+1 (555) 123-4567")
			convey.So(c.Links, convey.ShouldResemble, []string{"https://github.com/jane", "https://jane.dev"})
		})

		convey.Convey("Then text without contacts yields an empty value", func() {
			convey.So(enrich.DetectContacts("nothing here"), convey.ShouldResemble, model.Contacts{})
		})
	})
}

func TestSupplementalRanges(t *testing.T) {
	convey.Convey("Given a document with several date ranges", t, func() {
		text := "Software Engineer at Acme\n01/2019 - 03/2021\n\nCapstone project 2018 - 2019\nFreelance\n2015 to 2016\n\nConsultant, Beta Corp 2021 - present"

		got := enrich.SupplementalRanges(text)

		convey.Convey("Then only employment-context ranges are returned", func() {
			convey.So(got, convey.ShouldResemble, []model.DateRange{
				{Start: "01/2019", End: "03/2021"},
				{Start: "2021", End: "present"},
			})
		})
	})
}

func TestEnrich(t *testing.T) {
	convey.Convey("Given a raw profile", t, func() {
		raw := model.RawProfile{
			Skills:           []string{"Go"},
			Education:        []string{"B.Sc Physics"},
			ExperienceRanges: []model.DateRange{{Start: "01/2019", End: "03/2021"}},
		}
		text := "Developer at Acme\n01/2019 - 03/2021\nEngineer at Beta\n04/2021 - present\naws developer"

		e := enrich.New()
		got := e.Enrich(raw, text, "reach me at dev@example.org")

		convey.Convey("Then raw fields are preserved and extended", func() {
			convey.So(got.Skills, convey.ShouldResemble, []string{"go"})
			convey.So(got.Education, convey.ShouldResemble, raw.Education)
			convey.So(got.ExperienceRanges, convey.ShouldResemble, []model.DateRange{
				{Start: "01/2019", End: "03/2021"},
				{Start: "04/2021", End: "present"},
			})
			convey.So(got.EducationNormalized, convey.ShouldResemble, []model.Education{
				{Raw: "B.Sc Physics", Level: model.DegreeBachelor},
			})
			convey.So(got.Certifications, convey.ShouldResemble, []string{"aws developer"})
		})

		convey.Convey("Then contacts come from the contact text", func() {
			convey.So(got.Contacts.Email, convey.ShouldEqual, "dev@example.org")
		})

		convey.Convey("Then the raw profile is not mutated", func() {
			convey.So(len(raw.ExperienceRanges), convey.ShouldEqual, 1)
		})

		convey.Convey("Then enrichment is deterministic", func() {
			convey.So(e.Enrich(raw, text, ""), convey.ShouldResemble, e.Enrich(raw, text, ""))
		})
	})
}
