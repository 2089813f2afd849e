package extract_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/screener/internal/adapters/extract"
	"github.com/smartystreets/goconvey/convey"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">Rust</w:t></w:r></w:p>
</w:body></w:document>`

func docx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRegistryExtract(t *testing.T) {
	convey.Convey("Given an extractor registry", t, func() {
		ctx := context.Background()
		r := extract.New()

		convey.Convey("When a text file has invalid bytes", func() {
			text, err := r.Extract(ctx, "cv.TXT", []byte("hello\xffworld"))

			convey.Convey("Then they are dropped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldEqual, "helloworld")
			})
		})

		convey.Convey("When a docx is given", func() {
			text, err := r.Extract(ctx, "cv.docx", docx(t, documentXML))

			convey.Convey("Then paragraphs become lines", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldEqual, "Jane Doe\nGo\tRust")
			})
		})

		convey.Convey("When a docx has no document part", func() {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			convey.So(zw.Close(), convey.ShouldBeNil)
			_, err := r.Extract(ctx, "cv.docx", buf.Bytes())
			convey.So(errors.Is(err, extract.ErrMalformedDocument), convey.ShouldBeTrue)
		})

		convey.Convey("When an html page is given", func() {
			page := `<html><head><style>p{color:red}</style></head><body>
<h1>Jane</h1><ul><li>Go</li><li>Rust</li></ul><script>alert(1)</script></body></html>`
			text, err := r.Extract(ctx, "cv.html", []byte(page))

			convey.Convey("Then visible blocks become lines", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldEqual, "Jane\nGo\nRust")
			})
		})

		convey.Convey("When a pdf is corrupt", func() {
			_, err := r.Extract(ctx, "cv.pdf", []byte("not a pdf"))
			convey.So(errors.Is(err, extract.ErrMalformedDocument), convey.ShouldBeTrue)
		})

		convey.Convey("When the extension is unknown", func() {
			_, err := r.Extract(ctx, "cv.exe", []byte("MZ"))
			convey.So(errors.Is(err, extract.ErrUnsupportedType), convey.ShouldBeTrue)
			convey.So(r.Supported("cv.exe"), convey.ShouldBeFalse)
			convey.So(r.Supported("cv.PDF"), convey.ShouldBeTrue)
		})

		convey.Convey("When a decoder is too slow", func() {
			slow := extract.New(
				extract.WithTimeout(10*time.Millisecond),
				extract.WithFormat(".slow", func([]byte) (string, error) {
					time.Sleep(200 * time.Millisecond)
					return "late", nil
				}),
			)
			_, err := slow.Extract(ctx, "cv.slow", nil)
			convey.So(errors.Is(err, extract.ErrExtractTimeout), convey.ShouldBeTrue)
		})

		convey.Convey("When a decoder panics", func() {
			boom := extract.New(extract.WithFormat(".BOOM", func([]byte) (string, error) {
				panic("bad xref table")
			}))
			_, err := boom.Extract(ctx, "cv.boom", nil)
			convey.So(errors.Is(err, extract.ErrMalformedDocument), convey.ShouldBeTrue)
		})
	})
}
