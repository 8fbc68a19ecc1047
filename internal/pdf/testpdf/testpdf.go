// Package testpdf renders small vector PDFs for tests.
//
// Coordinates are in points with the origin at the top-left corner of an
// A4 page, which is the same convention the geometry parser reports in.
package testpdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Rect is a stroked rectangle with its top-left corner at (X, Y)
type Rect struct {
	X, Y, W, H float64
}

// Line is a stroked straight segment
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Curve is a stroked cubic Bézier from (X0, Y0) to (X1, Y1)
type Curve struct {
	X0, Y0   float64
	CX0, CY0 float64
	CX1, CY1 float64
	X1, Y1   float64
}

// Page lists what to draw on one page. Text is written with a standard
// font and contributes no path geometry.
type Page struct {
	Rects  []Rect
	Lines  []Line
	Curves []Curve
	Text   string
}

// Doc is a multi-page fixture
type Doc struct {
	Pages []Page
}

// Render writes doc as a PDF to w
func Render(w io.Writer, doc Doc) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetLineWidth(1)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, r := range page.Rects {
			pdf.Rect(r.X, r.Y, r.W, r.H, "D")
		}
		for _, l := range page.Lines {
			pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
		}
		for _, c := range page.Curves {
			pdf.CurveBezierCubic(c.X0, c.Y0, c.CX0, c.CY0, c.CX1, c.CY1, c.X1, c.Y1, "D")
		}
		if page.Text != "" {
			pdf.SetFont("Helvetica", "", 12)
			pdf.Text(40, 40, page.Text)
		}
	}

	return pdf.Output(w)
}

// WriteFile renders doc into t's temp directory and returns the file path
func WriteFile(t testing.TB, name string, doc Doc) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", name, err)
	}
	defer f.Close()

	if err := Render(f, doc); err != nil {
		t.Fatalf("render fixture %s: %v", name, err)
	}
	return path
}

// Single is a one-page document
func Single(page Page) Doc {
	return Doc{Pages: []Page{page}}
}

// Rotate writes a copy of the PDF at path with every page turned clockwise
// by degrees and returns the new path
func Rotate(t testing.TB, path string, degrees int) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), fmt.Sprintf("rotated-%d.pdf", degrees))
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.RotateFile(path, out, degrees, nil, conf); err != nil {
		t.Fatalf("rotate fixture %s: %v", path, err)
	}
	return out
}

// Object is one indirect object of a hand-written PDF. Dict is the
// dictionary body without the surrounding << >>. When Stream is non-nil
// the object is a stream and /Length is added.
type Object struct {
	Dict   string
	Stream []byte
}

// RawPage builds a single A4 page whose content stream is content and
// whose resource dictionary body is resources. Extra objects are numbered
// from 5 in order.
func RawPage(content []byte, resources string, extra ...Object) []Object {
	objects := []Object{
		{Dict: "/Type /Catalog /Pages 2 0 R"},
		{Dict: "/Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 595.28 841.89]"},
		{Dict: fmt.Sprintf("/Type /Page /Parent 2 0 R /Contents 4 0 R /Resources << %s >>", resources)},
		{Stream: content},
	}
	return append(objects, extra...)
}

// WriteRaw writes objects, numbered from 1, as a PDF with a classic
// cross-reference table. Object 1 is the catalog.
func WriteRaw(t testing.TB, name string, objects []Object) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		if obj.Stream == nil {
			fmt.Fprintf(&buf, "<< %s >>\n", obj.Dict)
		} else {
			fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", obj.Dict, len(obj.Stream))
			buf.Write(obj.Stream)
			buf.WriteString("\nendstream\n")
		}
		buf.WriteString("endobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
