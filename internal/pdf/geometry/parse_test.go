package geometry

import (
	"fmt"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-bbox/internal/pdf/testpdf"
)

const tolerance = 0.01

func parseFixture(t *testing.T, doc testpdf.Doc, pageNum int) *Page {
	t.Helper()
	return parseFile(t, testpdf.WriteFile(t, "fixture.pdf", doc), pageNum)
}

func parseFile(t *testing.T, path string, pageNum int) *Page {
	t.Helper()

	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()

	page, err := Parse(r.Page(pageNum), pageNum)
	require.NoError(t, err)
	return page
}

func TestParse_Rectangle(t *testing.T) {
	page := parseFixture(t, testpdf.Single(testpdf.Page{
		Rects: []testpdf.Rect{{X: 10, Y: 20, W: 72, H: 36}},
	}), 1)

	require.Len(t, page.Rects, 1)
	assert.Empty(t, page.Curves)
	assert.Empty(t, page.Lines)

	r := page.Rects[0]
	assert.InDelta(t, 10, r.X0, tolerance)
	assert.InDelta(t, 82, r.X1, tolerance)
	assert.InDelta(t, 20, r.Top, tolerance)
	assert.InDelta(t, 56, r.Bottom, tolerance)

	// A4 in points
	assert.InDelta(t, 595.28, page.Width, tolerance)
	assert.InDelta(t, 841.89, page.Height, tolerance)
}

func TestParse_AllCollections(t *testing.T) {
	page := parseFixture(t, testpdf.Single(testpdf.Page{
		Rects: []testpdf.Rect{{X: 0, Y: 0, W: 10, H: 5}},
		Lines: []testpdf.Line{{X1: 20, Y1: 0, X2: 30, Y2: 5}},
		Curves: []testpdf.Curve{{
			X0: 100, Y0: 100,
			CX0: 100, CY0: 60,
			CX1: 140, CY1: 60,
			X1: 140, Y1: 100,
		}},
	}), 1)

	require.Len(t, page.Rects, 1)
	require.Len(t, page.Lines, 1)
	require.Len(t, page.Curves, 1)
	assert.Equal(t, 3, page.ObjectCount())

	l := page.Lines[0]
	assert.InDelta(t, 20, l.X0, tolerance)
	assert.InDelta(t, 30, l.X1, tolerance)
	assert.InDelta(t, 0, l.Top, tolerance)
	assert.InDelta(t, 5, l.Bottom, tolerance)

	c := page.Curves[0]
	assert.InDelta(t, 100, c.X0, tolerance)
	assert.InDelta(t, 140, c.X1, tolerance)
	assert.InDelta(t, 60, c.Top, tolerance)
	assert.InDelta(t, 100, c.Bottom, tolerance)
}

func TestParse_TextOnlyPageHasNoGeometry(t *testing.T) {
	page := parseFixture(t, testpdf.Single(testpdf.Page{Text: "Caja 10x20x30"}), 1)

	assert.True(t, page.IsEmpty())
	assert.Equal(t, 0, page.ObjectCount())
}

func TestParse_PagesAreIndependent(t *testing.T) {
	doc := testpdf.Doc{Pages: []testpdf.Page{
		{Lines: []testpdf.Line{{X1: 0, Y1: 0, X2: 10, Y2: 0}}},
		{Rects: []testpdf.Rect{{X: 0, Y: 0, W: 500, H: 500}}},
	}}

	first := parseFixture(t, doc, 1)
	assert.Len(t, first.Lines, 1)
	assert.Empty(t, first.Rects)

	second := parseFixture(t, doc, 2)
	assert.Empty(t, second.Lines)
	assert.Len(t, second.Rects, 1)
}

func TestParse_MissingPage(t *testing.T) {
	_, err := Parse(pdf.Page{}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3")
}

func TestParse_RotatedPage(t *testing.T) {
	// rect spans x 10..82 and y 20..56 from the top-left of the unrotated page
	path := testpdf.WriteFile(t, "figure.pdf", testpdf.Single(testpdf.Page{
		Rects: []testpdf.Rect{{X: 10, Y: 20, W: 72, H: 36}},
	}))

	tests := []struct {
		degrees       int
		width, height float64
		want          Object
	}{
		{degrees: 90, width: 841.89, height: 595.28, want: Object{X0: 785.89, X1: 821.89, Top: 10, Bottom: 82}},
		{degrees: 180, width: 595.28, height: 841.89, want: Object{X0: 513.28, X1: 585.28, Top: 785.89, Bottom: 821.89}},
		{degrees: 270, width: 841.89, height: 595.28, want: Object{X0: 20, X1: 56, Top: 513.28, Bottom: 585.28}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rotate %d", tt.degrees), func(t *testing.T) {
			page := parseFile(t, testpdf.Rotate(t, path, tt.degrees), 1)

			assert.Equal(t, tt.degrees, page.Rotation)
			assert.InDelta(t, tt.width, page.Width, tolerance)
			assert.InDelta(t, tt.height, page.Height, tolerance)

			require.Len(t, page.Rects, 1)
			r := page.Rects[0]
			assert.InDelta(t, tt.want.X0, r.X0, tolerance)
			assert.InDelta(t, tt.want.X1, r.X1, tolerance)
			assert.InDelta(t, tt.want.Top, r.Top, tolerance)
			assert.InDelta(t, tt.want.Bottom, r.Bottom, tolerance)
		})
	}
}

func TestParse_InlineImage(t *testing.T) {
	content := []byte("10 10 72 36 re S\n" +
		"q 20 0 0 20 200 200 cm\n" +
		"BI /W 2 /H 2 /BPC 8 /CS /G ID \x00\xff) (\xff\x00 EI\n" +
		"Q\n" +
		"300 300 36 18 re S\n")
	path := testpdf.WriteRaw(t, "inline.pdf", testpdf.RawPage(content, ""))

	page := parseFile(t, path, 1)
	require.Len(t, page.Rects, 2)

	first, second := page.Rects[0], page.Rects[1]
	assert.InDelta(t, 10, first.X0, tolerance)
	assert.InDelta(t, 82, first.X1, tolerance)
	assert.InDelta(t, 795.89, first.Top, tolerance)
	assert.InDelta(t, 300, second.X0, tolerance)
	assert.InDelta(t, 336, second.X1, tolerance)
	assert.InDelta(t, 523.89, second.Top, tolerance)
	assert.InDelta(t, 541.89, second.Bottom, tolerance)
}

func TestParse_FormXObject(t *testing.T) {
	t.Run("matrix under cm", func(t *testing.T) {
		content := []byte("q 1 0 0 1 50 50 cm /Fm1 Do Q\n")
		path := testpdf.WriteRaw(t, "form.pdf", testpdf.RawPage(content, "/XObject << /Fm1 5 0 R >>",
			testpdf.Object{
				Dict:   "/Type /XObject /Subtype /Form /BBox [0 0 100 100] /Matrix [2 0 0 2 0 0] /Resources << >>",
				Stream: []byte("0 0 36 18 re S"),
			},
		))

		page := parseFile(t, path, 1)
		require.Len(t, page.Rects, 1)

		r := page.Rects[0]
		assert.InDelta(t, 50, r.X0, tolerance)
		assert.InDelta(t, 122, r.X1, tolerance)
		assert.InDelta(t, 755.89, r.Top, tolerance)
		assert.InDelta(t, 791.89, r.Bottom, tolerance)
	})

	t.Run("inherits page resources", func(t *testing.T) {
		content := []byte("q 1 0 0 1 50 50 cm /Fm1 Do Q\n")
		path := testpdf.WriteRaw(t, "nested.pdf", testpdf.RawPage(content, "/XObject << /Fm1 5 0 R /Fm2 6 0 R >>",
			testpdf.Object{
				Dict:   "/Type /XObject /Subtype /Form /BBox [0 0 100 100] /Matrix [2 0 0 2 0 0]",
				Stream: []byte("0 0 36 18 re S /Fm2 Do"),
			},
			testpdf.Object{
				Dict:   "/Type /XObject /Subtype /Form /BBox [0 0 100 100]",
				Stream: []byte("0 0 10 10 re S"),
			},
		))

		page := parseFile(t, path, 1)
		require.Len(t, page.Rects, 2)

		inner := page.Rects[1]
		assert.InDelta(t, 50, inner.X0, tolerance)
		assert.InDelta(t, 70, inner.X1, tolerance)
		assert.InDelta(t, 771.89, inner.Top, tolerance)
		assert.InDelta(t, 791.89, inner.Bottom, tolerance)
	})
}

func TestStripInlineImages(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{
			name: "no image",
			in:   "0 0 10 10 re S",
			want: "0 0 10 10 re S",
		},
		{
			name:    "image removed",
			in:      "q BI /W 1 /H 1 ID \x01 EI Q",
			want:    "q   Q",
			changed: true,
		},
		{
			name: "operator names inside strings",
			in:   "BT (BI ID EI) Tj ET",
			want: "BT (BI ID EI) Tj ET",
		},
		{
			name:    "EI inside image data",
			in:      "BI /W 4 ID \x00EIx EI 1 2 m",
			want:    "  1 2 m",
			changed: true,
		},
		{
			name:    "unterminated image drops the rest",
			in:      "0 0 m BI /W 1 ID \x01\x02",
			want:    "0 0 m  ",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := stripInlineImages([]byte(tt.in))
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
