package bbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-bbox/internal/pdf/testpdf"
)

func TestExtractBoundingBoxMm_Fixtures(t *testing.T) {
	tests := []struct {
		name  string
		doc   testpdf.Doc
		want  Dimensions
		found bool
	}{
		{
			name:  "rectangle 72x36",
			doc:   testpdf.Single(testpdf.Page{Rects: []testpdf.Rect{{X: 100, Y: 100, W: 72, H: 36}}}),
			want:  Dimensions{WidthMm: 25.4, HeightMm: 12.7},
			found: true,
		},
		{
			name: "line and rectangle pooled",
			doc: testpdf.Single(testpdf.Page{
				Lines: []testpdf.Line{{X1: 100, Y1: 200, X2: 110, Y2: 200}},
				Rects: []testpdf.Rect{{X: 120, Y: 190, W: 10, H: 20}},
			}),
			want:  Dimensions{WidthMm: 10.6, HeightMm: 7.1},
			found: true,
		},
		{
			name: "curve with control points",
			doc: testpdf.Single(testpdf.Page{
				Curves: []testpdf.Curve{{X0: 100, Y0: 100, CX0: 100, CY0: 172, CX1: 172, CY1: 172, X1: 172, Y1: 100}},
			}),
			want:  Dimensions{WidthMm: 25.4, HeightMm: 25.4},
			found: true,
		},
		{
			name:  "text only",
			doc:   testpdf.Single(testpdf.Page{Text: "Caja 20x10x5"}),
			found: false,
		},
		{
			name: "second page ignored",
			doc: testpdf.Doc{Pages: []testpdf.Page{
				{},
				{Rects: []testpdf.Rect{{X: 10, Y: 10, W: 300, H: 300}}},
			}},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testpdf.WriteFile(t, "figure.pdf", tt.doc)

			dims, found, err := ExtractBoundingBoxMm(path)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, dims)
		})
	}
}

func TestExtractBoundingBoxMm_AccessErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.pdf")
	require.NoError(t, os.WriteFile(corrupt, []byte("%PDF-1.4\nnot really"), 0o600))

	for _, path := range []string{filepath.Join(dir, "missing.pdf"), corrupt} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, found, err := ExtractBoundingBoxMm(path)
			require.Error(t, err)
			assert.False(t, found)
			assert.True(t, IsAccessError(err))
		})
	}
}

func TestExtractBoundingBoxMm_PageVariants(t *testing.T) {
	rect := testpdf.WriteFile(t, "figure.pdf", testpdf.Single(testpdf.Page{
		Rects: []testpdf.Rect{{X: 100, Y: 100, W: 72, H: 36}},
	}))

	tests := []struct {
		name string
		path string
		want Dimensions
	}{
		{
			name: "rotated page measures in the displayed frame",
			path: testpdf.Rotate(t, rect, 90),
			want: Dimensions{WidthMm: 12.7, HeightMm: 25.4},
		},
		{
			name: "upside down page keeps its size",
			path: testpdf.Rotate(t, rect, 180),
			want: Dimensions{WidthMm: 25.4, HeightMm: 12.7},
		},
		{
			name: "inline image between paths",
			path: testpdf.WriteRaw(t, "inline.pdf", testpdf.RawPage([]byte(
				"10 10 72 36 re S\nq 20 0 0 20 200 200 cm\n"+
					"BI /W 2 /H 2 /BPC 8 /CS /G ID \x00\xff) (\xff\x00 EI\nQ\n"+
					"300 300 36 18 re S\n"), "")),
			want: Dimensions{WidthMm: 115.0, HeightMm: 108.7},
		},
		{
			name: "scaled form xobject",
			path: testpdf.WriteRaw(t, "form.pdf", testpdf.RawPage(
				[]byte("q 1 0 0 1 50 50 cm /Fm1 Do Q\n"),
				"/XObject << /Fm1 5 0 R >>",
				testpdf.Object{
					Dict:   "/Type /XObject /Subtype /Form /BBox [0 0 100 100] /Matrix [2 0 0 2 0 0]",
					Stream: []byte("0 0 36 18 re S"),
				},
			)),
			want: Dimensions{WidthMm: 25.4, HeightMm: 12.7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims, found, err := ExtractBoundingBoxMm(tt.path)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.want, dims)
		})
	}
}

func TestExtractor_RotatedPageSize(t *testing.T) {
	path := testpdf.Rotate(t, testpdf.WriteFile(t, "figure.pdf", testpdf.Single(testpdf.Page{
		Rects: []testpdf.Rect{{X: 100, Y: 100, W: 72, H: 36}},
	})), 90)

	result, err := NewExtractor(nil).Extract(path)
	require.NoError(t, err)

	// page size and box share the displayed frame
	assert.InDelta(t, 841.89, result.PageSize.Width, 0.01)
	assert.InDelta(t, 595.28, result.PageSize.Height, 0.01)
	assert.InDelta(t, 36, result.Box.Width(), 0.01)
	assert.InDelta(t, 72, result.Box.Height(), 0.01)
}
