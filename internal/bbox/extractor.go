// Package bbox measures the drawn figure on the first page of a PDF.
//
// Every curve, rectangle and line on the page contributes its two bounding
// corners to one pooled point set. The minimal rectangle around that set is
// converted from points to millimetres and rounded half-up to 0.1 mm.
package bbox

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/a3tai/pdf-bbox/internal/pdf/geometry"
	"github.com/a3tai/pdf-bbox/internal/pdf/wrapper"
)

const firstPage = 1

// Opener opens documents for measurement
type Opener = wrapper.PDFOpener

// Document is an opened PDF owned by one extraction call
type Document = wrapper.PDFDocument

// Dimensions is the rounded size of the figure in millimetres
type Dimensions struct {
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

// Result carries the intermediate data of one extraction
type Result struct {
	Path     string        `json:"path"`
	PageSize geometry.Size `json:"page_size"`
	Curves   int           `json:"curves"`
	Rects    int           `json:"rects"`
	Lines    int           `json:"lines"`

	// Found is false when the first page has no drawing objects. Box and
	// the millimetre values are zero in that case.
	Found bool `json:"found"`
	Box   Box  `json:"box"`

	// WidthMm and HeightMm are exact conversions, before rounding
	WidthMm  decimal.Decimal `json:"width_mm"`
	HeightMm decimal.Decimal `json:"height_mm"`
}

// ObjectCount returns the number of objects on the first page
func (r *Result) ObjectCount() int {
	return r.Curves + r.Rects + r.Lines
}

// Rounded returns the millimetre dimensions rounded to 0.1 mm
func (r *Result) Rounded() Dimensions {
	w, _ := RoundMillimeters(r.WidthMm).Float64()
	h, _ := RoundMillimeters(r.HeightMm).Float64()
	return Dimensions{WidthMm: w, HeightMm: h}
}

// Extractor measures PDFs through an Opener
type Extractor struct {
	opener Opener
	log    zerolog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger used for debug output
func WithLogger(log zerolog.Logger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// NewExtractor creates an extractor. A nil opener selects the default
// pdfcpu and ledongthuc/pdf document library.
func NewExtractor(opener Opener, opts ...Option) *Extractor {
	if opener == nil {
		opener = wrapper.NewLibrary()
	}
	e := &Extractor{
		opener: opener,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the first page of the PDF at path and returns its bounding
// box. An empty page is not an error: the result has Found == false.
func (e *Extractor) Extract(path string) (result *Result, err error) {
	doc, err := e.opener.OpenFile(path)
	if err != nil {
		return nil, &AccessError{Path: path, Op: "open", Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			result = nil
			err = &AccessError{Path: path, Op: "close", Err: cerr}
		}
	}()

	count, err := doc.GetPageCount()
	if err != nil {
		return nil, &AccessError{Path: path, Op: "read", Err: err}
	}
	if count < firstPage {
		return nil, &AccessError{Path: path, Op: "read", Err: ErrNoPages}
	}

	page, err := doc.GetPageGeometry(firstPage)
	if err != nil {
		return nil, &AccessError{Path: path, Op: "read", Err: err}
	}

	result = &Result{
		Path:     path,
		PageSize: geometry.Size{Width: page.Width, Height: page.Height},
		Curves:   len(page.Curves),
		Rects:    len(page.Rects),
		Lines:    len(page.Lines),
		WidthMm:  decimal.Zero,
		HeightMm: decimal.Zero,
	}
	if size, serr := doc.GetPageSize(firstPage); serr == nil {
		result.PageSize = geometry.Size{Width: size.Width, Height: size.Height}
	}

	box, found := Pool(page.Curves, page.Rects, page.Lines)
	if !found {
		e.log.Debug().Str("path", path).Msg("no drawing objects on first page")
		return result, nil
	}

	result.Found = true
	result.Box = box
	result.WidthMm = PointsToMillimeters(box.Width())
	result.HeightMm = PointsToMillimeters(box.Height())

	e.log.Debug().
		Str("path", path).
		Int("objects", result.ObjectCount()).
		Float64("width_pt", box.Width()).
		Float64("height_pt", box.Height()).
		Msg("measured bounding box")

	return result, nil
}

// Measure returns the rounded millimetre dimensions of the figure, or
// found == false when the first page has no drawing objects.
func (e *Extractor) Measure(path string) (Dimensions, bool, error) {
	r, err := e.Extract(path)
	if err != nil {
		return Dimensions{}, false, err
	}
	if !r.Found {
		return Dimensions{}, false, nil
	}
	return r.Rounded(), true, nil
}

// ExtractBoundingBoxMm measures the PDF at path with the default library
func ExtractBoundingBoxMm(path string) (Dimensions, bool, error) {
	return NewExtractor(nil).Measure(path)
}
