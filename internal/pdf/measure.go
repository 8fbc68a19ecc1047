package pdf

import (
	"os"

	"github.com/a3tai/pdf-bbox/internal/bbox"
	"github.com/a3tai/pdf-bbox/internal/pdf/cache"
	"github.com/a3tai/pdf-bbox/internal/report"
)

// resultKey identifies a file version. A rewritten file gets a new key.
type resultKey struct {
	path    string
	size    int64
	modTime int64
}

func keyFor(path string, info os.FileInfo) resultKey {
	return resultKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
}

// Measurer runs the bounding box extractor on validated files. Results are
// cached per file version; failures are not cached.
type Measurer struct {
	validator *Validator
	extractor *bbox.Extractor
	results   *cache.LRU[resultKey, bbox.Result]
}

// NewMeasurer creates a measurer around an extractor
func NewMeasurer(validator *Validator, extractor *bbox.Extractor, cacheSize int) *Measurer {
	return &Measurer{
		validator: validator,
		extractor: extractor,
		results:   cache.NewLRU[resultKey, bbox.Result](cacheSize),
	}
}

func (m *Measurer) extract(path string) (*bbox.Result, error) {
	info, err := m.validator.CheckFile(path)
	if err != nil {
		return nil, err
	}

	key := keyFor(path, info)
	if r, ok := m.results.Get(key); ok {
		return &r, nil
	}

	r, err := m.extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	m.results.Put(key, *r)
	return r, nil
}

// Measure returns the rounded figure size of the PDF
func (m *Measurer) Measure(req PDFBoundingBoxRequest) (*PDFBoundingBoxResult, error) {
	r, err := m.extract(req.Path)
	if err != nil {
		return nil, err
	}

	result := &PDFBoundingBoxResult{
		Path:    req.Path,
		Found:   r.Found,
		Objects: r.ObjectCount(),
	}
	if r.Found {
		dims := r.Rounded()
		result.WidthMm = &dims.WidthMm
		result.HeightMm = &dims.HeightMm
	}
	return result, nil
}

// Report returns the diagnostic report of the PDF
func (m *Measurer) Report(req PDFBoundingBoxRequest) (*PDFBoundingBoxReportResult, error) {
	r, err := m.extract(req.Path)
	if err != nil {
		return nil, err
	}

	return &PDFBoundingBoxReportResult{
		Path:   req.Path,
		Report: report.String(r),
		Result: r,
	}, nil
}

// CacheStats reports measurement cache usage
func (m *Measurer) CacheStats() cache.Stats {
	return m.results.Stats()
}
