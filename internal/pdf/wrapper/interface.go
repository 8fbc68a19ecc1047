package wrapper

import (
	"fmt"

	"github.com/a3tai/pdf-bbox/internal/pdf/geometry"
)

// PDFOpener opens PDF files for measurement
type PDFOpener interface {
	OpenFile(path string) (PDFDocument, error)
}

// PDFDocument is an opened PDF. It holds file handles until Close is called.
type PDFDocument interface {
	// GetPageCount returns the number of pages in the document
	GetPageCount() (int, error)

	// GetPageSize returns the MediaBox size of a page as recorded in the
	// document's page metadata
	GetPageSize(pageNum int) (*PageSize, error)

	// GetPageGeometry returns the curves, rectangles and lines painted on a page
	GetPageGeometry(pageNum int) (*geometry.Page, error)

	Close() error
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
)

// PageSize represents the dimensions of a PDF page
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"` // always "pt"
}

// WrapperError reports which library and operation failed
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	if e.Library == "" {
		return fmt.Sprintf("PDF %s error: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentClosed = fmt.Errorf("document is closed")
	ErrInvalidPage    = fmt.Errorf("invalid page number")
)
