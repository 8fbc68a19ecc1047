package wrapper

import (
	"errors"
	"fmt"

	"github.com/a3tai/pdf-bbox/internal/pdf/geometry"
)

// Library opens documents with pdfcpu for page metadata and ledongthuc/pdf
// for content streams. It is stateless and safe for concurrent use.
type Library struct{}

// NewLibrary creates a new document library
func NewLibrary() *Library {
	return &Library{}
}

// OpenFile opens a PDF from a file path. The returned document must be
// closed by the caller.
//
// pdfcpu's page count is authoritative; the content reader is only asked
// for pages pdfcpu knows about.
func (l *Library) OpenFile(path string) (PDFDocument, error) {
	info, err := readPDFCPUInfo(path)
	if err != nil {
		return nil, err
	}

	content, err := openLedongthuc(path)
	if err != nil {
		return nil, err
	}

	return &Document{
		info:    info,
		content: content,
	}, nil
}

// Document implements PDFDocument
type Document struct {
	info    *pdfcpuInfo
	content *ledongthucReader
	closed  bool
}

// GetPageCount returns the number of pages in the document
func (d *Document) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryPDFCPU, Op: "get_page_count", Err: ErrDocumentClosed}
	}
	return d.info.pageCount, nil
}

// GetPageSize returns the MediaBox size of a page from pdfcpu's page tree
func (d *Document) GetPageSize(pageNum int) (*PageSize, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "get_page_size", Err: ErrDocumentClosed}
	}
	if pageNum < 1 || pageNum > len(d.info.dims) {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "get_page_size",
			Err:     fmt.Errorf("%w %d (document has %d pages)", ErrInvalidPage, pageNum, d.info.pageCount),
		}
	}

	dim := d.info.dims[pageNum-1]
	return &PageSize{Width: dim.Width, Height: dim.Height, Unit: "pt"}, nil
}

// GetPageGeometry returns the painted geometry of a page
func (d *Document) GetPageGeometry(pageNum int) (*geometry.Page, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "get_page_geometry", Err: ErrDocumentClosed}
	}
	return d.content.pageGeometry(pageNum)
}

// GetVersion returns the PDF header version
func (d *Document) GetVersion() string {
	return d.info.version
}

// IsEncrypted checks if the document is encrypted
func (d *Document) IsEncrypted() bool {
	return d.info.encrypted
}

// Close releases the underlying file. Closing twice is a no-op.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.content.close(); err != nil {
		return &WrapperError{Library: LibraryLedongthuc, Op: "close", Err: err}
	}
	return nil
}

// IsClosed reports whether err was caused by using a closed document
func IsClosed(err error) bool {
	return errors.Is(err, ErrDocumentClosed)
}
