package pdf

import (
	"fmt"

	"github.com/a3tai/pdf-bbox/internal/pdf/wrapper"
)

// Stats reads document-level facts through the document library
type Stats struct {
	validator *Validator
	opener    wrapper.PDFOpener
}

// NewStats creates a new PDF stats reader
func NewStats(validator *Validator, opener wrapper.PDFOpener) *Stats {
	if opener == nil {
		opener = wrapper.NewLibrary()
	}
	return &Stats{
		validator: validator,
		opener:    opener,
	}
}

// versioned is implemented by documents that know their header version
type versioned interface {
	GetVersion() string
	IsEncrypted() bool
}

// GetFileStats returns size, page count and first page size of a PDF
func (s *Stats) GetFileStats(req PDFStatsFileRequest) (*PDFStatsFileResult, error) {
	fileInfo, err := s.validator.CheckFile(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := s.opener.OpenFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages, err := doc.GetPageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	result := &PDFStatsFileResult{
		Path:         req.Path,
		Size:         fileInfo.Size(),
		Pages:        pages,
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}

	if v, ok := doc.(versioned); ok {
		result.Version = v.GetVersion()
		result.Encrypted = v.IsEncrypted()
	}

	if pages > 0 {
		size, err := doc.GetPageSize(1)
		if err != nil {
			return nil, fmt.Errorf("failed to read page size: %w", err)
		}
		result.PageWidthPt = size.Width
		result.PageHeightPt = size.Height
	}

	return result, nil
}
