package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/a3tai/pdf-bbox/internal/pdf/wrapper"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	opener      wrapper.PDFOpener
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64, opener wrapper.PDFOpener) *Validator {
	if opener == nil {
		opener = wrapper.NewLibrary()
	}
	return &Validator{
		maxFileSize: maxFileSize,
		opener:      opener,
	}
}

// ValidateFile reports whether path is a readable PDF. Validation failures
// are part of the result, not errors.
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.validatePDFFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is reported in the result
	}

	result.Valid = true
	return result, nil
}

// CheckFile validates the file on disk without opening it as a PDF
func (v *Validator) CheckFile(filePath string) (os.FileInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}
	return fileInfo, nil
}

func (v *Validator) validatePDFFile(filePath string) error {
	if _, err := v.CheckFile(filePath); err != nil {
		return err
	}

	doc, err := v.opener.OpenFile(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer doc.Close()

	pages, err := doc.GetPageCount()
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	if pages == 0 {
		return fmt.Errorf("PDF has no pages: %s", filePath)
	}

	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.validatePDFFile(filePath) == nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
