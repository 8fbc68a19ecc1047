package pdf

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/bbox"
	"github.com/a3tai/pdf-bbox/internal/pdf/security"
	"github.com/a3tai/pdf-bbox/internal/pdf/wrapper"
)

const (
	// serverInfoFileLimit caps the directory listing in server info
	serverInfoFileLimit = 100

	// measurementCacheSize is the number of file versions whose results are kept
	measurementCacheSize = 256
)

// Service handles PDF file operations by orchestrating the PDF components.
// Every path is checked against the configured directory first.
type Service struct {
	maxFileSize   int64
	validator     *Validator
	stats         *Stats
	search        *Search
	measurer      *Measurer
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string, log zerolog.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	library := wrapper.NewLibrary()
	validator := NewValidator(maxFileSize, library)
	extractor := bbox.NewExtractor(library, bbox.WithLogger(log))

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     validator,
		stats:         NewStats(validator, library),
		search:        NewSearch(validator),
		measurer:      NewMeasurer(validator, extractor, measurementCacheSize),
		pathValidator: pathValidator,
	}, nil
}

// PDFBoundingBox measures the figure on the first page of a PDF
func (s *Service) PDFBoundingBox(req PDFBoundingBoxRequest) (*PDFBoundingBoxResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.measurer.Measure(req)
}

// PDFBoundingBoxReport returns the diagnostic report for a PDF
func (s *Service) PDFBoundingBoxReport(req PDFBoundingBoxRequest) (*PDFBoundingBoxReportResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.measurer.Report(req)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// PDFStatsFile returns page and size facts about a single PDF file
func (s *Service) PDFStatsFile(req PDFStatsFileRequest) (*PDFStatsFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.stats.GetFileStats(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// PDFServerInfo returns server information and usage guidance
func (s *Service) PDFServerInfo(serverName, version string) (*PDFServerInfoResult, error) {
	dir := s.pathValidator.GetConfiguredDirectory()

	contents := []FileInfo{}
	if found, err := s.search.SearchDirectory(PDFSearchDirectoryRequest{Directory: dir, Limit: serverInfoFileLimit}); err == nil {
		contents = found.Files
	}

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    AvailableTools(),
		DirectoryContents: contents,
		MeasurementCache:  s.measurer.CacheStats(),
		UsageGuidance: "Measure box design PDFs with pdf_bounding_box. Only the first page is read; " +
			"curves, rectangles and lines are pooled into one bounding box and reported in millimetres " +
			"rounded half-up to 0.1 mm. Use pdf_bounding_box_report to see the intermediate values.",
	}, nil
}

// AvailableTools lists the PDF tools exposed by the server
func AvailableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "pdf_bounding_box",
			Description: "Measure the drawn figure on the first page of a PDF in millimetres",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_bounding_box_report",
			Description: "Diagnostic report with page size, object counts and bounding box",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_validate_file",
			Description: "Validate if a file is a readable PDF",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_stats_file",
			Description: "Page count, page size, version and file size of a PDF",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_search_directory",
			Description: "Search for PDF files in a directory with optional fuzzy search",
			Parameters: "directory (optional): Directory path to search (uses default if empty), " +
				"query (optional): Search query for fuzzy matching",
		},
		{
			Name:        "caja_list",
			Description: "List boxes in the catalog with their derived 2D dimensions",
			Parameters:  "none",
		},
		{
			Name:        "referencia_save",
			Description: "Create or update a reference product",
			Parameters:  "nombre (required), id (optional), foto (optional)",
		},
		{
			Name:        "caja_save",
			Description: "Create or update a box and derive its 2D dimensions from its PDF",
			Parameters: "referencia_id, ancho_cm, alto_cm, profundidad_cm (required), " +
				"id, archivo_pdf, archivo_cdr (optional)",
		},
		{
			Name:        "caja_derive_dimensions",
			Description: "Measure a box's PDF and store its 2D width and height",
			Parameters:  "id (required): Box identifier",
		},
		{
			Name:        "caja_convert_design",
			Description: "Convert a box's design file to PDF, attach it and derive its 2D dimensions",
			Parameters:  "id (required): Box identifier",
		},
	}
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// ValidatePath checks that path is inside the configured directory
func (s *Service) ValidatePath(path string) error {
	return s.pathValidator.ValidatePath(path)
}
