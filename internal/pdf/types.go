package pdf

import (
	"github.com/a3tai/pdf-bbox/internal/bbox"
	"github.com/a3tai/pdf-bbox/internal/pdf/cache"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFBoundingBoxRequest represents a request to measure the figure of a PDF
type PDFBoundingBoxRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFStatsFileRequest represents a request to get stats about a PDF file
type PDFStatsFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
	Limit     int    `json:"limit,omitempty"`
}

// Response Types

// PDFBoundingBoxResult is the rounded figure size of a PDF. WidthMm and
// HeightMm are nil when the first page has no drawing objects.
type PDFBoundingBoxResult struct {
	Path     string   `json:"path"`
	Found    bool     `json:"found"`
	WidthMm  *float64 `json:"width_mm"`
	HeightMm *float64 `json:"height_mm"`
	Objects  int      `json:"objects"`
}

// PDFBoundingBoxReportResult carries the diagnostic report of a PDF
type PDFBoundingBoxReportResult struct {
	Path   string       `json:"path"`
	Report string       `json:"report"`
	Result *bbox.Result `json:"result"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFStatsFileResult represents the result of a PDF file stats operation
type PDFStatsFileResult struct {
	Path         string  `json:"path"`
	Size         int64   `json:"size"`
	Pages        int     `json:"pages"`
	Version      string  `json:"version,omitempty"`
	Encrypted    bool    `json:"encrypted"`
	PageWidthPt  float64 `json:"page_width_pt"`
	PageHeightPt float64 `json:"page_height_pt"`
	ModifiedDate string  `json:"modified_date"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
	Truncated   bool       `json:"truncated,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string      `json:"server_name"`
	Version           string      `json:"version"`
	DefaultDirectory  string      `json:"default_directory"`
	MaxFileSize       int64       `json:"max_file_size"`
	AvailableTools    []ToolInfo  `json:"available_tools"`
	DirectoryContents []FileInfo  `json:"directory_contents"`
	MeasurementCache  cache.Stats `json:"measurement_cache"`
	UsageGuidance     string      `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}
