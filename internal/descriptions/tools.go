package descriptions

import "sort"

// Long-form tool descriptions shown to MCP clients

const (
	// Measurement Tools
	PDFBoundingBoxDescription = `Measure the drawn figure on the first page of a PDF in millimetres.

**When to use:** A box design has been exported to PDF and its flat (2D) width and height are needed.

**How it works:** Every curve, rectangle and line on page 1 is pooled into one bounding box. Text and images are ignored. Width and height are converted from points (1/72 inch) to millimetres and rounded half-up to one decimal.

**Examples:**
• Catalog entry: "Measure /designs/caja-120.pdf before saving the box"
• Quick check: "What size is the die line in troquel.pdf?"

**Response:** JSON with found, width_mm and height_mm. When the page has no vector geometry found is false and both sizes are null.

**Best practices:** Only page 1 is considered, split multi-design files first.`

	PDFBoundingBoxReportDescription = `Print a diagnostic report of the bounding box measurement.

**When to use:** A measurement looks wrong and you need to see the intermediate values.

**Report contents:** Page size in points, inches and millimetres, the number of curves, rectangles and lines found, the bounding box coordinates, the figure size in three units, its aspect ratio, and the rounded millimetre values.

**Examples:**
• Debugging: "Why does box-88.pdf measure 210 mm wide? Show the report"
• Auditing: "Compare the page size with the figure size of flyer.pdf"

**Best practices:** Use pdf_bounding_box for automation and this tool for humans.`

	PDFValidateFileDescription = `Verify that a file is a readable PDF with at least one page.

**When to use:** Before measuring files from uploads or shared folders.

**Examples:**
• Upload verification: "Check design.pdf is valid before measuring it"
• Batch safety: "Validate every PDF in /designs before a bulk measurement"

**Best practices:** A file that fails validation will also fail measurement with the same message.`

	PDFStatsFileDescription = `Report page count, first page size, PDF version and encryption of a file.

**When to use:** Inspect a PDF before measuring it, or confirm what a design tool exported.

**Examples:**
• Export check: "Which PDF version did the converter write for caja-7.pdf?"
• Page size: "Is the first page of plano.pdf A4 or A3?"`

	PDFSearchDirectoryDescription = `Find PDF files in a directory with optional fuzzy matching on the file name.

**When to use:** Locate design files before measuring them.

**Examples:**
• "Find every PDF whose name contains 'troquel'"
• "List the PDFs in the default directory"

**Best practices:** Leave directory empty to search the configured default directory.`

	PDFServerInfoDescription = `Get server status, configuration and the list of available tools.

**When to use:** At the start of a session, or when files are not being found.

**Best practices:** Shows the default directory and its first PDF files for a quick overview.`

	// Catalog Tools
	CajaListDescription = `List every box in the catalog with its label and derived 2D dimensions.

**Response:** JSON array. ancho_2d_mm and alto_2d_mm are null for boxes whose PDF has no measurable geometry or has not been measured yet.`

	ReferenciaSaveDescription = `Create or update a reference product that boxes belong to.

**When to use:** Before saving the first box of a new product.

**Response:** JSON of the stored reference including its generated id.`

	CajaSaveDescription = `Create or update a box and, when it has a PDF, measure it.

**When to use:** Registering a new box design or changing a box's physical size or PDF.

**Behavior:** The box is stored first. If archivo_pdf is set, the first page is then measured and ancho_2d_mm and alto_2d_mm are written together, or cleared when the page has no geometry. If the PDF cannot be read the box stays saved, the 2D values are left as they were and an error is returned.

**Examples:**
• "Save a 20 x 10 x 5 cm box for referencia 1f3c with troquel.pdf"
• "Change box 7a2e to 25 cm wide"`

	CajaDeriveDimensionsDescription = `Measure the PDF attached to a box and store its 2D width and height.

**When to use:** A box's PDF was replaced, or the box was saved before its PDF existed.

**Behavior:** Both dimensions are written together. If the PDF has no geometry both are cleared. If the PDF cannot be read the box is left unchanged and an error is returned.`

	CajaConvertDesignDescription = `Convert a box's uploaded design file to PDF, attach it and measure it.

**When to use:** A design was uploaded but the box has no PDF yet.

**Behavior:** Transient conversion failures are retried with a growing pause. On success the PDF path is stored and the 2D dimensions are derived. Files that already are PDFs are attached as they are.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_bounding_box":        PDFBoundingBoxDescription,
	"pdf_bounding_box_report": PDFBoundingBoxReportDescription,
	"pdf_validate_file":       PDFValidateFileDescription,
	"pdf_stats_file":          PDFStatsFileDescription,
	"pdf_search_directory":    PDFSearchDirectoryDescription,
	"pdf_server_info":         PDFServerInfoDescription,
	"caja_list":               CajaListDescription,
	"referencia_save":         ReferenciaSaveDescription,
	"caja_save":               CajaSaveDescription,
	"caja_derive_dimensions":  CajaDeriveDimensionsDescription,
	"caja_convert_design":     CajaConvertDesignDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the described tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
