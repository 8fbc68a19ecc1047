package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/catalog"
	"github.com/a3tai/pdf-bbox/internal/config"
	"github.com/a3tai/pdf-bbox/internal/descriptions"
	"github.com/a3tai/pdf-bbox/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	catalog    *catalog.Service
	mcpServer  *server.MCPServer
	log        zerolog.Logger
}

// NewServer creates a new MCP server instance. catalogService may be nil,
// in which case the caja_* tools are not registered.
func NewServer(
	cfg *config.Config, pdfService *pdf.Service, catalogService *catalog.Service, log zerolog.Logger,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		catalog:    catalogService,
		mcpServer:  mcpServer,
		log:        log.With().Str("component", "mcp").Logger(),
	}

	s.registerTools()

	return s, nil
}

func pathTool(name string) mcp.Tool {
	return mcp.NewTool(
		name,
		mcp.WithDescription(descriptions.GetToolDescription(name)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(pathTool("pdf_bounding_box"), s.handlePDFBoundingBox)
	s.mcpServer.AddTool(pathTool("pdf_bounding_box_report"), s.handlePDFBoundingBoxReport)
	s.mcpServer.AddTool(pathTool("pdf_validate_file"), s.handlePDFValidateFile)
	s.mcpServer.AddTool(pathTool("pdf_stats_file"), s.handlePDFStatsFile)

	pdfSearchDirectoryTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the default directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Fuzzy match against file names"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return"),
		),
	)
	s.mcpServer.AddTool(pdfSearchDirectoryTool, s.handlePDFSearchDirectory)

	pdfServerInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	)
	s.mcpServer.AddTool(pdfServerInfoTool, s.handlePDFServerInfo)

	if s.catalog == nil {
		return
	}

	cajaListTool := mcp.NewTool(
		"caja_list",
		mcp.WithDescription(descriptions.GetToolDescription("caja_list")),
	)
	s.mcpServer.AddTool(cajaListTool, s.handleCajaList)

	referenciaSaveTool := mcp.NewTool(
		"referencia_save",
		mcp.WithDescription(descriptions.GetToolDescription("referencia_save")),
		mcp.WithString("nombre",
			mcp.Required(),
			mcp.Description("Reference product name"),
		),
		mcp.WithString("id",
			mcp.Description("Existing reference to update (optional, a new one is created if omitted)"),
		),
		mcp.WithString("foto",
			mcp.Description("Photo file path (optional)"),
		),
	)
	s.mcpServer.AddTool(referenciaSaveTool, s.handleReferenciaSave)

	cajaSaveTool := mcp.NewTool(
		"caja_save",
		mcp.WithDescription(descriptions.GetToolDescription("caja_save")),
		mcp.WithString("referencia_id",
			mcp.Required(),
			mcp.Description("Reference product the box belongs to"),
		),
		mcp.WithNumber("ancho_cm",
			mcp.Required(),
			mcp.Description("Box width in centimetres"),
		),
		mcp.WithNumber("alto_cm",
			mcp.Required(),
			mcp.Description("Box height in centimetres"),
		),
		mcp.WithNumber("profundidad_cm",
			mcp.Required(),
			mcp.Description("Box depth in centimetres"),
		),
		mcp.WithString("id",
			mcp.Description("Existing box to update (optional, a new one is created if omitted)"),
		),
		mcp.WithString("archivo_pdf",
			mcp.Description("Flat design PDF; its first page is measured after saving (optional)"),
		),
		mcp.WithString("archivo_cdr",
			mcp.Description("Uploaded design file for caja_convert_design (optional)"),
		),
	)
	s.mcpServer.AddTool(cajaSaveTool, s.handleCajaSave)

	cajaDeriveTool := mcp.NewTool(
		"caja_derive_dimensions",
		mcp.WithDescription(descriptions.GetToolDescription("caja_derive_dimensions")),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Box identifier"),
		),
	)
	s.mcpServer.AddTool(cajaDeriveTool, s.handleCajaDeriveDimensions)

	cajaConvertTool := mcp.NewTool(
		"caja_convert_design",
		mcp.WithDescription(descriptions.GetToolDescription("caja_convert_design")),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Box identifier"),
		),
	)
	s.mcpServer.AddTool(cajaConvertTool, s.handleCajaConvertDesign)
}

// Tool handlers

func (s *Server) handlePDFBoundingBox(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFBoundingBox(pdf.PDFBoundingBoxRequest{Path: path})
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("bounding box failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(boundingBoxPayload{
		Found:    result.Found,
		WidthMm:  result.WidthMm,
		HeightMm: result.HeightMm,
	})
}

// boundingBoxPayload is the wire shape of pdf_bounding_box. Both sizes are
// null when nothing was found.
type boundingBoxPayload struct {
	Found    bool     `json:"found"`
	WidthMm  *float64 `json:"width_mm"`
	HeightMm *float64 `json:"height_mm"`
}

func (s *Server) handlePDFBoundingBoxReport(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFBoundingBoxReport(pdf.PDFBoundingBoxRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Report), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFStatsFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFStatsFile(pdf.PDFStatsFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPDFStatsFileResult(result)), nil
}

func (s *Server) handlePDFSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	// JSON numbers arrive as float64
	limit := 0
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	result, err := s.pdfService.PDFSearchDirectory(pdf.PDFSearchDirectoryRequest{
		Directory: directory,
		Query:     query,
		Limit:     limit,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = formatPDFSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFServerInfo(s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPDFServerInfoResult(result)), nil
}

func (s *Server) handleCajaList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cajas, err := s.catalog.ListCajas(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cajas)
}

func (s *Server) handleReferenciaSave(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	nombre, err := request.RequireString("nombre")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ref := &catalog.Referencia{
		ID:     request.GetString("id", ""),
		Nombre: nombre,
		Foto:   request.GetString("foto", ""),
	}
	if err := s.catalog.SaveReferencia(ctx, ref); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ref)
}

func (s *Server) handleCajaSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caja := &catalog.Caja{
		ID:         request.GetString("id", ""),
		ArchivoPDF: request.GetString("archivo_pdf", ""),
		ArchivoCDR: request.GetString("archivo_cdr", ""),
	}

	var err error
	if caja.ReferenciaID, err = request.RequireString("referencia_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for key, dst := range map[string]*int{
		"ancho_cm":       &caja.AnchoCm,
		"alto_cm":        &caja.AltoCm,
		"profundidad_cm": &caja.ProfundidadCm,
	} {
		if *dst, err = request.RequireInt(key); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	// a failed measurement keeps the previous 2D values of an updated box
	if caja.ID != "" && caja.ArchivoPDF != "" {
		if prev, err := s.catalog.Store().GetCaja(ctx, caja.ID); err == nil {
			caja.Ancho2DMm, caja.Alto2DMm = prev.Ancho2DMm, prev.Alto2DMm
		}
	}

	saved, err := s.catalog.SaveCaja(ctx, caja)
	if errors.Is(err, catalog.ErrDerive) {
		s.log.Warn().Err(err).Str("caja", caja.ID).Msg("caja saved without 2D dimensions")
		return mcp.NewToolResultError(fmt.Sprintf("caja %s was saved but could not be measured: %v", caja.ID, err)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(saved)
}

func (s *Server) handleCajaDeriveDimensions(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	caja, err := s.catalog.DeriveDimensions(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("caja", id).Msg("derive dimensions failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(caja)
}

func (s *Server) handleCajaConvertDesign(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, finished, err := s.catalog.ConvertDesign(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	select {
	case err := <-finished:
		if err != nil {
			s.log.Warn().Err(err).Str("caja", id).Int("attempts", task.Attempts()).Msg("design conversion failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
	case <-ctx.Done():
		return mcp.NewToolResultError(fmt.Sprintf("conversion of %s still %s: %v", task.Source(), task.State(), ctx.Err())), nil
	}

	caja, err := s.catalog.Store().GetCaja(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(caja)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Formatting helpers

func formatPDFSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	if result.Truncated {
		text += "\n(results truncated)\n"
	}

	return text
}

func formatPDFStatsFileResult(result *pdf.PDFStatsFileResult) string {
	text := "PDF File Statistics\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("First page: %.2f x %.2f pt\n", result.PageWidthPt, result.PageHeightPt)
	if result.Version != "" {
		text += fmt.Sprintf("PDF version: %s\n", result.Version)
	}
	if result.Encrypted {
		text += "Encrypted: yes\n"
	}
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	return text
}

func formatPDFServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files shown):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in default directory\n\n"
	}

	stats := result.MeasurementCache
	text += fmt.Sprintf("Measurement Cache: %d/%d entries, %d hits, %d misses\n\n",
		stats.Size, stats.Capacity, stats.Hits, stats.Misses)

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server over stdin/stdout
func (s *Server) runStdioMode(_ context.Context) error {
	s.log.Debug().
		Str("directory", s.config.PDFDirectory).
		Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	sse := server.NewSSEServer(s.mcpServer)
	addr := s.config.Address()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", addr).Msg("starting MCP server in SSE mode")
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info().Msg("shutting down SSE server")
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		return nil
	}
}
