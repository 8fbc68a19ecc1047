package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/bbox"
	"github.com/a3tai/pdf-bbox/internal/catalog"
	"github.com/a3tai/pdf-bbox/internal/config"
	"github.com/a3tai/pdf-bbox/internal/conversion"
	"github.com/a3tai/pdf-bbox/internal/logger"
	"github.com/a3tai/pdf-bbox/internal/mcp"
	"github.com/a3tai/pdf-bbox/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures the global logger. Logs always go to stderr so
// stdio mode keeps stdout for the MCP protocol.
func setupLogging(cfg *config.Config) (io.Closer, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	return logger.Setup(logCfg)
}

// openCatalog opens the YAML catalog, or an in-memory one when no catalog
// file is configured
func openCatalog(cfg *config.Config, log zerolog.Logger) (*catalog.Service, error) {
	var store catalog.Store = catalog.NewMemoryStore()
	if path := cfg.CatalogPath(); path != "" {
		fileStore, err := catalog.OpenFileStore(path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", fileStore.Path()).Msg("opened catalog")
		store = fileStore
	}

	extractor := bbox.NewExtractor(nil, bbox.WithLogger(logger.WithComponent("bbox")))
	deriver := catalog.NewDimensionDeriver(store, extractor, cfg.PDFDirectory, logger.WithComponent("deriver"))

	return catalog.NewService(store, deriver,
		catalog.WithResolver(conversion.Resolver{
			MediaRoot: cfg.PDFDirectory,
			LegacyDir: cfg.LegacyDirPath(),
		}),
		catalog.WithConverter(conversion.PassthroughConverter{}, conversion.DefaultRetryPolicy()),
		catalog.WithLogger(logger.WithComponent("catalog")),
	), nil
}

// newServer wires the services behind the MCP server
func newServer(cfg *config.Config) (*mcp.Server, error) {
	log := logger.GetLogger()

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, logger.WithComponent("pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF service: %w", err)
	}

	catalogService, err := openCatalog(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	return mcp.NewServer(cfg, pdfService, catalogService, log)
}

// runServerMode runs the SSE server until a signal arrives or it fails
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, log zerolog.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}

	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("server stopped")
	return nil
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	if version != "dev" {
		cfg.Version = version
	}

	log := logger.WithComponent("main")
	log.Debug().Str("config", cfg.String()).Msg("starting")

	server, err := newServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server, log)
	}

	// In stdio mode the parent process controls our lifecycle
	return server.Run(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP PDF Bounding Box\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
