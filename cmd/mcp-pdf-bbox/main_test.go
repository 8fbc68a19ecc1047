package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/catalog"
	"github.com/a3tai/pdf-bbox/internal/config"
	"github.com/a3tai/pdf-bbox/internal/pdf/testpdf"
)

const testVersion = "1.2.3"

func TestPrintVersion(t *testing.T) {
	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	defer func() {
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
	}()

	var buf bytes.Buffer
	printVersion(&buf)
	output := buf.String()

	expectedStrings := []string{
		"MCP PDF Bounding Box",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		expectErr bool
	}{
		{name: "console info", level: "info", format: "console"},
		{name: "json debug", level: "debug", format: "json"},
		{name: "invalid level", level: "loud", format: "console", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closer, err := setupLogging(&config.Config{LogLevel: tt.level, LogFormat: tt.format})
			if tt.expectErr {
				if err == nil {
					t.Error("expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("setupLogging() error = %v", err)
			}
			if err := closer.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func testConfig(t *testing.T, catalogFile string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	cfg.CatalogFile = catalogFile
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func TestOpenCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory", func(t *testing.T) {
		cfg := testConfig(t, "")

		svc, err := openCatalog(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openCatalog() error = %v", err)
		}
		if _, ok := svc.Store().(*catalog.MemoryStore); !ok {
			t.Errorf("expected a memory store, got %T", svc.Store())
		}
	})

	t.Run("file backed", func(t *testing.T) {
		cfg := testConfig(t, "catalog.yaml")

		svc, err := openCatalog(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openCatalog() error = %v", err)
		}
		if err := svc.SaveReferencia(ctx, &catalog.Referencia{Nombre: "Jabon"}); err != nil {
			t.Fatalf("SaveReferencia() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(cfg.PDFDirectory, "catalog.yaml")); err != nil {
			t.Errorf("catalog file not written: %v", err)
		}
	})

	t.Run("legacy design directory", func(t *testing.T) {
		cfg := testConfig(t, "")
		legacy := cfg.LegacyDirPath()
		if err := os.MkdirAll(legacy, 0o750); err != nil {
			t.Fatal(err)
		}
		f, err := os.Create(filepath.Join(legacy, "diseno.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		err = testpdf.Render(f, testpdf.Single(testpdf.Page{
			Rects: []testpdf.Rect{{X: 100, Y: 100, W: 72, H: 36}},
		}))
		f.Close()
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}

		svc, err := openCatalog(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("openCatalog() error = %v", err)
		}
		ref := &catalog.Referencia{Nombre: "Jabon"}
		if err := svc.SaveReferencia(ctx, ref); err != nil {
			t.Fatalf("SaveReferencia() error = %v", err)
		}
		caja := &catalog.Caja{ReferenciaID: ref.ID, AnchoCm: 5, AltoCm: 5, ProfundidadCm: 5, ArchivoCDR: "uploads/diseno.pdf"}
		if err := svc.Store().SaveCaja(ctx, caja); err != nil {
			t.Fatalf("SaveCaja() error = %v", err)
		}

		_, finished, err := svc.ConvertDesign(ctx, caja.ID)
		if err != nil {
			t.Fatalf("ConvertDesign() error = %v", err)
		}
		if err := <-finished; err != nil {
			t.Fatalf("conversion failed: %v", err)
		}

		got, err := svc.Store().GetCaja(ctx, caja.ID)
		if err != nil {
			t.Fatalf("GetCaja() error = %v", err)
		}
		if want := filepath.Join(legacy, "diseno.pdf"); got.ArchivoPDF != want {
			t.Errorf("ArchivoPDF = %q, want %q", got.ArchivoPDF, want)
		}
		if !got.HasDimensions2D() || *got.Ancho2DMm != 25.4 {
			t.Errorf("unexpected 2D dimensions: %+v", got)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		cfg := testConfig(t, "catalog.yaml")
		if err := os.WriteFile(cfg.CatalogPath(), []byte("referencias: [oops"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := openCatalog(cfg, zerolog.Nop()); err == nil {
			t.Error("expected error for corrupt catalog")
		}
	})
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t, "")

	server, err := newServer(cfg)
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	if server == nil {
		t.Fatal("server should not be nil")
	}
}
