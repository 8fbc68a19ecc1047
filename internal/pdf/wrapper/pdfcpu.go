package wrapper

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// pdfcpuInfo is the page metadata read through pdfcpu
type pdfcpuInfo struct {
	pageCount int
	dims      []types.Dim
	version   string
	encrypted bool
}

// readPDFCPUInfo loads the cross-reference table of a PDF and records its
// page count and MediaBox dimensions. Relaxed validation matches what
// design tools export in practice.
func readPDFCPUInfo(path string) (*pdfcpuInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open file: %w", err),
		}
	}
	defer file.Close()

	return readPDFCPUInfoFrom(file)
}

func readPDFCPUInfoFrom(rs io.ReadSeeker) (*pdfcpuInfo, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "read_context",
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "page_count",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	info := &pdfcpuInfo{
		pageCount: ctx.PageCount,
		version:   ctx.HeaderVersion.String(),
		encrypted: ctx.Encrypt != nil,
	}
	if info.pageCount == 0 {
		return info, nil
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "page_dims",
			Err:     fmt.Errorf("failed to read page dimensions: %w", err),
		}
	}
	info.dims = dims

	return info, nil
}
