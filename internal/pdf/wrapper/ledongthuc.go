package wrapper

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/pdf-bbox/internal/pdf/geometry"
)

// ledongthucReader gives access to page content streams
type ledongthucReader struct {
	file   *os.File
	reader *pdf.Reader
}

func openLedongthuc(path string) (lr *ledongthucReader, err error) {
	defer func() {
		if r := recover(); r != nil {
			lr = nil
			err = &WrapperError{
				Library: LibraryLedongthuc,
				Op:      "open_file",
				Err:     fmt.Errorf("malformed PDF: %v", r),
			}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}
	return &ledongthucReader{file: f, reader: r}, nil
}

func (l *ledongthucReader) pageGeometry(pageNum int) (*geometry.Page, error) {
	if pageNum < 1 || pageNum > l.reader.NumPage() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page_geometry",
			Err:     fmt.Errorf("%w %d (document has %d pages)", ErrInvalidPage, pageNum, l.reader.NumPage()),
		}
	}

	page, err := geometry.Parse(l.reader.Page(pageNum), pageNum)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page_geometry",
			Err:     err,
		}
	}
	return page, nil
}

func (l *ledongthucReader) close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
