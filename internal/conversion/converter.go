// Package conversion turns uploaded design files into PDFs.
//
// A conversion runs as a Task in its own goroutine. Callers observe it
// through State, Done and Wait instead of relying on side effects.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by converters that cannot read a source
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Converter produces a PDF from a source design file and returns its path
type Converter interface {
	Convert(ctx context.Context, srcPath string) (pdfPath string, err error)
}

// ConverterFunc adapts a function to the Converter interface
type ConverterFunc func(ctx context.Context, srcPath string) (string, error)

// Convert calls f
func (f ConverterFunc) Convert(ctx context.Context, srcPath string) (string, error) {
	return f(ctx, srcPath)
}

// PermanentError marks a failure that retrying cannot fix
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so the retry loop stops at once. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

var pdfMagic = []byte("%PDF-")

// PassthroughConverter accepts sources that already are PDFs and returns
// them unchanged. Any other format fails permanently.
type PassthroughConverter struct{}

// Convert checks the PDF header of srcPath
func (PassthroughConverter) Convert(ctx context.Context, srcPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", Permanent(fmt.Errorf("source %s: %w", srcPath, err))
		}
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil || string(header) != string(pdfMagic) {
		return "", Permanent(fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(srcPath)))
	}

	return srcPath, nil
}

// ErrSourceNotFound is returned when no candidate location holds the source
var ErrSourceNotFound = errors.New("source file not found")

// Resolver locates uploaded source files. Relative paths are tried under
// MediaRoot first and then under LegacyDir, which also catches absolute
// paths recorded before the files were moved.
type Resolver struct {
	MediaRoot string
	LegacyDir string
}

// Resolve returns the first existing candidate for src
func (r Resolver) Resolve(src string) (string, error) {
	if src == "" {
		return "", fmt.Errorf("%w: empty path", ErrSourceNotFound)
	}

	candidates := r.candidates(src)
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s (tried %s)", ErrSourceNotFound, src, strings.Join(candidates, ", "))
}

func (r Resolver) candidates(src string) []string {
	var out []string
	if filepath.IsAbs(src) {
		out = append(out, src)
	} else if r.MediaRoot != "" {
		out = append(out, filepath.Join(r.MediaRoot, src))
	}
	if r.LegacyDir != "" {
		out = append(out, filepath.Join(r.LegacyDir, filepath.Base(src)))
	}
	return out
}
