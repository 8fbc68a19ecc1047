package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/pdf-bbox/internal/pdf/testpdf"
)

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	validator := NewValidator(1024*1024, nil)

	valid := testpdf.WriteFile(t, "caja.pdf", testpdf.Single(testpdf.Page{}))
	notPDF := filepath.Join(dir, "caja.txt")
	corrupt := filepath.Join(dir, "corrupt.pdf")
	empty := filepath.Join(dir, "empty.pdf")
	large := filepath.Join(dir, "large.pdf")

	for path, content := range map[string][]byte{
		notPDF:  []byte("text"),
		corrupt: []byte("%PDF-1.7 broken"),
		empty:   {},
		large:   make([]byte, 2*1024*1024),
	} {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	tests := []struct {
		name        string
		path        string
		expectValid bool
	}{
		{name: "valid PDF", path: valid, expectValid: true},
		{name: "empty path", path: ""},
		{name: "non-existent file", path: filepath.Join(dir, "missing.pdf")},
		{name: "directory", path: dir},
		{name: "wrong extension", path: notPDF},
		{name: "corrupt PDF", path: corrupt},
		{name: "empty file", path: empty},
		{name: "too large", path: large},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v (%s)", tt.expectValid, result.Valid, result.Message)
			}
			if result.Path != tt.path {
				t.Errorf("expected Path=%s but got %s", tt.path, result.Path)
			}
			if !tt.expectValid && result.Message == "" {
				t.Errorf("expected validation message for invalid file")
			}
			if validator.IsValidPDF(tt.path) != tt.expectValid {
				t.Errorf("IsValidPDF disagrees with ValidateFile for %s", tt.name)
			}
		})
	}
}

func TestValidator_CheckFile(t *testing.T) {
	validator := NewValidator(10, nil)
	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(path, make([]byte, 11), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := validator.CheckFile(path); err == nil {
		t.Error("expected size limit error")
	}
}
