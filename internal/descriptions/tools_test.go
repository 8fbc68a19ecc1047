package descriptions

import (
	"sort"
	"strings"
	"testing"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range []string{"pdf_bounding_box", "caja_save", "referencia_save", "caja_derive_dimensions", "caja_convert_design"} {
		if desc := GetToolDescription(name); desc == "" || strings.HasPrefix(desc, "Tool description not available") {
			t.Errorf("missing description for %s", name)
		}
	}

	if got := GetToolDescription("pdf_read_file"); got != "Tool description not available" {
		t.Errorf("unexpected description for unknown tool: %q", got)
	}
}

func TestGetAllToolNames(t *testing.T) {
	names := GetAllToolNames()
	if len(names) != len(ToolDescriptions) {
		t.Fatalf("got %d names, want %d", len(names), len(ToolDescriptions))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}
