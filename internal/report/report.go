// Package report renders the diagnostic text report for a measured PDF.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/pdf-bbox/internal/bbox"
)

const ruleWidth = 60

// NoObjectsMessage is printed in place of the bounding box sections
const NoObjectsMessage = "No drawing objects found on the first page."

var rule = strings.Repeat("=", ruleWidth)

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) section(title string) {
	w.printf("%s\n%s\n%s\n", rule, title, rule)
}

// Write prints the report for r
func Write(out io.Writer, r *bbox.Result) error {
	w := &writer{w: out}

	w.section("PDF PAGE DIMENSIONS")
	w.printf("Page Width:  %s\n", triple(r.PageSize.Width))
	w.printf("Page Height: %s\n", triple(r.PageSize.Height))
	w.printf("\n")

	w.section("OBJECTS FOUND")
	w.printf("Curves/Paths: %d\n", r.Curves)
	w.printf("Rectangles:   %d\n", r.Rects)
	w.printf("Lines:        %d\n", r.Lines)
	w.printf("\n")

	if !r.Found {
		w.printf("%s\n", NoObjectsMessage)
		return w.err
	}

	box := r.Box
	w.section("BOUNDING BOX OF FIGURE")
	w.printf("X range: %.2f to %.2f\n", box.MinX, box.MaxX)
	w.printf("Y range: %.2f to %.2f\n", box.MinY, box.MaxY)
	w.printf("\n")
	w.printf("WIDTH:  %s\n", triple(box.Width()))
	w.printf("HEIGHT: %s\n", triple(box.Height()))
	w.printf("\n")

	rounded := r.Rounded()
	w.section("SUMMARY")
	w.printf("Figure Width:  %s\n", summary(box.Width()))
	w.printf("Figure Height: %s\n", summary(box.Height()))
	w.printf("Aspect Ratio:  %s\n", AspectRatio(box.Width(), box.Height()))
	w.printf("Rounded:       %.1f x %.1f mm\n", rounded.WidthMm, rounded.HeightMm)

	return w.err
}

// String returns the report as a string
func String(r *bbox.Result) string {
	var b strings.Builder
	_ = Write(&b, r)
	return b.String()
}

// AspectRatio formats width/height to three decimals, or "n/a" for a zero
// height.
func AspectRatio(width, height float64) string {
	if height == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", width/height)
}

func triple(pt float64) string {
	return fmt.Sprintf("%.2f points = %s inches = %s mm",
		pt,
		bbox.PointsToInches(pt).StringFixed(2),
		bbox.PointsToMillimeters(pt).StringFixed(2))
}

func summary(pt float64) string {
	return fmt.Sprintf("%.2f pt | %s in | %s mm",
		pt,
		bbox.PointsToInches(pt).StringFixed(4),
		bbox.PointsToMillimeters(pt).StringFixed(2))
}
