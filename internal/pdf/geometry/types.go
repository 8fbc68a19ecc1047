package geometry

import "fmt"

// Kind identifies the collection an Object is reported in
type Kind int

const (
	// KindCurve is any painted path that is neither a line nor a rectangle
	KindCurve Kind = iota
	// KindRect is a closed, axis-aligned four-sided path (including re)
	KindRect
	// KindLine is a single straight segment
	KindLine
)

// String returns the collection name for the kind
func (k Kind) String() string {
	switch k {
	case KindCurve:
		return "curve"
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Object is one painted path reduced to its bounding corners.
//
// All values are in points. X grows to the right from the left edge of the
// MediaBox; Top and Bottom grow downward from the top edge of the MediaBox,
// so Top <= Bottom for every object.
type Object struct {
	Kind   Kind    `json:"kind"`
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the object in points
func (o Object) Width() float64 {
	return o.X1 - o.X0
}

// Height returns the vertical extent of the object in points
func (o Object) Height() float64 {
	return o.Bottom - o.Top
}

// Size is a page size in points
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page holds the drawn geometry of a single page
type Page struct {
	Number   int      `json:"number"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation int      `json:"rotation"`
	Curves   []Object `json:"curves"`
	Rects    []Object `json:"rects"`
	Lines    []Object `json:"lines"`
}

// ObjectCount returns the number of objects across all three collections
func (p *Page) ObjectCount() int {
	return len(p.Curves) + len(p.Rects) + len(p.Lines)
}

// IsEmpty reports whether the page has no curves, rectangles or lines
func (p *Page) IsEmpty() bool {
	return p.ObjectCount() == 0
}

func (p *Page) add(o Object) {
	switch o.Kind {
	case KindRect:
		p.Rects = append(p.Rects, o)
	case KindLine:
		p.Lines = append(p.Lines, o)
	default:
		p.Curves = append(p.Curves, o)
	}
}
