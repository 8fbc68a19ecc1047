package bbox

import (
	"math"

	"github.com/a3tai/pdf-bbox/internal/pdf/geometry"
)

// Box is the minimal axis-aligned rectangle enclosing a set of objects.
// Values are in points; MinY and MaxY use the top-down page convention.
type Box struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX
func (b Box) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns MaxY - MinY
func (b Box) Height() float64 {
	return b.MaxY - b.MinY
}

// Pool reduces the corner points of every object in every collection to a
// single Box. Each object contributes (X0, Top) and (X1, Bottom). The second
// return value is false when the collections hold no objects at all.
func Pool(collections ...[]geometry.Object) (Box, bool) {
	box := Box{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
	found := false

	for _, objects := range collections {
		for _, o := range objects {
			found = true
			box.MinX = min(box.MinX, o.X0, o.X1)
			box.MaxX = max(box.MaxX, o.X0, o.X1)
			box.MinY = min(box.MinY, o.Top, o.Bottom)
			box.MaxY = max(box.MaxY, o.Top, o.Bottom)
		}
	}

	if !found {
		return Box{}, false
	}
	return box, true
}
