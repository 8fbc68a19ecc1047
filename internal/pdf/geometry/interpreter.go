package geometry

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

const (
	// maxFormDepth bounds Form XObject nesting so self-referencing forms
	// cannot recurse forever.
	maxFormDepth = 16

	// maxInheritDepth bounds the walk up the page tree for inherited keys
	maxInheritDepth = 32
)

// defaultMediaBox is US Letter, used when no MediaBox can be found
var defaultMediaBox = [4]float64{0, 0, 612, 792}

// Parse interprets the content stream of a page and returns the painted
// curves, rectangles and lines it contains. number is only used for
// reporting. Malformed content is reported as an error.
func Parse(page pdf.Page, number int) (result *Page, err error) {
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", number)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("malformed content stream on page %d: %v", number, r)
		}
	}()

	box := MediaBox(page.V)
	rotate := Rotation(page.V)
	result = &Page{
		Number:   number,
		Width:    box[2] - box[0],
		Height:   box[3] - box[1],
		Rotation: rotate,
	}
	if rotate == 90 || rotate == 270 {
		result.Width, result.Height = result.Height, result.Width
	}

	in := &interpreter{
		page: result,
		ctm:  pageMatrix(box, rotate),
		top:  result.Height,
	}
	in.run(page.V.Key("Contents"), page.Resources(), 0)

	return result, nil
}

// MediaBox returns the normalized [llx lly urx ury] MediaBox of a page
// dictionary, following Parent links for the inherited value.
func MediaBox(v pdf.Value) [4]float64 {
	for i := 0; i < maxInheritDepth && !v.IsNull(); i++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			x0, y0 := mb.Index(0).Float64(), mb.Index(1).Float64()
			x1, y1 := mb.Index(2).Float64(), mb.Index(3).Float64()
			if x0 > x1 {
				x0, x1 = x1, x0
			}
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			return [4]float64{x0, y0, x1, y1}
		}
		v = v.Key("Parent")
	}
	return defaultMediaBox
}

// Rotation returns the inherited /Rotate of a page dictionary normalized
// to 0, 90, 180 or 270. Values that are not a multiple of 90 count as 0.
func Rotation(v pdf.Value) int {
	for i := 0; i < maxInheritDepth && !v.IsNull(); i++ {
		r := v.Key("Rotate")
		if k := r.Kind(); k == pdf.Integer || k == pdf.Real {
			deg := (int(r.Float64())%360 + 360) % 360
			if deg%90 != 0 {
				return 0
			}
			return deg
		}
		v = v.Key("Parent")
	}
	return 0
}

// pageMatrix maps user space onto the displayed page with its lower left
// corner at the origin, turning the page by rotate degrees clockwise.
func pageMatrix(box [4]float64, rotate int) Matrix {
	x0, y0, x1, y1 := box[0], box[1], box[2], box[3]
	switch rotate {
	case 90:
		return Matrix{0, -1, 1, 0, -y0, x1}
	case 180:
		return Matrix{-1, 0, 0, -1, x1, y1}
	case 270:
		return Matrix{0, 1, -1, 0, y1, -x0}
	default:
		return Matrix{1, 0, 0, 1, -x0, -y0}
	}
}

// interpreter tracks the graphics state needed to place paths on the page
type interpreter struct {
	page  *Page
	ctm   Matrix
	saved []Matrix
	path  path
	top   float64
}

func (in *interpreter) run(contents, resources pdf.Value, depth int) {
	if contents.IsNull() {
		return
	}

	streams := []pdf.Value{contents}
	if contents.Kind() == pdf.Array {
		streams = streams[:0]
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	}

	for _, strm := range streams {
		if strm.Kind() != pdf.Stream {
			continue
		}
		pdf.Interpret(withoutInlineImages(strm), func(stk *pdf.Stack, op string) {
			n := stk.Len()
			args := make([]pdf.Value, n)
			for i := n - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}
			in.apply(op, operandsOf(args), resources, depth)
		})
	}
}

// operands are the arguments of one content stream operator
type operands struct {
	nums []float64 // nil unless every operand is numeric
	name string    // set when the only operand is a name
}

func operandsOf(args []pdf.Value) operands {
	var ops operands
	if len(args) == 1 && args[0].Kind() == pdf.Name {
		ops.name = args[0].Name()
		return ops
	}
	nums := make([]float64, 0, len(args))
	for _, a := range args {
		if a.Kind() != pdf.Integer && a.Kind() != pdf.Real {
			return ops
		}
		nums = append(nums, a.Float64())
	}
	ops.nums = nums
	return ops
}

// want returns the numeric operands when there are exactly n of them
func (o operands) want(n int) ([]float64, bool) {
	if len(o.nums) != n {
		return nil, false
	}
	return o.nums, true
}

func (in *interpreter) apply(op string, args operands, resources pdf.Value, depth int) {
	switch op {
	case "q":
		in.saved = append(in.saved, in.ctm)
	case "Q":
		if len(in.saved) > 0 {
			in.ctm = in.saved[len(in.saved)-1]
			in.saved = in.saved[:len(in.saved)-1]
		}
	case "cm":
		if f, ok := args.want(6); ok {
			in.ctm = Matrix{f[0], f[1], f[2], f[3], f[4], f[5]}.Multiply(in.ctm)
		}

	case "m":
		if f, ok := args.want(2); ok {
			in.path.moveTo(in.ctm.Transform(f[0], f[1]))
		}
	case "l":
		if f, ok := args.want(2); ok {
			in.path.lineTo(in.ctm.Transform(f[0], f[1]))
		}
	case "c":
		if f, ok := args.want(6); ok {
			in.path.curveTo(
				in.ctm.Transform(f[0], f[1]),
				in.ctm.Transform(f[2], f[3]),
				in.ctm.Transform(f[4], f[5]),
			)
		}
	case "v":
		if f, ok := args.want(4); ok && in.path.hasCurrent {
			in.path.curveTo(in.path.current, in.ctm.Transform(f[0], f[1]), in.ctm.Transform(f[2], f[3]))
		}
	case "y":
		if f, ok := args.want(4); ok && in.path.hasCurrent {
			end := in.ctm.Transform(f[2], f[3])
			in.path.curveTo(in.ctm.Transform(f[0], f[1]), end, end)
		}
	case "h":
		in.path.closePath()
	case "re":
		if f, ok := args.want(4); ok {
			x, y, w, h := f[0], f[1], f[2], f[3]
			in.path.moveTo(in.ctm.Transform(x, y))
			in.path.lineTo(in.ctm.Transform(x+w, y))
			in.path.lineTo(in.ctm.Transform(x+w, y+h))
			in.path.lineTo(in.ctm.Transform(x, y+h))
			in.path.closePath()
		}

	case "S", "f", "F", "f*", "B", "B*":
		in.paint()
	case "s", "b", "b*":
		in.path.closePath()
		in.paint()
	case "n":
		in.path.reset()

	case "Do":
		if args.name != "" {
			in.drawForm(args.name, resources, depth)
		}
	}
}

// paint emits one object per subpath of the current path and clears it
func (in *interpreter) paint() {
	if in.path.isEmpty() {
		return
	}
	for _, sp := range in.path.subpaths() {
		kind, b, ok := classify(sp)
		if !ok {
			continue
		}
		in.page.add(Object{
			Kind:   kind,
			X0:     b.minX,
			X1:     b.maxX,
			Top:    in.top - b.maxY,
			Bottom: in.top - b.minY,
		})
	}
	in.path.reset()
}

// drawForm interprets a Form XObject in place. Image XObjects carry no
// path geometry and are skipped.
func (in *interpreter) drawForm(name string, resources pdf.Value, depth int) {
	if depth >= maxFormDepth {
		return
	}
	xobj := resources.Key("XObject").Key(name)
	if xobj.Kind() != pdf.Stream || xobj.Key("Subtype").Name() != "Form" {
		return
	}

	formResources := xobj.Key("Resources")
	if formResources.IsNull() {
		formResources = resources
	}

	ctm := in.ctm
	if m, ok := arrayMatrix(xobj.Key("Matrix")); ok {
		ctm = m.Multiply(ctm)
	}

	child := &interpreter{
		page: in.page,
		ctm:  ctm,
		top:  in.top,
	}
	child.run(xobj, formResources, depth+1)
}

func arrayMatrix(v pdf.Value) (Matrix, bool) {
	if v.Kind() != pdf.Array || v.Len() != 6 {
		return Matrix{}, false
	}
	var m Matrix
	for i := range m {
		e := v.Index(i)
		if e.Kind() != pdf.Integer && e.Kind() != pdf.Real {
			return Matrix{}, false
		}
		m[i] = e.Float64()
	}
	return m, true
}
