package geometry

import "math"

// segment operators recorded in a path's shape
const (
	opMove  = 'm'
	opLine  = 'l'
	opCurve = 'c'
	opClose = 'h'
)

// segment is one path construction step. Points are already in default user
// space; a close segment carries the start point of its subpath.
type segment struct {
	op     byte
	points []Point
}

// path is the path under construction between a moveto and a painting
// operator. It mirrors the m/l/c/v/y/h/re operators.
type path struct {
	segments   []segment
	start      Point
	current    Point
	hasCurrent bool
}

func (p *path) moveTo(pt Point) {
	p.segments = append(p.segments, segment{op: opMove, points: []Point{pt}})
	p.start = pt
	p.current = pt
	p.hasCurrent = true
}

func (p *path) lineTo(pt Point) {
	if !p.hasCurrent {
		p.moveTo(pt)
		return
	}
	p.segments = append(p.segments, segment{op: opLine, points: []Point{pt}})
	p.current = pt
}

// curveTo appends a cubic Bézier. The control points stay in the segment
// because the bounding corners of a curve include them.
func (p *path) curveTo(c1, c2, end Point) {
	if !p.hasCurrent {
		p.moveTo(c1)
	}
	p.segments = append(p.segments, segment{op: opCurve, points: []Point{c1, c2, end}})
	p.current = end
}

func (p *path) closePath() {
	if !p.hasCurrent {
		return
	}
	// closing an already closed subpath is a no-op
	if n := len(p.segments); n > 0 && p.segments[n-1].op == opClose {
		return
	}
	p.segments = append(p.segments, segment{op: opClose, points: []Point{p.start}})
	p.current = p.start
}

func (p *path) reset() {
	p.segments = p.segments[:0]
	p.hasCurrent = false
}

func (p *path) isEmpty() bool {
	return len(p.segments) == 0
}

// subpaths splits the path at every moveto. When the path holds more than
// one subpath, a bare moveto with nothing after it paints nothing.
func (p *path) subpaths() [][]segment {
	var out [][]segment
	var cur []segment
	for _, s := range p.segments {
		if s.op == opMove && len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
		cur = append(cur, s)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	if len(out) < 2 {
		return out
	}

	kept := out[:0]
	for _, sp := range out {
		if len(sp) > 1 {
			kept = append(kept, sp)
		}
	}
	return kept
}

// bounds is an axis-aligned box in bottom-up PDF user space
type bounds struct {
	minX, maxX float64
	minY, maxY float64
}

// classify reports the kind and user-space bounds of one subpath. The last
// return value is false when the subpath has no points.
func classify(sp []segment) (Kind, bounds, bool) {
	shape := make([]byte, 0, len(sp))
	var pts []Point
	for _, s := range sp {
		shape = append(shape, s.op)
		pts = append(pts, s.points...)
	}
	if len(pts) == 0 {
		return KindCurve, bounds{}, false
	}

	kind := KindCurve
	switch string(shape) {
	case "ml", "mlh":
		kind = KindLine
		pts = pts[:2]
	case "mlllh", "mllll":
		if isRectangle(pts) {
			kind = KindRect
		}
	}

	b := bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
	}
	for _, pt := range pts {
		b.minX = math.Min(b.minX, pt.X)
		b.maxX = math.Max(b.maxX, pt.X)
		b.minY = math.Min(b.minY, pt.Y)
		b.maxY = math.Max(b.maxY, pt.Y)
	}
	return kind, b, true
}

// isRectangle reports whether five points form a closed loop whose edges
// alternate between vertical and horizontal.
func isRectangle(pts []Point) bool {
	if len(pts) != 5 {
		return false
	}
	p0, p1, p2, p3, p4 := pts[0], pts[1], pts[2], pts[3], pts[4]
	if p0 != p4 {
		return false
	}
	verticalFirst := p0.X == p1.X && p1.Y == p2.Y && p2.X == p3.X && p3.Y == p0.Y
	horizontalFirst := p0.Y == p1.Y && p1.X == p2.X && p2.Y == p3.Y && p3.X == p0.X
	return verticalFirst || horizontalFirst
}
