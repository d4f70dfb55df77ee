package bspline

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Bezier is a Bézier curve of degree len(b)-1, defined by its control
// polygon. It is parametrized over [0, 1].
type Bezier []r3.Vec

func (b Bezier) Degree() int {
	return len(b) - 1
}

// Eval evaluates the curve at t using de Casteljau's algorithm.
func (b Bezier) Eval(t float64) r3.Vec {
	if len(b) == 0 {
		return r3.Vec{}
	}
	d := make([]r3.Vec, len(b))
	copy(d, b)
	for j := len(d) - 1; j > 0; j-- {
		for i := range j {
			d[i] = lerp(d[i], d[i+1], t)
		}
	}
	return d[0]
}

// Subdivide subdivides the curve into halves, using de Casteljau.
func (b Bezier) Subdivide() (Bezier, Bezier) {
	n := len(b)
	left := make(Bezier, n)
	right := make(Bezier, n)
	d := make([]r3.Vec, n)
	copy(d, b)
	for j := range n {
		left[j] = d[0]
		right[n-1-j] = d[n-1-j]
		for i := range n - 1 - j {
			d[i] = midpoint(d[i], d[i+1])
		}
	}
	return left, right
}

func (b Bezier) Start() r3.Vec {
	return b[0]
}

func (b Bezier) End() r3.Vec {
	return b[len(b)-1]
}

// BezierSegment is one piece of a B-spline in Bézier form. The piece covers
// the parameter range [Start, End] of the B-spline; Segment is parametrized
// over [0, 1].
type BezierSegment struct {
	Start, End float64
	Segment    Bezier
}

// Eval evaluates the segment at the B-spline parameter t.
func (s BezierSegment) Eval(t float64) r3.Vec {
	return s.Segment.Eval((t - s.Start) / (s.End - s.Start))
}
