package bspline

import (
	"fmt"
	"iter"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Curve is a clamped B-spline curve.
//
// Operations that refine the curve return a new Curve and never modify the
// receiver's slices.
type Curve struct {
	Degree        int
	Knots         KnotVector
	ControlPoints []r3.Vec
}

// NewCurve returns a validated curve. It fails if the knot vector is
// degenerate or if the number of control points doesn't match it.
func NewCurve(degree int, controlPoints []r3.Vec, knots KnotVector) (Curve, error) {
	c := Curve{
		Degree:        degree,
		Knots:         knots.Clone(),
		ControlPoints: append([]r3.Vec(nil), controlPoints...),
	}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Validate checks the knot vector and the number of control points.
func (c Curve) Validate() error {
	if err := c.Knots.Validate(c.Degree); err != nil {
		return err
	}
	return c.checkDims()
}

func (c Curve) checkDims() error {
	if want := c.Knots.NumControlPoints(c.Degree); len(c.ControlPoints) != want {
		return &DimensionMismatchError{What: "control polygon", Got: len(c.ControlPoints), Want: want}
	}
	return nil
}

// Domain returns the parameter range over which the curve is defined.
func (c Curve) Domain() (float64, float64) {
	return c.Knots.Domain(c.Degree)
}

// Start returns the first control point, which the curve interpolates.
func (c Curve) Start() r3.Vec {
	return c.ControlPoints[0]
}

// End returns the last control point, which the curve interpolates.
func (c Curve) End() r3.Vec {
	return c.ControlPoints[len(c.ControlPoints)-1]
}

// Eval evaluates the curve at t with the de Boor-Cox algorithm, operating on
// the control points directly.
func (c Curve) Eval(t float64) (r3.Vec, error) {
	if err := c.checkDims(); err != nil {
		return r3.Vec{}, err
	}
	if err := c.Knots.checkParam(c.Degree, t); err != nil {
		return r3.Vec{}, err
	}
	return c.eval(t), nil
}

// eval evaluates the curve without checking its arguments.
func (c Curve) eval(t float64) r3.Vec {
	r := c.Knots.Span(c.Degree, t)
	d := make([]r3.Vec, c.Degree+1)
	copy(d, c.ControlPoints[r-c.Degree:r+1])
	return deBoor(c.Knots, c.Degree, r, t, d, lerp)
}

// Sample evaluates the curve at n evenly spaced parameters covering the
// whole domain.
func (c Curve) Sample(n int) ([]r3.Vec, error) {
	if err := c.checkDims(); err != nil {
		return nil, err
	}
	if err := checkCount(n); err != nil {
		return nil, err
	}
	lo, hi := c.Domain()
	out := make([]r3.Vec, 0, n)
	for _, t := range linspace(lo, hi, n) {
		out = append(out, c.eval(t))
	}
	return out, nil
}

// InsertKnot inserts the knot t and returns the refined curve, which has one
// more control point and describes exactly the same shape.
//
// t must lie strictly inside the domain. Inserting a knot that already has
// multiplicity Degree fails with a [*DegenerateKnotError].
func (c Curve) InsertKnot(t float64) (Curve, error) {
	if err := c.checkDims(); err != nil {
		return Curve{}, err
	}
	lo, hi := c.Domain()
	if !(t > lo && t < hi) {
		return Curve{}, &DomainError{T: t, Min: lo, Max: hi}
	}
	if m := c.Knots.Multiplicity(t); m >= c.Degree {
		return Curve{}, &DegenerateKnotError{Index: -1, Reason: fmt.Sprintf("knot %g already has multiplicity %d", t, m)}
	}

	p := c.Degree
	kv := c.Knots
	r := kv.Span(p, t)
	n := len(c.ControlPoints)

	pts := make([]r3.Vec, n+1)
	copy(pts[:r-p+1], c.ControlPoints[:r-p+1])
	copy(pts[r+1:], c.ControlPoints[r:])
	// One step of the de Boor-Cox recursion.
	for i := r - p + 1; i <= r; i++ {
		den := kv[i+p] - kv[i]
		var alpha float64
		if den != 0 {
			alpha = (t - kv[i]) / den
		}
		pts[i] = lerp(c.ControlPoints[i-1], c.ControlPoints[i], alpha)
	}

	return Curve{
		Degree:        p,
		Knots:         kv.insert(r+1, t),
		ControlPoints: pts,
	}, nil
}

// Subdivide inserts a knot at the midpoint of every non-empty knot interval
// of the domain and returns the refined curve. Applying it repeatedly makes
// the control polygon converge to the curve.
//
// The midpoints are computed from the receiver's knots, but each insertion
// locates its span in the knot vector as it stands after the previous
// insertions.
func (c Curve) Subdivide() (Curve, error) {
	if err := c.checkDims(); err != nil {
		return Curve{}, err
	}
	p := c.Degree
	kv := c.Knots
	var mids []float64
	for i := p; i < len(kv)-p-1; i++ {
		if kv[i] < kv[i+1] {
			mids = append(mids, 0.5*(kv[i]+kv[i+1]))
		}
	}

	out := c
	for _, t := range mids {
		var err error
		out, err = out.InsertKnot(t)
		if err != nil {
			return Curve{}, err
		}
	}
	return out, nil
}

// BezierForm returns the curve with every interior knot raised to
// multiplicity Degree. The control polygon of the result is a composite of
// Bézier control polygons of Degree+1 points each, consecutive polygons
// sharing their end points. Use [Curve.Segments] to iterate over them.
func (c Curve) BezierForm() (Curve, error) {
	if err := c.checkDims(); err != nil {
		return Curve{}, err
	}
	lo, hi := c.Domain()
	out := c
	for _, t := range c.Knots.Breakpoints() {
		if t <= lo || t >= hi {
			continue
		}
		for m := c.Knots.Multiplicity(t); m < c.Degree; m++ {
			var err error
			out, err = out.InsertKnot(t)
			if err != nil {
				return Curve{}, err
			}
		}
	}
	return out, nil
}

// Segments returns an iterator over the Bézier pieces of the curve, in
// increasing parameter order. The curve is converted to Bézier form first if
// necessary. A curve that cannot be converted yields no segments;
// [Curve.BezierForm] reports why.
func (c Curve) Segments() iter.Seq[BezierSegment] {
	return func(yield func(BezierSegment) bool) {
		bf, err := c.BezierForm()
		if err != nil {
			return
		}
		p := bf.Degree
		bps := bf.Knots.Breakpoints()
		for s := 0; s+1 < len(bps); s++ {
			seg := BezierSegment{
				Start:   bps[s],
				End:     bps[s+1],
				Segment: slices.Clone(Bezier(bf.ControlPoints[s*p : s*p+p+1])),
			}
			if !yield(seg) {
				return
			}
		}
	}
}
