package bspline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Theta returns the cylindrical angle of p about the y axis. The angle is 0
// on the positive z axis and grows towards the negative x axis. It lies in
// [-π/2, 3π/2), so that a region facing the negative z axis is contiguous.
// Points on the y axis itself have angle 0.
func Theta(p r3.Vec) float64 {
	th := math.Atan2(-p.X, p.Z)
	if th < -math.Pi/2 {
		th += 2 * math.Pi
	}
	return th
}

// Region is a rectangle in cylindrical coordinates: an angular range about
// the y axis and a height range along it.
type Region struct {
	ThetaMin, ThetaMax float64
	YMin, YMax         float64
}

// Contains reports whether the angle theta and height y lie strictly inside
// r.
func (r Region) Contains(theta, y float64) bool {
	return theta > r.ThetaMin && theta < r.ThetaMax && y > r.YMin && y < r.YMax
}

// Validate checks that both ranges are finite and non-empty.
func (r Region) Validate() error {
	for _, v := range []float64{r.ThetaMin, r.ThetaMax, r.YMin, r.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bspline: region %v has non-finite bounds", r)
		}
	}
	if r.ThetaMin >= r.ThetaMax {
		return fmt.Errorf("bspline: empty angular range [%g, %g]", r.ThetaMin, r.ThetaMax)
	}
	if r.YMin >= r.YMax {
		return fmt.Errorf("bspline: empty height range [%g, %g]", r.YMin, r.YMax)
	}
	return nil
}

// Selection is the set of points that lie inside a region, together with
// their surface parameters: U is the angle and V the height.
type Selection struct {
	Indices []int
	Points  []r3.Vec
	U, V    []float64
}

// Len returns the number of selected points.
func (s Selection) Len() int {
	return len(s.Indices)
}

// Complement returns the indices in [0, n) that are not part of s, in
// increasing order.
func (s Selection) Complement(n int) []int {
	in := make([]bool, n)
	for _, i := range s.Indices {
		if i >= 0 && i < n {
			in[i] = true
		}
	}
	out := make([]int, 0, n-len(s.Indices))
	for i, ok := range in {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// SelectRegion returns the points strictly inside r.
func SelectRegion(points []r3.Vec, r Region) Selection {
	var sel Selection
	for i, p := range points {
		th := Theta(p)
		if !r.Contains(th, p.Y) {
			continue
		}
		sel.Indices = append(sel.Indices, i)
		sel.Points = append(sel.Points, p)
		sel.U = append(sel.U, th)
		sel.V = append(sel.V, p.Y)
	}
	Logger().Debug("selected region", "region", r, "selected", sel.Len(), "total", len(points))
	return sel
}

// Edge identifies one of the four borders of a region.
type Edge int

const (
	// EdgeLeft is the border at ThetaMin.
	EdgeLeft Edge = iota
	// EdgeRight is the border at ThetaMax.
	EdgeRight
	// EdgeTop is the border at YMax.
	EdgeTop
	// EdgeBottom is the border at YMin.
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// BorderSample holds the points close to one border of a region. Params are
// the heights of the points for the left and right borders and their angles
// for the top and bottom borders.
type BorderSample struct {
	Edge   Edge
	Points []r3.Vec
	Params []float64
}

func (s *BorderSample) add(p r3.Vec, t float64) {
	s.Points = append(s.Points, p)
	s.Params = append(s.Params, t)
}

// SelectBorders returns the points close to each of the four borders of r,
// indexed by [Edge]. A point belongs to the left border if its height is
// strictly inside the height range and its angle is within angTol of
// ThetaMin; the other borders are defined alike, with vertTol bounding the
// distance in height for the top and bottom borders. A point may belong to
// several borders.
func SelectBorders(points []r3.Vec, r Region, angTol, vertTol float64) [4]BorderSample {
	var out [4]BorderSample
	for e := range out {
		out[e].Edge = Edge(e)
	}
	near := func(a, b, tol float64) bool { return a > b-tol && a < b+tol }
	for _, p := range points {
		th := Theta(p)
		if p.Y > r.YMin && p.Y < r.YMax {
			if near(th, r.ThetaMin, angTol) {
				out[EdgeLeft].add(p, p.Y)
			}
			if near(th, r.ThetaMax, angTol) {
				out[EdgeRight].add(p, p.Y)
			}
		}
		if th > r.ThetaMin && th < r.ThetaMax {
			if near(p.Y, r.YMax, vertTol) {
				out[EdgeTop].add(p, th)
			}
			if near(p.Y, r.YMin, vertTol) {
				out[EdgeBottom].add(p, th)
			}
		}
	}
	return out
}

// BorderCurves holds the four border curves of a region, indexed by [Edge].
// Left and right are parametrized by height, top and bottom by angle.
type BorderCurves [4]Curve

// FitBorders approximates each border sample by a cubic curve with uniform
// knots: the left and right curves over the height range of r with
// cfg.BreaksV breakpoints, the top and bottom curves over the angular range
// with cfg.BreaksU breakpoints. The resulting curves have as many control
// points as the edges of the surface fitted with the same configuration.
//
// The corners of neighbouring curves are fitted independently and generally
// don't coincide; see [BuildConstraints].
func FitBorders(samples [4]BorderSample, r Region, cfg Config) (BorderCurves, error) {
	var out BorderCurves
	basis := NewBasisEvaluator(cfg.Basis)
	for e, s := range samples {
		var kv KnotVector
		switch Edge(e) {
		case EdgeLeft, EdgeRight:
			kv = ClampedUniform(r.YMin, r.YMax, cfg.BreaksV, surfaceDegree)
		default:
			kv = ClampedUniform(r.ThetaMin, r.ThetaMax, cfg.BreaksU, surfaceDegree)
		}
		if n := kv.NumControlPoints(surfaceDegree); len(s.Points) < 2*n {
			Logger().Warn("few samples for border curve", "edge", Edge(e), "samples", len(s.Points), "controlPoints", n)
		}
		c, err := FitCurve(s.Points, s.Params, kv, surfaceDegree, basis)
		if err != nil {
			return BorderCurves{}, fmt.Errorf("fitting %s border: %w", Edge(e), err)
		}
		out[e] = c
	}
	return out, nil
}
