package bspline

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Pt returns the point (x, y, z).
func Pt(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// lerp linearly interpolates between two points: (1-t)·p + t·o.
func lerp(p, o r3.Vec, t float64) r3.Vec {
	return r3.Vec{
		X: p.X + t*(o.X-p.X),
		Y: p.Y + t*(o.Y-p.Y),
		Z: p.Z + t*(o.Z-p.Z),
	}
}

func lerpScalar(a, b, t float64) float64 {
	return a + t*(b-a)
}

// midpoint returns the midpoint of two points.
func midpoint(p, o r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(p, o))
}

// linspace returns n evenly spaced values over [a, b]. Both ends are included
// exactly.
func linspace(a, b float64, n int) []float64 {
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// splitAxes returns the X, Y, and Z coordinates of pts as separate slices.
func splitAxes(pts []r3.Vec) (xs, ys, zs []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	zs = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}
