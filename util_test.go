package bspline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats, including the fields of points, to within an
// absolute tolerance.
func approx(tol float64) cmp.Option {
	return cmpopts.EquateApprox(0, tol)
}

func ptNear(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// testCurve is a cubic over [0, 3] whose control points form a unit square
// followed by two interior points.
func testCurve() Curve {
	return Curve{
		Degree: 3,
		Knots:  KnotVector{0, 0, 0, 0, 1, 2, 3, 3, 3, 3},
		ControlPoints: []r3.Vec{
			Pt(0, 0, 0),
			Pt(1, 0, 0),
			Pt(1, 1, 0),
			Pt(0, 1, 0),
			Pt(0.25, 0.25, 0),
			Pt(0.75, 0.75, 0),
		},
	}
}

// nonUniformKnots is a clamped cubic knot vector over 8 unevenly spaced
// breakpoints.
func nonUniformKnots() KnotVector {
	return KnotVector{0, 0, 0, 0, 0.5, 1.25, 2, 3.5, 4, 5.5, 7, 7, 7, 7}
}
