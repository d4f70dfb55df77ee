// Package bspline provides B-spline and Bézier curves and surfaces, together
// with the least-squares machinery needed to reconstruct a smooth surface
// patch from a scanned point cloud.
//
// # Features
//
// We provide the following notable features:
//
//   - Basis function evaluation, either generic (see [DeBoorCox]) or as a
//     closed-form cubic (see [ClosedFormCubic])
//   - Curve evaluation with the de Boor-Cox algorithm (see [Curve.Eval])
//   - Knot insertion and subdivision (see [Curve.InsertKnot] and [Curve.Subdivide])
//   - Conversion to piecewise Bézier form (see [Curve.BezierForm] and [Curve.Segments])
//   - Least-squares fitting of curves and tensor-product surfaces (see [FitCurve]
//     and [BuildNormalEquations])
//   - Stitching a surface to four independently fitted border curves (see
//     [BuildConstraints] and [SolveConstrained])
//   - A complete reconstruction pipeline for cylindrical regions of a scan (see
//     [Reconstruct]), and triangulation of the result (see [Surface.Mesh] and
//     [Merge])
//   - Interactive editing of control points (see [Deformer])
//
// # Knot vectors and control points
//
// All splines in this package are clamped: a [KnotVector] of degree d starts
// and ends with d+1 equal knots, so that the curve interpolates its first and
// last control points. A curve with N+1 control points has N+d+2 knots, and
// its parametric domain is [knots[d], knots[N+1]]. Evaluating outside of the
// domain is an error ([ErrDomain]) rather than an extrapolation.
//
// Control points are [r3.Vec] values. Planar curves simply leave Z at zero.
//
// # Control grids
//
// Tensor-product surfaces store their control points in a [ControlGrid]. The
// grid is row-major with the u direction major: point (k, l) is stored at
// index k*NV + l. The normal equations, the seam constraints and
// [Reshape] all rely on this layout, and it must not be changed independently
// in any of them.
//
// # Errors
//
// Fitting has no safe fallback. A singular system, a border curve of the wrong
// length or a broken knot vector aborts the operation with an error that
// matches one of [ErrDomain], [ErrSingularSystem], [ErrDimensionMismatch] or
// [ErrDegenerateKnots] via [errors.Is]. No partially valid control grid is ever
// returned.
//
// # Literature
//
// This package makes use of the following ideas:
//   - [The NURBS Book] by Piegl and Tiller (algorithms A2.1 and A5.1)
//   - [An Introduction to B-Spline Curves] by Thomas W. Sederberg
//   - [Constrained least squares] via Lagrange multipliers
//
// [The NURBS Book]: https://doi.org/10.1007/978-3-642-59223-2
// [An Introduction to B-Spline Curves]: https://cagd.cs.byu.edu/~557/text/ch6.pdf
// [Constrained least squares]: https://en.wikipedia.org/wiki/Constrained_least_squares
// [r3.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r3#Vec
package bspline
