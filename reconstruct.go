package bspline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// surfaceDegree is the degree of the reconstructed surface and of its border
// curves.
const surfaceDegree = 3

// Config configures [Reconstruct].
type Config struct {
	// BreaksU and BreaksV are the numbers of distinct knots in the angular
	// and height directions. The surface has BreaksU+2 by BreaksV+2 control
	// points.
	BreaksU, BreaksV int
	// AngularTolerance is the largest angular distance, in radians, of a
	// point from the left or right border for it to be used to fit that
	// border.
	AngularTolerance float64
	// VerticalTolerance is the largest distance in height of a point from the
	// top or bottom border for it to be used to fit that border.
	VerticalTolerance float64
	Basis             BasisStrategy
}

// DefaultConfig returns the configuration used for Kinect scans of a torso.
func DefaultConfig() Config {
	return Config{
		BreaksU:           12,
		BreaksV:           12,
		AngularTolerance:  0.05,
		VerticalTolerance: 0.005,
		Basis:             StrategyDeBoorCox,
	}
}

func (cfg Config) Validate() error {
	if cfg.BreaksU < 2 || cfg.BreaksV < 2 {
		return fmt.Errorf("bspline: need at least 2 breakpoints per direction, got %d×%d", cfg.BreaksU, cfg.BreaksV)
	}
	if !(cfg.AngularTolerance > 0) || math.IsInf(cfg.AngularTolerance, 0) {
		return fmt.Errorf("bspline: invalid angular tolerance %g", cfg.AngularTolerance)
	}
	if !(cfg.VerticalTolerance > 0) || math.IsInf(cfg.VerticalTolerance, 0) {
		return fmt.Errorf("bspline: invalid vertical tolerance %g", cfg.VerticalTolerance)
	}
	switch cfg.Basis {
	case StrategyDeBoorCox, StrategyClosedFormCubic:
	default:
		return fmt.Errorf("bspline: unknown basis strategy %v", cfg.Basis)
	}
	return nil
}

// Reconstruction is the result of [Reconstruct].
type Reconstruction struct {
	Surface Surface
	// Borders are the fitted border curves the surface's boundary was
	// constrained to, before averaging the corners.
	Borders BorderCurves
	// Selected are the points inside the region. They were replaced by the
	// surface.
	Selected Selection
}

// Reconstruct fits a cubic B-spline surface to the points inside region.
//
// The points near each border of the region are approximated by a border
// curve first. The surface is then fitted to the points inside the region by
// least squares, subject to its boundary control points equalling the
// control points of the border curves, so that the surface joins the
// surrounding points without a visible seam.
//
// Any failure aborts the reconstruction; no partial result is returned.
func Reconstruct(points []r3.Vec, region Region, cfg Config) (*Reconstruction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	basis := NewBasisEvaluator(cfg.Basis)
	knotsU := ClampedUniform(region.ThetaMin, region.ThetaMax, cfg.BreaksU, surfaceDegree)
	knotsV := ClampedUniform(region.YMin, region.YMax, cfg.BreaksV, surfaceDegree)

	sel := SelectRegion(points, region)
	ne, err := BuildNormalEquations(sel.Points, sel.U, sel.V, knotsU, knotsV, surfaceDegree, basis)
	if err != nil {
		return nil, fmt.Errorf("fitting interior: %w", err)
	}

	samples := SelectBorders(points, region, cfg.AngularTolerance, cfg.VerticalTolerance)
	borders, err := FitBorders(samples, region, cfg)
	if err != nil {
		return nil, err
	}

	cons, err := BuildConstraints(ne.NU, ne.NV,
		borders[EdgeLeft].ControlPoints,
		borders[EdgeRight].ControlPoints,
		borders[EdgeTop].ControlPoints,
		borders[EdgeBottom].ControlPoints)
	if err != nil {
		return nil, err
	}
	grid, err := SolveConstrained(ne, cons)
	if err != nil {
		return nil, err
	}
	Logger().Debug("reconstructed surface", "nu", grid.NU, "nv", grid.NV, "seamResidual", cons.Residual(grid))

	s, err := NewSurface(surfaceDegree, knotsU, knotsV, grid)
	if err != nil {
		return nil, err
	}
	return &Reconstruction{
		Surface:  s,
		Borders:  borders,
		Selected: sel,
	}, nil
}
