package bspline

import (
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ControlGrid is a grid of NU×NV control points. Point (k, l) is stored at
// Points[k*NV+l]: k runs in the u direction, l in the v direction.
type ControlGrid struct {
	NU, NV int
	Points []r3.Vec
}

func NewControlGrid(nu, nv int) ControlGrid {
	return ControlGrid{
		NU:     nu,
		NV:     nv,
		Points: make([]r3.Vec, nu*nv),
	}
}

// Index returns the flat index of point (k, l).
func (g ControlGrid) Index(k, l int) int {
	return k*g.NV + l
}

func (g ControlGrid) At(k, l int) r3.Vec {
	return g.Points[g.Index(k, l)]
}

func (g ControlGrid) Set(k, l int, p r3.Vec) {
	g.Points[g.Index(k, l)] = p
}

// Row returns the NV control points with u index k.
func (g ControlGrid) Row(k int) []r3.Vec {
	return slices.Clone(g.Points[k*g.NV : (k+1)*g.NV])
}

// Column returns the NU control points with v index l.
func (g ControlGrid) Column(l int) []r3.Vec {
	out := make([]r3.Vec, g.NU)
	for k := range out {
		out[k] = g.At(k, l)
	}
	return out
}

func (g ControlGrid) Clone() ControlGrid {
	return ControlGrid{
		NU:     g.NU,
		NV:     g.NV,
		Points: slices.Clone(g.Points),
	}
}

// Reshape unflattens per-axis coordinates into an nu×nv control grid. Entry
// k*nv+l of each vector becomes point (k, l). Vectors longer than nu*nv are
// allowed; trailing entries (such as Lagrange multipliers) are ignored.
func Reshape(x, y, z mat.Vector, nu, nv int) (ControlGrid, error) {
	n := nu * nv
	for _, v := range []mat.Vector{x, y, z} {
		if v.Len() < n {
			return ControlGrid{}, &DimensionMismatchError{What: "coordinate vector", Got: v.Len(), Want: n}
		}
	}
	g := NewControlGrid(nu, nv)
	for i := range n {
		g.Points[i] = r3.Vec{X: x.AtVec(i), Y: y.AtVec(i), Z: z.AtVec(i)}
	}
	return g, nil
}

// Surface is a tensor-product B-spline surface of the same degree in both
// directions.
type Surface struct {
	Degree int
	KnotsU KnotVector
	KnotsV KnotVector
	Grid   ControlGrid
}

// NewSurface returns a validated surface.
func NewSurface(degree int, knotsU, knotsV KnotVector, grid ControlGrid) (Surface, error) {
	s := Surface{
		Degree: degree,
		KnotsU: knotsU.Clone(),
		KnotsV: knotsV.Clone(),
		Grid:   grid.Clone(),
	}
	if err := s.Validate(); err != nil {
		return Surface{}, err
	}
	return s, nil
}

func (s Surface) Validate() error {
	if err := s.KnotsU.Validate(s.Degree); err != nil {
		return err
	}
	if err := s.KnotsV.Validate(s.Degree); err != nil {
		return err
	}
	return s.checkDims()
}

func (s Surface) checkDims() error {
	if want := s.KnotsU.NumControlPoints(s.Degree); s.Grid.NU != want {
		return &DimensionMismatchError{What: "control grid (u)", Got: s.Grid.NU, Want: want}
	}
	if want := s.KnotsV.NumControlPoints(s.Degree); s.Grid.NV != want {
		return &DimensionMismatchError{What: "control grid (v)", Got: s.Grid.NV, Want: want}
	}
	if len(s.Grid.Points) != s.Grid.NU*s.Grid.NV {
		return &DimensionMismatchError{What: "control grid", Got: len(s.Grid.Points), Want: s.Grid.NU * s.Grid.NV}
	}
	return nil
}

// Domain returns the parameter ranges in u and v.
func (s Surface) Domain() (u0, u1, v0, v1 float64) {
	u0, u1 = s.KnotsU.Domain(s.Degree)
	v0, v1 = s.KnotsV.Domain(s.Degree)
	return u0, u1, v0, v1
}

// Eval evaluates the surface at (u, v). It runs the de Boor-Cox algorithm in
// the v direction on each of the Degree+1 affected rows, then once more in
// the u direction on the results.
func (s Surface) Eval(u, v float64) (r3.Vec, error) {
	if err := s.checkDims(); err != nil {
		return r3.Vec{}, err
	}
	if err := s.KnotsU.checkParam(s.Degree, u); err != nil {
		return r3.Vec{}, err
	}
	if err := s.KnotsV.checkParam(s.Degree, v); err != nil {
		return r3.Vec{}, err
	}
	return s.eval(u, v), nil
}

func (s Surface) eval(u, v float64) r3.Vec {
	p := s.Degree
	ru := s.KnotsU.Span(p, u)
	rv := s.KnotsV.Span(p, v)
	q := make([]r3.Vec, p+1)
	d := make([]r3.Vec, p+1)
	for i := range q {
		k := ru - p + i
		copy(d, s.Grid.Points[s.Grid.Index(k, rv-p):s.Grid.Index(k, rv)+1])
		q[i] = deBoor(s.KnotsV, p, rv, v, d, lerp)
	}
	return deBoor(s.KnotsU, p, ru, u, q, lerp)
}

// Sample evaluates the surface on a regular nu×nv grid of parameters
// covering the whole domain. The result is indexed [i][j], i in u and j in v.
func (s Surface) Sample(nu, nv int) ([][]r3.Vec, error) {
	if err := s.checkDims(); err != nil {
		return nil, err
	}
	for _, n := range [2]int{nu, nv} {
		if err := checkCount(n); err != nil {
			return nil, err
		}
	}
	u0, u1, v0, v1 := s.Domain()
	us := linspace(u0, u1, nu)
	vs := linspace(v0, v1, nv)
	out := make([][]r3.Vec, nu)
	for i, u := range us {
		out[i] = make([]r3.Vec, nv)
		for j, v := range vs {
			out[i][j] = s.eval(u, v)
		}
	}
	return out, nil
}
