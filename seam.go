package bspline

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Constraints is the linear system H·c = b that pins the boundary control
// points of an NU×NV grid to four border curves. H is a 0/1 incidence matrix
// with one row per boundary control point and one column per control point
// of the grid, in the layout of [ControlGrid].
//
// The rows are ordered as follows:
//
//   - rows [0, NV) bind the left edge, point (0, i) to row i
//   - for each interior column k in [1, NU-1), a pair of rows binds the
//     bottom point (k, 0) followed by the top point (k, NV-1)
//   - the last NV rows bind the right edge, point (NU-1, i)
//
// Every corner is bound once, to the mean of the two border curves that meet
// there.
type Constraints struct {
	H          *mat.Dense
	Bx, By, Bz *mat.VecDense
	NU, NV     int
}

// NumConstraints returns the number of rows of H, 2·NV + 2·NU - 4.
func (c *Constraints) NumConstraints() int {
	return 2*c.NV + 2*c.NU - 4
}

// BuildConstraints builds the constraint system for an nu×nv grid. left and
// right must have nv control points, ordered by increasing v; top and bottom
// must have nu control points, ordered by increasing u.
func BuildConstraints(nu, nv int, left, right, top, bottom []r3.Vec) (*Constraints, error) {
	if nu < 2 {
		return nil, &DimensionMismatchError{What: "grid (u)", Got: nu, Want: 2}
	}
	if nv < 2 {
		return nil, &DimensionMismatchError{What: "grid (v)", Got: nv, Want: 2}
	}
	for _, e := range []struct {
		name string
		pts  []r3.Vec
		want int
	}{
		{"left border", left, nv},
		{"right border", right, nv},
		{"top border", top, nu},
		{"bottom border", bottom, nu},
	} {
		if len(e.pts) != e.want {
			return nil, &DimensionMismatchError{What: e.name, Got: len(e.pts), Want: e.want}
		}
	}

	c := &Constraints{NU: nu, NV: nv}
	rows := c.NumConstraints()
	numPC := nu * nv
	c.H = mat.NewDense(rows, numPC, nil)
	c.Bx = mat.NewVecDense(rows, nil)
	c.By = mat.NewVecDense(rows, nil)
	c.Bz = mat.NewVecDense(rows, nil)
	bind := func(row, col int, p r3.Vec) {
		c.H.Set(row, col, 1)
		c.Bx.SetVec(row, p.X)
		c.By.SetVec(row, p.Y)
		c.Bz.SetVec(row, p.Z)
	}

	// Left edge.
	for i := range nv {
		p := left[i]
		switch i {
		case 0:
			p = midpoint(left[0], bottom[0])
		case nv - 1:
			p = midpoint(left[nv-1], top[0])
		}
		bind(i, i, p)
	}

	// Interior columns, bottom then top.
	row := nv
	for k := 1; k < nu-1; k++ {
		bind(row, k*nv, bottom[k])
		bind(row+1, (k+1)*nv-1, top[k])
		row += 2
	}

	// Right edge.
	for i := range nv {
		p := right[i]
		switch i {
		case 0:
			p = midpoint(right[0], bottom[nu-1])
		case nv - 1:
			p = midpoint(right[nv-1], top[nu-1])
		}
		bind(rows-nv+i, numPC-nv+i, p)
	}

	Logger().Debug("built seam constraints", "rows", rows, "cols", numPC)
	return c, nil
}

// Residual returns the largest absolute difference between H·c and b over
// all rows and axes.
func (c *Constraints) Residual(g ControlGrid) float64 {
	xs, ys, zs := splitAxes(g.Points)
	var worst float64
	for _, ax := range []struct {
		c []float64
		b *mat.VecDense
	}{{xs, c.Bx}, {ys, c.By}, {zs, c.Bz}} {
		var hc mat.VecDense
		hc.MulVec(c.H, mat.NewVecDense(len(ax.c), ax.c))
		for i := range hc.Len() {
			worst = math.Max(worst, math.Abs(hc.AtVec(i)-ax.b.AtVec(i)))
		}
	}
	return worst
}

// SolveConstrained minimizes the least-squares residual of ne subject to the
// constraints c, using Lagrange multipliers. It solves the saddle-point
// system
//
//	[AᵀA Hᵀ] [c]   [Aᵀp]
//	[H   0 ] [λ] = [b  ]
//
// once per axis, sharing a single LU factorization, and returns the control
// grid. The multipliers are discarded.
func SolveConstrained(ne *NormalEquations, c *Constraints) (ControlGrid, error) {
	if ne.NU != c.NU {
		return ControlGrid{}, &DimensionMismatchError{What: "constraint grid (u)", Got: c.NU, Want: ne.NU}
	}
	if ne.NV != c.NV {
		return ControlGrid{}, &DimensionMismatchError{What: "constraint grid (v)", Got: c.NV, Want: ne.NV}
	}
	n := ne.NumControlPoints()
	m := c.NumConstraints()
	if r, cols := c.H.Dims(); r != m || cols != n {
		return ControlGrid{}, &DimensionMismatchError{What: "constraint matrix", Got: r * cols, Want: m * n}
	}

	kkt := mat.NewDense(n+m, n+m, nil)
	kkt.Slice(0, n, 0, n).(*mat.Dense).Copy(ne.ATA)
	kkt.Slice(0, n, n, n+m).(*mat.Dense).Copy(c.H.T())
	kkt.Slice(n, n+m, 0, n).(*mat.Dense).Copy(c.H)
	Logger().Debug("solving saddle-point system", "size", n+m)

	var lu mat.LU
	lu.Factorize(kkt)
	var sol [3]*mat.VecDense
	for i, rhs := range [][2]*mat.VecDense{{ne.ATx, c.Bx}, {ne.ATy, c.By}, {ne.ATz, c.Bz}} {
		b := mat.NewVecDense(n+m, nil)
		b.SliceVec(0, n).(*mat.VecDense).CopyVec(rhs[0])
		b.SliceVec(n, n+m).(*mat.VecDense).CopyVec(rhs[1])
		var x mat.VecDense
		if err := lu.SolveVecTo(&x, false, b); err != nil {
			return ControlGrid{}, &SingularSystemError{System: "saddle-point system", Err: err}
		}
		sol[i] = &x
	}
	return Reshape(sol[0], sol[1], sol[2], ne.NU, ne.NV)
}
