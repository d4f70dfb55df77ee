package bspline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// NormalEquations is the least-squares system AᵀA·c = Aᵀp for fitting a
// tensor-product surface to scattered data. A has one row per data point and
// one column per control point; column k*NV+l holds B_k(u)·B_l(v).
type NormalEquations struct {
	ATA           *mat.SymDense
	ATx, ATy, ATz *mat.VecDense
	NU, NV        int
}

// NumControlPoints returns NU*NV.
func (ne *NormalEquations) NumControlPoints() int {
	return ne.NU * ne.NV
}

// BuildNormalEquations builds the normal equations for fitting a surface of
// the given degree over knotsU×knotsV to points, where point i has the
// parameters (u[i], v[i]).
//
// It fails with a [*SingularSystemError] if there are fewer points than
// control points, or if some basis function isn't supported by any data
// point, which happens when a knot interval contains no parameters.
func BuildNormalEquations(points []r3.Vec, u, v []float64, knotsU, knotsV KnotVector, degree int, basis BasisEvaluator) (*NormalEquations, error) {
	if len(u) != len(points) {
		return nil, &DimensionMismatchError{What: "u parameters", Got: len(u), Want: len(points)}
	}
	if len(v) != len(points) {
		return nil, &DimensionMismatchError{What: "v parameters", Got: len(v), Want: len(points)}
	}
	if err := knotsU.Validate(degree); err != nil {
		return nil, err
	}
	if err := knotsV.Validate(degree); err != nil {
		return nil, err
	}
	nu := knotsU.NumControlPoints(degree)
	nv := knotsV.NumControlPoints(degree)
	n := nu * nv
	if len(points) < n {
		return nil, &SingularSystemError{
			System: "normal equations",
			Reason: fmt.Sprintf("%d data points for %d control points", len(points), n),
		}
	}
	Logger().Debug("building normal equations", "points", len(points), "nu", nu, "nv", nv)

	ne := &NormalEquations{
		ATA: mat.NewSymDense(n, nil),
		ATx: mat.NewVecDense(n, nil),
		ATy: mat.NewVecDense(n, nil),
		ATz: mat.NewVecDense(n, nil),
		NU:  nu,
		NV:  nv,
	}
	bu := make([]float64, degree+1)
	bv := make([]float64, degree+1)
	cols := make([]int, 0, (degree+1)*(degree+1))
	vals := make([]float64, 0, (degree+1)*(degree+1))
	for i, p := range points {
		ku, err := nonzeroBasis(basis, knotsU, degree, u[i], bu)
		if err != nil {
			return nil, err
		}
		kv, err := nonzeroBasis(basis, knotsV, degree, v[i], bv)
		if err != nil {
			return nil, err
		}

		// Only the (degree+1)² columns in the support of (u, v) are
		// non-zero in this row of A.
		cols, vals = cols[:0], vals[:0]
		for a := range bu {
			for b := range bv {
				cols = append(cols, (ku+a)*nv+kv+b)
				vals = append(vals, bu[a]*bv[b])
			}
		}
		accumulate(ne.ATA, []*mat.VecDense{ne.ATx, ne.ATy, ne.ATz}, []float64{p.X, p.Y, p.Z}, cols, vals)
	}

	if k := zeroDiagonal(ne.ATA); k >= 0 {
		return nil, &SingularSystemError{
			System: "normal equations",
			Reason: fmt.Sprintf("control point (%d, %d) has no data coverage", k/nv, k%nv),
		}
	}
	return ne, nil
}

// Solve solves the normal equations for each axis and returns the control
// grid. The system matrix is factorized only once.
func (ne *NormalEquations) Solve() (ControlGrid, error) {
	xs, err := solveSPD("normal equations", ne.ATA, ne.ATx, ne.ATy, ne.ATz)
	if err != nil {
		return ControlGrid{}, err
	}
	return Reshape(xs[0], xs[1], xs[2], ne.NU, ne.NV)
}

// FitCurve computes the least-squares approximation of points by a curve of
// the given degree over knots, where point i has the parameter params[i].
func FitCurve(points []r3.Vec, params []float64, knots KnotVector, degree int, basis BasisEvaluator) (Curve, error) {
	if len(params) != len(points) {
		return Curve{}, &DimensionMismatchError{What: "curve parameters", Got: len(params), Want: len(points)}
	}
	if err := knots.Validate(degree); err != nil {
		return Curve{}, err
	}
	n := knots.NumControlPoints(degree)
	if len(points) < n {
		return Curve{}, &SingularSystemError{
			System: "curve fit",
			Reason: fmt.Sprintf("%d data points for %d control points", len(points), n),
		}
	}

	ata := mat.NewSymDense(n, nil)
	rhs := []*mat.VecDense{mat.NewVecDense(n, nil), mat.NewVecDense(n, nil), mat.NewVecDense(n, nil)}
	b := make([]float64, degree+1)
	cols := make([]int, degree+1)
	for i, p := range points {
		k, err := nonzeroBasis(basis, knots, degree, params[i], b)
		if err != nil {
			return Curve{}, err
		}
		for j := range cols {
			cols[j] = k + j
		}
		accumulate(ata, rhs, []float64{p.X, p.Y, p.Z}, cols, b)
	}
	if k := zeroDiagonal(ata); k >= 0 {
		return Curve{}, &SingularSystemError{
			System: "curve fit",
			Reason: fmt.Sprintf("control point %d has no data coverage", k),
		}
	}

	xs, err := solveSPD("curve fit", ata, rhs...)
	if err != nil {
		return Curve{}, err
	}
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{X: xs[0].AtVec(i), Y: xs[1].AtVec(i), Z: xs[2].AtVec(i)}
	}
	return Curve{Degree: degree, Knots: knots.Clone(), ControlPoints: pts}, nil
}

// nonzeroBasis stores the values of the degree+1 basis functions that may be
// non-zero at t into dst, and returns the index of the first one.
func nonzeroBasis(basis BasisEvaluator, kv KnotVector, degree int, t float64, dst []float64) (int, error) {
	if err := kv.checkParam(degree, t); err != nil {
		return 0, err
	}
	first := kv.Span(degree, t) - degree
	for j := range dst {
		b, err := basis.Eval(kv, degree, first+j, t)
		if err != nil {
			return 0, err
		}
		dst[j] = b
	}
	return first, nil
}

// accumulate adds the contribution of one sparse row of A, with entries vals
// at columns cols, to AᵀA and to the right-hand sides Aᵀy.
func accumulate(ata *mat.SymDense, rhs []*mat.VecDense, y []float64, cols []int, vals []float64) {
	for a, ca := range cols {
		if vals[a] == 0 {
			continue
		}
		for b, cb := range cols {
			if cb < ca || vals[b] == 0 {
				continue
			}
			ata.SetSym(ca, cb, ata.At(ca, cb)+vals[a]*vals[b])
		}
		for i, r := range rhs {
			r.SetVec(ca, r.AtVec(ca)+vals[a]*y[i])
		}
	}
}

// zeroDiagonal returns the index of the first zero diagonal entry of m, or -1.
func zeroDiagonal(m *mat.SymDense) int {
	for i := range m.SymmetricDim() {
		if m.At(i, i) == 0 {
			return i
		}
	}
	return -1
}

// solveSPD solves m·x = b for each b using a single Cholesky factorization.
func solveSPD(system string, m *mat.SymDense, bs ...*mat.VecDense) ([]*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(m); !ok {
		return nil, &SingularSystemError{System: system, Reason: "matrix is not positive definite"}
	}
	out := make([]*mat.VecDense, len(bs))
	for i, b := range bs {
		var x mat.VecDense
		if err := chol.SolveVecTo(&x, b); err != nil {
			return nil, &SingularSystemError{System: system, Err: err}
		}
		out[i] = &x
	}
	return out, nil
}
