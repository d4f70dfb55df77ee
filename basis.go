package bspline

import "fmt"

// BasisEvaluator evaluates a single B-spline basis function.
//
// Eval returns the value of basis function i of the given degree over knots
// at parameter t. The knot vector must be valid for the degree (see
// [KnotVector.Validate]). t must lie in the domain of the knot vector,
// otherwise a [*DomainError] is returned. Indices outside of [0, N] evaluate
// to zero.
//
// At the right end of the domain, evaluation uses the left limit, so the
// basis functions sum to one on the whole closed domain.
type BasisEvaluator interface {
	Eval(knots KnotVector, degree, i int, t float64) (float64, error)
}

var (
	_ BasisEvaluator = DeBoorCox{}
	_ BasisEvaluator = ClosedFormCubic{}
)

// BasisStrategy selects an implementation of [BasisEvaluator].
type BasisStrategy int

const (
	// StrategyDeBoorCox selects [DeBoorCox]. It supports any degree.
	StrategyDeBoorCox BasisStrategy = iota
	// StrategyClosedFormCubic selects [ClosedFormCubic]. It only supports
	// degree 3.
	StrategyClosedFormCubic
)

func (s BasisStrategy) String() string {
	switch s {
	case StrategyDeBoorCox:
		return "deboor"
	case StrategyClosedFormCubic:
		return "cubic"
	default:
		return fmt.Sprintf("BasisStrategy(%d)", int(s))
	}
}

// ParseBasisStrategy parses the names returned by [BasisStrategy.String].
func ParseBasisStrategy(s string) (BasisStrategy, error) {
	switch s {
	case "deboor":
		return StrategyDeBoorCox, nil
	case "cubic":
		return StrategyClosedFormCubic, nil
	default:
		return 0, fmt.Errorf("bspline: unknown basis strategy %q", s)
	}
}

func (s BasisStrategy) MarshalText() ([]byte, error) {
	switch s {
	case StrategyDeBoorCox, StrategyClosedFormCubic:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("bspline: unknown basis strategy %d", int(s))
	}
}

func (s *BasisStrategy) UnmarshalText(b []byte) error {
	v, err := ParseBasisStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// NewBasisEvaluator returns the evaluator for s.
func NewBasisEvaluator(s BasisStrategy) BasisEvaluator {
	switch s {
	case StrategyClosedFormCubic:
		return ClosedFormCubic{}
	default:
		return DeBoorCox{}
	}
}

// DeBoorCox evaluates basis functions of any degree by running the de Boor-Cox
// triangular scheme on a unit coefficient vector.
type DeBoorCox struct{}

// Eval implements [BasisEvaluator].
func (DeBoorCox) Eval(kv KnotVector, degree, i int, t float64) (float64, error) {
	if err := kv.checkParam(degree, t); err != nil {
		return 0, err
	}
	if i < 0 || i >= kv.NumControlPoints(degree) {
		return 0, nil
	}
	r := kv.Span(degree, t)
	if i < r-degree || i > r {
		return 0, nil
	}
	d := make([]float64, degree+1)
	d[i-(r-degree)] = 1
	return deBoor(kv, degree, r, t, d, lerpScalar), nil
}

// deBoor runs the de Boor-Cox recursion in place on d, which holds the
// coefficients with indices [r-degree, r]. It returns the value at t.
//
// In step j, coefficient i becomes
//
//	((t-k[i])·d[i] + (k[i+degree+1-j]-t)·d[i-1]) / (k[i+degree+1-j]-k[i])
//
// A zero denominator contributes nothing. That cannot happen for a non-empty
// span r, but the recursion must not divide by zero regardless.
func deBoor[T any](kv KnotVector, degree, r int, t float64, d []T, blend func(a, b T, alpha float64) T) T {
	for j := 1; j <= degree; j++ {
		for i := degree; i >= j; i-- {
			k := r - degree + i
			den := kv[k+degree+1-j] - kv[k]
			var alpha float64
			if den != 0 {
				alpha = (t - kv[k]) / den
			}
			d[i] = blend(d[i-1], d[i], alpha)
		}
	}
	return d[degree]
}

// ClosedFormCubic evaluates cubic basis functions with explicit polynomials.
//
// Basis function i is supported on the five knots a, b, c, d, e =
// knots[i..i+4] and consists of up to four cubic pieces, one per non-empty
// interval [a, b), [b, c), [c, d), and [d, e). Near the clamped ends several
// of these knots coincide, so the first and last three basis functions have
// fewer pieces. Terms whose denominator vanishes are dropped.
//
// The results agree with [DeBoorCox] to rounding error. ClosedFormCubic
// avoids allocating and is somewhat faster when the degree is known to be 3.
type ClosedFormCubic struct{}

// Eval implements [BasisEvaluator]. It returns [ErrUnsupportedDegree] for
// degrees other than 3.
func (ClosedFormCubic) Eval(kv KnotVector, degree, i int, t float64) (float64, error) {
	if degree != 3 {
		return 0, fmt.Errorf("%w: closed form requires degree 3, got %d", ErrUnsupportedDegree, degree)
	}
	if err := kv.checkParam(degree, t); err != nil {
		return 0, err
	}
	if i < 0 || i >= kv.NumControlPoints(degree) {
		return 0, nil
	}

	a, b, c, d, e := kv[i], kv[i+1], kv[i+2], kv[i+3], kv[i+4]
	// The span identifies the piece; it is never an empty interval.
	switch kv.Span(degree, t) - i {
	case 0:
		return cubicPiece0(a, b, c, d, t), nil
	case 1:
		return cubicPiece1(a, b, c, d, e, t), nil
	case 2:
		return cubicPiece2(a, b, c, d, e, t), nil
	case 3:
		return cubicPiece3(b, c, d, e, t), nil
	default:
		return 0, nil
	}
}

// quot returns num/den, or 0 if den is 0.
func quot(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func cubicPiece0(a, b, c, d, t float64) float64 {
	ta := t - a
	return quot(ta*ta*ta, (d-a)*(c-a)*(b-a))
}

func cubicPiece1(a, b, c, d, e, t float64) float64 {
	ta, tb := t-a, t-b
	return quot(ta*ta*(c-t), (d-a)*(c-a)*(c-b)) +
		quot(ta*tb*(d-t), (d-a)*(d-b)*(c-b)) +
		quot(tb*tb*(e-t), (e-b)*(d-b)*(c-b))
}

func cubicPiece2(a, b, c, d, e, t float64) float64 {
	dt, et := d-t, e-t
	return quot((t-a)*dt*dt, (d-a)*(d-b)*(d-c)) +
		quot((t-b)*et*dt, (e-b)*(d-b)*(d-c)) +
		quot((t-c)*et*et, (e-b)*(e-c)*(d-c))
}

func cubicPiece3(b, c, d, e, t float64) float64 {
	et := e - t
	return quot(et*et*et, (e-b)*(e-c)*(e-d))
}
