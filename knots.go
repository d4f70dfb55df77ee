package bspline

import "fmt"

// KnotVector is a non-decreasing sequence of knots. For degree d and N+1
// control points it has N+d+2 entries, the first d+1 and the last d+1 of which
// are equal.
//
// Knot vectors are treated as immutable; operations that add knots return new
// vectors.
type KnotVector []float64

// ClampedUniform returns a clamped knot vector of the given degree whose
// distinct knots are breaks evenly spaced values over [a, b]. The resulting
// spline has breaks+degree-1 control points.
func ClampedUniform(a, b float64, breaks, degree int) KnotVector {
	inner := linspace(a, b, breaks)
	kv := make(KnotVector, 0, breaks+2*degree)
	for range degree {
		kv = append(kv, a)
	}
	kv = append(kv, inner...)
	for range degree {
		kv = append(kv, b)
	}
	return kv
}

func (kv KnotVector) Clone() KnotVector {
	return append(KnotVector(nil), kv...)
}

// NumControlPoints returns the number of control points, N+1, that a spline
// of the given degree over kv has.
func (kv KnotVector) NumControlPoints(degree int) int {
	return len(kv) - degree - 1
}

// Domain returns the parametric domain [knots[d], knots[N+1]].
func (kv KnotVector) Domain(degree int) (float64, float64) {
	return kv[degree], kv[len(kv)-degree-1]
}

// Validate checks that kv is a clamped, non-decreasing knot vector of the
// given degree with a non-empty domain and no interior knot of multiplicity
// greater than degree.
func (kv KnotVector) Validate(degree int) error {
	if degree < 1 {
		return &DegenerateKnotError{Index: -1, Reason: fmt.Sprintf("degree %d is less than 1", degree)}
	}
	if len(kv) < 2*(degree+1) {
		return &DegenerateKnotError{Index: -1, Reason: fmt.Sprintf("%d knots is too few for degree %d", len(kv), degree)}
	}
	for i := 1; i < len(kv); i++ {
		if !(kv[i] >= kv[i-1]) {
			return &DegenerateKnotError{Index: i, Reason: fmt.Sprintf("knot %g follows %g", kv[i], kv[i-1])}
		}
	}
	for i := 1; i <= degree; i++ {
		if kv[i] != kv[0] {
			return &DegenerateKnotError{Index: i, Reason: "start is not clamped"}
		}
		if j := len(kv) - 1 - i; kv[j] != kv[len(kv)-1] {
			return &DegenerateKnotError{Index: j, Reason: "end is not clamped"}
		}
	}
	lo, hi := kv.Domain(degree)
	if lo >= hi {
		return &DegenerateKnotError{Index: -1, Reason: "empty domain"}
	}
	for i := degree + 1; i < len(kv)-degree-1; {
		m := kv.Multiplicity(kv[i])
		if m > degree {
			return &DegenerateKnotError{Index: i, Reason: fmt.Sprintf("interior knot %g has multiplicity %d", kv[i], m)}
		}
		i += m
	}
	return nil
}

// Span returns the index r such that knots[r] <= t < knots[r+1], restricted to
// [d, N]. Values at or past the end of the domain map to N, so that the
// domain is closed on the right.
//
// This is algorithm A2.1 from The NURBS Book.
func (kv KnotVector) Span(degree int, t float64) int {
	n := len(kv) - degree - 2
	if t >= kv[n+1] {
		return n
	}
	if t < kv[degree] {
		return degree
	}

	low, high := degree, n+1
	mid := (low + high) / 2
	for t < kv[mid] || t >= kv[mid+1] {
		if t < kv[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// Multiplicity returns how often t occurs in kv.
func (kv KnotVector) Multiplicity(t float64) int {
	var n int
	for _, k := range kv {
		if k == t {
			n++
		}
	}
	return n
}

// Breakpoints returns the distinct knot values of kv in increasing order.
func (kv KnotVector) Breakpoints() []float64 {
	var out []float64
	for i, k := range kv {
		if i == 0 || k != kv[i-1] {
			out = append(out, k)
		}
	}
	return out
}

// checkParam returns a [*DomainError] if t is outside of the domain.
func (kv KnotVector) checkParam(degree int, t float64) error {
	lo, hi := kv.Domain(degree)
	if !(t >= lo && t <= hi) {
		return &DomainError{T: t, Min: lo, Max: hi}
	}
	return nil
}

// insert returns a copy of kv with t inserted at position i.
func (kv KnotVector) insert(i int, t float64) KnotVector {
	out := make(KnotVector, 0, len(kv)+1)
	out = append(out, kv[:i]...)
	out = append(out, t)
	out = append(out, kv[i:]...)
	return out
}
