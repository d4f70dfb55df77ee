package bspline

import (
	"errors"
	"fmt"
)

// Sentinel errors. Errors returned by this package match exactly one of them
// via [errors.Is]; the typed errors below carry the details.
var (
	// ErrDomain is returned when a parameter lies outside of
	// [knots[d], knots[N+1]].
	ErrDomain = errors.New("bspline: parameter outside of knot domain")

	// ErrSingularSystem is returned when the normal equations or the
	// augmented saddle-point system cannot be solved.
	ErrSingularSystem = errors.New("bspline: singular system")

	// ErrDimensionMismatch is returned when the sizes of inputs don't agree,
	// e.g. a border curve whose length differs from the grid edge.
	ErrDimensionMismatch = errors.New("bspline: dimension mismatch")

	// ErrDegenerateKnots is returned for knot vectors that are not
	// non-decreasing, not clamped, or that have too many repeated knots.
	ErrDegenerateKnots = errors.New("bspline: degenerate knot vector")

	// ErrUnsupportedDegree is returned by evaluators that only support a
	// fixed degree.
	ErrUnsupportedDegree = errors.New("bspline: unsupported degree")

	// ErrPointInMotion is returned by [Deformer.Grab] when another control
	// point is already being moved.
	ErrPointInMotion = errors.New("bspline: another control point is in motion")

	// ErrNoPointInMotion is returned by [Deformer.Move] when no control
	// point has been grabbed.
	ErrNoPointInMotion = errors.New("bspline: no control point is in motion")
)

// DomainError describes a parameter outside of a spline's domain.
type DomainError struct {
	T        float64
	Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("bspline: parameter %g outside of knot domain [%g, %g]", e.T, e.Min, e.Max)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// SingularSystemError describes a linear system that could not be solved.
// Err, if set, is the underlying cause reported by the solver, such as a
// [mat.Condition].
//
// [mat.Condition]: https://pkg.go.dev/gonum.org/v1/gonum/mat#Condition
type SingularSystemError struct {
	// System names the system, e.g. "normal equations".
	System string
	Reason string
	Err    error
}

func (e *SingularSystemError) Error() string {
	msg := "bspline: singular " + e.System
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SingularSystemError) Is(target error) bool { return target == ErrSingularSystem }
func (e *SingularSystemError) Unwrap() error        { return e.Err }

// DimensionMismatchError describes an input whose length differs from what
// was expected.
type DimensionMismatchError struct {
	What      string
	Got, Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("bspline: dimension mismatch: %s has length %d, want %d", e.What, e.Got, e.Want)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// DegenerateKnotError describes a knot vector that violates the clamped,
// non-decreasing invariant. Index is the offending position, or -1 if the
// problem isn't tied to a single knot.
type DegenerateKnotError struct {
	Index  int
	Reason string
}

func (e *DegenerateKnotError) Error() string {
	if e.Index < 0 {
		return "bspline: degenerate knot vector: " + e.Reason
	}
	return fmt.Sprintf("bspline: degenerate knot vector at index %d: %s", e.Index, e.Reason)
}

func (e *DegenerateKnotError) Is(target error) bool { return target == ErrDegenerateKnots }

// checkCount rejects negative sample counts.
func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("bspline: sample count %d is negative: %w", n, ErrDimensionMismatch)
	}
	return nil
}
