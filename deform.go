package bspline

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Deformer edits the control points of a surface one at a time, as in an
// interactive editor: a control point is grabbed, moved any number of
// times, and released. At most one point is in motion at a time.
//
// A Deformer is not safe for concurrent use.
type Deformer struct {
	surface Surface
	// k and l index the point in motion; k is -1 if there is none.
	k, l int
}

// NewDeformer returns a deformer that edits a copy of s.
func NewDeformer(s Surface) (*Deformer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.KnotsU = s.KnotsU.Clone()
	s.KnotsV = s.KnotsV.Clone()
	s.Grid = s.Grid.Clone()
	return &Deformer{surface: s, k: -1}, nil
}

// Surface returns a copy of the current surface.
func (d *Deformer) Surface() Surface {
	s := d.surface
	s.KnotsU = s.KnotsU.Clone()
	s.KnotsV = s.KnotsV.Clone()
	s.Grid = s.Grid.Clone()
	return s
}

// Pick returns the first control point, in grid order, whose distance from p
// is less than eps.
func (d *Deformer) Pick(p r3.Vec, eps float64) (k, l int, ok bool) {
	g := d.surface.Grid
	for i, q := range g.Points {
		if r3.Norm(r3.Sub(p, q)) < eps {
			return i / g.NV, i % g.NV, true
		}
	}
	return -1, -1, false
}

// Grab puts control point (k, l) in motion. Grabbing the point that is
// already in motion does nothing; grabbing any other point fails with
// [ErrPointInMotion] until [Deformer.Release] is called.
func (d *Deformer) Grab(k, l int) error {
	g := d.surface.Grid
	if k < 0 || k >= g.NU || l < 0 || l >= g.NV {
		return fmt.Errorf("bspline: control point (%d, %d) outside of %d×%d grid", k, l, g.NU, g.NV)
	}
	if d.k >= 0 && (d.k != k || d.l != l) {
		return fmt.Errorf("%w: (%d, %d)", ErrPointInMotion, d.k, d.l)
	}
	d.k, d.l = k, l
	return nil
}

// Moving returns the control point in motion.
func (d *Deformer) Moving() (k, l int, ok bool) {
	if d.k < 0 {
		return -1, -1, false
	}
	return d.k, d.l, true
}

// Move moves the control point in motion to p and returns the resulting
// surface. The returned surface shares nothing with the deformer and
// reflects all moves so far.
func (d *Deformer) Move(p r3.Vec) (Surface, error) {
	if d.k < 0 {
		return Surface{}, ErrNoPointInMotion
	}
	d.surface.Grid.Set(d.k, d.l, p)
	return d.Surface(), nil
}

// Release ends the motion of the current control point, if any.
func (d *Deformer) Release() {
	d.k, d.l = -1, -1
}
