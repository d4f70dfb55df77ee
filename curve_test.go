package bspline

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCurveEval(t *testing.T) {
	c := testCurve()
	tests := []struct {
		t    float64
		want r3.Vec
	}{
		{0, Pt(0, 0, 0)},
		{0.5, Pt(41.0/48, 0.28125, 0)},
		{1, Pt(5.0/6, 0.75, 0)},
		{1.5, Pt(65.0/128, 121.0/128, 0)},
		{2, Pt(11.0/48, 0.8125, 0)},
		{2.5, Pt(0.2630208333333333, 0.5234375, 0)},
		{3, Pt(0.75, 0.75, 0)},
	}
	for _, tt := range tests {
		got, err := c.Eval(tt.t)
		if err != nil {
			t.Fatal(err)
		}
		if !ptNear(got, tt.want, 1e-9) {
			t.Errorf("Eval(%g) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestCurveEvalMatchesBasis(t *testing.T) {
	c := Curve{
		Degree: 3,
		Knots:  nonUniformKnots(),
		ControlPoints: []r3.Vec{
			Pt(0, 0, 0), Pt(1, 2, 0), Pt(2, -1, 1), Pt(3, 0, 2), Pt(4, 3, 1),
			Pt(5, 1, 0), Pt(6, 0, -1), Pt(7, 2, 0), Pt(8, 1, 1), Pt(9, 0, 0),
		},
	}
	for _, x := range linspace(0, 7, 57) {
		var want r3.Vec
		for i, p := range c.ControlPoints {
			b, err := DeBoorCox{}.Eval(c.Knots, c.Degree, i, x)
			if err != nil {
				t.Fatal(err)
			}
			want = r3.Add(want, r3.Scale(b, p))
		}
		got, err := c.Eval(x)
		if err != nil {
			t.Fatal(err)
		}
		if !ptNear(got, want, 1e-9) {
			t.Errorf("Eval(%g) = %v, want %v", x, got, want)
		}
	}
}

func TestNewCurve(t *testing.T) {
	c := testCurve()
	if _, err := NewCurve(3, c.ControlPoints[:5], c.Knots); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
	if _, err := NewCurve(3, c.ControlPoints, KnotVector{0, 0, 1, 2, 3, 3}); !errors.Is(err, ErrDegenerateKnots) {
		t.Errorf("got %v, want ErrDegenerateKnots", err)
	}
	nc, err := NewCurve(3, c.ControlPoints, c.Knots)
	if err != nil {
		t.Fatal(err)
	}
	// NewCurve copies its inputs.
	c.ControlPoints[0] = Pt(9, 9, 9)
	if nc.Start() != Pt(0, 0, 0) {
		t.Errorf("curve shares control points with caller")
	}
	if _, err := nc.Eval(-1); !errors.Is(err, ErrDomain) {
		t.Errorf("got %v, want ErrDomain", err)
	}
}

func TestInsertKnot(t *testing.T) {
	c := testCurve()
	want, err := c.Sample(100)
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{1.5, 0.25, 1, 2.999} {
		nc, err := c.InsertKnot(x)
		if err != nil {
			t.Fatalf("InsertKnot(%g): %v", x, err)
		}
		if len(nc.ControlPoints) != len(c.ControlPoints)+1 || len(nc.Knots) != len(c.Knots)+1 {
			t.Errorf("InsertKnot(%g) didn't add exactly one knot and control point", x)
		}
		if err := nc.Validate(); err != nil {
			t.Errorf("InsertKnot(%g): %v", x, err)
		}
		got, err := nc.Sample(100)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, want, got, approx(1e-9))
	}

	// The receiver is left alone.
	diff(t, testCurve(), c)
}

func TestInsertKnotResult(t *testing.T) {
	c := testCurve()
	nc, err := c.InsertKnot(1.5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, KnotVector{0, 0, 0, 0, 1, 1.5, 2, 3, 3, 3, 3}, nc.Knots)
	// Span 4: points 2 to 4 are blended, the others are copied.
	wantPts := []r3.Vec{
		Pt(0, 0, 0),
		Pt(1, 0, 0),
		Pt(1, 0.75, 0),
		Pt(0.5, 1, 0),
		Pt(0.0625, 0.8125, 0),
		Pt(0.25, 0.25, 0),
		Pt(0.75, 0.75, 0),
	}
	diff(t, wantPts, nc.ControlPoints, approx(1e-12))
}

func TestInsertKnotErrors(t *testing.T) {
	c := testCurve()
	for _, x := range []float64{0, 3, -1, 4} {
		if _, err := c.InsertKnot(x); !errors.Is(err, ErrDomain) {
			t.Errorf("InsertKnot(%g): got %v, want ErrDomain", x, err)
		}
	}

	nc := c
	for range 2 {
		var err error
		nc, err = nc.InsertKnot(1)
		if err != nil {
			t.Fatal(err)
		}
	}
	if _, err := nc.InsertKnot(1); !errors.Is(err, ErrDegenerateKnots) {
		t.Errorf("got %v, want ErrDegenerateKnots", err)
	}
}

func TestSubdivide(t *testing.T) {
	c := testCurve()
	sc, err := c.Subdivide()
	if err != nil {
		t.Fatal(err)
	}
	diff(t, KnotVector{0, 0, 0, 0, 0.5, 1, 1.5, 2, 2.5, 3, 3, 3, 3}, sc.Knots)
	if len(sc.ControlPoints) != 9 {
		t.Errorf("got %d control points, want 9", len(sc.ControlPoints))
	}

	want, _ := c.Sample(100)
	for range 3 {
		got, err := sc.Sample(100)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, want, got, approx(1e-9))
		sc, err = sc.Subdivide()
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestSubdivideNonUniform(t *testing.T) {
	c := Curve{
		Degree: 3,
		Knots:  KnotVector{0, 0, 0, 0, 0.5, 0.5, 1.25, 2, 3.5, 3.5, 3.5, 3.5},
		ControlPoints: []r3.Vec{
			Pt(0, 0, 0), Pt(1, 2, 0), Pt(2, -1, 1), Pt(3, 0, 2),
			Pt(4, 3, 1), Pt(5, 1, 0), Pt(6, 0, -1), Pt(7, 2, 0),
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	sc, err := c.Subdivide()
	if err != nil {
		t.Fatal(err)
	}
	// One midpoint per non-empty interval.
	diff(t, KnotVector{0, 0, 0, 0, 0.25, 0.5, 0.5, 0.875, 1.25, 1.625, 2, 2.75, 3.5, 3.5, 3.5, 3.5}, sc.Knots)

	want, _ := c.Sample(100)
	got, _ := sc.Sample(100)
	diff(t, want, got, approx(1e-9))
}

func TestBezierForm(t *testing.T) {
	c := testCurve()
	bf, err := c.BezierForm()
	if err != nil {
		t.Fatal(err)
	}
	diff(t, KnotVector{0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 3}, bf.Knots)
	if len(bf.ControlPoints) != 3*3+1 {
		t.Errorf("got %d control points, want 10", len(bf.ControlPoints))
	}

	var n int
	var prev BezierSegment
	for seg := range c.Segments() {
		if seg.Segment.Degree() != 3 {
			t.Errorf("segment %d has degree %d", n, seg.Segment.Degree())
		}
		if n > 0 && seg.Segment.Start() != prev.Segment.End() {
			t.Errorf("segments %d and %d don't share an end point", n-1, n)
		}
		for _, x := range linspace(seg.Start, seg.End, 20) {
			want, err := c.Eval(x)
			if err != nil {
				t.Fatal(err)
			}
			if got := seg.Eval(x); !ptNear(got, want, 1e-9) {
				t.Errorf("segment %d at %g: got %v, want %v", n, x, got, want)
			}
		}
		prev = seg
		n++
	}
	if n != 3 {
		t.Errorf("got %d segments, want 3", n)
	}
}

func TestBezierFormDoubleKnot(t *testing.T) {
	c := Curve{
		Degree: 3,
		Knots:  KnotVector{0, 0, 0, 0, 1, 1, 2, 2, 2, 2},
		ControlPoints: []r3.Vec{
			Pt(0, 0, 0), Pt(1, 1, 0), Pt(2, 0, 0), Pt(3, 1, 0), Pt(4, 0, 0), Pt(5, 1, 0),
		},
	}
	bf, err := c.BezierForm()
	if err != nil {
		t.Fatal(err)
	}
	// Only one insertion is needed to raise the double knot to multiplicity 3.
	diff(t, KnotVector{0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 2}, bf.Knots)
	want, _ := c.Sample(50)
	got, _ := bf.Sample(50)
	diff(t, want, got, approx(1e-9))
}

func BenchmarkCurveEval(b *testing.B) {
	c := testCurve()
	for range b.N {
		c.Eval(1.5)
	}
}

func BenchmarkSubdivide(b *testing.B) {
	c := testCurve()
	for range b.N {
		c.Subdivide()
	}
}

func TestSampleCounts(t *testing.T) {
	c := testCurve()
	for _, n := range []int{0, 1} {
		pts, err := c.Sample(n)
		if err != nil {
			t.Fatalf("Sample(%d): %v", n, err)
		}
		if len(pts) != n {
			t.Errorf("Sample(%d) returned %d points", n, len(pts))
		}
	}
	if _, err := c.Sample(-1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestSegmentsMalformed(t *testing.T) {
	c := testCurve()
	c.ControlPoints = c.ControlPoints[:4]
	if _, err := c.BezierForm(); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	for seg := range c.Segments() {
		t.Errorf("unexpected segment %v", seg)
	}
}
