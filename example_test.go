package bspline_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bspline"
)

func ExampleCurve_Eval() {
	c, err := bspline.NewCurve(3, []r3.Vec{
		bspline.Pt(0, 0, 0),
		bspline.Pt(1, 0, 0),
		bspline.Pt(1, 1, 0),
		bspline.Pt(0, 1, 0),
		bspline.Pt(0.25, 0.25, 0),
		bspline.Pt(0.75, 0.75, 0),
	}, bspline.KnotVector{0, 0, 0, 0, 1, 2, 3, 3, 3, 3})
	if err != nil {
		panic(err)
	}
	p, err := c.Eval(1.5)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.7f %.7f\n", p.X, p.Y)
	// Output:
	// 0.5078125 0.9453125
}

func ExampleCurve_Segments() {
	c, err := bspline.NewCurve(2, []r3.Vec{
		bspline.Pt(0, 0, 0),
		bspline.Pt(1, 2, 0),
		bspline.Pt(3, 2, 0),
		bspline.Pt(4, 0, 0),
	}, bspline.KnotVector{0, 0, 0, 1, 2, 2, 2})
	if err != nil {
		panic(err)
	}
	for seg := range c.Segments() {
		fmt.Printf("[%g, %g]:", seg.Start, seg.End)
		for _, p := range seg.Segment {
			fmt.Printf(" (%g, %g)", p.X, p.Y)
		}
		fmt.Println()
	}
	// Output:
	// [0, 1]: (0, 0) (1, 2) (2, 2)
	// [1, 2]: (2, 2) (3, 2) (4, 0)
}
