package bspline

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestGridMesh(t *testing.T) {
	grid := [][]r3.Vec{
		{Pt(0, 0, 0), Pt(0, 1, 0)},
		{Pt(1, 0, 0), Pt(1, 1, 0)},
		{Pt(2, 0, 0), Pt(2, 1, 0)},
	}
	m := gridMesh(grid)
	diff(t, []r3.Vec{
		Pt(0, 0, 0), Pt(0, 1, 0),
		Pt(1, 0, 0), Pt(1, 1, 0),
		Pt(2, 0, 0), Pt(2, 1, 0),
	}, m.Vertices)
	diff(t, [][3]int{
		{2, 1, 0}, {2, 3, 1},
		{4, 3, 2}, {4, 5, 3},
	}, m.Faces)

	if m := gridMesh(grid[:1]); len(m.Faces) != 0 || len(m.Vertices) != 2 {
		t.Errorf("single row: got %d vertices and %d faces", len(m.Vertices), len(m.Faces))
	}
}

func TestSurfaceMesh(t *testing.T) {
	s := planeSurface(ClampedUniform(0, 1, 4, 3), ClampedUniform(0, 1, 3, 3))
	m, err := s.Mesh(7, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 7*6 {
		t.Errorf("got %d vertices, want %d", len(m.Vertices), 7*6)
	}
	if len(m.Faces) != 2*6*5 {
		t.Errorf("got %d faces, want %d", len(m.Faces), 2*6*5)
	}
	// Vertex i*nv+j is the sample at (u_i, v_j).
	diff(t, Pt(0.5, 0.4, 0.6), m.Vertices[3*6+2], approx(1e-12))
}

func square() Mesh {
	return Mesh{
		Vertices: []r3.Vec{Pt(0, 0, 0), Pt(1, 0, 0), Pt(1, 1, 0), Pt(0, 1, 0)},
		Faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestRemoveVertices(t *testing.T) {
	m := square()
	got := m.RemoveVertices([]int{1, 1, 17, -2})
	diff(t, Mesh{
		Vertices: []r3.Vec{Pt(0, 0, 0), Pt(1, 1, 0), Pt(0, 1, 0)},
		Faces:    [][3]int{{0, 1, 2}},
	}, got)
	// The receiver is left alone.
	diff(t, square(), m)

	if got := m.RemoveVertices(nil); len(got.Vertices) != 4 || len(got.Faces) != 2 {
		t.Errorf("removing nothing changed the mesh: %v", got)
	}
}

func TestMerge(t *testing.T) {
	patch := Mesh{
		Vertices: []r3.Vec{Pt(2, 0, 0), Pt(2, 1, 0), Pt(3, 0, 0)},
		Faces:    [][3]int{{0, 2, 1}},
	}
	got := Merge(square(), []int{3}, patch)
	diff(t, Mesh{
		Vertices: []r3.Vec{
			Pt(0, 0, 0), Pt(1, 0, 0), Pt(1, 1, 0),
			Pt(2, 0, 0), Pt(2, 1, 0), Pt(3, 0, 0),
		},
		Faces: [][3]int{{0, 1, 2}, {3, 5, 4}},
	}, got)
}
