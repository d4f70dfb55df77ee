package bspline

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Mesh samples s on a regular nu×nv parameter grid and triangulates the
// samples. Vertex i*nv+j is the sample at the i-th u and j-th v parameter;
// each grid cell becomes two triangles.
func (s Surface) Mesh(nu, nv int) (Mesh, error) {
	samples, err := s.Sample(nu, nv)
	if err != nil {
		return Mesh{}, err
	}
	return gridMesh(samples), nil
}

func gridMesh(grid [][]r3.Vec) Mesh {
	var m Mesh
	for _, row := range grid {
		m.Vertices = append(m.Vertices, row...)
	}
	if len(grid) < 2 {
		return m
	}
	nv := len(grid[0])
	for i := 1; i < len(grid); i++ {
		for j := 0; j < nv-1; j++ {
			v1 := i*nv + j
			m.Faces = append(m.Faces,
				[3]int{v1, (i-1)*nv + j + 1, (i-1)*nv + j},
				[3]int{v1, i*nv + j + 1, (i-1)*nv + j + 1},
			)
		}
	}
	return m
}

// RemoveVertices returns a copy of m without the vertices listed in idx and
// without every face that uses one of them. The remaining vertices keep their
// order and faces are reindexed accordingly. Indices outside of m.Vertices
// are ignored.
func (m Mesh) RemoveVertices(idx []int) Mesh {
	removed := make([]bool, len(m.Vertices))
	for _, i := range idx {
		if i >= 0 && i < len(removed) {
			removed[i] = true
		}
	}
	newIndex := make([]int, len(m.Vertices))
	var out Mesh
	for i, v := range m.Vertices {
		if removed[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
	}
faces:
	for _, f := range m.Faces {
		var nf [3]int
		for k, v := range f {
			if v < 0 || v >= len(newIndex) || newIndex[v] < 0 {
				continue faces
			}
			nf[k] = newIndex[v]
		}
		out.Faces = append(out.Faces, nf)
	}
	return out
}

// Append returns the union of m and o. The faces of o are shifted past the
// vertices of m.
func (m Mesh) Append(o Mesh) Mesh {
	out := Mesh{
		Vertices: slices.Concat(m.Vertices, o.Vertices),
		Faces:    slices.Clone(m.Faces),
	}
	off := len(m.Vertices)
	for _, f := range o.Faces {
		out.Faces = append(out.Faces, [3]int{f[0] + off, f[1] + off, f[2] + off})
	}
	return out
}

// Merge replaces the vertices removed from base, together with the faces
// touching them, by patch. This is how a reconstructed surface is stitched
// back into the scan it was fitted to.
func Merge(base Mesh, removed []int, patch Mesh) Mesh {
	return base.RemoveVertices(removed).Append(patch)
}
