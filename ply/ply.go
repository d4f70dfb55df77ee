// Package ply reads and writes triangle meshes in the ASCII variant of the
// PLY format, as produced by MeshLab and similar tools.
//
// Only what is needed to exchange meshes with [bspline.Mesh] is supported:
// the x, y, and z properties of vertices, and faces with a vertex_indices
// list. Other vertex properties are skipped, as are elements other than
// vertex and face. Polygonal faces are split into triangle fans.
package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/bspline"
)

// ErrFormat is returned, possibly wrapped, for files that aren't valid ASCII
// PLY files.
var ErrFormat = errors.New("ply: malformed file")

type element struct {
	name  string
	count int
	props []property
}

type property struct {
	name string
	list bool
}

func (e *element) index(name string) int {
	for i, p := range e.props {
		if p.name == name {
			return i
		}
	}
	return -1
}

type reader struct {
	s    *bufio.Scanner
	line int
}

func (r *reader) next() ([]string, error) {
	for r.s.Scan() {
		r.line++
		f := strings.Fields(r.s.Text())
		if len(f) > 0 {
			return f, nil
		}
	}
	if err := r.s.Err(); err != nil {
		return nil, err
	}
	return nil, r.errorf("unexpected end of file")
}

func (r *reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, r.line, fmt.Sprintf(format, args...))
}

// ReadMesh reads a mesh in ASCII PLY format.
func ReadMesh(rd io.Reader) (bspline.Mesh, error) {
	r := &reader{s: bufio.NewScanner(rd)}
	elems, err := r.header()
	if err != nil {
		return bspline.Mesh{}, err
	}

	var m bspline.Mesh
	for _, e := range elems {
		switch e.name {
		case "vertex":
			err = r.vertices(e, &m)
		case "face":
			err = r.faces(e, &m)
		default:
			for range e.count {
				if _, err = r.next(); err != nil {
					break
				}
			}
		}
		if err != nil {
			return bspline.Mesh{}, err
		}
	}
	for _, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return bspline.Mesh{}, fmt.Errorf("%w: face references vertex %d of %d", ErrFormat, v, len(m.Vertices))
			}
		}
	}
	return m, nil
}

func (r *reader) header() ([]*element, error) {
	f, err := r.next()
	if err != nil {
		return nil, err
	}
	if len(f) != 1 || f[0] != "ply" {
		return nil, r.errorf("missing magic number")
	}

	var elems []*element
	for {
		f, err := r.next()
		if err != nil {
			return nil, err
		}
		switch f[0] {
		case "format":
			if len(f) != 3 || f[1] != "ascii" || f[2] != "1.0" {
				return nil, r.errorf("unsupported format %q", strings.Join(f[1:], " "))
			}
		case "comment", "obj_info":
		case "element":
			if len(f) != 3 {
				return nil, r.errorf("malformed element")
			}
			n, err := strconv.Atoi(f[2])
			if err != nil || n < 0 {
				return nil, r.errorf("invalid element count %q", f[2])
			}
			elems = append(elems, &element{name: f[1], count: n})
		case "property":
			if len(elems) == 0 {
				return nil, r.errorf("property outside of element")
			}
			e := elems[len(elems)-1]
			switch {
			case len(f) == 3:
				e.props = append(e.props, property{name: f[2]})
			case len(f) == 5 && f[1] == "list":
				e.props = append(e.props, property{name: f[4], list: true})
			default:
				return nil, r.errorf("malformed property")
			}
		case "end_header":
			return elems, nil
		default:
			return nil, r.errorf("unknown header keyword %q", f[0])
		}
	}
}

func (r *reader) vertices(e *element, m *bspline.Mesh) error {
	ix, iy, iz := e.index("x"), e.index("y"), e.index("z")
	if ix < 0 || iy < 0 || iz < 0 {
		return r.errorf("vertex element lacks x, y, or z")
	}
	for _, p := range e.props {
		if p.list {
			return r.errorf("list property %q in vertex element", p.name)
		}
	}
	for range e.count {
		f, err := r.next()
		if err != nil {
			return err
		}
		if len(f) < len(e.props) {
			return r.errorf("vertex has %d values, want %d", len(f), len(e.props))
		}
		var c [3]float64
		for k, i := range [3]int{ix, iy, iz} {
			c[k], err = strconv.ParseFloat(f[i], 64)
			if err != nil {
				return r.errorf("invalid coordinate %q", f[i])
			}
		}
		m.Vertices = append(m.Vertices, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
	}
	return nil
}

func (r *reader) faces(e *element, m *bspline.Mesh) error {
	idx := e.index("vertex_indices")
	if idx < 0 {
		idx = e.index("vertex_index")
	}
	if idx != 0 || !e.props[0].list {
		return r.errorf("face element must start with a vertex_indices list")
	}
	for range e.count {
		f, err := r.next()
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 3 || len(f) < n+1 {
			return r.errorf("malformed face")
		}
		vs := make([]int, n)
		for i := range vs {
			vs[i], err = strconv.Atoi(f[i+1])
			if err != nil {
				return r.errorf("invalid vertex index %q", f[i+1])
			}
		}
		for i := 1; i+1 < n; i++ {
			m.Faces = append(m.Faces, [3]int{vs[0], vs[i], vs[i+1]})
		}
	}
	return nil
}

// WriteMesh writes m in ASCII PLY format. Coordinates are written with
// single precision, matching the declared float properties.
func WriteMesh(w io.Writer, m bspline.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\n"+
		"format ascii 1.0\n"+
		"comment VCGLIB generated\n"+
		"element vertex %d\n"+
		"property float x\n"+
		"property float y\n"+
		"property float z\n"+
		"element face %d\n"+
		"property list uchar int vertex_indices\n"+
		"end_header\n", len(m.Vertices), len(m.Faces))

	var buf []byte
	for _, v := range m.Vertices {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, v.X, 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Y, 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Z, 'g', -1, 32)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for _, f := range m.Faces {
		buf = buf[:0]
		buf = append(buf, "3 "...)
		buf = strconv.AppendInt(buf, int64(f[0]), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(f[1]), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(f[2]), 10)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}
