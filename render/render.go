package render

import (
	"io"

	"github.com/soypat/geosub/internal/d3"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a model.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle given counter-clockwise winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two of the triangle's vertices are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// meshRenderer reads the triangles of a primitive source.
type meshRenderer struct {
	buf triangle3Buffer
}

// NewMeshRenderer returns a Renderer over the triangles of src. Strips, fans,
// quads and polygons are decomposed into triangles. Line and point sources
// render no triangles.
func NewMeshRenderer(src subdivide.PrimitiveSource) Renderer {
	r := &meshRenderer{}
	r.buf.buf = TrianglesFromSource(src)
	return r
}

func (r *meshRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if r.buf.Len() == 0 {
		return 0, io.EOF
	}
	return r.buf.Read(t), nil
}

// TrianglesFromSource returns the triangles of src as a triangle soup.
func TrianglesFromSource(src subdivide.PrimitiveSource) []Triangle3 {
	var model []Triangle3
	src.EachTriangle(func(v0, v1, v2 r3.Vec) {
		model = append(model, Triangle3{V: [3]r3.Vec{v0, v1, v2}})
	})
	return model
}

// GeometryFromTriangles indexes a triangle soup into a Geometry with a
// single triangle set. Vertices within weldTol of each other are merged;
// a zero tolerance merges exactly equal positions only. Triangles that are
// degenerate at weldTol are dropped.
func GeometryFromTriangles(model []Triangle3, weldTol float64) *subdivide.Geometry {
	soup := make([]r3.Vec, 0, 3*len(model))
	for _, t := range model {
		if t.Degenerate(weldTol) {
			continue
		}
		soup = append(soup, t.V[:]...)
	}
	verts, index := Weld(soup, weldTol)
	indices := make([]uint32, len(index))
	for i, idx := range index {
		indices[i] = uint32(idx)
	}
	return &subdivide.Geometry{
		Vertices: verts,
		Sets: []subdivide.PrimitiveSet{&subdivide.DrawElements[uint32]{
			DrawMode: subdivide.Triangles,
			Indices:  indices,
		}},
	}
}
