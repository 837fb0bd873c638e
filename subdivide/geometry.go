package subdivide

import "gonum.org/v1/gonum/spatial/r3"

// PrimitiveSource enumerates the primitives of a mesh in its local frame.
// Strips, fans, loops and polygons are decomposed by the source into
// independent triangles and line segments.
type PrimitiveSource interface {
	// NumPrimitiveSets returns the number of primitive sets in the mesh.
	NumPrimitiveSets() int
	// Mode returns the draw mode of the first primitive set.
	Mode() Mode
	// EachTriangle calls fn for every triangle in the mesh's triangle
	// topology sets.
	EachTriangle(fn func(v0, v1, v2 r3.Vec))
	// EachLine calls fn for every segment in the mesh's line topology sets.
	EachLine(fn func(v0, v1 r3.Vec))
}

// Mesh is a PrimitiveSource whose data can be replaced.
type Mesh interface {
	PrimitiveSource
	// SetGeometry replaces all vertex data and primitive sets.
	SetGeometry(vertices []r3.Vec, sets []PrimitiveSet)
}

var _ Mesh = (*Geometry)(nil)

// Geometry is a vertex array plus the primitive sets drawing it.
type Geometry struct {
	Vertices []r3.Vec
	Sets     []PrimitiveSet
}

// NumPrimitiveSets returns len(g.Sets).
func (g *Geometry) NumPrimitiveSets() int { return len(g.Sets) }

// Mode returns the mode of the first primitive set, or Points if there are none.
func (g *Geometry) Mode() Mode {
	if len(g.Sets) == 0 {
		return Points
	}
	return g.Sets[0].Mode()
}

// SetGeometry replaces the vertices and primitive sets of g.
func (g *Geometry) SetGeometry(vertices []r3.Vec, sets []PrimitiveSet) {
	g.Vertices = vertices
	g.Sets = sets
}

// EachTriangle decomposes every triangle topology set into triangles.
func (g *Geometry) EachTriangle(fn func(v0, v1, v2 r3.Vec)) {
	g.EachTriangleIndex(func(i0, i1, i2 int) {
		fn(g.Vertices[i0], g.Vertices[i1], g.Vertices[i2])
	})
}

// EachLine decomposes every line topology set into segments.
func (g *Geometry) EachLine(fn func(v0, v1 r3.Vec)) {
	g.EachLineIndex(func(i0, i1 int) {
		fn(g.Vertices[i0], g.Vertices[i1])
	})
}

// EachTriangleIndex is like EachTriangle but passes vertex indices.
func (g *Geometry) EachTriangleIndex(fn func(i0, i1, i2 int)) {
	for _, set := range g.Sets {
		if set.Mode().Topology() != TopologyTriangles {
			continue
		}
		decomposeTriangles(set.Mode(), set.Len(), func(a, b, c int) {
			fn(set.Index(a), set.Index(b), set.Index(c))
		})
	}
}

// EachLineIndex is like EachLine but passes vertex indices.
func (g *Geometry) EachLineIndex(fn func(i0, i1 int)) {
	for _, set := range g.Sets {
		if set.Mode().Topology() != TopologyLines {
			continue
		}
		decomposeLines(set.Mode(), set.Len(), func(a, b int) {
			fn(set.Index(a), set.Index(b))
		})
	}
}

// decomposeTriangles calls fn with set positions of each triangle described
// by n indices drawn in mode. Winding follows the usual strip and fan rules.
func decomposeTriangles(mode Mode, n int, fn func(a, b, c int)) {
	switch mode {
	case Triangles:
		for i := 2; i < n; i += 3 {
			fn(i-2, i-1, i)
		}
	case TriangleStrip:
		for i := 2; i < n; i++ {
			if i%2 == 0 {
				fn(i-2, i-1, i)
			} else {
				fn(i-2, i, i-1)
			}
		}
	case TriangleFan, Polygon:
		for i := 2; i < n; i++ {
			fn(0, i-1, i)
		}
	case Quads:
		for i := 3; i < n; i += 4 {
			fn(i-3, i-2, i-1)
			fn(i-3, i-1, i)
		}
	case QuadStrip:
		for i := 3; i < n; i += 2 {
			fn(i-3, i-2, i-1)
			fn(i-2, i, i-1)
		}
	}
}

// decomposeLines calls fn with set positions of each segment described by
// n indices drawn in mode.
func decomposeLines(mode Mode, n int, fn func(a, b int)) {
	switch mode {
	case Lines:
		for i := 1; i < n; i += 2 {
			fn(i-1, i)
		}
	case LineStrip, LineLoop:
		for i := 1; i < n; i++ {
			fn(i-1, i)
		}
		if mode == LineLoop && n > 1 {
			fn(n-1, 0)
		}
	}
}
