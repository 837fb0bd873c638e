// Package subdivide densifies triangle and line meshes draped over a
// reference sphere so that no edge spans more than a given angle about the
// sphere's center.
//
// Triangles are split along their longest edge until every edge is within
// the granularity angle. Midpoints of edges shared by neighbouring triangles
// are created once and reused, so the result has no cracks or T-junctions.
// Line segments are bisected independently. The subdivided vertices and
// index buffers replace the mesh's data.
package subdivide

import (
	"math"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/soypat/geosub/affine"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrGranularity is returned when the granularity angle is not positive.
	ErrGranularity = errors.New("granularity must be a positive angle")
	// ErrDegenerate is returned when a primitive's edge angle cannot be
	// measured, which happens for vertices at the world origin.
	ErrDegenerate = errors.New("degenerate primitive: edge angle is NaN")
	// ErrVertexLimit is returned when subdivision would grow the vertex
	// buffer beyond the configured limit or the 32 bit index range.
	ErrVertexLimit = errors.New("vertex limit exceeded")
)

// DefaultMaxElementsPerBuffer is the index count cap used when
// Subdivider.MaxElementsPerBuffer is not positive.
const DefaultMaxElementsPerBuffer = math.MaxInt32

// Subdivider subdivides meshes given in a local frame whose geometry is
// measured in a world frame centered on the reference sphere.
// A Subdivider is not modified by Run and may be shared between goroutines
// running different meshes.
type Subdivider struct {
	world2local affine.Transform
	local2world affine.Transform
	// MaxElementsPerBuffer caps the number of indices in each output
	// primitive set. Zero means DefaultMaxElementsPerBuffer.
	MaxElementsPerBuffer int
	// MaxVertices caps the size of the vertex buffer during a run.
	// Zero means the limit is the 32 bit index range.
	MaxVertices int
}

// New returns a Subdivider for the given transform pair. If exactly one of
// the transforms is the identity it is replaced by the inverse of the other.
// The pair is otherwise used as given and is not checked for consistency.
func New(world2local, local2world affine.Transform) *Subdivider {
	switch {
	case !world2local.IsIdentity() && local2world.IsIdentity():
		local2world = world2local.Inv()
	case world2local.IsIdentity() && !local2world.IsIdentity():
		world2local = local2world.Inv()
	}
	return &Subdivider{world2local: world2local, local2world: local2world}
}

// Transforms returns the world to local and local to world transforms in use.
func (s *Subdivider) Transforms() (world2local, local2world affine.Transform) {
	return s.world2local, s.local2world
}

// Result summarises a Run.
type Result struct {
	Topology Topology
	// PrimitivesIn is the number of triangles or segments collected.
	PrimitivesIn int
	// PrimitivesOut is the number of triangles or segments emitted.
	PrimitivesOut int
	VerticesIn    int
	VerticesOut   int
	// Splits is the number of primitives split in two.
	Splits int
	// EdgeReuse is the number of splits that reused a cached midpoint.
	EdgeReuse int
	// Buffers is the number of primitive sets written to the mesh.
	Buffers int
	// Replaced reports whether the mesh data was replaced.
	Replaced bool
}

// Run subdivides m until no emitted edge spans more than granularity
// radians about the world origin. The mesh's vertices and primitive sets are
// replaced only if subdivision produced primitives; meshes without primitive
// sets and point meshes are left untouched whatever the granularity. On
// error m is not modified.
func (s *Subdivider) Run(granularity float64, m Mesh) (Result, error) {
	if m.NumPrimitiveSets() < 1 {
		return Result{}, nil
	}
	topo := m.Mode().Topology()
	if topo == TopologyPoints {
		return Result{Topology: TopologyPoints}, nil
	}
	if !(granularity > 0) {
		return Result{}, errors.Wrapf(ErrGranularity, "got %g", granularity)
	}
	var (
		res   Result
		verts []r3.Vec
		sets  []PrimitiveSet
		err   error
	)
	switch topo {
	case TopologyLines:
		res, verts, sets, err = s.subdivideLines(granularity, m)
	default:
		res, verts, sets, err = s.subdivideTriangles(granularity, m)
	}
	if err != nil {
		klog.V(1).Infof("subdivide: %s aborted after %d splits: %v", res.Topology, res.Splits, err)
		return res, err
	}
	if res.PrimitivesOut > 0 {
		m.SetGeometry(verts, sets)
		res.Buffers = len(sets)
		res.Replaced = true
	}
	klog.V(1).Infof("subdivide: %s %d->%d primitives, %d->%d vertices, %d splits (%d reused), %d buffers",
		res.Topology, res.PrimitivesIn, res.PrimitivesOut, res.VerticesIn, res.VerticesOut, res.Splits, res.EdgeReuse, res.Buffers)
	return res, nil
}

func (s *Subdivider) maxElements() int {
	if s.MaxElementsPerBuffer <= 0 {
		return DefaultMaxElementsPerBuffer
	}
	return s.MaxElementsPerBuffer
}

func (s *Subdivider) subdivideTriangles(granularity float64, src PrimitiveSource) (Result, []r3.Vec, []PrimitiveSet, error) {
	res := Result{Topology: TopologyTriangles}
	c, err := collectTriangles(src, s.MaxVertices)
	if err != nil {
		return res, nil, nil, err
	}
	res.PrimitivesIn, res.VerticesIn = c.seeded, c.vb.len()
	klog.V(2).Infof("subdivide: collected %d triangles over %d vertices", res.PrimitivesIn, res.VerticesIn)

	ts := newTriangleSplitter(c, granularity, s.world2local, s.local2world)
	err = ts.run()
	res.Splits, res.EdgeReuse = ts.splits, ts.reused
	if err != nil {
		return res, nil, nil, err
	}
	res.PrimitivesOut, res.VerticesOut = len(ts.done), ts.vb.len()
	return res, ts.vb.verts, emitTriangles(ts.done, ts.vb.len(), s.maxElements()), nil
}

func (s *Subdivider) subdivideLines(granularity float64, src PrimitiveSource) (Result, []r3.Vec, []PrimitiveSet, error) {
	res := Result{Topology: TopologyLines}
	c, err := collectLines(src, s.MaxVertices)
	if err != nil {
		return res, nil, nil, err
	}
	res.PrimitivesIn, res.VerticesIn = c.seeded, c.vb.len()
	klog.V(2).Infof("subdivide: collected %d segments over %d vertices", res.PrimitivesIn, res.VerticesIn)

	ls := newLineSplitter(c, granularity, s.world2local, s.local2world)
	err = ls.run()
	res.Splits = ls.splits
	if err != nil {
		return res, nil, nil, err
	}
	res.PrimitivesOut, res.VerticesOut = len(ls.done), ls.vb.len()
	return res, ls.vb.verts, emitLines(ls.done, ls.vb.len(), s.maxElements()), nil
}
