package subdivide

import (
	"math"

	"github.com/pkg/errors"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"gonum.org/v1/gonum/spatial/r3"
)

type (
	triangle [3]uint32
	segment  [2]uint32
	// edge is an unordered vertex pair stored with the lower index first.
	edge [2]uint32
)

func makeEdge(a, b uint32) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// vertexBuffer is the append-only vertex storage of a single run.
type vertexBuffer struct {
	verts []r3.Vec
	// limit is the maximum number of vertices the buffer may hold.
	limit int64
}

func (vb *vertexBuffer) push(v r3.Vec) (uint32, error) {
	if int64(len(vb.verts)) >= vb.limit {
		return 0, errors.Wrapf(ErrVertexLimit, "limit %d", vb.limit)
	}
	vb.verts = append(vb.verts, v)
	return uint32(len(vb.verts) - 1), nil
}

func (vb *vertexBuffer) len() int { return len(vb.verts) }

// collection is the deduplicated vertex buffer and initial work queue
// gathered from a PrimitiveSource.
type collection struct {
	vb      vertexBuffer
	vertMap map[r3.Vec]uint32
	pending *linkedlistqueue.Queue
	// seeded is the number of primitives enqueued.
	seeded int
	err    error
}

func newCollection(limit int) *collection {
	max := int64(math.MaxUint32)
	if limit > 0 && int64(limit) < max {
		max = int64(limit)
	}
	return &collection{
		vb:      vertexBuffer{limit: max},
		vertMap: make(map[r3.Vec]uint32),
		pending: linkedlistqueue.New(),
	}
}

// record returns the canonical index of v, appending it if it is new.
func (c *collection) record(v r3.Vec) uint32 {
	if i, ok := c.vertMap[v]; ok {
		return i
	}
	i, err := c.vb.push(v)
	if err != nil && c.err == nil {
		c.err = err
	}
	c.vertMap[v] = i
	return i
}

// collectTriangles gathers the triangles of src. Collection stops adding
// primitives after the vertex limit is hit; the error is returned.
func collectTriangles(src PrimitiveSource, limit int) (*collection, error) {
	c := newCollection(limit)
	src.EachTriangle(func(v0, v1, v2 r3.Vec) {
		if c.err != nil {
			return
		}
		tri := triangle{c.record(v0), c.record(v1), c.record(v2)}
		c.pending.Enqueue(tri)
		c.seeded++
	})
	return c, c.err
}

// collectLines gathers the line segments of src.
func collectLines(src PrimitiveSource, limit int) (*collection, error) {
	c := newCollection(limit)
	src.EachLine(func(v0, v1 r3.Vec) {
		if c.err != nil {
			return
		}
		seg := segment{c.record(v0), c.record(v1)}
		c.pending.Enqueue(seg)
		c.seeded++
	})
	return c, c.err
}
