package subdivide

import (
	"math"

	"github.com/pkg/errors"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/soypat/geosub/affine"
	"github.com/soypat/geosub/geodesic"
	"gonum.org/v1/gonum/spatial/r3"
)

// splitter carries the state shared by the triangle and line passes.
type splitter struct {
	vb          *vertexBuffer
	pending     *linkedlistqueue.Queue
	l2w, w2l    affine.Transform
	granularity float64
	// splits counts primitives replaced by two children.
	splits int
}

func newSplitter(c *collection, granularity float64, w2l, l2w affine.Transform) splitter {
	return splitter{
		vb:          &c.vb,
		pending:     c.pending,
		l2w:         l2w,
		w2l:         w2l,
		granularity: granularity,
	}
}

// world returns vertex i in the world frame.
func (s *splitter) world(i uint32) r3.Vec {
	return s.l2w.Transform(s.vb.verts[i])
}

// pushMidpoint appends the midpoint of world positions a and b, mapped
// back to the local frame.
func (s *splitter) pushMidpoint(a, b r3.Vec) (uint32, error) {
	return s.vb.push(s.w2l.Transform(geodesic.GeocentricMidpoint(a, b)))
}

// triangleSplitter subdivides triangles. Edges shared between triangles are
// split once and the midpoint vertex is reused, keeping the mesh watertight.
type triangleSplitter struct {
	splitter
	edges map[edge]uint32
	done  []triangle
	// reused counts edge cache hits.
	reused int
}

func newTriangleSplitter(c *collection, granularity float64, w2l, l2w affine.Transform) *triangleSplitter {
	return &triangleSplitter{
		splitter: newSplitter(c, granularity, w2l, l2w),
		edges:    make(map[edge]uint32),
		done:     make([]triangle, 0, 2*c.seeded),
	}
}

// run drains the pending queue. Triangles whose longest edge spans no more
// than the granularity angle are moved to the done list, the rest have
// their longest edge split.
func (s *triangleSplitter) run() error {
	for !s.pending.Empty() {
		v, _ := s.pending.Dequeue()
		tri := v.(triangle)
		w0, w1, w2 := s.world(tri[0]), s.world(tri[1]), s.world(tri[2])

		g0 := geodesic.AngleBetween(w0, w1)
		g1 := geodesic.AngleBetween(w1, w2)
		g2 := geodesic.AngleBetween(w2, w0)
		if math.IsNaN(g0) || math.IsNaN(g1) || math.IsNaN(g2) {
			return errors.Wrapf(ErrDegenerate, "triangle %d-%d-%d", tri[0], tri[1], tri[2])
		}
		max := g0
		if g1 > max {
			max = g1
		}
		if g2 > max {
			max = g2
		}
		if max <= s.granularity {
			s.done = append(s.done, tri)
			continue
		}

		// Ties resolve to the first edge in e0, e1, e2 order.
		var err error
		switch max {
		case g0:
			err = s.split(tri[0], tri[1], tri[2], w0, w1)
		case g1:
			err = s.split(tri[1], tri[2], tri[0], w1, w2)
		default:
			err = s.split(tri[2], tri[0], tri[1], w2, w0)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// split divides edge (a,b) of triangle (a,b,c) and enqueues the two halves
// with the winding of the original.
func (s *triangleSplitter) split(a, b, c uint32, wa, wb r3.Vec) error {
	key := makeEdge(a, b)
	m, ok := s.edges[key]
	if ok {
		s.reused++
	} else {
		var err error
		m, err = s.pushMidpoint(wa, wb)
		if err != nil {
			return err
		}
		s.edges[key] = m
	}
	s.pending.Enqueue(triangle{a, m, c})
	s.pending.Enqueue(triangle{m, b, c})
	s.splits++
	return nil
}
