package subdivide

import (
	"math"

	"github.com/pkg/errors"
	"github.com/soypat/geosub/affine"
	"github.com/soypat/geosub/geodesic"
)

// lineSplitter subdivides line segments. Unlike triangles, segments do not
// share midpoints: every split appends a new vertex even when another
// segment spans the same pair of vertices.
type lineSplitter struct {
	splitter
	done []segment
}

func newLineSplitter(c *collection, granularity float64, w2l, l2w affine.Transform) *lineSplitter {
	return &lineSplitter{
		splitter: newSplitter(c, granularity, w2l, l2w),
		done:     make([]segment, 0, 2*c.seeded),
	}
}

func (s *lineSplitter) run() error {
	for !s.pending.Empty() {
		v, _ := s.pending.Dequeue()
		seg := v.(segment)
		w0, w1 := s.world(seg[0]), s.world(seg[1])

		g := geodesic.AngleBetween(w0, w1)
		if math.IsNaN(g) {
			return errors.Wrapf(ErrDegenerate, "segment %d-%d", seg[0], seg[1])
		}
		if g <= s.granularity {
			s.done = append(s.done, seg)
			continue
		}
		m, err := s.pushMidpoint(w0, w1)
		if err != nil {
			return err
		}
		s.pending.Enqueue(segment{seg[0], m})
		s.pending.Enqueue(segment{m, seg[1]})
		s.splits++
	}
	return nil
}
