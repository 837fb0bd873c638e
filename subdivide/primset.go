package subdivide

// PrimitiveSet describes how a run of vertices combines into primitives.
type PrimitiveSet interface {
	// Mode returns the draw mode of the set.
	Mode() Mode
	// Len returns the number of indices in the set.
	Len() int
	// Index returns the vertex index at position i of the set.
	Index(i int) int
	// BytesPerIndex returns the width of a stored index, or 0 for sets
	// that address vertices without an index buffer.
	BytesPerIndex() int
}

var (
	_ PrimitiveSet = DrawArrays{}
	_ PrimitiveSet = (*DrawElements[uint8])(nil)
	_ PrimitiveSet = (*DrawElements[uint16])(nil)
	_ PrimitiveSet = (*DrawElements[uint32])(nil)
)

// DrawArrays addresses Count consecutive vertices starting at First.
type DrawArrays struct {
	DrawMode Mode
	First    int
	Count    int
}

func (d DrawArrays) Mode() Mode         { return d.DrawMode }
func (d DrawArrays) Len() int           { return d.Count }
func (d DrawArrays) Index(i int) int    { return d.First + i }
func (d DrawArrays) BytesPerIndex() int { return 0 }

// Index is the set of unsigned integer types an index buffer can store.
type Index interface {
	uint8 | uint16 | uint32
}

// DrawElements is an index buffer of uniform width.
type DrawElements[T Index] struct {
	DrawMode Mode
	Indices  []T
}

func (d *DrawElements[T]) Mode() Mode      { return d.DrawMode }
func (d *DrawElements[T]) Len() int        { return len(d.Indices) }
func (d *DrawElements[T]) Index(i int) int { return int(d.Indices[i]) }

func (d *DrawElements[T]) BytesPerIndex() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	}
	return 4
}
