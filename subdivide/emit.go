package subdivide

// indexBytes returns the narrowest index width able to address numVerts vertices.
func indexBytes(numVerts int) int {
	switch {
	case numVerts < 1<<8:
		return 1
	case numVerts < 1<<16:
		return 2
	}
	return 4
}

// packer fills index buffers of bounded size with whole primitives.
type packer[T Index] struct {
	mode  Mode
	arity int
	max   int
	// total and written count primitives.
	total   int
	written int
	cur     *DrawElements[T]
	sets    []PrimitiveSet
}

func newPacker[T Index](mode Mode, arity, total, maxElements int) *packer[T] {
	if maxElements < arity {
		maxElements = arity
	}
	return &packer[T]{mode: mode, arity: arity, max: maxElements, total: total}
}

// add appends one primitive. The current buffer is closed once fewer than
// three index slots remain in it.
func (p *packer[T]) add(prim []uint32) {
	if p.cur == nil || len(p.cur.Indices)+2 >= p.max {
		p.close()
		p.cur = &DrawElements[T]{
			DrawMode: p.mode,
			Indices:  make([]T, 0, min((p.total-p.written)*p.arity, p.max)),
		}
	}
	for _, i := range prim {
		p.cur.Indices = append(p.cur.Indices, T(i))
	}
	p.written++
}

func (p *packer[T]) close() {
	if p.cur != nil && len(p.cur.Indices) > 0 {
		p.sets = append(p.sets, p.cur)
	}
	p.cur = nil
}

// flush closes the current buffer and returns all buffers filled so far.
func (p *packer[T]) flush() []PrimitiveSet {
	p.close()
	sets := p.sets
	p.sets = nil
	return sets
}

func packAll[T Index](mode Mode, arity, count, maxElements int, prim func(i int) []uint32) []PrimitiveSet {
	p := newPacker[T](mode, arity, count, maxElements)
	for i := 0; i < count; i++ {
		p.add(prim(i))
	}
	return p.flush()
}

// emit packs count primitives into index buffers whose width is chosen
// from numVerts.
func emit(mode Mode, arity, count, numVerts, maxElements int, prim func(i int) []uint32) []PrimitiveSet {
	switch indexBytes(numVerts) {
	case 1:
		return packAll[uint8](mode, arity, count, maxElements, prim)
	case 2:
		return packAll[uint16](mode, arity, count, maxElements, prim)
	}
	return packAll[uint32](mode, arity, count, maxElements, prim)
}

func emitTriangles(done []triangle, numVerts, maxElements int) []PrimitiveSet {
	return emit(Triangles, 3, len(done), numVerts, maxElements, func(i int) []uint32 { return done[i][:] })
}

func emitLines(done []segment, numVerts, maxElements int) []PrimitiveSet {
	return emit(Lines, 2, len(done), numVerts, maxElements, func(i int) []uint32 { return done[i][:] })
}
