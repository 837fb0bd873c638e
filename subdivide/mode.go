package subdivide

// Mode is the draw mode of a primitive set. It mirrors the classic
// immediate mode primitive kinds.
type Mode uint8

const (
	Points Mode = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
	Quads
	QuadStrip
	Polygon
)

// Topology is the class of primitive a Mode decomposes into.
type Topology uint8

const (
	TopologyPoints Topology = iota
	TopologyLines
	TopologyTriangles
)

// Topology returns the class of primitive m decomposes into.
func (m Mode) Topology() Topology {
	switch m {
	case Points:
		return TopologyPoints
	case Lines, LineStrip, LineLoop:
		return TopologyLines
	default:
		return TopologyTriangles
	}
}

func (m Mode) String() string {
	switch m {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case LineLoop:
		return "line-loop"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	case Quads:
		return "quads"
	case QuadStrip:
		return "quad-strip"
	case Polygon:
		return "polygon"
	}
	return "unknown"
}

func (t Topology) String() string {
	switch t {
	case TopologyPoints:
		return "points"
	case TopologyLines:
		return "lines"
	case TopologyTriangles:
		return "triangles"
	}
	return "unknown"
}
