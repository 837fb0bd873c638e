package render_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/soypat/geosub/render"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
)

const quadOBJ = `# exported by hand
mtllib quad.mtl
o Quad.001
v 1.0 0 0
v 0 1.0 0
v -1 0 0
v 0 -1 0 1.0
vt 0.5 0.5
vn 0 0 1
usemtl mat-1
s off
f 1/1/1 2/1/1 3/1/1 4/1/1

g edges
l 1 2 -2
f -4//1 -3//1 -2//1`

func TestReadOBJ(t *testing.T) {
	g, err := render.ReadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatal(err)
	}
	wantVerts := []r3.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
	if !reflect.DeepEqual(g.Vertices, wantVerts) {
		t.Errorf("vertices %v", g.Vertices)
	}
	if len(g.Sets) != 2 {
		t.Fatalf("got %d sets, want triangles and lines", len(g.Sets))
	}
	var tris [][3]int
	g.EachTriangleIndex(func(i0, i1, i2 int) { tris = append(tris, [3]int{i0, i1, i2}) })
	wantTris := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 2}}
	if !reflect.DeepEqual(tris, wantTris) {
		t.Errorf("triangles %v, want %v", tris, wantTris)
	}
	var segs [][2]int
	g.EachLineIndex(func(i0, i1 int) { segs = append(segs, [2]int{i0, i1}) })
	wantSegs := [][2]int{{0, 1}, {1, 2}}
	if !reflect.DeepEqual(segs, wantSegs) {
		t.Errorf("segments %v, want %v", segs, wantSegs)
	}
	if g.Mode() != subdivide.Triangles {
		t.Errorf("first set mode %s", g.Mode())
	}
}

func TestReadOBJVertexColors(t *testing.T) {
	const src = "v 1 0 0 1 0.5 0\nv 0 1 0 0 0 1\nv 0 0 1 0.2 0.2 0.2\nf 1 2 3\n"
	g, err := render.ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	if !reflect.DeepEqual(g.Vertices, want) {
		t.Errorf("vertices %v, want %v", g.Vertices, want)
	}
	if g.Sets[0].Len() != 3 {
		t.Errorf("got %d indices, want 3", g.Sets[0].Len())
	}
}

func TestReadOBJErrors(t *testing.T) {
	for name, src := range map[string]string{
		"out of range":  "v 0 0 1\nf 1 2 3\n",
		"zero index":    "v 0 0 1\nv 0 1 0\nv 1 0 0\nf 0 1 2\n",
		"short face":    "v 0 0 1\nv 0 1 0\nf 1 2\n",
		"short line":    "v 0 0 1\nl 1\n",
		"bad vertex":    "v 0 0\n",
		"float indices": "v 0 0 1\nv 0 1 0\nv 1 0 0\nf 1.5 2 3\n",
	} {
		if _, err := render.ReadOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestOBJRoundTrip(t *testing.T) {
	g := &subdivide.Geometry{
		Vertices: []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: 1e-7, Y: -0.3333333333333333, Z: 12345.678}},
		Sets: []subdivide.PrimitiveSet{
			subdivide.DrawArrays{DrawMode: subdivide.TriangleFan, Count: 4},
			&subdivide.DrawElements[uint16]{DrawMode: subdivide.LineLoop, Indices: []uint16{0, 1, 2}},
			subdivide.DrawArrays{DrawMode: subdivide.Points, Count: 4},
		},
	}
	var b bytes.Buffer
	if err := render.WriteOBJ(&b, g); err != nil {
		t.Fatal(err)
	}
	got, err := render.ReadOBJ(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Vertices, g.Vertices) {
		t.Errorf("vertices changed: %v", got.Vertices)
	}
	var want, have [][3]r3.Vec
	g.EachTriangle(func(v0, v1, v2 r3.Vec) { want = append(want, [3]r3.Vec{v0, v1, v2}) })
	got.EachTriangle(func(v0, v1, v2 r3.Vec) { have = append(have, [3]r3.Vec{v0, v1, v2}) })
	if !reflect.DeepEqual(have, want) {
		t.Errorf("triangles changed: %v", have)
	}
	var segs int
	got.EachLine(func(v0, v1 r3.Vec) { segs++ })
	if segs != 3 {
		t.Errorf("got %d segments, want 3", segs)
	}
}
