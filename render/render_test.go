package render_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/soypat/geosub/affine"
	"github.com/soypat/geosub/render"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta is the normalized tolerance of image comparisons
// (0 is a perfect match, 1 a loose match).
const imgDelta = 0

func octahedron() *subdivide.Geometry {
	return &subdivide.Geometry{
		Vertices: []r3.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}},
		Sets: []subdivide.PrimitiveSet{&subdivide.DrawElements[uint8]{
			DrawMode: subdivide.Triangles,
			Indices: []uint8{
				0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
				2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
			},
		}},
	}
}

// subdividedOctahedron returns a sphere mesh with more triangles than a
// single renderer buffer holds.
func subdividedOctahedron(t testing.TB) *subdivide.Geometry {
	g := octahedron()
	_, err := subdivide.New(affine.Transform{}, affine.Transform{}).Run(0.07, g)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRenderAll(t *testing.T) {
	g := subdividedOctahedron(t)
	model, err := render.RenderAll(render.NewMeshRenderer(g))
	if err != nil {
		t.Fatal(err)
	}
	want := g.Sets[0].Len() / 3
	if len(g.Sets) != 1 || len(model) != want {
		t.Fatalf("rendered %d triangles, want %d", len(model), want)
	}
	if len(model) <= 1024 {
		t.Errorf("model too small to span renderer buffers: %d triangles", len(model))
	}
	for i, tri := range model {
		// Midpoints of edges touching a pole interpolate longitude from 0
		// and may fold the thin triangles there.
		if touchesPole(tri) {
			continue
		}
		// Outward winding on a sphere centered at the origin.
		centroid := r3.Scale(1./3, r3.Add(r3.Add(tri.V[0], tri.V[1]), tri.V[2]))
		if r3.Dot(tri.Normal(), centroid) <= 0 {
			t.Fatalf("triangle %d faces inward", i)
		}
	}
}

func touchesPole(tri render.Triangle3) bool {
	for _, v := range tri.V {
		if v.X == 0 && v.Y == 0 {
			return true
		}
	}
	return false
}

func TestSTLCreateWriteRead(t *testing.T) {
	g := subdividedOctahedron(t)
	path := filepath.Join(t.TempDir(), "sphere.stl")
	err := render.CreateSTL(path, render.NewMeshRenderer(g))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model := render.TrianglesFromSource(g)
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}

	got, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	const tol = 1e-6
	for i := range model {
		for j := range model[i].V {
			if d := r3.Norm(r3.Sub(got[i].V[j], model[i].V[j])); d > tol {
				t.Fatalf("triangle %d vertex %d off by %g", i, j, d)
			}
		}
	}

	// Indexing the soup recovers the shared vertices.
	indexed := render.GeometryFromTriangles(got, 0)
	if len(indexed.Vertices) != len(g.Vertices) {
		t.Errorf("indexed %d vertices, want %d", len(indexed.Vertices), len(g.Vertices))
	}
}

func TestDegenerateTriangles(t *testing.T) {
	good := render.Triangle3{V: [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}}
	collapsed := render.Triangle3{V: [3]r3.Vec{{X: 1}, {X: 1}, {Z: 1}}}
	sliver := render.Triangle3{V: [3]r3.Vec{{X: 1}, {X: 1, Y: 1e-4}, {Z: 1}}}
	for _, test := range []struct {
		tri  render.Triangle3
		tol  float64
		want bool
	}{
		{good, 0, false},
		{good, 1e-3, false},
		{collapsed, 0, true},
		{sliver, 0, false},
		{sliver, 1e-3, true},
	} {
		if got := test.tri.Degenerate(test.tol); got != test.want {
			t.Errorf("%v.Degenerate(%g) = %t, want %t", test.tri.V, test.tol, got, test.want)
		}
	}

	g := render.GeometryFromTriangles([]render.Triangle3{good, collapsed, sliver}, 1e-3)
	if n := g.Sets[0].Len(); n != 3 {
		t.Errorf("indexed %d indices, want the 3 of the only sound triangle", n)
	}

	var b bytes.Buffer
	if err := render.WriteSTL(&b, []render.Triangle3{good, collapsed}); err != nil {
		t.Fatal(err)
	}
	_, err := render.ReadSTL(&b)
	if err == nil || errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("reading a degenerate triangle: got error %v", err)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error reading truncated header")
	}
}

func TestReadWriteMesh(t *testing.T) {
	dir := t.TempDir()
	g := octahedron()
	for _, name := range []string{"oct.obj", "oct.STL"} {
		path := filepath.Join(dir, name)
		if err := render.WriteMesh(path, g); err != nil {
			t.Fatal(err)
		}
		got, err := render.ReadMesh(path, 1e-6)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Vertices) != 6 || len(got.Sets) != 1 || got.Sets[0].Len() != 24 {
			t.Errorf("%s: got %d vertices, %d sets", name, len(got.Vertices), len(got.Sets))
		}
	}
	if err := render.WriteMesh(filepath.Join(dir, "oct.ply"), g); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestWeld(t *testing.T) {
	soup := []r3.Vec{
		{X: 1},
		{Y: 1},
		{X: 1 + 1e-9},
		{Y: 1, Z: 1e-9},
		{Z: 1},
		{X: 1},
	}
	verts, index := render.Weld(soup, 1e-6)
	if len(verts) != 3 {
		t.Fatalf("welded to %d vertices, want 3", len(verts))
	}
	want := []int{0, 1, 0, 1, 2, 0}
	for i := range want {
		if index[i] != want[i] {
			t.Errorf("vertex %d welded to %d, want %d", i, index[i], want[i])
		}
	}
	if verts[0] != soup[0] || verts[1] != soup[1] {
		t.Error("representatives are not the first occurrence")
	}

	verts, _ = render.Weld(soup, 0)
	if len(verts) != 5 {
		t.Errorf("exact weld kept %d vertices, want 5", len(verts))
	}
}

func TestPreview(t *testing.T) {
	cfg := render.DefaultPreview
	cfg.Width, cfg.Height = 160, 120
	img, err := render.Preview(subdividedOctahedron(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("preview is %dx%d", b.Dx(), b.Dy())
	}
	// The sphere covers the image center.
	bg := img.At(0, 0)
	if img.At(80, 60) == bg {
		t.Error("nothing drawn at image center")
	}
	again, err := render.Preview(subdividedOctahedron(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !equalImages(t, img, again) {
		t.Error("preview is not deterministic")
	}

	lines := &subdivide.Geometry{
		Vertices: []r3.Vec{{X: 1}, {Y: 1}},
		Sets:     []subdivide.PrimitiveSet{subdivide.DrawArrays{DrawMode: subdivide.Lines, Count: 2}},
	}
	path := filepath.Join(t.TempDir(), "lines.png")
	if err := render.SavePreview(path, lines, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
	if _, err := render.Preview(&subdivide.Geometry{}, cfg); err == nil {
		t.Error("expected error previewing an empty mesh")
	}
	points := &subdivide.Geometry{
		Vertices: []r3.Vec{{X: 1}, {Y: 1}},
		Sets:     []subdivide.PrimitiveSet{subdivide.DrawArrays{DrawMode: subdivide.Points, Count: 2}},
	}
	if _, err := render.Preview(points, cfg); err == nil {
		t.Error("expected error previewing a point mesh")
	}
}

func equalImages(t *testing.T, a, b image.Image) bool {
	var b1, b2 bytes.Buffer
	if err := png.Encode(&b1, a); err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&b2, b); err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", b1.Bytes(), b2.Bytes(), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	return equal
}
