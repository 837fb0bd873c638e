package render

import (
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/soypat/geosub/internal/d3"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
)

// PreviewConfig configures the camera and output of a mesh preview.
type PreviewConfig struct {
	// Width and Height of the output image in pixels.
	Width, Height int
	// Supersample is the antialiasing factor. The scene is drawn at
	// Supersample times the output size and downsampled.
	Supersample int
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the camera's up direction.
	Up r3.Vec
	// Eye is the camera position.
	Eye       r3.Vec
	Near, Far float64
	// FOVY is the vertical field of view in degrees.
	FOVY float64
}

// DefaultPreview looks at a bi-unit cube from (3,3,3) with Z up.
var DefaultPreview = PreviewConfig{
	Width:       800,
	Height:      600,
	Supersample: 2,
	Up:          r3.Vec{Z: 1},
	Eye:         r3.Vec{X: 3, Y: 3, Z: 3},
	Near:        1,
	Far:         10,
	FOVY:        30,
}

var errEmptyPreview = errors.New("nothing to preview: mesh has no triangles or lines")

// Preview rasterizes the triangles and line segments of src, scaled to fit
// a bi-unit cube centered at the origin.
func Preview(src subdivide.PrimitiveSource, cfg PreviewConfig) (image.Image, error) {
	mesh, err := fauxglMesh(src)
	if err != nil {
		return nil, err
	}
	scale := cfg.Supersample
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = fauxglVec(cfg.Eye)
		center = fauxglVec(cfg.LookAt)
		up     = fauxglVec(cfg.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(cfg.Width*scale, cfg.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cfg.FOVY, aspect, cfg.Near, cfg.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	context.Shader = shader
	context.LineWidth = float64(scale)
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePreview renders src with Preview and writes the result as a PNG.
func SavePreview(path string, src subdivide.PrimitiveSource, cfg PreviewConfig) error {
	img, err := Preview(src, cfg)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// fauxglMesh converts the primitives of src to a fauxgl mesh scaled to fit
// a bi-unit cube centered at the origin.
func fauxglMesh(src subdivide.PrimitiveSource) (*fauxgl.Mesh, error) {
	var tris, lines [][]r3.Vec
	src.EachTriangle(func(v0, v1, v2 r3.Vec) {
		tris = append(tris, []r3.Vec{v0, v1, v2})
	})
	src.EachLine(func(v0, v1 r3.Vec) {
		lines = append(lines, []r3.Vec{v0, v1})
	})
	bb := d3.EmptyBox()
	for _, prims := range [][][]r3.Vec{tris, lines} {
		for _, prim := range prims {
			for _, v := range prim {
				bb = bb.Include(v)
			}
		}
	}
	if bb.Empty() {
		return nil, errEmptyPreview
	}
	scale := 1.0
	if extent := d3.Max(bb.Size()); extent > 0 {
		scale = 2 / extent
	}
	center := bb.Center()
	fit := func(v r3.Vec) fauxgl.Vector {
		return fauxglVec(r3.Scale(scale, r3.Sub(v, center)))
	}

	var (
		ftris  []*fauxgl.Triangle
		flines []*fauxgl.Line
	)
	for _, t := range tris {
		ftris = append(ftris, fauxgl.NewTriangleForPoints(fit(t[0]), fit(t[1]), fit(t[2])))
	}
	for _, l := range lines {
		flines = append(flines, fauxgl.NewLineForPoints(fit(l[0]), fit(l[1])))
	}
	return fauxgl.NewMesh(ftris, flines), nil
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
