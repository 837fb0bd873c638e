package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/soypat/geosub/subdivide"
)

// ErrFormat is returned for mesh files with an unsupported extension.
var ErrFormat = errors.New("unsupported mesh format")

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like io.ReadAll.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangle3Buffer struct {
	buf []Triangle3
}

// Read moves triangles out of the buffer into t.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }

// ReadMesh loads an OBJ or binary STL file into a Geometry. STL vertices
// are welded with weldTol to recover the shared edges of the mesh.
func ReadMesh(path string, weldTol float64) (*subdivide.Geometry, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	switch ext(path) {
	case ".obj":
		g, err := ReadOBJ(fp)
		return g, errors.Wrapf(err, "reading %s", path)
	case ".stl":
		model, err := ReadSTL(fp)
		if err != nil && !errors.Is(err, ErrNormalMismatch) {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		return GeometryFromTriangles(model, weldTol), nil
	}
	return nil, errors.Wrap(ErrFormat, path)
}

// WriteMesh writes g to path as OBJ or binary STL depending on the file
// extension. STL output holds triangles only.
func WriteMesh(path string, g *subdivide.Geometry) error {
	var write func(io.Writer) error
	switch ext(path) {
	case ".obj":
		write = func(w io.Writer) error { return WriteOBJ(w, g) }
	case ".stl":
		write = func(w io.Writer) error { return WriteSTL(w, TrianglesFromSource(g)) }
	default:
		return errors.Wrap(ErrFormat, path)
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(fp); err != nil {
		fp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return fp.Close()
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
