package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
)

var objLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "whitespace", Pattern: `[ \t]+`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[^\s\w]`},
})

var objParser = participle.MustBuild[objFile](participle.Lexer(objLexer))

// objFile is a Wavefront OBJ file, one statement per line.
type objFile struct {
	Statements []*objStatement `( @@? EOL )*`
}

type objStatement struct {
	Pos    lexer.Position
	Vertex *objVertex `  "v" @@`
	Face   []*objRef  `| "f" @@+`
	Line   []*objRef  `| "l" @@+`
	Other  *objOther  `| @@`
}

// objVertex holds x y z followed by an optional w or r g b vertex colour.
type objVertex struct {
	X     float64   `@Number`
	Y     float64   `@Number`
	Z     float64   `@Number`
	Extra []float64 `@Number*`
}

// objRef is a v, v/vt, v//vn or v/vt/vn vertex reference.
type objRef struct {
	Parts []string `@Number ( @"/" @Number? )*`
}

// objOther is any statement not describing geometry, e.g. vn, usemtl or g.
type objOther struct {
	Keyword string   `@Ident`
	Args    []string `( @Number | @Ident | @Punct )*`
}

// vertex returns the OBJ vertex index of the reference.
func (r *objRef) vertex() (int, error) {
	return strconv.Atoi(r.Parts[0])
}

// ReadOBJ parses the vertices, faces (f) and polylines (l) of a Wavefront
// OBJ file into a Geometry. Faces with more than three vertices are
// triangulated as fans. Faces precede polylines in the primitive sets.
// Texture coordinates, normals, groups and materials are ignored.
func ReadOBJ(r io.Reader) (*subdivide.Geometry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := string(b)
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	file, err := objParser.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(err, "parsing OBJ")
	}
	var (
		verts []r3.Vec
		tris  []uint32
		lines []uint32
	)
	resolve := func(pos lexer.Position, refs []*objRef) ([]uint32, error) {
		idx := make([]uint32, len(refs))
		for i, ref := range refs {
			n, err := ref.vertex()
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", pos.Line)
			}
			// Negative indices count back from the last vertex read.
			if n < 0 {
				n += len(verts) + 1
			}
			if n < 1 || n > len(verts) {
				return nil, errors.Errorf("line %d: vertex index %s out of range [1,%d]", pos.Line, ref.Parts[0], len(verts))
			}
			idx[i] = uint32(n - 1)
		}
		return idx, nil
	}
	for _, st := range file.Statements {
		switch {
		case st.Vertex != nil:
			verts = append(verts, r3.Vec{X: st.Vertex.X, Y: st.Vertex.Y, Z: st.Vertex.Z})
		case st.Face != nil:
			idx, err := resolve(st.Pos, st.Face)
			if err != nil {
				return nil, err
			}
			if len(idx) < 3 {
				return nil, errors.Errorf("line %d: face with %d vertices", st.Pos.Line, len(idx))
			}
			for i := 2; i < len(idx); i++ {
				tris = append(tris, idx[0], idx[i-1], idx[i])
			}
		case st.Line != nil:
			idx, err := resolve(st.Pos, st.Line)
			if err != nil {
				return nil, err
			}
			if len(idx) < 2 {
				return nil, errors.Errorf("line %d: polyline with %d vertices", st.Pos.Line, len(idx))
			}
			for i := 1; i < len(idx); i++ {
				lines = append(lines, idx[i-1], idx[i])
			}
		}
	}
	g := &subdivide.Geometry{Vertices: verts}
	if len(tris) > 0 {
		g.Sets = append(g.Sets, &subdivide.DrawElements[uint32]{DrawMode: subdivide.Triangles, Indices: tris})
	}
	if len(lines) > 0 {
		g.Sets = append(g.Sets, &subdivide.DrawElements[uint32]{DrawMode: subdivide.Lines, Indices: lines})
	}
	return g, nil
}

// WriteOBJ writes the vertices, triangles and line segments of g as a
// Wavefront OBJ file. Point sets are not written.
func WriteOBJ(w io.Writer, g *subdivide.Geometry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("# geosub\n")
	for _, v := range g.Vertices {
		bw.WriteString("v ")
		bw.WriteString(formatFloat(v.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Z))
		bw.WriteByte('\n')
	}
	g.EachTriangleIndex(func(i0, i1, i2 int) {
		bw.WriteString("f " + strconv.Itoa(i0+1) + " " + strconv.Itoa(i1+1) + " " + strconv.Itoa(i2+1) + "\n")
	})
	g.EachLineIndex(func(i0, i1 int) {
		bw.WriteString("l " + strconv.Itoa(i0+1) + " " + strconv.Itoa(i1+1) + "\n")
	})
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
