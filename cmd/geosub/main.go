// Command geosub subdivides a mesh draped over a sphere until no edge spans
// more than a given angle about the sphere's center.
//
// Usage:
//
//	geosub -in globe.obj -out dense.obj -granularity 2 [-translate x,y,z] [-scale s]
//
// The mesh is read in its local frame. -scale and -translate define the
// local to world transform, applied in that order; the sphere is centered
// at the world origin.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/soypat/geosub/affine"
	"github.com/soypat/geosub/render"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/gonum/spatial/r3"
)

type config struct {
	in, out     string
	granularity float64 // degrees
	maxElements int
	maxVertices int
	translate   vecFlag
	scale       float64
	weld        float64
	preview     string
	hist        string
}

func (c *config) register(fset *flag.FlagSet) {
	fset.StringVar(&c.in, "in", "", "input mesh `file` (.obj or .stl)")
	fset.StringVar(&c.out, "out", "", "output mesh `file` (.obj or .stl)")
	fset.Float64Var(&c.granularity, "granularity", 5, "maximum edge angle in `degrees`")
	fset.IntVar(&c.maxElements, "max-elements", 0, "maximum indices per output primitive set (0 is unbounded)")
	fset.IntVar(&c.maxVertices, "max-vertices", 0, "abort if the mesh grows beyond this many vertices (0 is unbounded)")
	fset.Var(&c.translate, "translate", "local to world translation `x,y,z`")
	fset.Float64Var(&c.scale, "scale", 1, "local to world uniform scale")
	fset.Float64Var(&c.weld, "weld", 0, "STL vertex weld `distance` (0 merges identical positions only)")
	fset.StringVar(&c.preview, "preview", "", "write a PNG preview of the result to `file`")
	fset.StringVar(&c.hist, "hist", "", "write a PNG histogram of output edge angles to `file`")
}

func main() {
	fset := flag.NewFlagSet("geosub", flag.ExitOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
	var cfg config
	cfg.register(fset)
	fset.Parse(os.Args[1:])

	err := run(cfg)
	if err != nil {
		klog.Errorf("geosub: %v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.in == "" {
		return errors.New("missing -in mesh file")
	}
	if cfg.scale == 0 || math.IsNaN(cfg.scale) {
		return errors.Errorf("invalid -scale %g", cfg.scale)
	}
	g, err := render.ReadMesh(cfg.in, cfg.weld)
	if err != nil {
		return err
	}
	klog.V(1).Infof("read %s: %d vertices, %d primitive sets (%s)", cfg.in, len(g.Vertices), len(g.Sets), g.Mode())

	l2w := localToWorld(cfg.scale, r3.Vec(cfg.translate))
	s := subdivide.New(affine.Transform{}, l2w)
	s.MaxElementsPerBuffer = cfg.maxElements
	s.MaxVertices = cfg.maxVertices

	granularity := cfg.granularity * math.Pi / 180
	res, err := s.Run(granularity, g)
	if err != nil {
		return errors.Wrapf(err, "subdividing %s", cfg.in)
	}
	if !res.Replaced {
		klog.Warningf("%s: nothing to subdivide (%s topology)", cfg.in, res.Topology)
	}
	klog.Infof("%s: %d -> %d %s primitives, %d -> %d vertices in %d buffers",
		cfg.in, res.PrimitivesIn, res.PrimitivesOut, res.Topology, res.VerticesIn, res.VerticesOut, res.Buffers)

	if cfg.out != "" {
		if err = render.WriteMesh(cfg.out, g); err != nil {
			return err
		}
		klog.V(1).Infof("wrote %s", cfg.out)
	}
	if cfg.preview != "" {
		if err = render.SavePreview(cfg.preview, g, render.DefaultPreview); err != nil {
			return errors.Wrap(err, "preview")
		}
		klog.V(1).Infof("wrote preview %s", cfg.preview)
	}
	if cfg.hist != "" {
		angles := edgeAngles(g, l2w)
		if err = saveHistogram(cfg.hist, angles, cfg.granularity); err != nil {
			return errors.Wrap(err, "histogram")
		}
		klog.V(1).Infof("wrote histogram of %d edges to %s", len(angles), cfg.hist)
	}
	return nil
}

// localToWorld scales about the local origin, then translates.
func localToWorld(scale float64, translate r3.Vec) affine.Transform {
	return affine.Identity().
		Scale(r3.Vec{}, r3.Vec{X: scale, Y: scale, Z: scale}).
		Translate(translate)
}

// vecFlag parses a comma separated vector.
type vecFlag r3.Vec

func (v *vecFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

func (v *vecFlag) Set(s string) error {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return errors.Errorf("want 3 comma separated values, got %q", s)
	}
	var f [3]float64
	for i, field := range fields {
		var err error
		f[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return err
		}
	}
	*v = vecFlag{X: f[0], Y: f[1], Z: f[2]}
	return nil
}
