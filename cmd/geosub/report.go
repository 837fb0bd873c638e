package main

import (
	"math"

	"github.com/soypat/geosub/affine"
	"github.com/soypat/geosub/geodesic"
	"github.com/soypat/geosub/subdivide"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const histBins = 40

// edgeAngles returns the world frame angle in degrees of every distinct
// edge of g's triangles and segments.
func edgeAngles(g *subdivide.Geometry, l2w affine.Transform) plotter.Values {
	seen := make(map[[2]int]bool)
	var angles plotter.Values
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			return
		}
		seen[[2]int{a, b}] = true
		wa, wb := l2w.Transform(g.Vertices[a]), l2w.Transform(g.Vertices[b])
		angles = append(angles, geodesic.AngleBetween(wa, wb)*180/math.Pi)
	}
	g.EachTriangleIndex(func(i0, i1, i2 int) {
		add(i0, i1)
		add(i1, i2)
		add(i2, i0)
	})
	g.EachLineIndex(add)
	return angles
}

// saveHistogram plots the distribution of edge angles with a marker at the
// granularity, all in degrees.
func saveHistogram(path string, angles plotter.Values, granularity float64) error {
	p := plot.New()
	p.Title.Text = "Edge angles"
	p.X.Label.Text = "angle [deg]"
	p.Y.Label.Text = "edges"

	h, err := plotter.NewHist(angles, histBins)
	if err != nil {
		return err
	}
	p.Add(h)
	top := 0.0
	for _, bin := range h.Bins {
		top = math.Max(top, bin.Weight)
	}
	marker, err := plotter.NewLine(plotter.XYs{{X: granularity, Y: 0}, {X: granularity, Y: top}})
	if err != nil {
		return err
	}
	marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(marker)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
