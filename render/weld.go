package render

import (
	"github.com/soypat/geosub/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = kdVertices{}
	_ kdtree.Bounder   = kdVertices{}
)

// Weld merges vertices within tol of each other. It returns the unique
// vertices in order of first appearance and, for each input vertex, the
// index of its representative. Each representative absorbs the not yet
// welded vertices within tol of itself.
func Weld(soup []r3.Vec, tol float64) (verts []r3.Vec, index []int) {
	index = make([]int, len(soup))
	if tol <= 0 {
		seen := make(map[r3.Vec]int)
		for i, v := range soup {
			j, ok := seen[v]
			if !ok {
				j = len(verts)
				seen[v] = j
				verts = append(verts, v)
			}
			index[i] = j
		}
		return verts, index
	}

	kd := make(kdVertices, len(soup))
	for i, v := range soup {
		kd[i] = kdVertex{Vec: v, idx: i}
	}
	tree := kdtree.New(kd, true)
	for i := range index {
		index[i] = -1
	}
	for i, v := range soup {
		if index[i] >= 0 {
			continue
		}
		rep := len(verts)
		verts = append(verts, v)
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, kdVertex{Vec: v, idx: -1})
		for _, c := range keep.Heap {
			j := c.Comparable.(kdVertex).idx
			if index[j] < 0 {
				index[j] = rep
			}
		}
		// v is its own nearest neighbour, unless it is NaN.
		index[i] = rep
	}
	return verts, index
}

type kdVertices []kdVertex

type kdVertex struct {
	r3.Vec
	idx int
}

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), verts: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdVertices) Bounds() *kdtree.Bounding {
	bb := d3.EmptyBox()
	for _, v := range k {
		bb = bb.Include(v.Vec)
	}
	return &kdtree.Bounding{
		Min: kdVertex{Vec: bb.Min, idx: -1},
		Max: kdVertex{Vec: bb.Max, idx: -1},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a.Vec, b.(kdVertex).Vec, int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Vec, b.(kdVertex).Vec))
}

// c = a.dim - b.dim
func kdComp(a, b r3.Vec, dim int) float64 {
	switch dim {
	case 0:
		return a.X - b.X
	case 1:
		return a.Y - b.Y
	}
	return a.Z - b.Z
}

type kdPlane struct {
	dim   int
	verts kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.verts[i].Vec, p.verts[j].Vec, p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.verts[i], p.verts[j] = p.verts[j], p.verts[i]
}
func (p kdPlane) Len() int {
	return len(p.verts)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.verts = p.verts[start:end]
	return p
}
