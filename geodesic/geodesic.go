// Package geodesic converts between geocentric positions, measured from the
// center of a reference sphere, and spherical geodetic coordinates. It also
// provides the midpoint and angle primitives used when subdividing meshes
// draped over that sphere.
//
// All angles are in radians. Conversions are spherical, not ellipsoidal.
package geodesic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi  = math.Pi
	tau = 2 * pi
)

// Coord is a spherical geodetic coordinate.
type Coord struct {
	// Lon is the longitude in (-π, π].
	Lon float64
	// Colat is the colatitude, the angle from the +Z pole, in [0, π].
	Colat float64
}

// Lat returns the latitude of c.
func (c Coord) Lat() float64 { return pi/2 - c.Colat }

// Geocentric returns the position of c on a sphere of the given radius.
func (c Coord) Geocentric(radius float64) r3.Vec {
	sinColat := math.Sin(c.Colat)
	return r3.Vec{
		X: radius * math.Cos(c.Lon) * sinColat,
		Y: radius * math.Sin(c.Lon) * sinColat,
		Z: radius * math.Cos(c.Colat),
	}
}

// FromGeocentric converts a geocentric position to spherical geodetic
// coordinates. Positions on the Z axis have longitude 0. The zero vector
// yields a NaN colatitude.
func FromGeocentric(v r3.Vec) Coord {
	r := r3.Norm(v)
	return Coord{
		Lon:   math.Atan2(v.Y, v.X),
		Colat: math.Acos(v.Z / r),
	}
}

// Midpoint returns the coordinate halfway between g0 and g1. Longitudes more
// than half a turn apart are interpolated across the antimeridian so the
// shorter path is taken. The returned longitude may lie outside (-π, π].
func Midpoint(g0, g1 Coord) Coord {
	colat := 0.5 * (g0.Colat + g1.Colat)
	switch {
	case math.Abs(g0.Lon-g1.Lon) < pi:
		return Coord{Lon: 0.5 * (g0.Lon + g1.Lon), Colat: colat}
	case g1.Lon > g0.Lon:
		return Coord{Lon: 0.5 * (g0.Lon + tau + g1.Lon), Colat: colat}
	default:
		return Coord{Lon: 0.5 * (g0.Lon + g1.Lon + tau), Colat: colat}
	}
}

// GeocentricMidpoint finds the midpoint between two geocentric positions by
// interpolating their geodetic coordinates. The result's distance from the
// center is the mean of the inputs' distances.
func GeocentricMidpoint(v0, v1 r3.Vec) r3.Vec {
	mid := Midpoint(FromGeocentric(v0), FromGeocentric(v1))
	return mid.Geocentric(0.5 * (r3.Norm(v0) + r3.Norm(v1)))
}

// Bisector returns the direction of the chord midpoint of v0 and v1 scaled
// to the mean of their distances from the center.
func Bisector(v0, v1 r3.Vec) r3.Vec {
	f := r3.Unit(r3.Scale(0.5, r3.Add(v0, v1)))
	return r3.Scale(0.5*(r3.Norm(v0)+r3.Norm(v1)), f)
}

// AngleBetween returns the unsigned angle between v0 and v1 in [0, π].
// A zero vector argument yields NaN.
func AngleBetween(v0, v1 r3.Vec) float64 {
	cos := r3.Cos(v0, v1)
	// Rounding may push nearly parallel vectors just past ±1.
	// math.Max and math.Min keep NaN.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// SurfaceDistance returns the great circle distance between v0 and v1
// projected onto a sphere of the given radius.
func SurfaceDistance(v0, v1 r3.Vec, radius float64) float64 {
	g0, g1 := FromGeocentric(v0), FromGeocentric(v1)
	dLat := g1.Lat() - g0.Lat()
	dLon := g1.Lon - g0.Lon
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(g0.Lat())*math.Cos(g1.Lat())*math.Pow(math.Sin(dLon/2), 2)
	return radius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
