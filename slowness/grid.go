// Package slowness builds the candidate-slowness grids and steering
// tables used by frequency-wavenumber beamforming.
//
// A grid is either a regular Cartesian lattice of east/north slowness
// components or a polar lattice of magnitude rings and azimuth spokes.
// Grid coordinates are reported in seconds per degree at the interface
// and held in seconds per kilometer internally.
package slowness

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dkzhangchao/seizmo/geom"
)

// Errors returned by grid construction.
var (
	ErrSmax = errors.New("slowness: smax must be positive")
	ErrSpts = errors.New("slowness: grid resolution must be greater than 2")
)

// Point is one candidate slowness vector.
type Point struct {
	East    float64 // s/km
	North   float64 // s/km
	Mag     float64 // s/km
	Azimuth float64 // radians clockwise from north
}

// Grid is a read-only lattice of candidate slowness vectors. Cartesian
// grids index points row-major as [north][east]; polar grids as
// [magnitude][azimuth].
type Grid struct {
	Polar bool

	// Cartesian axes in s/deg, ascending, symmetric about zero.
	X []float64 // east
	Y []float64 // north

	// Polar axes: Mag ascending from 0 to smax in s/deg, Az in degrees
	// spanning the closed circle [0, 360].
	Mag []float64
	Az  []float64

	points []Point
	rows   int
	cols   int
}

// New builds a slowness grid. smax is the slowness radius in s/deg and
// must be positive. spts is the number of points per Cartesian axis, or
// the number of magnitude rings in polar mode; azpts is the number of
// azimuth spokes in polar mode (0 selects spts). Resolutions must be
// greater than 2.
func New(smax float64, spts, azpts int, polar bool) (*Grid, error) {
	if smax <= 0 {
		return nil, ErrSmax
	}

	if spts <= 2 {
		return nil, ErrSpts
	}

	if polar {
		if azpts == 0 {
			azpts = spts
		}
		if azpts <= 2 {
			return nil, ErrSpts
		}
		return newPolar(smax, spts, azpts), nil
	}

	return newCartesian(smax, spts), nil
}

func newCartesian(smax float64, spts int) *Grid {
	g := &Grid{
		X:      make([]float64, spts),
		Y:      make([]float64, spts),
		points: make([]Point, spts*spts),
		rows:   spts,
		cols:   spts,
	}

	step := 2 * smax / float64(spts-1)
	for i := range g.X {
		g.X[i] = -smax + float64(i)*step
		g.Y[i] = g.X[i]
	}

	for iy, sy := range g.Y {
		for ix, sx := range g.X {
			e := sx / geom.KilometersPerDegree
			n := sy / geom.KilometersPerDegree
			g.points[iy*spts+ix] = Point{
				East:    e,
				North:   n,
				Mag:     math.Hypot(e, n),
				Azimuth: math.Atan2(e, n),
			}
		}
	}

	return g
}

func newPolar(smax float64, spts, azpts int) *Grid {
	g := &Grid{
		Polar:  true,
		Mag:    make([]float64, spts),
		Az:     make([]float64, azpts),
		points: make([]Point, spts*azpts),
		rows:   spts,
		cols:   azpts,
	}

	for i := range g.Mag {
		g.Mag[i] = smax * float64(i) / float64(spts-1)
	}

	// Both endpoints of the circle are emitted so polar maps close.
	for j := range g.Az {
		g.Az[j] = 360 * float64(j) / float64(azpts-1)
	}

	for i, m := range g.Mag {
		mag := m / geom.KilometersPerDegree
		for j, azDeg := range g.Az {
			az := azDeg * math.Pi / 180
			g.points[i*azpts+j] = Point{
				East:    mag * math.Sin(az),
				North:   mag * math.Cos(az),
				Mag:     mag,
				Azimuth: az,
			}
		}
	}

	return g
}

// Rows and Cols return the lattice dimensions: (north, east) for
// Cartesian grids, (magnitude, azimuth) for polar grids.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the second lattice dimension.
func (g *Grid) Cols() int { return g.cols }

// Len returns the total number of grid points.
func (g *Grid) Len() int { return len(g.points) }

// At returns the grid point at flat index i (row-major).
func (g *Grid) At(i int) Point { return g.points[i] }

// Steering holds the per-(grid point, pair) rotation and delay tables.
// All three matrices are gridpoints x pairs and are computed once, then
// shared read-only across every frequency and both polarizations.
type Steering struct {
	U     *mat.Dense // cos of slowness-to-offset angle
	V     *mat.Dense // sin of slowness-to-offset angle
	Delay *mat.Dense // slowness dot offset, seconds
}

// Steering computes the rotation cosines and delay projection for every
// combination of grid point and station-pair offset.
//
// The angle theta between a slowness vector and a pair offset gives
// u = cos(theta), v = sin(theta). Zero-magnitude slowness has no
// propagation direction, so u = v = 1 for every pair there. The delay
// entry is the dot product s.r in seconds; the steering phasor at
// frequency f is exp(2*pi*i*f*delay).
func (g *Grid) Steering(offsets []geom.Vector) *Steering {
	np := len(g.points)
	npr := len(offsets)

	s := &Steering{
		U:     mat.NewDense(np, npr, nil),
		V:     mat.NewDense(np, npr, nil),
		Delay: mat.NewDense(np, npr, nil),
	}

	azimuths := make([]float64, npr)
	for j, r := range offsets {
		azimuths[j] = r.Azimuth()
	}

	for i, pt := range g.points {
		for j, r := range offsets {
			s.Delay.Set(i, j, pt.East*r.East+pt.North*r.North)

			if pt.Mag == 0 {
				s.U.Set(i, j, 1)
				s.V.Set(i, j, 1)
				continue
			}

			sin, cos := math.Sincos(pt.Azimuth - azimuths[j])
			s.U.Set(i, j, cos)
			s.V.Set(i, j, sin)
		}
	}

	return s
}
