package fk

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dkzhangchao/seizmo/geom"
)

// Volume is the beamforming result for one frequency band and one
// polarization. Beam is indexed [north][east][bin] for Cartesian grids
// and [magnitude][azimuth][bin] for polar grids; values are decibels
// relative to the band peak after normalization. The Rayleigh and Love
// volumes of a band share the same grid axes.
type Volume struct {
	Polar bool

	// Cartesian axes in s/deg (nil for polar grids).
	X []float64
	Y []float64

	// Polar axes: magnitude in s/deg and azimuth in degrees (nil for
	// Cartesian grids).
	Mag []float64
	Az  []float64

	Band  Band      // the requested frequency range
	Freqs []float64 // frequencies actually included; empty if skipped
	Beam  [][][]float64

	// Peak is the absolute dB level subtracted during normalization;
	// add it back to recover unnormalized levels.
	Peak float64

	// Note describes why a band was skipped, if it was.
	Note string

	// Array metadata carried through from the input records. The
	// center is the centroid of the unique station and event locations.
	NPairs    int
	Pairs     []geom.Pair
	CenterLat float64
	CenterLon float64
	Delta     float64
	Npts      int
}

// Empty reports whether the band contained no frequency bins and was
// skipped.
func (v *Volume) Empty() bool {
	return len(v.Freqs) == 0
}

// normalize rescales the beam to decibels relative to its own peak and
// records the subtracted level. A volume with no finite values (or no
// bins at all) is left untouched with Peak set to -Inf.
func (v *Volume) normalize() {
	peak := math.Inf(-1)

	for _, row := range v.Beam {
		for _, cell := range row {
			if len(cell) == 0 {
				continue
			}
			if m := floats.Max(cell); m > peak {
				peak = m
			}
		}
	}

	v.Peak = peak
	if math.IsInf(peak, -1) {
		return
	}

	for _, row := range v.Beam {
		for _, cell := range row {
			floats.AddConst(-peak, cell)
		}
	}
}
