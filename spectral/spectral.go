// Package spectral converts time-domain correlograms into one-sided
// cross-spectra for beamforming.
package spectral

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/dkzhangchao/seizmo/geom"
)

// Errors returned by the spectral transform.
var (
	ErrNoRecords   = errors.New("spectral: record list is empty")
	ErrEmptyRecord = errors.New("spectral: record has no samples")
	ErrBadDelta    = errors.New("spectral: sample interval must be positive")
	ErrBadNpts     = errors.New("spectral: record sample count disagrees with its data")
)

// Correlogram is one pre-validated cross-correlation record. Records fed
// to Transform must already agree in Delta, Npts, and Begin; enforcing
// that agreement across datasets is the caller's job.
type Correlogram struct {
	Data  []float64
	Pair  geom.Pair
	Delta float64 // sample interval, seconds
	Npts  int     // sample count
	Begin float64 // time of first sample, seconds
}

// Spectra holds one-sided cross-spectra for a set of correlograms as
// split real/imaginary planes of shape pairs x bins. The split layout
// lets the beam kernel gather per-bin slices and feed vector magnitude
// routines without unpacking complex values.
type Spectra struct {
	Re [][]float64
	Im [][]float64

	Freqs []float64 // bin center frequencies, Hz
	Delta float64
	Nfft  int
}

// Pairs returns the number of records in the set.
func (s *Spectra) Pairs() int { return len(s.Re) }

// Bins returns the number of non-negative frequency bins.
func (s *Spectra) Bins() int { return len(s.Freqs) }

// Transform computes the one-sided cross-spectrum of every record.
//
// Each series is zero-padded to the next power of two at or above the
// longest record, transformed with a forward FFT, and truncated to the
// non-negative bins 0..nfft/2 (the input is real, so the negative bins
// are redundant conjugates). The result is conjugated: correlation-lag
// ordering flips the sign of the phase, and conjugating restores the
// true cross-spectrum between the two components. Bin k sits at
// frequency k/(Delta*nfft).
func Transform(recs []Correlogram) (*Spectra, error) {
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}

	npts := 0
	delta := recs[0].Delta

	for i := range recs {
		if len(recs[i].Data) == 0 {
			return nil, ErrEmptyRecord
		}
		if recs[i].Delta <= 0 {
			return nil, ErrBadDelta
		}
		if recs[i].Npts != len(recs[i].Data) {
			return nil, fmt.Errorf("spectral: record %d has npts %d for %d samples: %w",
				i, recs[i].Npts, len(recs[i].Data), ErrBadNpts)
		}
		if len(recs[i].Data) > npts {
			npts = len(recs[i].Data)
		}
	}

	nfft := nextPowerOf2(npts)
	nbins := nfft/2 + 1

	plan, err := algofft.NewPlan64(nfft)
	if err != nil {
		return nil, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	s := &Spectra{
		Re:    make([][]float64, len(recs)),
		Im:    make([][]float64, len(recs)),
		Freqs: make([]float64, nbins),
		Delta: delta,
		Nfft:  nfft,
	}

	for k := range s.Freqs {
		s.Freqs[k] = float64(k) / (delta * float64(nfft))
	}

	in := make([]complex128, nfft)
	out := make([]complex128, nfft)

	for i := range recs {
		for j := range in {
			in[j] = 0
		}
		for j, v := range recs[i].Data {
			in[j] = complex(v, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectral: forward FFT failed: %w", err)
		}

		re := make([]float64, nbins)
		im := make([]float64, nbins)
		for k := 0; k < nbins; k++ {
			re[k] = real(out[k])
			im[k] = -imag(out[k]) // conjugate
		}

		s.Re[i] = re
		s.Im[i] = im
	}

	return s, nil
}

// Nyquist returns the highest resolvable frequency for the set.
func (s *Spectra) Nyquist() float64 {
	return 1 / (2 * s.Delta)
}

// BinRange returns the half-open index range [lo, hi) of bins whose
// frequency lies inside [low, high]. An empty range means no bin falls
// in the band.
func (s *Spectra) BinRange(low, high float64) (lo, hi int) {
	// A small tolerance keeps bins sitting exactly on a band edge from
	// being dropped by floating-point fuzz.
	const eps = 1e-9

	lo = int(math.Ceil(low*s.Delta*float64(s.Nfft) - eps))
	if lo < 0 {
		lo = 0
	}

	hi = int(math.Floor(high*s.Delta*float64(s.Nfft)+eps)) + 1
	if hi > len(s.Freqs) {
		hi = len(s.Freqs)
	}

	if hi < lo {
		hi = lo
	}

	return lo, hi
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
