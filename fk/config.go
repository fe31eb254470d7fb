package fk

import (
	"errors"
	"fmt"

	"github.com/dkzhangchao/seizmo/slowness"
)

// Errors reported before any numerical work begins.
var (
	ErrNoBands       = errors.New("fk: at least one frequency band is required")
	ErrBandOrder     = errors.New("fk: band low frequency must be non-negative and below high")
	ErrBandNyquist   = errors.New("fk: band high frequency must be below Nyquist")
	ErrWeightCount   = errors.New("fk: weight count must match pair count")
	ErrWeightValue   = errors.New("fk: weights must be non-negative")
	ErrWeightSum     = errors.New("fk: weights must not sum to zero")
	ErrCountMismatch = errors.New("fk: the four datasets must have equal record counts")
	ErrNoData        = errors.New("fk: datasets contain no records")
	ErrInconsistent  = errors.New("fk: records disagree in sampling, timing, or geometry")
)

// Band is one [Low, High] frequency range in Hz. Each band is computed
// independently into its own output volume.
type Band struct {
	Low  float64
	High float64
}

// Config lists every recognized beamforming option and its default.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	Smax    float64   // slowness radius, s/deg
	Spts    int       // points per Cartesian axis, or magnitude rings
	AzPts   int       // azimuth spokes in polar mode; 0 selects Spts
	Polar   bool      // polar grid layout instead of Cartesian
	Bands   []Band    // required; one output volume per band
	Weights []float64 // per-pair weights; nil selects uniform 1
	Workers int       // parallel bin workers; 0 selects GOMAXPROCS
}

// DefaultConfig returns sensible defaults for teleseismic noise work.
// Bands must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Smax: 50,
		Spts: 21,
	}
}

// Validate checks everything that can be checked without the data:
// grid parameters, band ordering, and weight values. Weight count and
// the Nyquist bound are data-dependent and are checked during setup.
func (c Config) Validate() error {
	if c.Smax <= 0 {
		return fmt.Errorf("fk: smax %g: %w", c.Smax, slowness.ErrSmax)
	}

	if c.Spts <= 2 {
		return fmt.Errorf("fk: spts %d: %w", c.Spts, slowness.ErrSpts)
	}

	if c.Polar && c.AzPts != 0 && c.AzPts <= 2 {
		return fmt.Errorf("fk: azpts %d: %w", c.AzPts, slowness.ErrSpts)
	}

	if len(c.Bands) == 0 {
		return ErrNoBands
	}

	for i, b := range c.Bands {
		if b.Low < 0 || b.Low >= b.High {
			return fmt.Errorf("fk: band %d [%g, %g]: %w", i, b.Low, b.High, ErrBandOrder)
		}
	}

	sum := 0.0
	for i, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("fk: weight %d is %g: %w", i, w, ErrWeightValue)
		}
		sum += w
	}

	if c.Weights != nil && sum == 0 {
		return ErrWeightSum
	}

	return nil
}
