// Package fk computes frequency-wavenumber beamforming maps from
// pairwise cross-correlation datasets, separating surface-wave energy
// into Rayleigh (radial) and Love (transverse) components over a grid
// of candidate horizontal slowness vectors.
//
// The estimator steers the four component-pair cross-spectra (RR, RT,
// TR, TT) over every grid point: the spectra are rotated into the
// candidate wave's propagation frame with direction cosines, whitened
// to unit magnitude, weighted, phase-aligned with the plane-wave
// steering phasor, and summed across station pairs. The real part of
// the sum, normalized by the weight total, gives the beam power per
// (slowness, frequency) cell in decibels relative to each band's peak.
//
// # Usage
//
//	cfg := fk.DefaultConfig()
//	cfg.Smax = 40
//	cfg.Spts = 21
//	cfg.Bands = []fk.Band{{Low: 0.02, High: 0.1}}
//	rayleigh, love, err := fk.Beamform(rr, rt, tr, tt, cfg)
package fk
