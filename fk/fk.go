package fk

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/dkzhangchao/seizmo/geom"
	"github.com/dkzhangchao/seizmo/slowness"
	"github.com/dkzhangchao/seizmo/spectral"
)

// Beamform computes Rayleigh and Love FK volumes, one per configured
// band, from the four component-pair correlation datasets.
//
// The four slices must be parallel: record i of every set describes the
// same station pair, and all records must share sample interval, sample
// count, and begin time. Setup failures (configuration, consistency, a
// band at or above Nyquist) abort the whole computation with no partial
// output. A band that contains no frequency bins is returned as an
// empty volume with a note and does not fail the other bands.
func Beamform(rr, rt, tr, tt []spectral.Correlogram, cfg Config) (rayleigh, love []*Volume, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := checkConsistency(rr, rt, tr, tt); err != nil {
		return nil, nil, err
	}

	weights, sumw, err := resolveWeights(cfg.Weights, len(rr))
	if err != nil {
		return nil, nil, err
	}

	pairs := make([]geom.Pair, len(rr))
	for i := range rr {
		pairs[i] = rr[i].Pair
	}

	clat, clon, err := geom.Center(pairs)
	if err != nil {
		return nil, nil, err
	}

	offsets, err := geom.Offsets(pairs, clat, clon)
	if err != nil {
		return nil, nil, err
	}

	grid, err := slowness.New(cfg.Smax, cfg.Spts, cfg.AzPts, cfg.Polar)
	if err != nil {
		return nil, nil, err
	}

	steer := grid.Steering(offsets)

	var sp [4]*spectral.Spectra
	for i, recs := range [4][]spectral.Correlogram{rr, rt, tr, tt} {
		if sp[i], err = spectral.Transform(recs); err != nil {
			return nil, nil, err
		}
	}

	nyquist := sp[0].Nyquist()
	for i, b := range cfg.Bands {
		if b.High >= nyquist {
			return nil, nil, fmt.Errorf("fk: band %d [%g, %g] with Nyquist %g: %w",
				i, b.Low, b.High, nyquist, ErrBandNyquist)
		}
	}

	bf := &beamformer{
		grid:    grid,
		steer:   steer,
		sp:      sp,
		weights: weights,
		sumw:    sumw,
		workers: cfg.Workers,
		meta: meta{
			pairs: pairs,
			clat:  clat,
			clon:  clon,
			delta: sp[0].Delta,
			npts:  rr[0].Npts,
		},
	}

	rayleigh = make([]*Volume, 0, len(cfg.Bands))
	love = make([]*Volume, 0, len(cfg.Bands))

	for _, b := range cfg.Bands {
		ray, lov := bf.band(b)
		rayleigh = append(rayleigh, ray)
		love = append(love, lov)
	}

	return rayleigh, love, nil
}

type meta struct {
	pairs []geom.Pair
	clat  float64
	clon  float64
	delta float64
	npts  int
}

func (m meta) npairs() int { return len(m.pairs) }

type beamformer struct {
	grid    *slowness.Grid
	steer   *slowness.Steering
	sp      [4]*spectral.Spectra // RR, RT, TR, TT
	weights []float64
	sumw    float64
	workers int
	meta    meta
}

// band computes the Rayleigh and Love volumes for one frequency band.
// Both polarizations come out of a single pass since they share the
// rotation inputs.
func (bf *beamformer) band(b Band) (ray, lov *Volume) {
	ray = bf.newVolume(b)
	lov = bf.newVolume(b)

	lo, hi := bf.sp[0].BinRange(b.Low, b.High)
	if hi == lo {
		note := fmt.Sprintf("no frequency bins in band [%g, %g] Hz", b.Low, b.High)
		ray.Note = note
		lov.Note = note
		ray.Peak = math.Inf(-1)
		lov.Peak = math.Inf(-1)
		return ray, lov
	}

	nb := hi - lo
	ray.Freqs = append([]float64(nil), bf.sp[0].Freqs[lo:hi]...)
	lov.Freqs = append([]float64(nil), ray.Freqs...)

	rows, cols := bf.grid.Rows(), bf.grid.Cols()
	ray.Beam = allocBeam(rows, cols, nb)
	lov.Beam = allocBeam(rows, cols, nb)

	workers := bf.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > nb {
		workers = nb
	}

	// Each bin writes a disjoint column of the output, so the only
	// coordination needed is the job channel.
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newScratch(bf.meta.npairs())
			for k := range jobs {
				bf.bin(lo+k, k, s, ray.Beam, lov.Beam)
			}
		}()
	}

	for k := 0; k < nb; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	ray.normalize()
	lov.normalize()

	return ray, lov
}

type scratch struct {
	rrRe, rrIm, rtRe, rtIm []float64
	trRe, trIm, ttRe, ttIm []float64

	rayRe, rayIm, rayMag []float64
	lovRe, lovIm, lovMag []float64
}

func newScratch(npairs int) *scratch {
	buf := make([]float64, 14*npairs)

	s := &scratch{}
	for _, dst := range []*[]float64{
		&s.rrRe, &s.rrIm, &s.rtRe, &s.rtIm,
		&s.trRe, &s.trIm, &s.ttRe, &s.ttIm,
		&s.rayRe, &s.rayIm, &s.rayMag,
		&s.lovRe, &s.lovIm, &s.lovMag,
	} {
		*dst, buf = buf[:npairs], buf[npairs:]
	}

	return s
}

// bin steers one frequency bin over every grid point and stores the
// resulting dB power at bin slot k of both beams.
//
// Per grid point and pair the four cross-spectra are rotated into the
// wave frame:
//
//	rayleigh = u*u*RR - u*v*RT - v*u*TR + v*v*TT
//	love     = v*v*RR + v*u*RT + u*v*TR + u*u*TT
//
// then whitened to unit magnitude, weighted, aligned with the steering
// phasor exp(2*pi*i*f*delay), and summed across pairs. A rotated value
// with exactly zero magnitude carries no phase and contributes nothing;
// a grid point whose whole sum vanishes comes out at -Inf dB.
func (bf *beamformer) bin(bin, k int, s *scratch, rayBeam, lovBeam [][][]float64) {
	np := bf.meta.npairs()
	fv := bf.sp[0].Freqs[bin]

	for p := 0; p < np; p++ {
		s.rrRe[p], s.rrIm[p] = bf.sp[0].Re[p][bin], bf.sp[0].Im[p][bin]
		s.rtRe[p], s.rtIm[p] = bf.sp[1].Re[p][bin], bf.sp[1].Im[p][bin]
		s.trRe[p], s.trIm[p] = bf.sp[2].Re[p][bin], bf.sp[2].Im[p][bin]
		s.ttRe[p], s.ttIm[p] = bf.sp[3].Re[p][bin], bf.sp[3].Im[p][bin]
	}

	omega := 2 * math.Pi * fv
	cols := bf.grid.Cols()

	for g := 0; g < bf.grid.Len(); g++ {
		u := bf.steer.U.RawRowView(g)
		v := bf.steer.V.RawRowView(g)
		d := bf.steer.Delay.RawRowView(g)

		for p := 0; p < np; p++ {
			uu := u[p] * u[p]
			vv := v[p] * v[p]
			uv := u[p] * v[p]

			s.rayRe[p] = uu*s.rrRe[p] - uv*s.rtRe[p] - uv*s.trRe[p] + vv*s.ttRe[p]
			s.rayIm[p] = uu*s.rrIm[p] - uv*s.rtIm[p] - uv*s.trIm[p] + vv*s.ttIm[p]
			s.lovRe[p] = vv*s.rrRe[p] + uv*s.rtRe[p] + uv*s.trRe[p] + uu*s.ttRe[p]
			s.lovIm[p] = vv*s.rrIm[p] + uv*s.rtIm[p] + uv*s.trIm[p] + uu*s.ttIm[p]
		}

		vecmath.Magnitude(s.rayMag, s.rayRe, s.rayIm)
		vecmath.Magnitude(s.lovMag, s.lovRe, s.lovIm)

		var sumRay, sumLov float64

		for p := 0; p < np; p++ {
			sn, cs := math.Sincos(omega * d[p])

			if s.rayMag[p] > 0 {
				sumRay += bf.weights[p] * (s.rayRe[p]*cs - s.rayIm[p]*sn) / s.rayMag[p]
			}
			if s.lovMag[p] > 0 {
				sumLov += bf.weights[p] * (s.lovRe[p]*cs - s.lovIm[p]*sn) / s.lovMag[p]
			}
		}

		row, col := g/cols, g%cols
		rayBeam[row][col][k] = powerDB(math.Abs(sumRay) / bf.sumw)
		lovBeam[row][col][k] = powerDB(math.Abs(sumLov) / bf.sumw)
	}
}

func (bf *beamformer) newVolume(b Band) *Volume {
	v := &Volume{
		Polar:     bf.grid.Polar,
		Band:      b,
		NPairs:    bf.meta.npairs(),
		Pairs:     bf.meta.pairs,
		CenterLat: bf.meta.clat,
		CenterLon: bf.meta.clon,
		Delta:     bf.meta.delta,
		Npts:      bf.meta.npts,
	}

	if bf.grid.Polar {
		v.Mag = append([]float64(nil), bf.grid.Mag...)
		v.Az = append([]float64(nil), bf.grid.Az...)
	} else {
		v.X = append([]float64(nil), bf.grid.X...)
		v.Y = append([]float64(nil), bf.grid.Y...)
	}

	return v
}

func allocBeam(rows, cols, bins int) [][][]float64 {
	beam := make([][][]float64, rows)
	flat := make([]float64, rows*cols*bins)

	for i := range beam {
		beam[i] = make([][]float64, cols)
		for j := range beam[i] {
			beam[i][j], flat = flat[:bins], flat[bins:]
		}
	}

	return beam
}

// powerDB converts a linear power ratio to decibels, saturating at
// -Inf for non-positive input.
func powerDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(v)
}

func resolveWeights(weights []float64, npairs int) ([]float64, float64, error) {
	if weights == nil {
		w := make([]float64, npairs)
		for i := range w {
			w[i] = 1
		}
		return w, float64(npairs), nil
	}

	if len(weights) != npairs {
		return nil, 0, fmt.Errorf("fk: %d weights for %d pairs: %w",
			len(weights), npairs, ErrWeightCount)
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}

	if sum == 0 {
		return nil, 0, ErrWeightSum
	}

	return weights, sum, nil
}

// checkConsistency verifies that the four datasets are parallel: equal
// counts, shared sampling and timing, and matching pair coordinates at
// every index. Tolerant merging of mismatched datasets belongs to the
// validation layer upstream; this core only refuses.
func checkConsistency(rr, rt, tr, tt []spectral.Correlogram) error {
	n := len(rr)
	if n == 0 {
		return ErrNoData
	}

	if len(rt) != n || len(tr) != n || len(tt) != n {
		return fmt.Errorf("fk: RR=%d RT=%d TR=%d TT=%d: %w",
			len(rr), len(rt), len(tr), len(tt), ErrCountMismatch)
	}

	ref := rr[0]

	for i := 0; i < n; i++ {
		for _, set := range [4][]spectral.Correlogram{rr, rt, tr, tt} {
			r := set[i]

			if r.Delta != ref.Delta || r.Npts != ref.Npts || r.Begin != ref.Begin {
				return fmt.Errorf("fk: record %d sampling/timing mismatch: %w", i, ErrInconsistent)
			}

			if r.Pair != rr[i].Pair {
				return fmt.Errorf("fk: record %d pair coordinates mismatch: %w", i, ErrInconsistent)
			}
		}
	}

	return nil
}
