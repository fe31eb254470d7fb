// Command fkmap beamforms a synthetic plane wave over a ring array and
// prints the recovered slowness peak per frequency band.
//
// Usage:
//
//	fkmap [flags]
//
// Examples:
//
//	fkmap -slow 25 -baz 240
//	fkmap -smax 50 -spts 41 -bands 0.02:0.1,0.1:0.2
//	fkmap -polar -spts 14 -azpts 37
//	fkmap -png beam.png
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dkzhangchao/seizmo/fk"
	"github.com/dkzhangchao/seizmo/geom"
	"github.com/dkzhangchao/seizmo/spectral"
)

func main() {
	var (
		smax     = flag.Float64("smax", 40, "slowness radius in s/deg")
		spts     = flag.Int("spts", 21, "grid points per axis (magnitude rings in polar mode)")
		azpts    = flag.Int("azpts", 0, "azimuth spokes in polar mode (0 = spts)")
		polar    = flag.Bool("polar", false, "use a polar slowness grid")
		bands    = flag.String("bands", "0.02:0.1", "comma-separated low:high bands in Hz")
		stations = flag.Int("stations", 6, "stations on the synthetic ring")
		radius   = flag.Float64("radius", 15, "ring radius in km")
		slow     = flag.Float64("slow", 25, "plane-wave slowness in s/deg")
		baz      = flag.Float64("baz", 240, "plane-wave azimuth in degrees")
		delta    = flag.Float64("delta", 1, "sample interval in seconds")
		npts     = flag.Int("npts", 256, "samples per correlogram (power of two)")
		pngPath  = flag.String("png", "", "write a band-averaged Rayleigh heatmap PNG (Cartesian only)")
	)
	flag.Parse()

	cfg := fk.DefaultConfig()
	cfg.Smax = *smax
	cfg.Spts = *spts
	cfg.AzPts = *azpts
	cfg.Polar = *polar

	var err error
	if cfg.Bands, err = parseBands(*bands); err != nil {
		fatal(err)
	}

	rr, rt, tr, tt := synthesize(*stations, *radius, *slow, *baz, *delta, *npts)

	rayleigh, love, err := fk.Beamform(rr, rt, tr, tt, cfg)
	if err != nil {
		fatal(err)
	}

	report(rayleigh, love)

	if *pngPath != "" {
		if cfg.Polar {
			fatal(fmt.Errorf("fkmap: heatmap output supports Cartesian grids only"))
		}
		if err := writeHeatmap(rayleigh[0], *pngPath); err != nil {
			fatal(err)
		}
		fmt.Println("wrote", *pngPath)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func parseBands(s string) ([]fk.Band, error) {
	var out []fk.Band

	for _, part := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("fkmap: band %q is not low:high", part)
		}

		low, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, fmt.Errorf("fkmap: band %q: %w", part, err)
		}

		high, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, fmt.Errorf("fkmap: band %q: %w", part, err)
		}

		out = append(out, fk.Band{Low: low, High: high})
	}

	return out, nil
}

// synthesize builds four correlation datasets for a ring of stations
// around a common reference point with a plane wave of the given
// slowness crossing the array. Negative lags wrap circularly, which is
// exact as long as npts is the FFT size.
func synthesize(stations int, radius, slow, baz, delta float64, npts int) (rr, rt, tr, tt []spectral.Correlogram) {
	sazr := baz * math.Pi / 180
	s := geom.Vector{
		East:  slow / geom.KilometersPerDegree * math.Sin(sazr),
		North: slow / geom.KilometersPerDegree * math.Cos(sazr),
	}

	rr = make([]spectral.Correlogram, stations)
	rt = make([]spectral.Correlogram, stations)
	tr = make([]spectral.Correlogram, stations)
	tt = make([]spectral.Correlogram, stations)

	for i := 0; i < stations; i++ {
		az := 2 * math.Pi * float64(i) / float64(stations)
		r := geom.Vector{East: radius * math.Sin(az), North: radius * math.Cos(az)}

		pair := geom.Pair{
			Station: geom.Geographic{
				Lat: r.North / geom.KilometersPerDegree,
				Lon: r.East / geom.KilometersPerDegree,
			},
		}

		lag := int(math.Round(-(s.East*r.East + s.North*r.North) / delta))
		idx := ((lag % npts) + npts) % npts

		data := make([]float64, npts)
		data[idx] = 1

		rr[i] = spectral.Correlogram{Data: data, Pair: pair, Delta: delta, Npts: npts}
		for _, set := range []*[]spectral.Correlogram{&rt, &tr, &tt} {
			(*set)[i] = spectral.Correlogram{
				Data: make([]float64, npts), Pair: pair, Delta: delta, Npts: npts,
			}
		}
	}

	return rr, rt, tr, tt
}

func report(rayleigh, love []*fk.Volume) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "band (Hz)\tbins\tpol\tpeak slowness\tpeak level (dB)")

	for i := range rayleigh {
		for _, v := range []struct {
			name string
			vol  *fk.Volume
		}{{"rayleigh", rayleigh[i]}, {"love", love[i]}} {
			band := fmt.Sprintf("%g-%g", v.vol.Band.Low, v.vol.Band.High)

			if v.vol.Empty() {
				fmt.Fprintf(w, "%s\t0\t%s\tskipped: %s\t\n", band, v.name, v.vol.Note)
				continue
			}

			row, col := peakCell(v.vol)

			var loc string
			if v.vol.Polar {
				loc = fmt.Sprintf("%.1f s/deg @ %.0f deg", v.vol.Mag[row], v.vol.Az[col])
			} else {
				loc = fmt.Sprintf("E %.1f, N %.1f s/deg", v.vol.X[col], v.vol.Y[row])
			}

			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.2f\n", band, len(v.vol.Freqs), v.name, loc, v.vol.Peak)
		}
	}

	w.Flush()
}

// bandMean collapses a cell's per-bin dB values into one map value.
func bandMean(cell []float64) float64 {
	sum := 0.0
	for _, v := range cell {
		sum += v
	}
	return sum / float64(len(cell))
}

func peakCell(v *fk.Volume) (row, col int) {
	best := math.Inf(-1)
	for i, r := range v.Beam {
		for j, cell := range r {
			if m := bandMean(cell); m > best {
				best, row, col = m, i, j
			}
		}
	}
	return row, col
}

// beamGrid adapts a band-averaged Cartesian volume to plotter.GridXYZ.
type beamGrid struct {
	x, y []float64
	z    [][]float64
}

func (g beamGrid) Dims() (c, r int) { return len(g.x), len(g.y) }
func (g beamGrid) X(c int) float64  { return g.x[c] }
func (g beamGrid) Y(r int) float64  { return g.y[r] }
func (g beamGrid) Z(c, r int) float64 {
	return g.z[r][c]
}

func writeHeatmap(v *fk.Volume, path string) error {
	if v.Empty() {
		return fmt.Errorf("fkmap: band %g-%g Hz was skipped (%s), nothing to plot",
			v.Band.Low, v.Band.High, v.Note)
	}

	const floorDB = -80 // clamp so -Inf cells do not break the palette range

	g := beamGrid{x: v.X, y: v.Y, z: make([][]float64, len(v.Beam))}

	for i, row := range v.Beam {
		g.z[i] = make([]float64, len(row))
		for j, cell := range row {
			m := bandMean(cell)
			if m < floorDB || math.IsInf(m, -1) {
				m = floorDB
			}
			g.z[i][j] = m
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Rayleigh beam %g-%g Hz", v.Band.Low, v.Band.High)
	p.X.Label.Text = "east slowness (s/deg)"
	p.Y.Label.Text = "north slowness (s/deg)"

	p.Add(plotter.NewHeatMap(g, palette.Heat(48, 1)))

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
