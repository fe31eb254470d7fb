package fk_test

import (
	"fmt"
	"math"

	"github.com/dkzhangchao/seizmo/fk"
	"github.com/dkzhangchao/seizmo/geom"
	"github.com/dkzhangchao/seizmo/spectral"
)

// Example beamforms a single synthetic station pair 10 km apart along
// east with a 2 s correlation lag and reports the peak east slowness.
func Example() {
	pair := geom.Pair{
		Station: geom.Geographic{Lon: 10 / geom.KilometersPerDegree},
		Event:   geom.Geographic{},
	}

	set := func(spike int) []spectral.Correlogram {
		data := make([]float64, 256)
		if spike >= 0 {
			data[spike] = 1
		}
		return []spectral.Correlogram{{Data: data, Pair: pair, Delta: 1, Npts: 256}}
	}

	cfg := fk.DefaultConfig()
	cfg.Smax = 40
	cfg.Spts = 21
	cfg.Bands = []fk.Band{{Low: 0.02, High: 0.1}}

	rayleigh, _, err := fk.Beamform(set(2), set(-1), set(-1), set(-1), cfg)
	if err != nil {
		fmt.Println("beamform:", err)
		return
	}

	vol := rayleigh[0]

	best, bestCol := math.Inf(-1), 0
	for j := range vol.X {
		sum := 0.0
		for k := range vol.Freqs {
			sum += vol.Beam[10][j][k]
		}
		if sum > best {
			best, bestCol = sum, j
		}
	}

	// A 2 s lag over 10 km east peaks near -0.2 s/km westward.
	fmt.Printf("peak east slowness: %.0f s/deg\n", vol.X[bestCol])
	// Output:
	// peak east slowness: -24 s/deg
}
