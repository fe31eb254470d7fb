package fk

import (
	"testing"

	"github.com/dkzhangchao/seizmo/geom"
	"github.com/dkzhangchao/seizmo/spectral"
)

func benchInput(npairs, n int) (rr, rt, tr, tt []spectral.Correlogram) {
	pairs := make([]geom.Pair, npairs)
	spikes := make([]int, npairs)
	for i := range pairs {
		pairs[i] = pairEastOf(float64(5+i), float64(i%7))
		spikes[i] = (i*3 + 1) % n
	}

	rr = impulseSet(pairs, spikes, n, 1)
	rt = impulseSet(pairs, spikes, n, 1)
	tr = impulseSet(pairs, spikes, n, 1)
	tt = impulseSet(pairs, spikes, n, 1)
	return rr, rt, tr, tt
}

func BenchmarkBeamform(b *testing.B) {
	rr, rt, tr, tt := benchInput(28, 512)

	cfg := DefaultConfig()
	cfg.Smax = 40
	cfg.Spts = 41
	cfg.Bands = []Band{{Low: 0.02, High: 0.1}}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := Beamform(rr, rt, tr, tt, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBeamformSerial(b *testing.B) {
	rr, rt, tr, tt := benchInput(28, 512)

	cfg := DefaultConfig()
	cfg.Smax = 40
	cfg.Spts = 41
	cfg.Bands = []Band{{Low: 0.02, High: 0.1}}
	cfg.Workers = 1

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := Beamform(rr, rt, tr, tt, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
