package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkzhangchao/seizmo/fk"
)

func TestParseBands(t *testing.T) {
	bands, err := parseBands("0.02:0.1, 0.1:0.2")
	if err != nil {
		t.Fatalf("parseBands failed: %v", err)
	}

	want := []fk.Band{{Low: 0.02, High: 0.1}, {Low: 0.1, High: 0.2}}
	if len(bands) != 2 || bands[0] != want[0] || bands[1] != want[1] {
		t.Fatalf("band mismatch: got %+v", bands)
	}

	if _, err := parseBands("0.02"); err == nil {
		t.Fatal("expected error for band without separator")
	}
	if _, err := parseBands("a:0.1"); err == nil {
		t.Fatal("expected error for non-numeric bound")
	}
}

func TestWriteHeatmapRejectsSkippedBand(t *testing.T) {
	rr, rt, tr, tt := synthesize(4, 15, 25, 240, 1, 256)

	cfg := fk.DefaultConfig()
	cfg.Smax = 40
	cfg.Spts = 21
	// nfft=256, delta=1: no bin falls between 16.1/256 and 16.9/256 Hz.
	cfg.Bands = []fk.Band{{Low: 16.1 / 256, High: 16.9 / 256}}

	rayleigh, _, err := fk.Beamform(rr, rt, tr, tt, cfg)
	if err != nil {
		t.Fatalf("Beamform failed: %v", err)
	}
	if !rayleigh[0].Empty() {
		t.Fatal("band should be empty")
	}

	path := filepath.Join(t.TempDir(), "beam.png")
	err = writeHeatmap(rayleigh[0], path)
	if err == nil {
		t.Fatal("expected an error for a skipped band")
	}
	if !strings.Contains(err.Error(), "skipped") {
		t.Fatalf("error should mention the skipped band: %v", err)
	}
}

func TestWriteHeatmapPopulatedBand(t *testing.T) {
	rr, rt, tr, tt := synthesize(4, 15, 25, 240, 1, 256)

	cfg := fk.DefaultConfig()
	cfg.Smax = 40
	cfg.Spts = 11
	cfg.Bands = []fk.Band{{Low: 0.02, High: 0.1}}

	rayleigh, _, err := fk.Beamform(rr, rt, tr, tt, cfg)
	if err != nil {
		t.Fatalf("Beamform failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "beam.png")
	if err := writeHeatmap(rayleigh[0], path); err != nil {
		t.Fatalf("writeHeatmap failed: %v", err)
	}
}
