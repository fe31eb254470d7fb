package geom

import (
	"math"
	"testing"
)

func TestCenterEmptyPairs(t *testing.T) {
	_, _, err := Center(nil)
	if err != ErrNoPairs {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
}

func TestCenterDeduplicatesLocations(t *testing.T) {
	st := Geographic{Lat: 10, Lon: 20}
	ev := Geographic{Lat: 30, Lon: 40}

	// The same two locations in every pair must count once each.
	pairs := []Pair{
		{Station: st, Event: ev},
		{Station: st, Event: ev},
		{Station: st, Event: ev},
	}

	lat, lon, err := Center(pairs)
	if err != nil {
		t.Fatalf("Center failed: %v", err)
	}

	if math.Abs(lat-20) > 1e-12 || math.Abs(lon-30) > 1e-12 {
		t.Fatalf("center mismatch: got (%f, %f) want (20, 30)", lat, lon)
	}
}

func TestProjectCardinalDirections(t *testing.T) {
	// One degree north of center at the equator is ~111.19 km north.
	v := Project(1, 0, 0, 0)
	if math.Abs(v.North-KilometersPerDegree) > 1e-9 {
		t.Fatalf("north projection mismatch: got %f", v.North)
	}
	if math.Abs(v.East) > 1e-9 {
		t.Fatalf("expected zero east component, got %f", v.East)
	}

	// One degree east at 60N is scaled by cos(60) = 0.5.
	v = Project(60, 1, 60, 0)
	want := 0.5 * KilometersPerDegree
	if math.Abs(v.East-want) > 1e-6 {
		t.Fatalf("east projection mismatch: got %f want %f", v.East, want)
	}

	// The center projects to the origin.
	v = Project(12.5, -45.25, 12.5, -45.25)
	if v.East != 0 || v.North != 0 {
		t.Fatalf("center should project to origin, got %v", v)
	}
}

func TestOffsetsStationMinusEvent(t *testing.T) {
	pairs := []Pair{
		{
			Station: Geographic{Lat: 0, Lon: 1},
			Event:   Geographic{Lat: 0, Lon: 0},
		},
	}

	offs, err := Offsets(pairs, 0, 0.5)
	if err != nil {
		t.Fatalf("Offsets failed: %v", err)
	}

	if math.Abs(offs[0].East-KilometersPerDegree) > 1e-9 {
		t.Fatalf("offset east mismatch: got %f want %f", offs[0].East, KilometersPerDegree)
	}
	if math.Abs(offs[0].North) > 1e-9 {
		t.Fatalf("offset north should be zero, got %f", offs[0].North)
	}
}

func TestVectorAzimuthAndLength(t *testing.T) {
	cases := []struct {
		v  Vector
		az float64
	}{
		{Vector{East: 0, North: 1}, 0},
		{Vector{East: 1, North: 0}, math.Pi / 2},
		{Vector{East: 0, North: -1}, math.Pi},
		{Vector{East: -1, North: 0}, -math.Pi / 2},
	}

	for _, c := range cases {
		if math.Abs(c.v.Azimuth()-c.az) > 1e-12 {
			t.Fatalf("azimuth of %v: got %f want %f", c.v, c.v.Azimuth(), c.az)
		}
		if math.Abs(c.v.Length()-1) > 1e-12 {
			t.Fatalf("length of %v: got %f want 1", c.v, c.v.Length())
		}
	}
}
