// Package geom resolves array geometry for beamforming: it derives an
// array reference center from station and event coordinates and projects
// geographic positions onto a local east-north tangent plane in kilometers.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by geometry functions.
var (
	ErrNoPairs = errors.New("geom: pair list is empty")
)

// KilometersPerDegree is the great-circle distance of one degree of
// latitude on a spherical earth of radius 6371 km.
const KilometersPerDegree = 6371.0 * math.Pi / 180.0

// Geographic is a point on the earth.
type Geographic struct {
	Lat   float64 // degrees north
	Lon   float64 // degrees east
	Elev  float64 // meters above sea level
	Depth float64 // meters below surface
}

// Pair identifies the two ends of one correlogram: the recording station
// and the reference (event) point. Immutable once constructed.
type Pair struct {
	Station Geographic
	Event   Geographic
}

// Vector is a local east-north displacement in kilometers.
type Vector struct {
	East  float64
	North float64
}

// Azimuth returns the vector direction in radians, measured clockwise
// from north.
func (v Vector) Azimuth() float64 {
	return math.Atan2(v.East, v.North)
}

// Length returns the horizontal distance in kilometers.
func (v Vector) Length() float64 {
	return math.Hypot(v.East, v.North)
}

// Center computes the array reference center as the centroid of the
// unique station and event locations contributing to the pair list.
// Locations are deduplicated on microdegree-rounded coordinates so a
// station appearing in many pairs counts once.
func Center(pairs []Pair) (lat, lon float64, err error) {
	if len(pairs) == 0 {
		return 0, 0, ErrNoPairs
	}

	seen := make(map[[2]int64]struct{}, 2*len(pairs))
	n := 0

	add := func(g Geographic) {
		key := [2]int64{int64(math.Round(g.Lat * 1e6)), int64(math.Round(g.Lon * 1e6))}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		lat += g.Lat
		lon += g.Lon
		n++
	}

	for _, p := range pairs {
		add(p.Station)
		add(p.Event)
	}

	return lat / float64(n), lon / float64(n), nil
}

// Project converts a geographic position to local east-north kilometers
// relative to the center (clat, clon) using an equirectangular
// tangent-plane transform.
//
// This is a flat-earth approximation: longitude spacing is scaled by
// cos(clat) only, so the error grows with array aperture. Polar arrays
// and apertures of more than a few degrees are outside its comfort zone.
func Project(lat, lon, clat, clon float64) Vector {
	return Vector{
		East:  (lon - clon) * math.Cos(clat*math.Pi/180) * KilometersPerDegree,
		North: (lat - clat) * KilometersPerDegree,
	}
}

// Offsets returns, for each pair, the station position minus the event
// position in local east-north kilometers relative to (clat, clon).
func Offsets(pairs []Pair, clat, clon float64) ([]Vector, error) {
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}

	out := make([]Vector, len(pairs))

	for i, p := range pairs {
		st := Project(p.Station.Lat, p.Station.Lon, clat, clon)
		ev := Project(p.Event.Lat, p.Event.Lon, clat, clon)
		out[i] = Vector{East: st.East - ev.East, North: st.North - ev.North}
	}

	return out, nil
}

// String implements fmt.Stringer for debugging output.
func (v Vector) String() string {
	return fmt.Sprintf("(%.3f km E, %.3f km N)", v.East, v.North)
}
