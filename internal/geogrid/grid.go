// Package geogrid generates lat/lng sample lattices that cover a city radius.
// Discovery fans one places-search call out per grid point.
package geogrid

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// KMPerDegree is the approximate length of one degree of latitude. Longitude
// degrees shrink by cos(latitude) toward the poles.
const KMPerDegree = 111.0

// DefaultStepKM is the lattice spacing used when none is configured.
const DefaultStepKM = 1.5

const earthRadiusKM = 6371.0

// Point is one sampled grid location.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cell returns the search rectangle centered on the point, sized to the grid
// step, as a go-geom bounds in (lng, lat) axis order.
func (p Point) Cell(stepKM float64) *geom.Bounds {
	halfLat := (stepKM / 2) / KMPerDegree
	halfLng := halfLat / math.Cos(p.Lat*math.Pi/180)
	return geom.NewBounds(geom.XY).Set(p.Lng-halfLng, p.Lat-halfLat, p.Lng+halfLng, p.Lat+halfLat)
}

// Options configures grid generation.
type Options struct {
	RadiusKM  float64 // coverage radius around the center
	StepKM    float64 // lattice spacing; DefaultStepKM when zero
	MaxPoints int     // optional hard cap on generated points; 0 = unlimited
}

// Grid is a deterministic set of sample points covering a circle.
type Grid struct {
	Center Point
	StepKM float64
	Points []Point
}

// Generate builds the grid for the given center and options. It iterates a
// rectangular lattice over the bounding box, row-major from the south-west
// corner, and keeps points whose haversine distance to the center is within
// the radius. Identical inputs always produce an identical point set.
func Generate(center Point, opts Options) (*Grid, error) {
	if opts.RadiusKM <= 0 {
		return nil, eris.New("geogrid: radius_km must be positive")
	}
	if center.Lat < -90 || center.Lat > 90 || center.Lng < -180 || center.Lng > 180 {
		return nil, eris.Errorf("geogrid: invalid center (%f, %f)", center.Lat, center.Lng)
	}
	step := opts.StepKM
	if step <= 0 {
		step = DefaultStepKM
	}

	latDelta := step / KMPerDegree
	// Longitude degrees converge toward the poles; correct by cos(lat).
	lngDelta := latDelta / math.Cos(center.Lat*math.Pi/180)
	latSpan := opts.RadiusKM / KMPerDegree
	lngSpan := latSpan / math.Cos(center.Lat*math.Pi/180)

	g := &Grid{Center: center, StepKM: step}
	steps := int(math.Ceil(opts.RadiusKM / step))

	for i := -steps; i <= steps; i++ {
		lat := center.Lat + float64(i)*latDelta
		if lat < center.Lat-latSpan || lat > center.Lat+latSpan {
			continue
		}
		for j := -steps; j <= steps; j++ {
			lng := center.Lng + float64(j)*lngDelta
			if lng < center.Lng-lngSpan || lng > center.Lng+lngSpan {
				continue
			}
			p := Point{Lat: lat, Lng: lng}
			if Haversine(center, p) > opts.RadiusKM {
				continue
			}
			if opts.MaxPoints > 0 && len(g.Points) >= opts.MaxPoints {
				return g, nil
			}
			g.Points = append(g.Points, p)
		}
	}

	return g, nil
}

// Bounds returns the bounding box of all grid points in (lng, lat) axis order,
// or nil for an empty grid.
func (g *Grid) Bounds() *geom.Bounds {
	if len(g.Points) == 0 {
		return nil
	}
	b := geom.NewBounds(geom.XY)
	for _, p := range g.Points {
		b = b.Extend(geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}))
	}
	return b
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
