// Package terrain holds the in-memory terrain dataset and answers
// nearest-sample queries against it.
package terrain

import (
	"fmt"
	"math"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// Index is an immutable collection of terrain samples. It is safe for
// concurrent use once built.
type Index struct {
	samples []domain.TerrainSample
	bounds  Bounds
}

// Match is the result of a nearest-sample query.
type Match struct {
	Sample   domain.TerrainSample
	Distance float64 // planar distance in degrees
	Position int     // position of Sample in the build order
}

// Bounds is the lat/lon bounding box of the indexed samples.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Build copies the finite samples, in order, into a new Index. It fails
// with domain.ErrDataError when no usable sample remains.
func Build(samples []domain.TerrainSample) (*Index, error) {
	kept := make([]domain.TerrainSample, 0, len(samples))
	for _, s := range samples {
		if s.Finite() {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no terrain samples (%d rejected)", domain.ErrDataError, len(samples))
	}

	b := Bounds{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
	}
	for _, s := range kept {
		b.MinLat = math.Min(b.MinLat, s.Latitude)
		b.MaxLat = math.Max(b.MaxLat, s.Latitude)
		b.MinLon = math.Min(b.MinLon, s.Longitude)
		b.MaxLon = math.Max(b.MaxLon, s.Longitude)
	}

	return &Index{samples: kept, bounds: b}, nil
}

// Len returns the number of indexed samples.
func (idx *Index) Len() int { return len(idx.samples) }

// Bounds returns the bounding box of the indexed samples.
func (idx *Index) Bounds() Bounds { return idx.bounds }

// Nearest returns the sample closest to (lat, lon) by Euclidean distance in
// degree space. Ties go to the sample that came first in the build order.
// There is no distance cutoff: a far-away query still gets the closest
// sample, and callers that care can inspect Match.Distance.
func (idx *Index) Nearest(lat, lon float64) Match {
	best := 0
	bestDist := math.Inf(1)
	for i, s := range idx.samples {
		if d := PlanarDistance(lat, lon, s.Latitude, s.Longitude); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Match{
		Sample:   idx.samples[best],
		Distance: bestDist,
		Position: best,
	}
}

// PlanarDistance is the Euclidean distance between two points treating
// latitude and longitude as plane coordinates. It ignores Earth curvature.
func PlanarDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
