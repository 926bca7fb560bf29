// Package geo loads county polygon boundaries from GeoJSON and flattens
// them into the parallel coordinate sequences a single map trace can draw.
//
// The pipeline runs once at startup: parse the feature collection, simplify
// each polygon ring to a tolerance, union all ring edges into a minimal set
// of line pieces (shared county borders collapse to one line), and emit the
// pieces as one latitude and one longitude sequence with a NaN sentinel
// between disconnected pieces.
package geo

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/dingshijian/tornado-dashboard/internal/observability"
)

// Boundary is the flattened county boundary network. Lats and Lons are
// parallel; math.NaN() separates disconnected line pieces. Computed once,
// read-only afterwards.
type Boundary struct {
	Lats   []float64
	Lons   []float64
	Pieces int
}

// point is a WGS-84 coordinate. GeoJSON positions are [lon, lat].
type point struct {
	lon float64
	lat float64
}

// Flattener turns a GeoJSON feature collection into a Boundary.
type Flattener struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFlattener creates a Flattener.
func NewFlattener(logger *slog.Logger, metrics *observability.Metrics) *Flattener {
	return &Flattener{logger: logger, metrics: metrics}
}

// FlattenBoundaries loads the feature collection at path and flattens it.
// A missing or unparseable file is an error; the caller treats it as fatal.
// The result is deterministic: the same input always produces identical
// sequences.
func (f *Flattener) FlattenBoundaries(path string, tolerance float64) (*Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse boundary file %s: %w", path, err)
	}

	rings := collectRings(fc)
	if len(rings) == 0 {
		return nil, fmt.Errorf("boundary file %s contains no polygon features", path)
	}

	for i, ring := range rings {
		rings[i] = simplifyRing(ring, tolerance)
	}

	pieces := unionRings(rings)
	b := flatten(pieces)

	f.metrics.BoundaryPieces.Set(float64(b.Pieces))
	f.logger.Info("boundaries flattened",
		"features", len(fc.Features),
		"rings", len(rings),
		"pieces", b.Pieces,
		"points", len(b.Lats),
	)
	return b, nil
}

// collectRings extracts every polygon ring (outer and holes) from the
// feature collection. Non-polygon geometries are skipped.
func collectRings(fc *geojson.FeatureCollection) [][]point {
	var rings [][]point
	for _, feat := range fc.Features {
		g := feat.Geometry
		if g == nil {
			continue
		}
		switch {
		case g.IsPolygon():
			rings = append(rings, polygonRings(g.Polygon)...)
		case g.IsMultiPolygon():
			for _, poly := range g.MultiPolygon {
				rings = append(rings, polygonRings(poly)...)
			}
		}
	}
	return rings
}

func polygonRings(poly [][][]float64) [][]point {
	rings := make([][]point, 0, len(poly))
	for _, raw := range poly {
		ring := make([]point, 0, len(raw))
		for _, pos := range raw {
			if len(pos) < 2 {
				continue
			}
			ring = append(ring, point{lon: pos[0], lat: pos[1]})
		}
		if len(ring) >= 2 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// flatten emits the line pieces as parallel coordinate sequences. A NaN
// sentinel separates consecutive pieces; a single piece is emitted
// contiguously with no sentinel.
func flatten(pieces [][]point) *Boundary {
	n := 0
	for _, p := range pieces {
		n += len(p) + 1
	}

	b := &Boundary{
		Lats:   make([]float64, 0, n),
		Lons:   make([]float64, 0, n),
		Pieces: len(pieces),
	}
	for i, piece := range pieces {
		if i > 0 {
			b.Lats = append(b.Lats, math.NaN())
			b.Lons = append(b.Lons, math.NaN())
		}
		for _, pt := range piece {
			b.Lats = append(b.Lats, pt.lat)
			b.Lons = append(b.Lons, pt.lon)
		}
	}
	return b
}
