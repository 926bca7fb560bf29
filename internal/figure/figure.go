// Package figure builds Plotly-compatible map figures from the cleaned
// event store and the flattened county boundary network.
package figure

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dingshijian/tornado-dashboard/internal/geo"
	"github.com/dingshijian/tornado-dashboard/internal/observability"
	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

// Coord is a coordinate value that marshals NaN as JSON null, which Plotly
// treats as a break between line segments.
type Coord float64

// MarshalJSON implements json.Marshaler.
func (c Coord) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(c)) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(c), 'g', -1, 64), nil
}

// Figure is a renderable map: an ordered trace list plus layout metadata.
// It is a pure function of (store, boundary, year) and is never mutated
// after Build returns.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one scattergeo layer.
type Trace struct {
	Type      string   `json:"type"`
	Mode      string   `json:"mode"`
	Lat       []Coord  `json:"lat"`
	Lon       []Coord  `json:"lon"`
	Line      *Line    `json:"line,omitempty"`
	Marker    *Marker  `json:"marker,omitempty"`
	Name      string   `json:"name"`
	Text      []string `json:"text,omitempty"`
	HoverInfo string   `json:"hoverinfo,omitempty"`
}

// Line styles a lines-mode trace.
type Line struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Marker styles a markers-mode trace.
type Marker struct {
	Size    int     `json:"size"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Layout carries the title, projection, and margins.
type Layout struct {
	Title  Title  `json:"title"`
	Geo    Geo    `json:"geo"`
	Margin Margin `json:"margin"`
}

// Title wraps the figure title text.
type Title struct {
	Text string `json:"text"`
}

// Geo configures the USA-scoped map projection and land styling.
type Geo struct {
	Scope        string     `json:"scope"`
	Projection   Projection `json:"projection"`
	ShowLand     bool       `json:"showland"`
	LandColor    string     `json:"landcolor"`
	SubunitColor string     `json:"subunitcolor"`
	CountryColor string     `json:"countrycolor"`
	LakeColor    string     `json:"lakecolor"`
}

// Projection names the map projection.
type Projection struct {
	Type string `json:"type"`
}

// Margin is the figure margin in pixels.
type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// usaGeo is the fixed map styling shared by every figure.
var usaGeo = Geo{
	Scope:        "usa",
	Projection:   Projection{Type: "albers usa"},
	ShowLand:     true,
	LandColor:    "rgb(217, 217, 217)",
	SubunitColor: "rgb(255, 255, 255)",
	CountryColor: "rgb(255, 255, 255)",
	LakeColor:    "rgb(255, 255, 255)",
}

// Builder renders figures from the immutable startup context: the cleaned
// event store and the flattened boundary. Safe for concurrent use.
type Builder struct {
	store    *tornado.Store
	boundary *geo.Boundary
	metrics  *observability.Metrics

	// boundary coordinates converted once; shared by every figure.
	boundaryLat []Coord
	boundaryLon []Coord
}

// NewBuilder creates a Builder over the given store and boundary.
func NewBuilder(store *tornado.Store, boundary *geo.Boundary, metrics *observability.Metrics) *Builder {
	return &Builder{
		store:       store,
		boundary:    boundary,
		metrics:     metrics,
		boundaryLat: toCoords(boundary.Lats),
		boundaryLon: toCoords(boundary.Lons),
	}
}

// Build constructs the figure for a year. Layer order is deterministic:
// the boundary layer first, then one marker layer per Fujita code in
// ascending order, skipping codes with no events that year. A year with no
// events yields the boundary layer alone.
func (b *Builder) Build(year int) *Figure {
	start := time.Now()
	defer func() {
		b.metrics.FiguresBuilt.Inc()
		b.metrics.FigureBuildDuration.Observe(time.Since(start).Seconds())
	}()

	fig := &Figure{
		Data: []Trace{{
			Type: "scattergeo",
			Mode: "lines",
			Lat:  b.boundaryLat,
			Lon:  b.boundaryLon,
			Line: &Line{Width: 2, Color: "black"},
			Name: "County Boundaries",
		}},
		Layout: Layout{
			Title:  Title{Text: fmt.Sprintf("Tornado Events - %d", year)},
			Geo:    usaGeo,
			Margin: Margin{R: 0, T: 40, L: 0, B: 0},
		},
	}

	events := b.store.ByYear(year)
	for _, code := range tornado.FScales {
		trace, ok := markerTrace(events, code)
		if ok {
			fig.Data = append(fig.Data, trace)
		}
	}
	return fig
}

// markerTrace builds the marker layer for one Fujita code, or reports false
// when the year has no events with that code.
func markerTrace(events []tornado.Event, code string) (Trace, bool) {
	var lat, lon []Coord
	var text []string
	for _, ev := range events {
		if ev.FScale != code {
			continue
		}
		lat = append(lat, Coord(ev.Lat))
		lon = append(lon, Coord(ev.Lon))
		text = append(text, ev.BeginTime)
	}
	if len(lat) == 0 {
		return Trace{}, false
	}

	style := fScaleStyles[code]
	return Trace{
		Type:      "scattergeo",
		Mode:      "markers",
		Lat:       lat,
		Lon:       lon,
		Marker:    &Marker{Size: style.Size, Color: style.Color, Opacity: 0.8},
		Name:      "Tornado " + code,
		Text:      text,
		HoverInfo: "text+name",
	}, true
}

func toCoords(vals []float64) []Coord {
	out := make([]Coord, len(vals))
	for i, v := range vals {
		out[i] = Coord(v)
	}
	return out
}
