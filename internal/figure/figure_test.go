package figure_test

import (
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dingshijian/tornado-dashboard/internal/figure"
	"github.com/dingshijian/tornado-dashboard/internal/geo"
	"github.com/dingshijian/tornado-dashboard/internal/observability"
	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

const testCSV = `EVENT_TYPE,BEGIN_DATE_TIME,BEGIN_LAT,BEGIN_LON,TOR_F_SCALE
Tornado,03-MAY-99 18:00:00,35.20,-97.50,F0
Tornado,03-MAY-99 19:00:00,35.40,-97.30,F2
Tornado,04-MAY-99 09:00:00,36.00,-96.10,F2
Tornado,20-MAR-00 14:00:00,32.10,-95.00,F1
`

func newStore(t *testing.T) *tornado.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	loader := tornado.NewLoader(slog.Default(), observability.NewMetricsForTesting())
	store, err := loader.Load(path, tornado.LoadOptions{EventType: "Tornado", DefaultFScale: "F0"})
	require.NoError(t, err)
	return store
}

func testBoundary() *geo.Boundary {
	return &geo.Boundary{
		Lats:   []float64{30, 31, math.NaN(), 40, 41},
		Lons:   []float64{-100, -99, math.NaN(), -90, -89},
		Pieces: 2,
	}
}

func newBuilder(t *testing.T) *figure.Builder {
	t.Helper()
	return figure.NewBuilder(newStore(t), testBoundary(), observability.NewMetricsForTesting())
}

func TestBuild_EmptyYearHasBoundaryOnly(t *testing.T) {
	fig := newBuilder(t).Build(1985)

	require.Len(t, fig.Data, 1)
	assert.Equal(t, "lines", fig.Data[0].Mode)
	assert.Equal(t, "County Boundaries", fig.Data[0].Name)
	assert.Equal(t, "Tornado Events - 1985", fig.Layout.Title.Text)
}

func TestBuild_LayerOrderSkipsEmptyCodes(t *testing.T) {
	// 1999 has events rated F0 and F2 only; expect boundary, F0, F2.
	fig := newBuilder(t).Build(1999)

	require.Len(t, fig.Data, 3)
	assert.Equal(t, "County Boundaries", fig.Data[0].Name)
	assert.Equal(t, "Tornado F0", fig.Data[1].Name)
	assert.Equal(t, "Tornado F2", fig.Data[2].Name)

	f2 := fig.Data[2]
	require.NotNil(t, f2.Marker)
	assert.Equal(t, 10, f2.Marker.Size)
	assert.Equal(t, "yellowgreen", f2.Marker.Color)
	assert.Equal(t, 0.8, f2.Marker.Opacity)
	assert.Equal(t, []figure.Coord{35.40, 36.00}, f2.Lat)
	assert.Equal(t, []figure.Coord{-97.30, -96.10}, f2.Lon)
	assert.Equal(t, []string{"03-MAY-99 19:00:00", "04-MAY-99 09:00:00"}, f2.Text)
	assert.Equal(t, "text+name", f2.HoverInfo)
}

func TestBuild_Layout(t *testing.T) {
	fig := newBuilder(t).Build(2000)

	assert.Equal(t, "usa", fig.Layout.Geo.Scope)
	assert.Equal(t, "albers usa", fig.Layout.Geo.Projection.Type)
	assert.Equal(t, "rgb(217, 217, 217)", fig.Layout.Geo.LandColor)
	assert.Equal(t, figure.Margin{R: 0, T: 40, L: 0, B: 0}, fig.Layout.Margin)
}

func TestBuild_Deterministic(t *testing.T) {
	b := newBuilder(t)

	first := b.Build(1999)
	second := b.Build(1999)

	opt := cmp.Comparer(func(a, b figure.Coord) bool {
		return a == b || (math.IsNaN(float64(a)) && math.IsNaN(float64(b)))
	})
	if diff := cmp.Diff(first, second, opt); diff != "" {
		t.Errorf("figure build is not deterministic (-first +second):\n%s", diff)
	}
}

func TestCoord_MarshalsNaNAsNull(t *testing.T) {
	got, err := json.Marshal([]figure.Coord{30, figure.Coord(math.NaN()), -97.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[30, null, -97.5]`, string(got))
}

func TestFigure_MarshalsBoundaryBreaks(t *testing.T) {
	fig := newBuilder(t).Build(1999)

	data, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null", "sentinel break must survive serialization")
	assert.Contains(t, string(data), `"scattergeo"`)
}

func TestCachedBuilder(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	inner := figure.NewBuilder(newStore(t), testBoundary(), metrics)
	cached := figure.NewCachedBuilder(inner, 2, metrics)

	first := cached.Build(1999)
	second := cached.Build(1999)
	assert.Same(t, first, second, "second build must come from cache")

	// Evict 1999 by filling the two slots with other years.
	cached.Build(2000)
	cached.Build(1985)

	third := cached.Build(1999)
	assert.NotSame(t, first, third, "evicted year must be rebuilt")
}
