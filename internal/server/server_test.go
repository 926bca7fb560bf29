package server_test

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dingshijian/tornado-dashboard/internal/figure"
	"github.com/dingshijian/tornado-dashboard/internal/geo"
	"github.com/dingshijian/tornado-dashboard/internal/observability"
	"github.com/dingshijian/tornado-dashboard/internal/server"
	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

const testCSV = `EVENT_TYPE,BEGIN_DATE_TIME,BEGIN_LAT,BEGIN_LON,TOR_F_SCALE
Tornado,03-MAY-99 18:00:00,35.20,-97.50,F0
Tornado,03-MAY-99 19:00:00,35.40,-97.30,F2
Tornado,20-MAR-00 14:00:00,32.10,-95.00,F1
`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	metrics := observability.NewMetricsForTesting()
	loader := tornado.NewLoader(slog.Default(), metrics)
	store, err := loader.Load(path, tornado.LoadOptions{EventType: "Tornado", DefaultFScale: "F0"})
	require.NoError(t, err)

	boundary := &geo.Boundary{
		Lats:   []float64{30, 31, math.NaN(), 40, 41},
		Lons:   []float64{-100, -99, math.NaN(), -90, -89},
		Pieces: 2,
	}
	builder := figure.NewCachedBuilder(figure.NewBuilder(store, boundary, metrics), 8, metrics)

	return server.NewServer(":0", builder, store, slog.Default(), metrics)
}

func get(t *testing.T, s *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "US Tornado Dashboard")
	assert.Contains(t, body, `<option value="1980" selected>`)
	assert.Contains(t, body, `<option value="2024">`)
	assert.Contains(t, body, "plotly")
}

func TestFigureEndpoint(t *testing.T) {
	s := newTestServer(t)

	t.Run("year with events", func(t *testing.T) {
		rec := get(t, s, "/api/figure?year=1999")
		require.Equal(t, http.StatusOK, rec.Code)

		var fig figure.Figure
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
		require.Len(t, fig.Data, 3)
		assert.Equal(t, "County Boundaries", fig.Data[0].Name)
		assert.Equal(t, "Tornado F0", fig.Data[1].Name)
		assert.Equal(t, "Tornado F2", fig.Data[2].Name)
		assert.Equal(t, "Tornado Events - 1999", fig.Layout.Title.Text)
	})

	t.Run("year with no events", func(t *testing.T) {
		rec := get(t, s, "/api/figure?year=1985")
		require.Equal(t, http.StatusOK, rec.Code)

		var fig figure.Figure
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
		assert.Len(t, fig.Data, 1, "boundary layer only")
	})

	t.Run("missing year", func(t *testing.T) {
		rec := get(t, s, "/api/figure")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-integer year", func(t *testing.T) {
		rec := get(t, s, "/api/figure?year=about-1999")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestYearsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/years")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Years []int `json:"years"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []int{1999, 2000}, body.Years)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)

	rec := get(t, s, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
		Events int    `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, 3, body.Events)
}

func TestRequestIDHeader(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
