package tornado

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dingshijian/tornado-dashboard/internal/observability"
)

// Drop reasons reported via the rows_dropped_total metric.
const (
	dropMalformed   = "malformed"
	dropCategory    = "category"
	dropCoordinates = "coordinates"
	dropTimestamp   = "timestamp"
)

// beginTimeLayouts are the timestamp layouts observed across Storm Events
// vintages. Month names in the source are upper-case ("27-APR-11"), which Go
// will not parse directly; cells are title-cased before matching.
var beginTimeLayouts = []string{
	"02-Jan-06 15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// Loader reads the storm-events CSV and produces a Store.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load streams the CSV at path through the cleaner and returns an immutable
// Store. The file is read row by row, so memory is bounded by the cleaned
// subset rather than the file size.
//
// Per-row defects never fail the load: rows of the wrong category, rows
// missing coordinates, and rows with unparseable timestamps are dropped and
// counted. The only errors are an unreadable file or an unusable header.
func (l *Loader) Load(path string, opts LoadOptions) (*Store, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	store, err := l.load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return store, nil
}

func (l *Loader) load(r io.Reader, opts LoadOptions) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are a per-row defect, not a file error

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}
	if !cols.hasFScale {
		l.logger.Warn("TOR_F_SCALE column absent, defaulting every row",
			"default", opts.DefaultFScale)
	}

	byYear := make(map[int][]Event)
	dropped := map[string]int{}
	total := 0

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A row the CSV reader cannot tokenize is a defect in that
			// row, not in the file.
			dropped[dropMalformed]++
			continue
		}

		ev, reason := cleanRow(rec, cols, opts)
		if reason != "" {
			dropped[reason]++
			continue
		}
		byYear[ev.Year] = append(byYear[ev.Year], ev)
		total++
	}

	for reason, n := range dropped {
		l.metrics.RowsDropped.WithLabelValues(reason).Add(float64(n))
	}
	l.metrics.EventsLoaded.Set(float64(total))
	l.logger.Info("dataset loaded",
		"events", total,
		"years", len(byYear),
		"dropped_malformed", dropped[dropMalformed],
		"dropped_category", dropped[dropCategory],
		"dropped_coordinates", dropped[dropCoordinates],
		"dropped_timestamp", dropped[dropTimestamp],
	)

	return newStore(byYear, total), nil
}

// cleanRow applies the cleaning contract to one record. It returns the
// cleaned event, or a non-empty drop reason.
func cleanRow(rec []string, cols columns, opts LoadOptions) (Event, string) {
	if cell(rec, cols.eventType) != opts.EventType {
		return Event{}, dropCategory
	}

	lat, okLat := parseCoordinate(cell(rec, cols.lat))
	lon, okLon := parseCoordinate(cell(rec, cols.lon))
	if !okLat || !okLon {
		return Event{}, dropCoordinates
	}

	raw := cell(rec, cols.beginTime)
	t, ok := parseBeginTime(raw)
	if !ok {
		// Without a year the row can never be selected; drop it.
		return Event{}, dropTimestamp
	}

	fScale := opts.DefaultFScale
	if cols.hasFScale {
		fScale = NormalizeFScale(strings.TrimSpace(cell(rec, cols.fScale)), opts.DefaultFScale)
	}

	return Event{
		Lat:       lat,
		Lon:       lon,
		Year:      t.Year(),
		FScale:    fScale,
		BeginTime: raw,
	}, ""
}

// columns holds resolved header positions.
type columns struct {
	eventType int
	beginTime int
	lat       int
	lon       int
	fScale    int
	hasFScale bool
}

// indexColumns resolves the fixed column names. TOR_F_SCALE is optional;
// everything else missing makes the file structurally unusable.
func indexColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	c := columns{eventType: -1, beginTime: -1, lat: -1, lon: -1, fScale: -1}
	required := map[string]*int{
		"EVENT_TYPE":      &c.eventType,
		"BEGIN_DATE_TIME": &c.beginTime,
		"BEGIN_LAT":       &c.lat,
		"BEGIN_LON":       &c.lon,
	}
	for name, dst := range required {
		i, ok := idx[name]
		if !ok {
			return columns{}, fmt.Errorf("header missing required column %s", name)
		}
		*dst = i
	}

	if i, ok := idx["TOR_F_SCALE"]; ok {
		c.fScale = i
		c.hasFScale = true
	}
	return c, nil
}

// cell returns rec[i] or "" when the row is too short.
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseCoordinate parses a latitude/longitude cell. Blank or non-numeric
// cells are missing, not errors.
func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseBeginTime parses a BEGIN_DATE_TIME cell against the known layouts.
func parseBeginTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	candidates := []string{s}
	if fixed := titleCaseMonth(s); fixed != s {
		candidates = append(candidates, fixed)
	}
	for _, layout := range beginTimeLayouts {
		for _, c := range candidates {
			if t, err := time.Parse(layout, c); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// titleCaseMonth rewrites upper-case month abbreviations ("APR" -> "Apr") so
// the standard time layouts match.
func titleCaseMonth(s string) string {
	for _, m := range [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
		"JUL", "AUG", "SEP", "OCT", "NOV", "DEC"} {
		if strings.Contains(s, m) {
			title := m[:1] + strings.ToLower(m[1:])
			return strings.Replace(s, m, title, 1)
		}
	}
	return s
}
