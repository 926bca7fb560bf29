// Package tornado loads and cleans NOAA storm-event records into an
// immutable, year-indexed store.
//
// # Data Source
//
// Records come from the NOAA Storm Events database, exported as one large
// CSV covering 1980-2024. Column names are fixed strings:
//
//	EVENT_TYPE       event category, e.g. "Tornado", "Hail"
//	BEGIN_DATE_TIME  begin timestamp, e.g. "27-APR-11 15:10:00"
//	BEGIN_LAT        begin latitude in decimal degrees
//	BEGIN_LON        begin longitude in decimal degrees
//	TOR_F_SCALE      Fujita rating, "F0".."F5" or "EF0".."EF5"
//
// Coordinates and timestamps are frequently absent or malformed in the
// source; cleaning absorbs those rows rather than failing. EF-era ratings
// are normalized to the classic F-scale codes ("EF3" -> "F3") so one style
// table covers the whole period.
package tornado

import "fmt"

// Event is one cleaned tornado record. Lat/Lon are always present and
// numeric, Year is derived from the begin timestamp, and FScale is one of
// the six known codes. BeginTime keeps the raw source timestamp string for
// hover text.
type Event struct {
	Lat       float64
	Lon       float64
	Year      int
	FScale    string
	BeginTime string
}

// FScales lists the six Fujita codes in ascending severity order. Figure
// layers and style lookups iterate this slice so output order is fixed.
var FScales = []string{"F0", "F1", "F2", "F3", "F4", "F5"}

// KnownFScale reports whether code is one of the six Fujita codes.
func KnownFScale(code string) bool {
	for _, k := range FScales {
		if k == code {
			return true
		}
	}
	return false
}

// NormalizeFScale maps a raw TOR_F_SCALE cell to one of the six known codes.
// Enhanced Fujita ratings lose their "E" prefix; blank or unrecognized
// values become def.
func NormalizeFScale(raw, def string) string {
	code := raw
	if len(code) > 1 && code[0] == 'E' {
		code = code[1:]
	}
	if KnownFScale(code) {
		return code
	}
	return def
}

// LoadOptions controls cleaning. The zero value is not usable; main fills
// it from config.
type LoadOptions struct {
	// EventType is the exact, case-sensitive EVENT_TYPE value to keep.
	EventType string

	// DefaultFScale backfills absent or blank TOR_F_SCALE cells.
	DefaultFScale string
}

func (o LoadOptions) validate() error {
	if o.EventType == "" {
		return fmt.Errorf("load options: event type is required")
	}
	if !KnownFScale(o.DefaultFScale) {
		return fmt.Errorf("load options: default F-scale %q is not a known code", o.DefaultFScale)
	}
	return nil
}
