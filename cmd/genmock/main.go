// Command genmock writes a synthetic storm-events CSV in the NOAA Storm
// Events column layout, for local dashboard runs without the full dataset.
// The output mixes event types and deliberately includes the defects the
// cleaner must absorb: missing coordinates, malformed timestamps, blank and
// EF-prefixed ratings.
//
// Usage:
//
//	go run ./cmd/genmock -out us-weather-events-1980-2024.csv -per-year 40
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

const seed = 19800101 // fixed seed keeps fixtures reproducible

var header = []string{"EVENT_TYPE", "BEGIN_DATE_TIME", "BEGIN_LAT", "BEGIN_LON", "TOR_F_SCALE"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	perYear := flag.Int("per-year", 40, "tornado rows per year")
	firstYear := flag.Int("first-year", 1980, "first year to generate")
	lastYear := flag.Int("last-year", 2024, "last year to generate")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *firstYear > *lastYear {
		return fmt.Errorf("first-year %d is after last-year %d", *firstYear, *lastYear)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	rows := 0
	for year := *firstYear; year <= *lastYear; year++ {
		for i := 0; i < *perYear; i++ {
			if err := w.Write(row(rng, year, i)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	log.Printf("wrote %d rows to %s", rows, *out)
	return nil
}

// row produces one CSV record. Roughly one row in ten carries a defect so
// the cleaner's drop paths get exercised by real runs, not just unit tests.
func row(rng *rand.Rand, year, i int) []string {
	// Cluster coordinates loosely over tornado alley.
	lat := 30.0 + rng.Float64()*18
	lon := -103.0 + rng.Float64()*20

	begin := time.Date(year, time.Month(1+rng.Intn(12)), 1+rng.Intn(28),
		rng.Intn(24), rng.Intn(60), 0, 0, time.UTC)
	beginStr := begin.Format("02-Jan-06 15:04:05")

	rating := tornado.FScales[weightedRating(rng)]
	if year >= 2007 {
		// EF-scale era: the source writes EF-prefixed codes.
		rating = "E" + rating
	}

	rec := []string{
		"Tornado",
		beginStr,
		strconv.FormatFloat(lat, 'f', 2, 64),
		strconv.FormatFloat(lon, 'f', 2, 64),
		rating,
	}

	switch i % 10 {
	case 3:
		rec[0] = "Hail" // wrong category
	case 5:
		rec[2] = "" // missing latitude
	case 7:
		rec[4] = "" // blank rating, cleaner backfills the default
	case 9:
		rec[1] = "unknown" // malformed timestamp
	}
	return rec
}

// weightedRating skews toward weak tornadoes, matching the real
// distribution: most observed tornadoes are F0/F1, F5s are rare.
func weightedRating(rng *rand.Rand) int {
	switch v := rng.Intn(100); {
	case v < 50:
		return 0
	case v < 75:
		return 1
	case v < 88:
		return 2
	case v < 95:
		return 3
	case v < 99:
		return 4
	default:
		return 5
	}
}
