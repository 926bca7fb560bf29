package tornado

import (
	"sort"
	"time"
)

// Store is the immutable, year-indexed event table. It is written once by
// the Loader at startup and safe to share across any number of concurrent
// readers afterwards.
type Store struct {
	byYear   map[int][]Event
	years    []int
	total    int
	loadedAt time.Time
}

func newStore(byYear map[int][]Event, total int) *Store {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	return &Store{
		byYear:   byYear,
		years:    years,
		total:    total,
		loadedAt: clock.Now(),
	}
}

// ByYear returns the events for a year in source order. Unknown years return
// an empty slice, never an error. The returned slice is shared and must be
// treated as read-only.
func (s *Store) ByYear(year int) []Event {
	return s.byYear[year]
}

// Years returns the years with at least one event, ascending.
func (s *Store) Years() []int {
	return s.years
}

// Len returns the total number of cleaned events.
func (s *Store) Len() int {
	return s.total
}

// LoadedAt returns when the store was built.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}
