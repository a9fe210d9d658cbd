// Package holiday provides HolidayCalendar implementations: an in-memory
// store for fixed holiday data and a caching decorator for slow sources.
package holiday

import (
	"context"
	"sort"
	"sync"

	"github.com/cyp0633/courseplan/schedule"
)

// Store implements schedule.HolidayCalendar using in-memory maps
type Store struct {
	mu    sync.RWMutex
	years map[int][]schedule.Holiday
}

// NewStore creates an empty in-memory holiday store
func NewStore() *Store {
	return &Store{
		years: make(map[int][]schedule.Holiday),
	}
}

// Add registers holidays, bucketing them by year. Duplicate dates are
// kept as given; consumers dedupe by date.
func (s *Store) Add(holidays ...schedule.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range holidays {
		s.years[h.Date.Year] = append(s.years[h.Date.Year], h)
	}
	for year := range s.years {
		hs := s.years[year]
		sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
	}
}

// HolidaysForYear returns the holidays registered for a year, sorted by
// date. An unknown year yields an empty result, not an error.
func (s *Store) HolidaysForYear(_ context.Context, year int) ([]schedule.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hs := s.years[year]
	out := make([]schedule.Holiday, len(hs))
	copy(out, hs)
	return out, nil
}
