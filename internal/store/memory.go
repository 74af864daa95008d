package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no records for location")
)

// MemoryStore is a concurrency-safe in-memory implementation of meteo.Store,
// used in tests and in serve mode when no database is configured. Like the
// postgres store, saving an already-present (location, date) is a no-op.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: day records ordered by date
	data map[string][]meteo.DatedRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]meteo.DatedRecord),
	}
}

// SaveRecords inserts the records that are not yet present for the location,
// keeping the per-location list ordered by date.
func (s *MemoryStore) SaveRecords(_ context.Context, loc meteo.Location, _ string, records []meteo.DatedRecord) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[key]
	seen := make(map[string]bool, len(existing))
	for _, rec := range existing {
		seen[rec.Date] = true
	}

	for _, rec := range records {
		if seen[rec.Date] {
			continue
		}
		existing = append(existing, rec)
		seen[rec.Date] = true
	}

	sort.Slice(existing, func(i, j int) bool { return existing[i].Date < existing[j].Date })
	s.data[key] = existing
	return nil
}

// GetRange returns the records for a location with fromDate <= date <= toDate.
// ISO dates compare lexicographically, so no parsing is needed.
func (s *MemoryStore) GetRange(_ context.Context, loc meteo.Location, fromDate, toDate string) ([]meteo.DatedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[loc.Key()]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}

	var result []meteo.DatedRecord
	for _, rec := range records {
		if rec.Date >= fromDate && rec.Date <= toDate {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
