package meteo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Service orchestrates one aggregation run: fetch both series from the
// provider, aggregate them per day, persist, and export.
type Service struct {
	provider Provider
	store    Store
	exporter Exporter // optional
}

// NewService creates a new Service. exporter may be nil when no file output
// is wanted (e.g. the HTTP serve mode).
func NewService(provider Provider, store Store, exporter Exporter) *Service {
	return &Service{
		provider: provider,
		store:    store,
		exporter: exporter,
	}
}

// Run executes a full batch for [fromDate, toDate] and returns the ordered
// per-day records. Any per-day aggregation failure aborts the run before
// anything is persisted.
func (s *Service) Run(ctx context.Context, loc Location, fromDate, toDate string) ([]DatedRecord, error) {
	ds, err := s.provider.Fetch(ctx, loc, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", s.provider.Name(), err)
	}

	log.Debug().
		Str("location", loc.Key()).
		Int("daily_rows", len(ds.Daily)).
		Int("hourly_rows", len(ds.Hourly)).
		Msg("fetched series")

	records, err := AggregateAll(ds.Daily, ds.Hourly)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveRecords(ctx, loc, ds.Timezone, records); err != nil {
		return nil, fmt.Errorf("save records: %w", err)
	}

	if s.exporter != nil {
		for _, rec := range records {
			if err := s.exporter.WriteDay(loc, rec); err != nil {
				return nil, fmt.Errorf("export day %s: %w", rec.Date, err)
			}
		}
	}

	log.Info().
		Str("location", loc.Key()).
		Int("days", len(records)).
		Msgf("aggregated %s..%s", fromDate, toDate)

	return records, nil
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(ctx context.Context, loc Location, fromDate, toDate string) ([]DatedRecord, error) {
	return s.store.GetRange(ctx, loc, fromDate, toDate)
}
