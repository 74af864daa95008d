package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

// Scheduler refreshes yesterday's aggregate once a day for every configured
// location. The store's insert-or-ignore semantics make reruns harmless.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *meteo.Service
	locations []meteo.Location
	at        string // "HH:MM", UTC
}

// New creates a new Scheduler firing daily at the given UTC wall time.
func New(locations []meteo.Location, at string, service *meteo.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		at:        at,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Info().Msg("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		log.Info().Msgf("scheduler: aggregating %s for %d locations", yesterday, len(s.locations))

		for _, loc := range s.locations {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			if _, err := s.service.Run(ctx, loc, yesterday, yesterday); err != nil {
				log.Error().Err(err).Str("location", loc.Key()).Msg("scheduler: aggregation failed")
			}
			cancel()
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
