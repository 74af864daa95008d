package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/openmeteo-daily-aggregation/internal/api/http"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/config"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/export"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo/providers"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/scheduler"
	"github.com/i474232898/openmeteo-daily-aggregation/internal/store"
)

var validate = validator.New()

type runFlags struct {
	Longitude string `validate:"omitempty,longitude"`
	Latitude  string `validate:"omitempty,latitude"`
	City      string
	Country   string
	From      string `validate:"required,datetime=2006-01-02"`
	To        string `validate:"required,datetime=2006-01-02"`
	JSON      bool
	CSV       bool
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	rootCmd := &cobra.Command{
		Use:   "openmeteo-daily-aggregation",
		Short: "Per-day aggregation of Open-Meteo hourly weather series",
	}
	rootCmd.AddCommand(newRunCmd(cfg), newServeCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCmd builds the one-shot batch command: fetch the series for one
// location and date range, aggregate per day, persist and export.
func newRunCmd(cfg *config.AppConfig) *cobra.Command {
	flags := runFlags{}
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, aggregate, store and export one location's date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(flags); err != nil {
				return err
			}
			if flags.From > flags.To {
				return fmt.Errorf("--from %s must not be after --to %s", flags.From, flags.To)
			}

			loc, err := resolveLocation(cfg, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			st, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
			provider := providers.NewOpenMeteoProvider(httpClient)
			exporter := export.NewFileExporter(cfg.OutputDir, flags.JSON, flags.CSV)
			service := meteo.NewService(provider, st, exporter)

			records, err := service.Run(ctx, loc, flags.From, flags.To)
			if err != nil {
				return err
			}

			log.Info().
				Str("location", loc.Key()).
				Int("days", len(records)).
				Str("output_dir", cfg.OutputDir).
				Msg("run finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Longitude, "lon", "", "longitude as decimal string (e.g. 83.0)")
	cmd.Flags().StringVar(&flags.Latitude, "lat", "", "latitude as decimal string (e.g. 55.0)")
	cmd.Flags().StringVar(&flags.City, "city", "", "city to geocode instead of --lon/--lat")
	cmd.Flags().StringVar(&flags.Country, "country", "", "country for --city geocoding")
	cmd.Flags().StringVar(&flags.From, "from", yesterday, "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.To, "to", yesterday, "end date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "write one JSON file per day")
	cmd.Flags().BoolVar(&flags.CSV, "csv", true, "write one CSV file per day")

	return cmd
}

// newServeCmd builds the HTTP API command: serve stored records and refresh
// yesterday's aggregate daily for the configured locations.
func newServeCmd(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored day records over HTTP with a daily refresh job",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
			provider := providers.NewOpenMeteoProvider(httpClient)
			service := meteo.NewService(provider, st, nil)

			sched := scheduler.New(cfg.Locations, cfg.ScheduleAt, service)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			defer sched.Stop()

			app := fiber.New(fiber.Config{
				AppName:               "openmeteo-daily-aggregation",
				DisableStartupMessage: true,
				ReadTimeout:           10 * time.Second,
				WriteTimeout:          10 * time.Second,
				ErrorHandler: func(c *fiber.Ctx, err error) error {
					code := fiber.StatusInternalServerError
					if e, ok := err.(*fiber.Error); ok {
						code = e.Code
					}
					return c.Status(code).JSON(fiber.Map{
						"error":   true,
						"message": err.Error(),
					})
				},
			})

			app.Use(logger.New())
			app.Use(recover.New())

			app.Get("/health", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{
					"status":  "ok",
					"service": "openmeteo-daily-aggregation",
				})
			})

			httpapi.RegisterRoutes(app, service)

			go func() {
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Error().Err(err).Msg("fiber server stopped")
				}
			}()
			log.Info().Msgf("listening on :%s", cfg.Port)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
}

// newStore opens the postgres store when a database is configured and falls
// back to the in-memory store otherwise.
func newStore(ctx context.Context, cfg *config.AppConfig) (meteo.Store, func(), error) {
	dsn := cfg.DatabaseURL()
	if dsn == "" {
		log.Warn().Msg("no database configured; records are kept in memory only")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	pg := store.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}

// resolveLocation picks explicit coordinates when given, otherwise geocodes
// --city/--country.
func resolveLocation(cfg *config.AppConfig, flags runFlags) (meteo.Location, error) {
	if flags.Longitude != "" && flags.Latitude != "" {
		return meteo.NewLocation(flags.Longitude, flags.Latitude)
	}

	if flags.City == "" {
		return meteo.Location{}, fmt.Errorf("either --lon/--lat or --city is required")
	}
	if cfg.GeocoderAPIKey == "" {
		return meteo.Location{}, fmt.Errorf("GEOCODER_API_KEY is required to geocode --city")
	}

	geocoder.ApiKey = cfg.GeocoderAPIKey
	resolved, err := geocoder.Geocoding(geocoder.Address{
		City:    flags.City,
		Country: flags.Country,
	})
	if err != nil {
		return meteo.Location{}, fmt.Errorf("geocode %s: %w", flags.City, err)
	}

	return meteo.Location{
		Longitude: decimal.NewFromFloat(resolved.Longitude).Round(4),
		Latitude:  decimal.NewFromFloat(resolved.Latitude).Round(4),
	}, nil
}
