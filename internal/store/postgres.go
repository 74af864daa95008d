// Package store provides the persistence backends for aggregated day
// records. The postgres implementation follows the repository pattern: it
// accepts a DBTX interface satisfied by both *pgxpool.Pool and pgx.Tx, so
// the same code works inside or outside a transaction.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS location_data (
		longitude NUMERIC(7,4) NOT NULL,
		latitude  NUMERIC(7,4) NOT NULL,
		date      DATE NOT NULL,
		timezone  VARCHAR(50),
		data      JSONB,
		CONSTRAINT pk_location_data PRIMARY KEY (longitude, latitude, date)
	)`

const insertRecordSQL = `
	INSERT INTO location_data (longitude, latitude, date, timezone, data)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (longitude, latitude, date) DO NOTHING`

const selectRangeSQL = `
	SELECT date, data
	FROM location_data
	WHERE longitude = $1 AND latitude = $2 AND date >= $3 AND date <= $4
	ORDER BY date`

// PostgresStore persists day records in the location_data table, one row per
// (longitude, latitude, date) with the record serialized as a JSONB payload.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the location_data table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRecords upserts one row per record. Rows that already exist under the
// composite key are left untouched, so concurrent duplicate inserts for the
// same key never error.
func (s *PostgresStore) SaveRecords(ctx context.Context, loc meteo.Location, timezone string, records []meteo.DatedRecord) error {
	for _, rec := range records {
		payload, err := json.Marshal(rec.Record)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.Date, err)
		}

		_, err = s.db.Exec(ctx, insertRecordSQL,
			loc.Longitude.String(), loc.Latitude.String(), rec.Date, timezone, payload)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", rec.Date, err)
		}
	}
	return nil
}

// GetRange returns the stored records for a location with
// fromDate <= date <= toDate, ordered by date ascending.
func (s *PostgresStore) GetRange(ctx context.Context, loc meteo.Location, fromDate, toDate string) ([]meteo.DatedRecord, error) {
	rows, err := s.db.Query(ctx, selectRangeSQL,
		loc.Longitude.String(), loc.Latitude.String(), fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var result []meteo.DatedRecord
	for rows.Next() {
		var (
			date    time.Time
			payload []byte
		)
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		var rec meteo.DayRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record %s: %w", date.Format("2006-01-02"), err)
		}

		result = append(result, meteo.DatedRecord{
			Date:   date.Format("2006-01-02"),
			Record: rec,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
