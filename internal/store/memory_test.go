package store

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

func testLocation(t *testing.T) meteo.Location {
	t.Helper()
	loc, err := meteo.NewLocation("83.0", "55.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return loc
}

func TestMemoryStoreSaveIsIdempotentPerDate(t *testing.T) {
	s := NewMemoryStore()
	loc := testLocation(t)
	ctx := context.Background()

	first := meteo.DatedRecord{Date: "2025-06-18", Record: meteo.DayRecord{DaylightHours: 16}}
	if err := s.SaveRecords(ctx, loc, "UTC", []meteo.DatedRecord{first}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same date again with different content: must be ignored, not an error.
	overwrite := meteo.DatedRecord{Date: "2025-06-18", Record: meteo.DayRecord{DaylightHours: 1}}
	if err := s.SaveRecords(ctx, loc, "UTC", []meteo.DatedRecord{overwrite}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetRange(ctx, loc, "2025-06-18", "2025-06-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.DaylightHours != 16 {
		t.Fatalf("expected original record preserved, got %+v", got)
	}
}

func TestMemoryStoreGetRangeFilters(t *testing.T) {
	s := NewMemoryStore()
	loc := testLocation(t)
	ctx := context.Background()

	records := []meteo.DatedRecord{
		{Date: "2025-06-18"},
		{Date: "2025-06-19"},
		{Date: "2025-06-20"},
	}
	if err := s.SaveRecords(ctx, loc, "UTC", records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetRange(ctx, loc, "2025-06-19", "2025-06-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2025-06-19" || got[1].Date != "2025-06-20" {
		t.Fatalf("unexpected range result: %+v", got)
	}

	if _, err := s.GetRange(ctx, loc, "2025-07-01", "2025-07-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUnknownLocation(t *testing.T) {
	s := NewMemoryStore()
	loc := testLocation(t)

	if _, err := s.GetRange(context.Background(), loc, "2025-06-18", "2025-06-18"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
