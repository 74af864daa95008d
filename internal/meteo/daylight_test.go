package meteo

import "testing"

func TestDaylightWindowHalfOpenInterval(t *testing.T) {
	rows := make([]HourlyObservation, HoursPerDay)
	base := int64(1750204800) // 2025-06-18 00:00 UTC
	for i := range rows {
		rows[i] = HourlyObservation{Timestamp: base + int64(i)*3600}
	}

	sunrise := base + 4*3600  // 04:00, included
	sunset := base + 20*3600  // 20:00, excluded

	daylight := DaylightWindow(rows, sunrise, sunset)
	if len(daylight) != 16 {
		t.Fatalf("expected 16 daylight rows, got %d", len(daylight))
	}

	inWindow := make(map[int64]bool, len(daylight))
	for _, row := range daylight {
		if row.Timestamp < sunrise || row.Timestamp >= sunset {
			t.Errorf("row %d outside [sunrise, sunset)", row.Timestamp)
		}
		inWindow[row.Timestamp] = true
	}
	for _, row := range rows {
		inside := row.Timestamp >= sunrise && row.Timestamp < sunset
		if inside != inWindow[row.Timestamp] {
			t.Errorf("row %d: in-window=%v but selected=%v", row.Timestamp, inside, inWindow[row.Timestamp])
		}
	}
}

func TestDaylightWindowCanBeEmpty(t *testing.T) {
	rows := []HourlyObservation{
		{Timestamp: 0},
		{Timestamp: 3600},
	}

	// A window between two hour marks selects nothing.
	daylight := DaylightWindow(rows, 600, 1200)
	if len(daylight) != 0 {
		t.Fatalf("expected empty daylight window, got %d rows", len(daylight))
	}
}
