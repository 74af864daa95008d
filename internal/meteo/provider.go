package meteo

import "context"

// Dataset is the pair of ordered series a provider returns for one location
// and date range, already unit-converted to °C / km/h / mm / m.
type Dataset struct {
	Timezone string // IANA name reported by the upstream API
	Daily    []DailyObservation
	Hourly   []HourlyObservation // sorted by timestamp
}

// Provider abstracts the upstream weather API.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location, fromDate, toDate string) (Dataset, error)
}

// Store is the contract persistence backends must satisfy. SaveRecords must
// be idempotent per (location, date): saving a day that already exists is a
// no-op, never an error. Dates are YYYY-MM-DD strings.
type Store interface {
	SaveRecords(ctx context.Context, loc Location, timezone string, records []DatedRecord) error
	GetRange(ctx context.Context, loc Location, fromDate, toDate string) ([]DatedRecord, error)
}

// Exporter writes one day's aggregate to downstream files.
type Exporter interface {
	WriteDay(loc Location, rec DatedRecord) error
}
