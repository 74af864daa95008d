package meteo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location is the geographic point all series belong to. Coordinates are kept
// as decimals so that store keys and file names reproduce the NUMERIC(7,4)
// values exactly, with no float formatting drift.
type Location struct {
	Longitude decimal.Decimal `json:"longitude"`
	Latitude  decimal.Decimal `json:"latitude"`
}

// NewLocation parses decimal coordinate strings, truncating to the 4
// fractional digits the store key carries.
func NewLocation(longitude, latitude string) (Location, error) {
	lon, err := decimal.NewFromString(longitude)
	if err != nil {
		return Location{}, err
	}
	lat, err := decimal.NewFromString(latitude)
	if err != nil {
		return Location{}, err
	}
	return Location{Longitude: lon.Round(4), Latitude: lat.Round(4)}, nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.Longitude.String() + ":" + l.Latitude.String()
}

// HourlyVariables is the fixed set of hourly weather variables requested from
// the upstream API, in request order.
var HourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"apparent_temperature",
	"temperature_80m",
	"temperature_120m",
	"wind_speed_10m",
	"wind_speed_80m",
	"wind_direction_10m",
	"wind_direction_80m",
	"visibility",
	"evapotranspiration",
	"weather_code",
	"soil_temperature_0cm",
	"soil_temperature_6cm",
	"rain",
	"showers",
	"snowfall",
}

// HourlyObservation is one fully populated hourly row. All values are already
// unit-converted by the provider (°C, km/h, mm, m); the aggregation engine
// never converts units itself, except for the exported m/s wind series.
type HourlyObservation struct {
	Timestamp           int64 // unix seconds, UTC
	Temperature2m       float64
	RelativeHumidity2m  float64
	DewPoint2m          float64
	ApparentTemperature float64
	Temperature80m      float64
	Temperature120m     float64
	WindSpeed10m        float64
	WindSpeed80m        float64
	WindDirection10m    float64
	WindDirection80m    float64
	Visibility          float64
	Evapotranspiration  float64
	WeatherCode         int
	SoilTemperature0cm  float64
	SoilTemperature6cm  float64
	Rain                float64
	Showers             float64
	Snowfall            float64
}

// DailyObservation is one row of the daily series. Date is midnight of the
// calendar day in the series' timezone; Sunrise and Sunset are unix seconds.
type DailyObservation struct {
	Date             time.Time
	Sunrise          int64
	Sunset           int64
	DaylightDuration float64 // seconds
}

// DayRecord is the aggregate produced for one calendar day. It is immutable
// once built and is serialized as-is into the JSONB payload column and the
// per-day export files.
//
// Totals are raw float64 sums of the converted hourly values; they are never
// rounded or truncated (stored-format contract). Daylight averages are nil
// when no hour falls inside the daylight window, which serializes as null.
type DayRecord struct {
	AvgTemperature2m24h       float64 `json:"avg_temperature_2m_24h"`
	AvgRelativeHumidity2m24h  float64 `json:"avg_relative_humidity_2m_24h"`
	AvgDewPoint2m24h          float64 `json:"avg_dew_point_2m_24h"`
	AvgApparentTemperature24h float64 `json:"avg_apparent_temperature_24h"`
	AvgTemperature80m24h      float64 `json:"avg_temperature_80m_24h"`
	AvgTemperature120m24h     float64 `json:"avg_temperature_120m_24h"`
	AvgWindSpeed10m24h        float64 `json:"avg_wind_speed_10m_24h"`
	AvgWindSpeed80m24h        float64 `json:"avg_wind_speed_80m_24h"`
	AvgVisibility24h          float64 `json:"avg_visibility_24h"`
	TotalRain24h              float64 `json:"total_rain_24h"`
	TotalShowers24h           float64 `json:"total_showers_24h"`
	TotalSnowfall24h          float64 `json:"total_snowfall_24h"`

	AvgTemperature2mDaylight       *float64 `json:"avg_temperature_2m_daylight"`
	AvgRelativeHumidity2mDaylight  *float64 `json:"avg_relative_humidity_2m_daylight"`
	AvgDewPoint2mDaylight          *float64 `json:"avg_dew_point_2m_daylight"`
	AvgApparentTemperatureDaylight *float64 `json:"avg_apparent_temperature_daylight"`
	AvgTemperature80mDaylight      *float64 `json:"avg_temperature_80m_daylight"`
	AvgTemperature120mDaylight     *float64 `json:"avg_temperature_120m_daylight"`
	AvgWindSpeed10mDaylight        *float64 `json:"avg_wind_speed_10m_daylight"`
	AvgWindSpeed80mDaylight        *float64 `json:"avg_wind_speed_80m_daylight"`
	AvgVisibilityDaylight          *float64 `json:"avg_visibility_daylight"`
	TotalRainDaylight              float64  `json:"total_rain_daylight"`
	TotalShowersDaylight           float64  `json:"total_showers_daylight"`
	TotalSnowfallDaylight          float64  `json:"total_snowfall_daylight"`

	WindSpeed10mMPerS          []float64 `json:"wind_speed_10m_m_per_s"`
	WindSpeed80mMPerS          []float64 `json:"wind_speed_80m_m_per_s"`
	Temperature2mCelsius       []float64 `json:"temperature_2m_celsius"`
	ApparentTemperatureCelsius []float64 `json:"apparent_temperature_celsius"`
	Temperature80mCelsius      []float64 `json:"temperature_80m_celsius"`
	Temperature120mCelsius     []float64 `json:"temperature_120m_celsius"`
	SoilTemperature0cmCelsius  []float64 `json:"soil_temperature_0cm_celsius"`
	SoilTemperature6cmCelsius  []float64 `json:"soil_temperature_6cm_celsius"`
	RainMm                     []float64 `json:"rain_mm"`
	ShowersMm                  []float64 `json:"showers_mm"`
	SnowfallMm                 []float64 `json:"snowfall_mm"`

	DaylightHours float64 `json:"daylight_hours"`
	SunsetISO     string  `json:"sunset_iso"`
	SunriseISO    string  `json:"sunrise_iso"`
}

// RecordFields is the canonical column order of a DayRecord in tabular
// output. Exporters must use this list rather than deriving columns
// dynamically, so the order is stable across formats.
var RecordFields = []string{
	"avg_temperature_2m_24h",
	"avg_relative_humidity_2m_24h",
	"avg_dew_point_2m_24h",
	"avg_apparent_temperature_24h",
	"avg_temperature_80m_24h",
	"avg_temperature_120m_24h",
	"avg_wind_speed_10m_24h",
	"avg_wind_speed_80m_24h",
	"avg_visibility_24h",
	"total_rain_24h",
	"total_showers_24h",
	"total_snowfall_24h",
	"avg_temperature_2m_daylight",
	"avg_relative_humidity_2m_daylight",
	"avg_dew_point_2m_daylight",
	"avg_apparent_temperature_daylight",
	"avg_temperature_80m_daylight",
	"avg_temperature_120m_daylight",
	"avg_wind_speed_10m_daylight",
	"avg_wind_speed_80m_daylight",
	"avg_visibility_daylight",
	"total_rain_daylight",
	"total_showers_daylight",
	"total_snowfall_daylight",
	"wind_speed_10m_m_per_s",
	"wind_speed_80m_m_per_s",
	"temperature_2m_celsius",
	"apparent_temperature_celsius",
	"temperature_80m_celsius",
	"temperature_120m_celsius",
	"soil_temperature_0cm_celsius",
	"soil_temperature_6cm_celsius",
	"rain_mm",
	"showers_mm",
	"snowfall_mm",
	"daylight_hours",
	"sunset_iso",
	"sunrise_iso",
}

// Values returns the record's values aligned with RecordFields.
func (r DayRecord) Values() []any {
	return []any{
		r.AvgTemperature2m24h,
		r.AvgRelativeHumidity2m24h,
		r.AvgDewPoint2m24h,
		r.AvgApparentTemperature24h,
		r.AvgTemperature80m24h,
		r.AvgTemperature120m24h,
		r.AvgWindSpeed10m24h,
		r.AvgWindSpeed80m24h,
		r.AvgVisibility24h,
		r.TotalRain24h,
		r.TotalShowers24h,
		r.TotalSnowfall24h,
		r.AvgTemperature2mDaylight,
		r.AvgRelativeHumidity2mDaylight,
		r.AvgDewPoint2mDaylight,
		r.AvgApparentTemperatureDaylight,
		r.AvgTemperature80mDaylight,
		r.AvgTemperature120mDaylight,
		r.AvgWindSpeed10mDaylight,
		r.AvgWindSpeed80mDaylight,
		r.AvgVisibilityDaylight,
		r.TotalRainDaylight,
		r.TotalShowersDaylight,
		r.TotalSnowfallDaylight,
		r.WindSpeed10mMPerS,
		r.WindSpeed80mMPerS,
		r.Temperature2mCelsius,
		r.ApparentTemperatureCelsius,
		r.Temperature80mCelsius,
		r.Temperature120mCelsius,
		r.SoilTemperature0cmCelsius,
		r.SoilTemperature6cmCelsius,
		r.RainMm,
		r.ShowersMm,
		r.SnowfallMm,
		r.DaylightHours,
		r.SunsetISO,
		r.SunriseISO,
	}
}

// DatedRecord pairs a formatted calendar date (YYYY-MM-DD) with its
// aggregate record; the output unit of a run.
type DatedRecord struct {
	Date   string    `json:"date"`
	Record DayRecord `json:"record"`
}
