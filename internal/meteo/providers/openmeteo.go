package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

var (
	errMissingVariable = errors.New("missing hourly variable")
	errSeriesMismatch  = errors.New("series length mismatch")
)

// OpenMeteoProvider fetches the daily and hourly series from the Open-Meteo
// forecast API. It requests knots / fahrenheit / inch units and unix
// timestamps, then converts every variable according to the unit the
// response reports, so the aggregation engine only ever sees °C, km/h, mm
// and meters.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// forecastResponse mirrors the subset of the Open-Meteo JSON payload we
// consume. Hourly columns are kept raw so a missing variable is detectable.
type forecastResponse struct {
	Timezone             string                     `json:"timezone"`
	TimezoneAbbreviation string                     `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int                        `json:"utc_offset_seconds"`
	HourlyUnits          map[string]string          `json:"hourly_units"`
	Hourly               map[string]json.RawMessage `json:"hourly"`
	Daily                struct {
		Time             []int64   `json:"time"`
		Sunrise          []int64   `json:"sunrise"`
		Sunset           []int64   `json:"sunset"`
		DaylightDuration []float64 `json:"daylight_duration"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc meteo.Location, fromDate, toDate string) (meteo.Dataset, error) {
	values := url.Values{}
	values.Set("latitude", loc.Latitude.String())
	values.Set("longitude", loc.Longitude.String())
	values.Set("start_date", fromDate)
	values.Set("end_date", toDate)
	values.Set("daily", "sunrise,sunset,daylight_duration")
	values.Set("hourly", strings.Join(meteo.HourlyVariables, ","))
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")
	values.Set("wind_speed_unit", "kn")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("precipitation_unit", "inch")

	var payload forecastResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return meteo.Dataset{}, err
	}

	hourly, err := p.buildHourly(payload)
	if err != nil {
		return meteo.Dataset{}, err
	}

	daily, err := p.buildDaily(payload)
	if err != nil {
		return meteo.Dataset{}, err
	}

	return meteo.Dataset{
		Timezone: payload.Timezone,
		Daily:    daily,
		Hourly:   hourly,
	}, nil
}

func (p *OpenMeteoProvider) buildHourly(payload forecastResponse) ([]meteo.HourlyObservation, error) {
	rawTime, ok := payload.Hourly["time"]
	if !ok {
		return nil, fmt.Errorf("%w: time", errMissingVariable)
	}
	var times []int64
	if err := json.Unmarshal(rawTime, &times); err != nil {
		return nil, fmt.Errorf("decode hourly time axis: %w", err)
	}

	columns := make(map[string][]float64, len(meteo.HourlyVariables))
	for _, name := range meteo.HourlyVariables {
		raw, ok := payload.Hourly[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errMissingVariable, name)
		}
		var vals []float64
		if err := json.Unmarshal(raw, &vals); err != nil {
			return nil, fmt.Errorf("decode hourly %s: %w", name, err)
		}
		if len(vals) != len(times) {
			return nil, fmt.Errorf("%w: %s has %d values for %d timestamps",
				errSeriesMismatch, name, len(vals), len(times))
		}
		columns[name] = convertByUnit(payload.HourlyUnits[name], vals)
	}

	rows := make([]meteo.HourlyObservation, len(times))
	for i, ts := range times {
		rows[i] = meteo.HourlyObservation{
			Timestamp:           ts,
			Temperature2m:       columns["temperature_2m"][i],
			RelativeHumidity2m:  columns["relative_humidity_2m"][i],
			DewPoint2m:          columns["dew_point_2m"][i],
			ApparentTemperature: columns["apparent_temperature"][i],
			Temperature80m:      columns["temperature_80m"][i],
			Temperature120m:     columns["temperature_120m"][i],
			WindSpeed10m:        columns["wind_speed_10m"][i],
			WindSpeed80m:        columns["wind_speed_80m"][i],
			WindDirection10m:    columns["wind_direction_10m"][i],
			WindDirection80m:    columns["wind_direction_80m"][i],
			Visibility:          columns["visibility"][i],
			Evapotranspiration:  columns["evapotranspiration"][i],
			WeatherCode:         int(columns["weather_code"][i]),
			SoilTemperature0cm:  columns["soil_temperature_0cm"][i],
			SoilTemperature6cm:  columns["soil_temperature_6cm"][i],
			Rain:                columns["rain"][i],
			Showers:             columns["showers"][i],
			Snowfall:            columns["snowfall"][i],
		}
	}
	return rows, nil
}

func (p *OpenMeteoProvider) buildDaily(payload forecastResponse) ([]meteo.DailyObservation, error) {
	d := payload.Daily
	if len(d.Sunrise) != len(d.Time) || len(d.Sunset) != len(d.Time) || len(d.DaylightDuration) != len(d.Time) {
		return nil, fmt.Errorf("%w: daily series", errSeriesMismatch)
	}

	// Daily timestamps are local midnight; anchor them in the reported zone
	// so date formatting stays in the series' timezone.
	tz := time.FixedZone(payload.TimezoneAbbreviation, payload.UTCOffsetSeconds)

	daily := make([]meteo.DailyObservation, len(d.Time))
	for i, ts := range d.Time {
		daily[i] = meteo.DailyObservation{
			Date:             time.Unix(ts, 0).In(tz),
			Sunrise:          d.Sunrise[i],
			Sunset:           d.Sunset[i],
			DaylightDuration: d.DaylightDuration[i],
		}
	}
	return daily, nil
}

// convertByUnit applies the unit conversion matching the unit label the API
// reports for a column. Unknown units pass through unchanged.
func convertByUnit(unit string, values []float64) []float64 {
	switch unit {
	case "°F":
		return meteo.FahrenheitToCelsius(values)
	case "kn":
		return meteo.KnotsToKmh(values)
	case "ft":
		return meteo.FeetToMeters(values)
	case "inch":
		return meteo.InchesToMillimeters(values)
	default:
		return values
	}
}
