package meteo

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// HoursPerDay is the exact number of hourly rows a day slice must hold.
	HoursPerDay = 24

	secondsPerDay = 24 * 60 * 60

	dateLayout = "2006-01-02"
	isoLayout  = "2006-01-02T15:04:05Z"
)

var (
	// ErrRowCount is returned when a day's hourly slice does not hold
	// exactly 24 rows. It is fatal for the whole run.
	ErrRowCount = errors.New("wrong number of rows")

	// ErrDaylightRange is returned when a daily row carries an impossible
	// daylight window (sunrise at or after sunset, or negative duration).
	ErrDaylightRange = errors.New("invalid daylight range")
)

// Aggregate reduces one day's 24-row hourly slice and its daily metadata into
// a DayRecord. It is a pure function: identical input yields identical
// output, and it performs no I/O.
func Aggregate(daySlice []HourlyObservation, day DailyObservation) (DayRecord, error) {
	date := day.Date.Format(dateLayout)

	if len(daySlice) != HoursPerDay {
		return DayRecord{}, fmt.Errorf("day %s: %w: got %d rows", date, ErrRowCount, len(daySlice))
	}
	if day.Sunrise >= day.Sunset || day.DaylightDuration < 0 {
		return DayRecord{}, fmt.Errorf("day %s: %w: sunrise=%d sunset=%d duration=%.0f",
			date, ErrDaylightRange, day.Sunrise, day.Sunset, day.DaylightDuration)
	}

	daylight := DaylightWindow(daySlice, day.Sunrise, day.Sunset)

	return DayRecord{
		AvgTemperature2m24h:       meanOf(daySlice, temperature2m),
		AvgRelativeHumidity2m24h:  meanOf(daySlice, relativeHumidity2m),
		AvgDewPoint2m24h:          meanOf(daySlice, dewPoint2m),
		AvgApparentTemperature24h: meanOf(daySlice, apparentTemperature),
		AvgTemperature80m24h:      meanOf(daySlice, temperature80m),
		AvgTemperature120m24h:     meanOf(daySlice, temperature120m),
		AvgWindSpeed10m24h:        meanOf(daySlice, windSpeed10m),
		AvgWindSpeed80m24h:        meanOf(daySlice, windSpeed80m),
		AvgVisibility24h:          meanOf(daySlice, visibility),
		TotalRain24h:              sumOf(daySlice, rain),
		TotalShowers24h:           sumOf(daySlice, showers),
		TotalSnowfall24h:          sumOf(daySlice, snowfall),

		AvgTemperature2mDaylight:       meanOrNil(daylight, temperature2m),
		AvgRelativeHumidity2mDaylight:  meanOrNil(daylight, relativeHumidity2m),
		AvgDewPoint2mDaylight:          meanOrNil(daylight, dewPoint2m),
		AvgApparentTemperatureDaylight: meanOrNil(daylight, apparentTemperature),
		AvgTemperature80mDaylight:      meanOrNil(daylight, temperature80m),
		AvgTemperature120mDaylight:     meanOrNil(daylight, temperature120m),
		AvgWindSpeed10mDaylight:        meanOrNil(daylight, windSpeed10m),
		AvgWindSpeed80mDaylight:        meanOrNil(daylight, windSpeed80m),
		AvgVisibilityDaylight:          meanOrNil(daylight, visibility),
		TotalRainDaylight:              sumOf(daylight, rain),
		TotalShowersDaylight:           sumOf(daylight, showers),
		TotalSnowfallDaylight:          sumOf(daylight, snowfall),

		// Both m/s series derive from the 10m wind speed, and the divisor
		// treats km/h as km per minute. Kept as-is: stored records must stay
		// bit-compatible with the existing dataset.
		WindSpeed10mMPerS:          kmhToMps(daySlice),
		WindSpeed80mMPerS:          kmhToMps(daySlice),
		Temperature2mCelsius:       seriesOf(daySlice, temperature2m),
		ApparentTemperatureCelsius: seriesOf(daySlice, apparentTemperature),
		Temperature80mCelsius:      seriesOf(daySlice, temperature80m),
		Temperature120mCelsius:     seriesOf(daySlice, temperature120m),
		SoilTemperature0cmCelsius:  seriesOf(daySlice, soilTemperature0cm),
		SoilTemperature6cmCelsius:  seriesOf(daySlice, soilTemperature6cm),
		RainMm:                     seriesOf(daySlice, rain),
		ShowersMm:                  seriesOf(daySlice, showers),
		SnowfallMm:                 seriesOf(daySlice, snowfall),

		DaylightHours: roundTo(day.DaylightDuration/3600, 2),
		SunsetISO:     time.Unix(day.Sunset, 0).UTC().Format(isoLayout),
		SunriseISO:    time.Unix(day.Sunrise, 0).UTC().Format(isoLayout),
	}, nil
}

// AggregateAll aggregates every day of the daily series against its matching
// 24-hour window of the hourly series, which must be sorted by timestamp.
// Output preserves the daily series' order. Any invalid day fails the whole
// run; no day is skipped or partially aggregated.
func AggregateAll(daily []DailyObservation, hourly []HourlyObservation) ([]DatedRecord, error) {
	out := make([]DatedRecord, 0, len(daily))
	for _, day := range daily {
		start := day.Date.Unix()
		slice := hoursBetween(hourly, start, start+secondsPerDay)

		rec, err := Aggregate(slice, day)
		if err != nil {
			return nil, err
		}
		out = append(out, DatedRecord{Date: day.Date.Format(dateLayout), Record: rec})
	}
	return out, nil
}

// hoursBetween returns the contiguous rows with start <= timestamp < end.
func hoursBetween(rows []HourlyObservation, start, end int64) []HourlyObservation {
	lo := sort.Search(len(rows), func(i int) bool { return rows[i].Timestamp >= start })
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Timestamp >= end })
	return rows[lo:hi]
}

// Field accessors used by the reductions below, so each aggregated field is
// declared once and the reduction kind (mean/sum/series) stays orthogonal.
func temperature2m(h HourlyObservation) float64       { return h.Temperature2m }
func relativeHumidity2m(h HourlyObservation) float64  { return h.RelativeHumidity2m }
func dewPoint2m(h HourlyObservation) float64          { return h.DewPoint2m }
func apparentTemperature(h HourlyObservation) float64 { return h.ApparentTemperature }
func temperature80m(h HourlyObservation) float64      { return h.Temperature80m }
func temperature120m(h HourlyObservation) float64     { return h.Temperature120m }
func windSpeed10m(h HourlyObservation) float64        { return h.WindSpeed10m }
func windSpeed80m(h HourlyObservation) float64        { return h.WindSpeed80m }
func visibility(h HourlyObservation) float64          { return h.Visibility }
func soilTemperature0cm(h HourlyObservation) float64  { return h.SoilTemperature0cm }
func soilTemperature6cm(h HourlyObservation) float64  { return h.SoilTemperature6cm }
func rain(h HourlyObservation) float64                { return h.Rain }
func showers(h HourlyObservation) float64             { return h.Showers }
func snowfall(h HourlyObservation) float64            { return h.Snowfall }

// meanOf computes the arithmetic mean of a field, rounded to 2 decimals.
// Callers guarantee rows is non-empty.
func meanOf(rows []HourlyObservation, field func(HourlyObservation) float64) float64 {
	var sum float64
	for _, row := range rows {
		sum += field(row)
	}
	return roundTo(sum/float64(len(rows)), 2)
}

// meanOrNil is meanOf with a nil result for an empty slice, used for the
// daylight window which can legitimately hold no rows near the poles.
func meanOrNil(rows []HourlyObservation, field func(HourlyObservation) float64) *float64 {
	if len(rows) == 0 {
		return nil
	}
	v := meanOf(rows, field)
	return &v
}

// sumOf computes the raw, unrounded sum of a field.
func sumOf(rows []HourlyObservation, field func(HourlyObservation) float64) float64 {
	var sum float64
	for _, row := range rows {
		sum += field(row)
	}
	return sum
}

// seriesOf returns each hour's value rounded to 2 decimals, in row order.
func seriesOf(rows []HourlyObservation, field func(HourlyObservation) float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = roundTo(field(row), 2)
	}
	return out
}

// kmhToMps converts the 10m wind speed series with the literal /1000/60
// divisor (see the note in Aggregate), rounded to 2 decimals.
func kmhToMps(rows []HourlyObservation) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = roundTo(row.WindSpeed10m/1000/60, 2)
	}
	return out
}
