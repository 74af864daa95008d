package meteo

// DaylightWindow returns the ordered subset of rows whose timestamp falls in
// the half-open interval [sunrise, sunset): the sunrise hour is included, the
// sunset hour is not. The result may hold anywhere from 0 to all rows
// depending on season and latitude.
func DaylightWindow(rows []HourlyObservation, sunrise, sunset int64) []HourlyObservation {
	out := make([]HourlyObservation, 0, len(rows))
	for _, row := range rows {
		if row.Timestamp >= sunrise && row.Timestamp < sunset {
			out = append(out, row)
		}
	}
	return out
}
