package meteo

import "math"

const (
	kmhPerKnot   = 1.852
	mmPerInch    = 25.4
	metersPerFoot = 0.3048
)

// roundTo rounds v to the given number of decimal places using half-to-even
// semantics, the rounding mode every stored and exported value is pinned to.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

// KnotsToKmh converts wind speeds from knots to km/h, rounded to 3 decimals.
func KnotsToKmh(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundTo(v*kmhPerKnot, 3)
	}
	return out
}

// FahrenheitToCelsius converts temperatures to °C, rounded to 2 decimals.
func FahrenheitToCelsius(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundTo((v-32)*5/9, 2)
	}
	return out
}

// InchesToMillimeters converts precipitation depths to mm, rounded to whole
// millimeters (the result is still a float).
func InchesToMillimeters(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundTo(v*mmPerInch, 0)
	}
	return out
}

// FeetToMeters converts distances to meters, rounded to 2 decimals.
func FeetToMeters(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundTo(v*metersPerFoot, 2)
	}
	return out
}
