package meteo

import "testing"

func assertFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestKnotsToKmh(t *testing.T) {
	got := KnotsToKmh([]float64{1.7, 5.3, 0.1234})
	assertFloats(t, got, []float64{3.148, 9.816, 0.229})
}

func TestFahrenheitToCelsius(t *testing.T) {
	got := FahrenheitToCelsius([]float64{100.234, -5.5, 50})
	assertFloats(t, got, []float64{37.91, -20.83, 10})
}

func TestInchesToMillimeters(t *testing.T) {
	got := InchesToMillimeters([]float64{50.5, -3.7, 10.5432})
	assertFloats(t, got, []float64{1283, -94, 268})
}

func TestFeetToMeters(t *testing.T) {
	got := FeetToMeters([]float64{50.5, -3.7, 10.5432})
	assertFloats(t, got, []float64{15.39, -1.13, 3.21})
}

func TestConversionsHandleEmptyInput(t *testing.T) {
	for name, fn := range map[string]func([]float64) []float64{
		"knots":      KnotsToKmh,
		"fahrenheit": FahrenheitToCelsius,
		"inches":     InchesToMillimeters,
		"feet":       FeetToMeters,
	} {
		if got := fn(nil); len(got) != 0 {
			t.Errorf("%s: expected empty result for empty input, got %v", name, got)
		}
	}
}
