package weather

import "math"

// Temperature unit identifiers shared with the preference store.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

// ConvertTemperature converts a temperature between Celsius and Fahrenheit.
// Rounding (half away from zero, via math.Round) is applied exactly once at
// the point of conversion, so a C→F→C round-trip may drift by up to one
// degree. Unrecognised units and from == to return v unchanged.
func ConvertTemperature(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitCelsius && to == UnitFahrenheit {
		return math.Round(v*9/5 + 32)
	}
	if from == UnitFahrenheit && to == UnitCelsius {
		return math.Round((v - 32) * 5 / 9)
	}
	return v
}

// MSToKMH converts a wind speed from meters per second to kilometers per hour.
func MSToKMH(ms float64) float64 {
	return ms * 3.6
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection maps wind direction in degrees to a 16-point compass label.
func CompassDirection(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
