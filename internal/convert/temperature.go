// ABOUTME: Temperature formula table keyed by the enumerated scale set
// ABOUTME: Conversion always goes through Kelvin; identity scale pairs short-circuit

package convert

import (
	"fmt"

	"github.com/convbot/convbot/internal/units"
)

// scaleFormulas converts each scale to and from Kelvin.
type scaleFormulas struct {
	toKelvin   func(float64) float64
	fromKelvin func(float64) float64
}

var temperatureScales = map[units.TemperatureScale]scaleFormulas{
	units.ScaleCelsius: {
		toKelvin:   func(c float64) float64 { return c + 273.15 },
		fromKelvin: func(k float64) float64 { return k - 273.15 },
	},
	units.ScaleFahrenheit: {
		toKelvin:   func(f float64) float64 { return (f-32)*5/9 + 273.15 },
		fromKelvin: func(k float64) float64 { return (k-273.15)*9/5 + 32 },
	},
	units.ScaleKelvin: {
		toKelvin:   func(k float64) float64 { return k },
		fromKelvin: func(k float64) float64 { return k },
	},
	units.ScaleRankine: {
		toKelvin:   func(r float64) float64 { return r * 5 / 9 },
		fromKelvin: func(k float64) float64 { return k * 9 / 5 },
	},
	units.ScaleReaumur: {
		toKelvin:   func(re float64) float64 { return re*1.25 + 273.15 },
		fromKelvin: func(k float64) float64 { return (k - 273.15) / 1.25 },
	},
}

// convertTemperature converts value between two temperature scales through
// Kelvin. Same-scale conversion returns the value unchanged (exact), after
// the absolute-zero check.
func convertTemperature(value float64, from, to units.TemperatureScale) (float64, error) {
	fromF, ok := temperatureScales[from]
	if !ok {
		return 0, fmt.Errorf("%w: temperature scale %q", ErrUnknownUnit, from)
	}
	toF, ok := temperatureScales[to]
	if !ok {
		return 0, fmt.Errorf("%w: temperature scale %q", ErrUnknownUnit, to)
	}

	kelvin := fromF.toKelvin(value)
	if kelvin < 0 {
		return 0, fmt.Errorf("%w: %v K", ErrBelowAbsoluteZero, kelvin)
	}
	if from == to {
		return value, nil
	}
	return toF.fromKelvin(kelvin), nil
}
