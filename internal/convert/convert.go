// ABOUTME: Engine resolves units through the compatibility resolver and dispatches conversion math
// ABOUTME: Linear scaling or temperature formulas, never both; degenerate results are rejected

package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/convbot/convbot/internal/units"
)

// ErrUnknownUnit is returned when a unit is not in the category's merged set.
var ErrUnknownUnit = errors.New("unknown unit")

// ErrIncompatibleKinds is returned when a temperature unit and a linear unit
// meet in one request. With a consistent catalog this is a configuration
// error, not a user error.
var ErrIncompatibleKinds = errors.New("incompatible unit kinds")

// ErrBelowAbsoluteZero is returned when the intermediate Kelvin value of a
// temperature conversion is negative.
var ErrBelowAbsoluteZero = errors.New("temperature below absolute zero")

// ErrNonFinite is returned when the computed result is infinite or NaN.
var ErrNonFinite = errors.New("result is not a finite number")

// Engine converts values between units of a category's compatibility group.
type Engine struct {
	resolver *units.Resolver
}

// NewEngine creates an engine over the given resolver.
func NewEngine(resolver *units.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Convert converts value from one unit to another within the merged unit
// set of category. Both units must be linear, or both temperature.
func (e *Engine) Convert(value float64, fromUnit, toUnit, category string) (float64, error) {
	from, ok := e.resolver.Unit(category, fromUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q in category %q", ErrUnknownUnit, fromUnit, category)
	}
	to, ok := e.resolver.Unit(category, toUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q in category %q", ErrUnknownUnit, toUnit, category)
	}

	var result float64
	switch {
	case from.Kind == units.KindTemperature && to.Kind == units.KindTemperature:
		v, err := convertTemperature(value, from.Scale, to.Scale)
		if err != nil {
			return 0, err
		}
		result = v
	case from.Kind == units.KindLinear && to.Kind == units.KindLinear:
		result = value * from.ScaleToBase / to.ScaleToBase
	default:
		return 0, fmt.Errorf("%w: %q is %s, %q is %s", ErrIncompatibleKinds, from.Name, from.Kind, to.Name, to.Kind)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, ErrNonFinite
	}
	return result, nil
}
