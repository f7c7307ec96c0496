// ABOUTME: Core types for the unit catalog: kinds, temperature scales, units, categories
// ABOUTME: All values are immutable after Load and shared by reference across sessions

package units

// Kind selects the conversion strategy for a unit.
type Kind string

const (
	// KindLinear units convert by scale factor relative to the category base.
	KindLinear Kind = "linear"
	// KindTemperature units convert through the per-scale formula table.
	KindTemperature Kind = "temperature"
)

// TemperatureScale identifies one of the supported temperature scales.
// The set is closed; the convert package keys its formula table on it.
type TemperatureScale string

const (
	ScaleCelsius    TemperatureScale = "celsius"
	ScaleFahrenheit TemperatureScale = "fahrenheit"
	ScaleKelvin     TemperatureScale = "kelvin"
	ScaleRankine    TemperatureScale = "rankine"
	ScaleReaumur    TemperatureScale = "reaumur"
)

// knownScales is the closed set of temperature scales accepted by Load.
var knownScales = map[TemperatureScale]bool{
	ScaleCelsius:    true,
	ScaleFahrenheit: true,
	ScaleKelvin:     true,
	ScaleRankine:    true,
	ScaleReaumur:    true,
}

// UnitDefinition describes a single unit within a category.
// Linear units carry ScaleToBase; temperature units carry Scale.
type UnitDefinition struct {
	Name        string
	Kind        Kind
	ScaleToBase float64
	Scale       TemperatureScale
}

// Category is an ordered set of units for one physical quantity.
// Unit order follows the catalog file and is stable for UI pagination.
type Category struct {
	Name  string
	units []UnitDefinition
	index map[string]int
}

// Unit returns the definition of the named unit within the category.
func (c *Category) Unit(name string) (UnitDefinition, bool) {
	i, ok := c.index[name]
	if !ok {
		return UnitDefinition{}, false
	}
	return c.units[i], true
}

// Units returns the unit names in catalog order.
func (c *Category) Units() []string {
	names := make([]string, len(c.units))
	for i, u := range c.units {
		names[i] = u.Name
	}
	return names
}

// Len returns the number of units in the category.
func (c *Category) Len() int {
	return len(c.units)
}
