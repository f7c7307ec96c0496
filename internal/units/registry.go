// ABOUTME: Registry loads the embedded TOML catalog into an immutable lookup structure
// ABOUTME: Initialization fails fast on empty categories, bad scale factors, or duplicate unit names

package units

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var catalogTOML []byte

// catalogFile mirrors the TOML catalog layout.
type catalogFile struct {
	Compatibility [][]string        `toml:"compatibility"`
	Categories    []catalogCategory `toml:"category"`
}

type catalogCategory struct {
	Name  string        `toml:"name"`
	Units []catalogUnit `toml:"unit"`
}

type catalogUnit struct {
	Name        string  `toml:"name"`
	Factor      float64 `toml:"factor"`
	Temperature string  `toml:"temperature"`
}

// Registry is the read-only catalog of categories and units.
type Registry struct {
	categories []*Category
	byName     map[string]*Category
	unitOwner  map[string]string // unit name -> category name, enforces global uniqueness
	groups     map[string][]string
}

// Load parses the embedded catalog. The returned Registry is never mutated
// afterwards and is safe for concurrent use.
func Load(logger *slog.Logger) (*Registry, error) {
	return LoadCatalog(catalogTOML, logger)
}

// LoadCatalog parses an explicit TOML catalog. Exposed for tests and for
// callers that ship their own catalog.
func LoadCatalog(data []byte, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "units")

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing unit catalog: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("unit catalog has no categories")
	}

	reg := &Registry{
		byName:    make(map[string]*Category, len(file.Categories)),
		unitOwner: make(map[string]string),
		groups:    make(map[string][]string),
	}

	for _, cc := range file.Categories {
		if cc.Name == "" {
			return nil, fmt.Errorf("unit catalog: category with empty name")
		}
		if _, exists := reg.byName[cc.Name]; exists {
			return nil, fmt.Errorf("unit catalog: duplicate category %q", cc.Name)
		}
		if len(cc.Units) == 0 {
			return nil, fmt.Errorf("unit catalog: category %q has no units", cc.Name)
		}

		cat := &Category{
			Name:  cc.Name,
			units: make([]UnitDefinition, 0, len(cc.Units)),
			index: make(map[string]int, len(cc.Units)),
		}
		for _, cu := range cc.Units {
			def, err := buildUnit(cc.Name, cu)
			if err != nil {
				return nil, err
			}
			if owner, taken := reg.unitOwner[def.Name]; taken {
				return nil, fmt.Errorf("unit catalog: unit %q in %q already belongs to %q", def.Name, cc.Name, owner)
			}
			reg.unitOwner[def.Name] = cc.Name
			cat.index[def.Name] = len(cat.units)
			cat.units = append(cat.units, def)
		}

		reg.categories = append(reg.categories, cat)
		reg.byName[cc.Name] = cat
	}

	if err := reg.buildGroups(file.Compatibility); err != nil {
		return nil, err
	}

	logger.Info("unit catalog loaded",
		"categories", len(reg.categories),
		"units", len(reg.unitOwner))
	return reg, nil
}

// buildUnit validates a catalog entry and produces its definition.
func buildUnit(category string, cu catalogUnit) (UnitDefinition, error) {
	if cu.Name == "" {
		return UnitDefinition{}, fmt.Errorf("unit catalog: category %q has a unit with empty name", category)
	}
	if cu.Temperature != "" {
		if cu.Factor != 0 {
			return UnitDefinition{}, fmt.Errorf("unit catalog: unit %q declares both factor and temperature scale", cu.Name)
		}
		scale := TemperatureScale(cu.Temperature)
		if !knownScales[scale] {
			return UnitDefinition{}, fmt.Errorf("unit catalog: unit %q has unknown temperature scale %q", cu.Name, cu.Temperature)
		}
		return UnitDefinition{Name: cu.Name, Kind: KindTemperature, Scale: scale}, nil
	}
	if cu.Factor <= 0 {
		return UnitDefinition{}, fmt.Errorf("unit catalog: unit %q has non-positive scale factor %v", cu.Name, cu.Factor)
	}
	return UnitDefinition{Name: cu.Name, Kind: KindLinear, ScaleToBase: cu.Factor}, nil
}

// buildGroups expands the compatibility lists into a reflexive, symmetric
// category -> compatible-categories mapping. Every category gets at least
// itself; membership in more than one group is a configuration error.
func (r *Registry) buildGroups(groups [][]string) error {
	for _, group := range groups {
		if len(group) < 2 {
			return fmt.Errorf("unit catalog: compatibility group %v needs at least two categories", group)
		}
		for _, name := range group {
			if _, ok := r.byName[name]; !ok {
				return fmt.Errorf("unit catalog: compatibility group references unknown category %q", name)
			}
			if _, dup := r.groups[name]; dup {
				return fmt.Errorf("unit catalog: category %q appears in more than one compatibility group", name)
			}
			members := make([]string, len(group))
			copy(members, group)
			r.groups[name] = members
		}
	}
	for _, cat := range r.categories {
		if _, ok := r.groups[cat.Name]; !ok {
			r.groups[cat.Name] = []string{cat.Name}
		}
	}
	return nil
}

// Category returns the named category.
func (r *Registry) Category(name string) (*Category, bool) {
	cat, ok := r.byName[name]
	return cat, ok
}

// Unit returns the named unit within the named category.
func (r *Registry) Unit(category, unit string) (UnitDefinition, bool) {
	cat, ok := r.byName[category]
	if !ok {
		return UnitDefinition{}, false
	}
	return cat.Unit(unit)
}

// Categories returns all category names in catalog order.
func (r *Registry) Categories() []string {
	names := make([]string, len(r.categories))
	for i, cat := range r.categories {
		names[i] = cat.Name
	}
	return names
}

// Units returns the unit names of a category in catalog order.
func (r *Registry) Units(category string) ([]string, bool) {
	cat, ok := r.byName[category]
	if !ok {
		return nil, false
	}
	return cat.Units(), true
}
