// ABOUTME: Resolver expands a category into its compatibility group and merges unit sets
// ABOUTME: Collisions across compatible categories keep the first-registered definition

package units

import "log/slog"

// Resolver answers which categories may be mixed in one conversion and
// produces the merged unit set used for target-unit selection.
type Resolver struct {
	reg    *Registry
	logger *slog.Logger
}

// NewResolver creates a resolver over the loaded registry.
func NewResolver(reg *Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		reg:    reg,
		logger: logger.With("component", "units"),
	}
}

// Compatible returns the names of all categories whose units may be mixed
// with the given category, including the category itself. The result is
// reflexive and symmetric by construction of the catalog groups.
func (r *Resolver) Compatible(category string) []string {
	members, ok := r.reg.groups[category]
	if !ok {
		return nil
	}
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// MergedUnits unions the unit lists of all categories compatible with the
// given category, preserving catalog order within each category. If two
// compatible categories define the same unit name the first-registered
// definition wins; that is a configuration warning, not an error.
func (r *Resolver) MergedUnits(category string) []UnitDefinition {
	members, ok := r.reg.groups[category]
	if !ok {
		return nil
	}
	var merged []UnitDefinition
	seen := make(map[string]string)
	for _, name := range members {
		cat, ok := r.reg.byName[name]
		if !ok {
			continue
		}
		for _, def := range cat.units {
			if first, dup := seen[def.Name]; dup {
				r.logger.Warn("unit name collision in compatibility group",
					"unit", def.Name,
					"kept_category", first,
					"ignored_category", name)
				continue
			}
			seen[def.Name] = name
			merged = append(merged, def)
		}
	}
	return merged
}

// Unit resolves a unit name within the merged set of the given category.
func (r *Resolver) Unit(category, unit string) (UnitDefinition, bool) {
	members, ok := r.reg.groups[category]
	if !ok {
		return UnitDefinition{}, false
	}
	for _, name := range members {
		if def, ok := r.reg.Unit(name, unit); ok {
			return def, true
		}
	}
	return UnitDefinition{}, false
}
