// ABOUTME: Tests for the compatibility resolver: reflexivity, symmetry, merged unit sets
// ABOUTME: Collision handling is exercised through a synthetic two-category catalog

package units

import "testing"

func TestResolverCompatible(t *testing.T) {
	reg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := NewResolver(reg, testLogger())

	t.Run("grouped categories list each other", func(t *testing.T) {
		got := res.Compatible("Length")
		want := map[string]bool{"Length": true, "Historical length": true}
		if len(got) != len(want) {
			t.Fatalf("expected %d categories, got %v", len(want), got)
		}
		for _, name := range got {
			if !want[name] {
				t.Errorf("unexpected compatible category %q", name)
			}
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		for _, a := range reg.Categories() {
			for _, b := range res.Compatible(a) {
				found := false
				for _, back := range res.Compatible(b) {
					if back == a {
						found = true
					}
				}
				if !found {
					t.Errorf("compatibility not symmetric: %q lists %q but not back", a, b)
				}
			}
		}
	})

	t.Run("ungrouped category is alone", func(t *testing.T) {
		got := res.Compatible("Temperature")
		if len(got) != 1 || got[0] != "Temperature" {
			t.Errorf("expected Temperature alone, got %v", got)
		}
	})

	t.Run("unknown category yields nil", func(t *testing.T) {
		if got := res.Compatible("Currency"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestResolverMergedUnits(t *testing.T) {
	reg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := NewResolver(reg, testLogger())

	merged := res.MergedUnits("Length")
	names := make(map[string]bool, len(merged))
	for _, def := range merged {
		names[def.Name] = true
	}
	for _, want := range []string{"meter", "inch", "verst", "arshin"} {
		if !names[want] {
			t.Errorf("expected merged Length units to contain %q", want)
		}
	}
	if names["kilogram"] {
		t.Error("Mass units must not leak into the Length merged set")
	}

	// Merged set follows group order; Length leads its own group.
	if merged[0].Name != "meter" {
		t.Errorf("expected meter first in merged set, got %q", merged[0].Name)
	}
}

func TestResolverUnit(t *testing.T) {
	reg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := NewResolver(reg, testLogger())

	if _, ok := res.Unit("Length", "verst"); !ok {
		t.Error("verst should resolve through the Length compatibility group")
	}
	if _, ok := res.Unit("Mass", "verst"); ok {
		t.Error("verst must not resolve for Mass")
	}
}

// TestMergedUnitsCollisionKeepsFirst exercises the resolver's first-wins
// guard. Load rejects duplicate unit names outright, so the colliding
// registry is built by hand.
func TestMergedUnitsCollisionKeepsFirst(t *testing.T) {
	a := &Category{
		Name:  "A",
		units: []UnitDefinition{{Name: "thing", Kind: KindLinear, ScaleToBase: 1.0}},
		index: map[string]int{"thing": 0},
	}
	b := &Category{
		Name:  "B",
		units: []UnitDefinition{{Name: "thing", Kind: KindLinear, ScaleToBase: 2.0}},
		index: map[string]int{"thing": 0},
	}
	reg := &Registry{
		categories: []*Category{a, b},
		byName:     map[string]*Category{"A": a, "B": b},
		groups: map[string][]string{
			"A": {"A", "B"},
			"B": {"A", "B"},
		},
	}
	res := NewResolver(reg, testLogger())

	merged := res.MergedUnits("B")
	if len(merged) != 1 {
		t.Fatalf("expected collision to collapse to 1 unit, got %d", len(merged))
	}
	if merged[0].ScaleToBase != 1.0 {
		t.Errorf("expected first-registered definition to win, got factor %v", merged[0].ScaleToBase)
	}
}
