// ABOUTME: Tests for catalog loading including validation failures and lookup behavior
// ABOUTME: Failure cases use inline TOML; the embedded catalog is checked for shape

package units

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	reg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cats := reg.Categories()
	if len(cats) == 0 {
		t.Fatal("expected at least one category")
	}
	if cats[0] != "Length" {
		t.Errorf("expected Length first, got %q", cats[0])
	}

	t.Run("length units keep catalog order", func(t *testing.T) {
		names, ok := reg.Units("Length")
		if !ok {
			t.Fatal("Length category missing")
		}
		if names[0] != "meter" {
			t.Errorf("expected meter first, got %q", names[0])
		}
	})

	t.Run("linear unit has scale factor", func(t *testing.T) {
		def, ok := reg.Unit("Length", "inch")
		if !ok {
			t.Fatal("inch missing")
		}
		if def.Kind != KindLinear {
			t.Errorf("expected linear kind, got %q", def.Kind)
		}
		if def.ScaleToBase != 0.0254 {
			t.Errorf("expected 0.0254, got %v", def.ScaleToBase)
		}
	})

	t.Run("temperature unit has scale tag", func(t *testing.T) {
		def, ok := reg.Unit("Temperature", "Celsius")
		if !ok {
			t.Fatal("Celsius missing")
		}
		if def.Kind != KindTemperature {
			t.Errorf("expected temperature kind, got %q", def.Kind)
		}
		if def.Scale != ScaleCelsius {
			t.Errorf("expected celsius scale, got %q", def.Scale)
		}
		if def.ScaleToBase != 0 {
			t.Errorf("temperature unit must not carry a scale factor, got %v", def.ScaleToBase)
		}
	})

	t.Run("unknown lookups miss", func(t *testing.T) {
		if _, ok := reg.Category("Currency"); ok {
			t.Error("expected Currency to be unknown")
		}
		if _, ok := reg.Unit("Length", "cubit"); ok {
			t.Error("expected cubit to be unknown")
		}
	})
}

func TestLoadCatalogValidation(t *testing.T) {
	cases := []struct {
		name    string
		toml    string
		wantErr string
	}{
		{
			name:    "empty catalog",
			toml:    ``,
			wantErr: "no categories",
		},
		{
			name: "empty category",
			toml: `
[[category]]
name = "Length"
`,
			wantErr: "has no units",
		},
		{
			name: "non-positive factor",
			toml: `
[[category]]
name = "Length"
[[category.unit]]
name = "meter"
factor = 0.0
`,
			wantErr: "non-positive scale factor",
		},
		{
			name: "unknown temperature scale",
			toml: `
[[category]]
name = "Temperature"
[[category.unit]]
name = "Newton"
temperature = "newton"
`,
			wantErr: "unknown temperature scale",
		},
		{
			name: "duplicate unit across categories",
			toml: `
[[category]]
name = "Length"
[[category.unit]]
name = "meter"
factor = 1.0
[[category]]
name = "Distance"
[[category.unit]]
name = "meter"
factor = 1.0
`,
			wantErr: "already belongs",
		},
		{
			name: "compatibility group with unknown category",
			toml: `
compatibility = [["Length", "Girth"]]
[[category]]
name = "Length"
[[category.unit]]
name = "meter"
factor = 1.0
`,
			wantErr: "unknown category",
		},
		{
			name: "category in two groups",
			toml: `
compatibility = [["Length", "Mass"], ["Length", "Time"]]
[[category]]
name = "Length"
[[category.unit]]
name = "meter"
factor = 1.0
[[category]]
name = "Mass"
[[category.unit]]
name = "kilogram"
factor = 1.0
[[category]]
name = "Time"
[[category.unit]]
name = "second"
factor = 1.0
`,
			wantErr: "more than one compatibility group",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tc.toml), testLogger())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
