// ABOUTME: Tests for result formatting: band edges, precision tiers, stripping, grouping

package convert

import (
	"strings"
	"testing"
)

func TestFormatZero(t *testing.T) {
	if got := Format(0); got != "0" {
		t.Errorf("Format(0) = %q, want \"0\"", got)
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := map[float64]string{
		25.4:     "25.4",
		1:        "1",
		-40:      "-40",
		0.5:      "0.5",
		12.5:     "12.5",
		1.524:    "1.524",
		0.000125: "0.000125",
		-273.15:  "-273.15",
	}
	for v, want := range cases {
		if got := Format(v); got != want {
			t.Errorf("Format(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestFormatNeverTrailsZeroOrPoint(t *testing.T) {
	values := []float64{1, 1.5, 25.400000001, 0.1, 100, 999999.25, 1e-5, 123456.789}
	for _, v := range values {
		got := Format(v)
		if strings.Contains(got, "e") {
			continue
		}
		if strings.HasSuffix(got, ".") {
			t.Errorf("Format(%v) = %q has trailing point", v, got)
		}
		if strings.Contains(got, ".") && strings.HasSuffix(got, "0") {
			t.Errorf("Format(%v) = %q has trailing zero", v, got)
		}
	}
}

func TestFormatScientific(t *testing.T) {
	cases := map[float64]string{
		1e9:     "1e+9",
		2.5e-7:  "2.5e-7",
		-3e12:   "-3e+12",
		1.25e10: "1.25e+10",
	}
	for v, want := range cases {
		if got := Format(v); got != want {
			t.Errorf("Format(%v) = %q, want %q", v, got, want)
		}
	}

	t.Run("band edges", func(t *testing.T) {
		if got := Format(1e-6); strings.Contains(got, "e") {
			t.Errorf("1e-6 is inside the band, got %q", got)
		}
		if got := Format(999999999); strings.Contains(got, "e") {
			t.Errorf("999999999 is inside the band, got %q", got)
		}
		if got := Format(1e9); !strings.Contains(got, "e") {
			t.Errorf("1e9 must be scientific, got %q", got)
		}
		if got := Format(9.9e-7); !strings.Contains(got, "e") {
			t.Errorf("9.9e-7 must be scientific, got %q", got)
		}
	})
}

func TestFormatGroupsThousands(t *testing.T) {
	if got := Format(1234); got != "1234" {
		t.Errorf("four digits must not group, got %q", got)
	}
	if got := Format(12345); got != "12 345" {
		t.Errorf("Format(12345) = %q", got)
	}
	if got := Format(1234567.5); got != "1 234 567.5" {
		t.Errorf("Format(1234567.5) = %q", got)
	}
	if got := Format(-98765); got != "-98 765" {
		t.Errorf("Format(-98765) = %q", got)
	}
}
