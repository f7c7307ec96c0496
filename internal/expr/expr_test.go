// ABOUTME: Tests for value parsing: constants, fractions, literals, expressions, failure reasons
// ABOUTME: Includes guards against pathological expression input

package expr

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) float64 {
	t.Helper()
	v, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", raw, err)
	}
	return v
}

func mustFail(t *testing.T, raw string, reason Reason) {
	t.Helper()
	_, err := Parse(raw)
	if err == nil {
		t.Fatalf("Parse(%q) expected error", raw)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse(%q) expected *ParseError, got %T", raw, err)
	}
	if pe.Reason != reason {
		t.Errorf("Parse(%q) reason = %q, want %q", raw, pe.Reason, reason)
	}
	if pe.Message == "" {
		t.Errorf("Parse(%q) has empty user message", raw)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseLiterals(t *testing.T) {
	cases := map[string]float64{
		"10":      10,
		"15.5":    15.5,
		"-40":     -40,
		"0.25":    0.25,
		"  42  ":  42,
		"3,14":    3.14, // decimal comma
		"1 000,5": 1000.5,
		"1e-5":    1e-5,
		"0":       0,
	}
	for raw, want := range cases {
		if got := mustParse(t, raw); !approx(got, want) {
			t.Errorf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseConstants(t *testing.T) {
	if got := mustParse(t, "pi"); !approx(got, math.Pi) {
		t.Errorf("pi = %v", got)
	}
	if got := mustParse(t, "PI"); !approx(got, math.Pi) {
		t.Errorf("PI = %v", got)
	}
	if got := mustParse(t, "e"); !approx(got, math.E) {
		t.Errorf("e = %v", got)
	}
	if got := mustParse(t, "golden ratio"); !approx(got, math.Phi) {
		t.Errorf("golden ratio = %v", got)
	}
	if got := mustParse(t, "c"); got != 299792458 {
		t.Errorf("c = %v", got)
	}
	if got := mustParse(t, "g"); !approx(got, 9.80665) {
		t.Errorf("g = %v", got)
	}
}

func TestParseFractions(t *testing.T) {
	if got := mustParse(t, "1/2"); got != 0.5 {
		t.Errorf("1/2 = %v, want 0.5", got)
	}
	if got := mustParse(t, "-3/4"); got != -0.75 {
		t.Errorf("-3/4 = %v, want -0.75", got)
	}
	mustFail(t, "1/0", ReasonDivisionByZero)
	mustFail(t, "1/0.0", ReasonDivisionByZero)
}

func TestParseExpressions(t *testing.T) {
	cases := map[string]float64{
		"2+3":        5,
		"2 + 3 * 4":  14,
		"(2+3)*4":    20,
		"2^10":       1024,
		"2^3^2":      512, // right-associative
		"-2^2":       -4,  // sign binds looser than ^
		"sqrt(2)":    math.Sqrt2,
		"SQRT(2)":    math.Sqrt2,
		"sin(0)":     0,
		"cos(0)":     1,
		"log(e)":     1,
		"log10(100)": 2,
		"exp(1)":     math.E,
		"2*pi":       2 * math.Pi,
		"sin(1)/2":   math.Sin(1) / 2,
		"sqrt(sqrt(16))": 2,
	}
	for raw, want := range cases {
		if got := mustParse(t, raw); !approx(got, want) {
			t.Errorf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseRejections(t *testing.T) {
	mustFail(t, "abc", ReasonBadNumber)
	mustFail(t, "", ReasonBadNumber)
	mustFail(t, "  ", ReasonBadNumber)
	mustFail(t, "2+", ReasonBadNumber)
	mustFail(t, "2**3", ReasonBadNumber)
	mustFail(t, "(2+3", ReasonBadNumber)
	mustFail(t, "foo(2)", ReasonBadNumber)   // not in the function table
	mustFail(t, "sqrt 2", ReasonBadNumber)   // missing parentheses
	mustFail(t, "1;2", ReasonBadNumber)
}

func TestParseRange(t *testing.T) {
	mustFail(t, "1e200", ReasonOutOfRange)
	mustFail(t, "-1e200", ReasonOutOfRange)
	mustFail(t, "1e-200", ReasonOutOfRange)
	mustFail(t, "10^200", ReasonOutOfRange)
	mustFail(t, "sqrt(-1)", ReasonOutOfRange) // NaN
	mustFail(t, "log(0)", ReasonOutOfRange)   // -Inf

	// Boundaries stay inside.
	if got := mustParse(t, "1e100"); got != 1e100 {
		t.Errorf("1e100 = %v", got)
	}
	if got := mustParse(t, "1e-100"); got != 1e-100 {
		t.Errorf("1e-100 = %v", got)
	}
}

func TestParsePathologicalInput(t *testing.T) {
	t.Run("over length cap", func(t *testing.T) {
		mustFail(t, strings.Repeat("1+", 200)+"1", ReasonBadNumber)
	})

	t.Run("deep nesting", func(t *testing.T) {
		deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
		mustFail(t, deep, ReasonBadNumber)
	})

	t.Run("long flat chain still evaluates", func(t *testing.T) {
		// 100 additions stay under the length cap and need no deep recursion.
		if got := mustParse(t, strings.Repeat("1+", 100)+"1"); got != 101 {
			t.Errorf("chain = %v, want 101", got)
		}
	})
}
