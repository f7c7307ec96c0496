// ABOUTME: Format renders conversion results for humans
// ABOUTME: Scientific outside [1e-6, 1e9), tiered decimals inside, trailing zeros stripped

package convert

import (
	"fmt"
	"math"
	"strings"
)

// groupSeparator groups thousands in the integer part. A narrow no-break
// space avoids ambiguity with the comma, which the value parser accepts as
// a decimal separator.
const groupSeparator = " "

// Format renders v as a human-friendly string.
//
// Zero renders as "0". Scientific notation applies when |v| < 1e-6 or
// |v| >= 1e9 (lower bound exclusive of the band, upper bound inclusive of
// the scientific branch), with a six-digit mantissa and a normalized
// exponent: explicit sign, no leading zeros. Inside the band the decimal
// precision grows as the magnitude shrinks; trailing zeros and a trailing
// decimal point are always stripped, and integer parts of five or more
// digits are grouped by thousands.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}

	abs := math.Abs(v)
	if abs < 1e-6 || abs >= 1e9 {
		return formatScientific(v)
	}

	var precision int
	switch {
	case abs < 0.001:
		precision = 10
	case abs < 1:
		precision = 8
	case abs < 1000:
		precision = 6
	case abs < 1e6:
		precision = 4
	default:
		precision = 2
	}

	s := strings.TrimRight(fmt.Sprintf("%.*f", precision, v), "0")
	s = strings.TrimSuffix(s, ".")
	return groupThousands(s)
}

// formatScientific renders v like 1.23456e+12: mantissa trailing zeros
// stripped, exponent sign explicit, exponent leading zeros removed.
func formatScientific(v float64) string {
	s := fmt.Sprintf("%.6e", v)
	mantissa, exponent, _ := strings.Cut(s, "e")
	mantissa = strings.TrimRight(mantissa, "0")
	mantissa = strings.TrimSuffix(mantissa, ".")

	sign := "+"
	if exponent[0] == '+' || exponent[0] == '-' {
		sign = string(exponent[0])
		exponent = exponent[1:]
	}
	exponent = strings.TrimLeft(exponent, "0")
	if exponent == "" {
		exponent = "0"
	}
	return mantissa + "e" + sign + exponent
}

// groupThousands inserts the group separator into the integer part when it
// has at least five digits.
func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	digits := strings.TrimPrefix(intPart, "-")

	if len(digits) < 5 {
		return s
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteString(groupSeparator)
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(groupSeparator)
		}
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
