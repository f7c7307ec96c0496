// ABOUTME: Parse turns raw value text into a float64: constants, fractions, literals, expressions
// ABOUTME: All failures are ParseError values with user-displayable messages; nothing panics past here

package expr

import (
	"math"
	"strconv"
	"strings"
)

// Reason classifies a parse failure.
type Reason string

const (
	// ReasonBadNumber covers anything that is not recognizable numeric input.
	ReasonBadNumber Reason = "bad_number"
	// ReasonDivisionByZero is returned for fractions with a zero denominator.
	ReasonDivisionByZero Reason = "division_by_zero"
	// ReasonOutOfRange covers magnitudes outside [1e-100, 1e100] and non-finite values.
	ReasonOutOfRange Reason = "out_of_range"
)

// ParseError describes why input was rejected. Message is curated for
// direct user display.
type ParseError struct {
	Reason  Reason
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

var (
	errBadNumber = &ParseError{
		Reason:  ReasonBadNumber,
		Message: "that doesn't look like a number — try something like 10, 15.5, -40, 1/2 or sqrt(2)",
	}
	errDivisionByZero = &ParseError{
		Reason:  ReasonDivisionByZero,
		Message: "division by zero — the denominator must not be zero",
	}
	errOutOfRange = &ParseError{
		Reason:  ReasonOutOfRange,
		Message: "that value is out of range — magnitudes must be between 1e-100 and 1e100",
	}
)

// maxInputLen bounds the text fed to the expression evaluator.
const maxInputLen = 256

// constants maps normalized constant names to their values.
// Keys are lowercase with spaces already stripped by normalize.
var constants = map[string]float64{
	"pi":          math.Pi,
	"e":           math.E,
	"phi":         math.Phi,
	"goldenratio": math.Phi,
	"c":           299792458,
	"lightspeed":  299792458,
	"g":           9.80665,
}

// Parse converts raw user text into a numeric value.
//
// Precedence: named constant, simple fraction, plain literal, restricted
// expression. A plain literal evaluates identically under the expression
// grammar, so trying strconv first changes nothing observable. Expression
// evaluation errors degrade to the generic bad-number reason.
func Parse(raw string) (float64, error) {
	text := normalize(raw)
	if text == "" {
		return 0, errBadNumber
	}
	if len(text) > maxInputLen {
		return 0, errBadNumber
	}

	if v, ok := constants[strings.ToLower(text)]; ok {
		return checkRange(v)
	}

	if v, err, ok := parseFraction(text); ok {
		if err != nil {
			return 0, err
		}
		return checkRange(v)
	}

	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return checkRange(v)
	}

	if v, ok := evaluate(text); ok {
		return checkRange(v)
	}

	return 0, errBadNumber
}

// normalize trims, maps decimal commas to dots, and strips internal spaces.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\t", "")
	return s
}

// parseFraction handles the a/b fast path. It applies only when the text
// contains exactly one slash and both sides are plain numbers; anything
// else (like sin(1)/2) belongs to the expression evaluator.
func parseFraction(text string) (float64, *ParseError, bool) {
	if strings.Count(text, "/") != 1 {
		return 0, nil, false
	}
	num, den, _ := strings.Cut(text, "/")
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil {
		return 0, nil, false
	}
	if d == 0 {
		return 0, errDivisionByZero, true
	}
	return n / d, nil, true
}

// checkRange rejects non-finite values and magnitudes outside the band.
func checkRange(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errOutOfRange
	}
	abs := math.Abs(v)
	if abs > 1e100 {
		return 0, errOutOfRange
	}
	if abs != 0 && abs < 1e-100 {
		return 0, errOutOfRange
	}
	return v, nil
}
