// Package expr parses user-entered value text into a float64.
//
// # Accepted Input
//
// In order of precedence:
//
//  1. Named constants, case-insensitive: pi, e, phi (golden ratio),
//     c (speed of light), g (standard gravity)
//  2. Simple fractions: a/b where both sides are plain numbers
//  3. Plain numeric literals: 10, 15.5, -40, 0.25, 1e-5 (decimal comma
//     accepted)
//  4. A restricted arithmetic expression: + - * /, ^ (exponentiation),
//     parentheses, unary minus, and the functions sin, cos, tan, sqrt,
//     log, log10, exp over the constants pi and e
//
// The expression grammar is fixed and evaluated by a small recursive-descent
// evaluator with a hard input-length cap and nesting-depth cap. It has no
// access to ambient state and cannot call anything outside the closed
// function table, so it completes in bounded time for any input.
//
// # Failures
//
// Every failure is a *ParseError whose Message is safe to show to the user
// verbatim. Magnitudes above 1e100, non-zero magnitudes below 1e-100, and
// non-finite results are rejected as out of range. Parse never panics.
package expr
