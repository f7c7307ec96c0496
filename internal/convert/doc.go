// Package convert implements the conversion math and result formatting.
//
// Linear units convert through the category base unit by scale factor.
// Temperature units convert through Kelvin using a formula table keyed by
// the closed set of temperature scales; a negative intermediate Kelvin
// value is rejected as below absolute zero.
//
// Errors are sentinel values (ErrUnknownUnit, ErrIncompatibleKinds,
// ErrBelowAbsoluteZero, ErrNonFinite) checked with errors.Is at the call
// site that produced them.
package convert
