// Package units provides the quantity catalog: categories of measurement
// units and the compatibility groups between them.
//
// # Overview
//
// The catalog is loaded once at startup from an embedded TOML file and is
// immutable afterwards, so it is safe for unlimited concurrent reads.
//
// # Unit Kinds
//
// Every unit carries an explicit kind tag:
//
//   - KindLinear: value-in-unit * ScaleToBase = value-in-base-unit
//   - KindTemperature: conversion goes through a per-scale formula table
//     (see internal/convert); there is no single scale factor because the
//     zero points of the scales differ
//
// Behavior is never selected by matching on unit names.
//
// # Compatibility Groups
//
// A compatibility group is a set of categories whose units may be mixed in
// one conversion (e.g. "Length" and "Historical length"). Groups are
// reflexive and symmetric by construction; a category outside every group
// is compatible only with itself. The Resolver merges the unit lists of
// compatible categories for target-unit selection.
//
// # Usage
//
//	reg, err := units.Load(logger)
//	cat, ok := reg.Category("Length")
//	res := units.NewResolver(reg, logger)
//	merged := res.MergedUnits("Length")
package units
