// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package canon produces canonical byte encodings of structured values:
// sorted object keys, NFC-normalized strings, exact-decimal integers
// with no floats, order-preserving arrays, and no insignificant
// whitespace. Structurally equivalent inputs always produce identical
// canonical bytes, which is what lets lib/cid hash them into identical
// content identifiers.
//
// Canonize accepts the generic value set directly (nil, bool, string,
// integers, [Fraction], map[string]any, []any) or anything implementing
// [Value], which types elsewhere in this module use to describe their
// own canonical shape without this package needing to know about them.
//
// Floating point numbers are rejected outright — fractional quantities
// are represented with [Fraction], a fixed-decimal (scale, digit
// string) pair, never an IEEE-754 value.
//
// Key exports:
//
//   - [Canonize] -- encode a value to canonical bytes
//   - [IsCanonical] -- check whether bytes are already in canonical form
//   - [YAMLToCanonical] -- parse YAML text, then canonicalize
//   - [JSONToCanonical] -- parse JSON text, then canonicalize
//   - [JSONCToCanonical] -- parse JSON-with-comments text, then canonicalize
//   - [Value] -- implemented by domain types that canonicalize themselves
//   - [Fraction] -- fixed-decimal number representation
package canon
