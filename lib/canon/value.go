// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import "fmt"

// Value is implemented by types outside this package that know how to
// describe their own canonical shape. CanonicalValue must return a
// value built only from the generic set this package understands: nil,
// bool, string, an integer type, [Fraction], map[string]any, []any, or
// another Value.
type Value interface {
	CanonicalValue() any
}

// Fraction represents a fixed-decimal number as an explicit scale and
// an unsigned digit string, never as a float. A Fraction with Scale 2
// and Value "1234" denotes 12.34.
//
// Canonicalizes to the object {"scale":<Scale>,"value":"<Value>"}.
type Fraction struct {
	Scale int
	Value string
}

// CanonicalValue implements [Value].
func (f Fraction) CanonicalValue() any {
	return map[string]any{
		"scale": f.Scale,
		"value": f.Value,
	}
}

func (f Fraction) String() string {
	return fmt.Sprintf("%s*10^-%d", f.Value, f.Scale)
}
