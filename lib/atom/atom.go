// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atom

// TupleFieldCount is the rigid number of semantic fields an Action
// Atom carries, not counting the lifecycle Status that rides alongside
// it.
const TupleFieldCount = 9

// Atom is the 9-field conceptual tuple of a verifiable action, plus
// the Status that tracks where it sits in its lifecycle. Build one
// with [NewBuilder]; do not construct an Atom directly, since the
// invariants in [Builder.BuildDraft] are not re-checked elsewhere.
type Atom struct {
	Who         string
	Did         string
	This        Payload
	When        int64
	ConfirmedBy string
	IfOk        Outcome
	IfDoubt     Escalation
	IfNot       FailureHandling
	Status      Status
}

// CanonicalValue implements canon.Value: the full canonical-JSON
// encoding of every field, keyed by name, is what gets signed (Open
// Question #1 in the expanded specification — the atom is never signed
// over a placeholder pipe-delimited scheme).
func (a *Atom) CanonicalValue() any {
	this := a.This
	if this == nil {
		this = NonePayload{}
	}

	return map[string]any{
		"who":          a.Who,
		"did":          a.Did,
		"this_kind":    this.Kind(),
		"this":         this.CanonicalValue(),
		"when":         a.When,
		"confirmed_by": a.ConfirmedBy,
		"if_ok":        a.IfOk.canonicalValue(),
		"if_doubt":     a.IfDoubt.canonicalValue(),
		"if_not":       a.IfNot.canonicalValue(),
		"status":       string(a.Status),
	}
}

// Clone returns a deep-enough copy of a for use by lifecycle
// transitions that must not mutate the caller's Atom in place.
func (a *Atom) Clone() *Atom {
	clone := *a
	return &clone
}
