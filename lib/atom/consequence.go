// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atom

// Outcome is the mandatory positive consequence of an action: what
// happens, and what secondary effects fire, when it succeeds.
type Outcome struct {
	Label   string
	Effects []string
}

// IsEmpty reports whether the outcome fails the non-empty invariant.
func (o Outcome) IsEmpty() bool {
	return o.Label == ""
}

func (o Outcome) canonicalValue() any {
	effects := make([]any, len(o.Effects))
	for i, e := range o.Effects {
		effects[i] = e
	}
	return map[string]any{
		"label":   o.Label,
		"effects": effects,
	}
}

// Escalation is the mandatory doubt-handling consequence: where an
// action is routed when its outcome is uncertain.
type Escalation struct {
	Label   string
	RouteTo string
}

// IsEmpty reports whether the escalation fails the non-empty invariant.
func (e Escalation) IsEmpty() bool {
	return e.Label == "" || e.RouteTo == ""
}

func (e Escalation) canonicalValue() any {
	return map[string]any{
		"label":    e.Label,
		"route_to": e.RouteTo,
	}
}

// FailureHandling is the mandatory failure consequence: what
// compensating or notifying action fires when an action fails.
type FailureHandling struct {
	Label  string
	Action string
}

// IsEmpty reports whether the failure handler fails the non-empty
// invariant.
func (f FailureHandling) IsEmpty() bool {
	return f.Label == "" || f.Action == ""
}

func (f FailureHandling) canonicalValue() any {
	return map[string]any{
		"label":  f.Label,
		"action": f.Action,
	}
}
