// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atom

// Payload is the tagged variant an Action Atom carries as its "this"
// field: none, plain text, raw bytes, or a JSON value validated by the
// canonicalizer.
type Payload interface {
	// Kind returns the payload's tag: "none", "text", "bytes", or "json".
	Kind() string

	// CanonicalValue returns the generic value this payload
	// contributes to the atom's canonical form. Implements
	// canon.Value indirectly through lib/atom's own CanonicalValue.
	CanonicalValue() any

	payloadMarker()
}

// NonePayload carries no data.
type NonePayload struct{}

func (NonePayload) Kind() string        { return "none" }
func (NonePayload) CanonicalValue() any { return nil }
func (NonePayload) payloadMarker()      {}

// TextPayload carries a plain UTF-8 string.
type TextPayload struct {
	Text string
}

func (p TextPayload) Kind() string        { return "text" }
func (p TextPayload) CanonicalValue() any { return p.Text }
func (p TextPayload) payloadMarker()      {}

// BytesPayload carries opaque binary data.
type BytesPayload struct {
	Bytes []byte
}

func (p BytesPayload) Kind() string { return "bytes" }
func (p BytesPayload) CanonicalValue() any {
	// Bytes canonicalize as an array of their decimal values — there
	// is no canonical string-literal form for raw bytes (spec §3.1
	// permits only strings, integers, arrays, objects, bool, null).
	out := make([]any, len(p.Bytes))
	for i, b := range p.Bytes {
		out[i] = int64(b)
	}
	return out
}
func (p BytesPayload) payloadMarker() {}

// JSONPayload carries a structured value, which must be acceptable to
// the canonicalizer (no floats, no cycles, UTF-8 strings only).
type JSONPayload struct {
	Value any
}

func (p JSONPayload) Kind() string        { return "json" }
func (p JSONPayload) CanonicalValue() any { return p.Value }
func (p JSONPayload) payloadMarker()      {}
