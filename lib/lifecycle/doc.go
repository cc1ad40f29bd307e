// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle drives an atom.Atom through its state machine:
// Draft -> (Sign) -> signed draft -> (Freeze) -> Pending -> (Commit) ->
// Committed, or any non-Committed state -> (Abandon) -> Ghost.
//
// Sign and Freeze are separate steps: Sign seals a draft's content
// without moving its status off Draft, and Freeze is what actually
// advances it to Pending and records When. Commit then seals a fresh
// Signed Fact over the committed form rather than reusing the one
// Sign produced, since the signature must cover status = "committed".
//
// Each transition in this package produces a new, independent Atom
// (via atom.Atom.Clone) rather than mutating the caller's value — the
// caller decides what to do with the old and new copies.
//
// confirmed_by is treated as advisory only at this layer: this package
// never reads VerbDescriptor.RiskLevel and never refuses a transition
// because ConfirmedBy is empty. A policy layer built on top of this
// package is expected to enforce that a risk level 3 (or above) verb
// carries a non-empty ConfirmedBy before calling Sign.
package lifecycle
