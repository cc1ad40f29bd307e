// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package atom implements the Action Atom: the rigid 9-field tuple that
// describes a verifiable action before it is recorded — who did what,
// with what payload, when, confirmed by whom, and what happens on
// success, doubt, or failure.
//
// An Atom is built incrementally with [Builder], which enforces the
// structural invariants of [Builder.BuildDraft]: who and when must be
// set, when must be positive, and all three consequence fields
// (IfOk, IfDoubt, IfNot) must be non-empty. Verb validation against a
// [VerbRegistry] is optional and only enforced when the registry is
// passed to [Builder.BuildDraftStrict].
//
// Lifecycle transitions (sign, freeze, commit, abandon) live in
// lib/lifecycle, which operates on the Atom values this package
// produces.
//
// Key exports:
//
//   - [Atom] -- the 9-field tuple plus its lifecycle Status
//   - [Builder] -- one setter per field, BuildDraft/BuildDraftStrict
//   - [Payload] -- the tagged payload variant (None, Text, Bytes, JSON)
//   - [VerbDescriptor] / [VerbRegistry] -- verb risk classification
package atom
