// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ublerr defines the typed error values and hard limits shared
// across every ledger package.
//
// Errors fall into two shapes. Kinds with no associated data are plain
// sentinels (ErrBadSignature, ErrSizeLimit, and so on),
// compared with errors.Is. Kinds that carry data the caller needs —
// which field failed an invariant, which transition was illegal, which
// sequence number broke the hash chain — are typed structs implementing
// error, unwrapped with errors.As.
//
// No function in this module panics on untrusted input. Parse and
// verify failures always return one of these errors instead.
package ublerr
