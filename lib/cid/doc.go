// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cid computes content identifiers: unkeyed BLAKE3 hashes of
// canonical byte sequences.
//
// A CID is always 32 bytes. Structurally equivalent values that
// canonicalize to the same bytes (lib/canon) always produce the same
// CID — this is the "same-semantics-same-bytes-same-hash" property the
// rest of the ledger depends on.
//
// Key exports:
//
//   - [Of] -- hash a complete byte slice in one call
//   - [NewIncremental] -- a streaming hasher for chunked input
//   - [CID.String] -- lowercase hex encoding of a CID
//   - [Parse] -- strict hex decoding back to a CID
package cid
