// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fact implements the Signed Fact envelope: a canonical byte
// buffer, its content identifier, and an Ed25519 signature over that
// CID, bundled with enough metadata to verify the signature without
// external context.
//
// Seal canonicalizes a value, hashes it, and signs the hash. VerifySeal
// recomputes the CID from the embedded canonical bytes, confirms it
// matches the embedded CID, and verifies the signature against the
// embedded public key under the signing domain the caller passes in;
// apart from that domain, nothing outside the SignedFact is consulted.
//
// Key exports:
//
//   - [SignedFact] -- the envelope
//   - [Seal] -- canonicalize, hash, and sign a value
//   - [VerifySeal] -- verify an envelope's internal consistency
//   - [ToBytes] / [FromBytes] -- CBOR wire encoding
package fact
