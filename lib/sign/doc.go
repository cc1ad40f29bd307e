// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sign provides Ed25519 signing and verification over content
// identifiers, with mandatory domain separation.
//
// Every signature is computed over domain_prefix || cid, never over the
// CID alone. This keeps a signature produced for one purpose (sealing a
// fact, appending to a ledger, proving a claim) from being replayed as
// if it were produced for another. The three domains in use are
// [DomainFrame], [DomainLedger], and [DomainProof]; this set is closed
// and must not grow without a new domain constant and a new CanonVer.
//
// Signing keys are held in [github.com/atomicledger/ledger/lib/secret.Buffer]:
// mmap'd, mlocked, and zeroed on Close. Nothing in this package ever
// logs or serializes a private key.
//
// Key exports:
//
//   - [Signer] -- one-method capability: Sign(message) (signature, error)
//   - [Ed25519Signer] -- production Signer backed by a secret.Buffer seed
//   - [Sign] / [Verify] -- single-shot sign/verify over a CID
//   - [VerifyBatch] -- verify many (cid, signature) pairs against one key
//   - [DerivePublic] -- derive the public key from a 32-byte seed
package sign
