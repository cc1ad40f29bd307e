// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sign

import (
	"crypto/ed25519"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Signer is a one-method capability: anything able to produce a
// signature over an arbitrary message. Production code uses
// [Ed25519Signer]; tests can supply a fake that returns a fixed or
// erroring signature without holding real key material.
type Signer interface {
	Sign(message []byte) ([ublerr.SignatureLen]byte, error)
	PublicKey() [ublerr.PublicKeyLen]byte
}

// Ed25519Signer signs with an Ed25519 seed held in a secret.Buffer. The
// Buffer is never read outside of Sign and PublicKey, and is never
// copied into a Go string or logged.
type Ed25519Signer struct {
	seed *secret.Buffer
}

// NewEd25519Signer wraps a 32-byte seed already held in a secret.Buffer.
// Returns ErrBadKeyLength if the buffer is not exactly SeedLen bytes.
func NewEd25519Signer(seed *secret.Buffer) (*Ed25519Signer, error) {
	if seed.Len() != ublerr.SeedLen {
		return nil, ublerr.ErrBadKeyLength
	}
	return &Ed25519Signer{seed: seed}, nil
}

// Sign computes an Ed25519 signature over message using the wrapped
// seed.
func (s *Ed25519Signer) Sign(message []byte) ([ublerr.SignatureLen]byte, error) {
	var out [ublerr.SignatureLen]byte
	priv := ed25519.NewKeyFromSeed(s.seed.Bytes())
	sig := ed25519.Sign(priv, message)
	copy(out[:], sig)
	return out, nil
}

// PublicKey derives the Ed25519 public key from the wrapped seed.
func (s *Ed25519Signer) PublicKey() [ublerr.PublicKeyLen]byte {
	return DerivePublic(s.seed)
}

// DerivePublic derives the Ed25519 public key from a 32-byte seed held
// in a secret.Buffer.
func DerivePublic(seed *secret.Buffer) [ublerr.PublicKeyLen]byte {
	var out [ublerr.PublicKeyLen]byte
	priv := ed25519.NewKeyFromSeed(seed.Bytes())
	pub := priv.Public().(ed25519.PublicKey)
	copy(out[:], pub)
	return out
}

// Sign signs a CID under the given domain using signer. Equivalent to
// signer.Sign(domain || cid).
func Sign(signer Signer, c cid.CID, domain Domain) ([ublerr.SignatureLen]byte, error) {
	return signer.Sign(message(domain, c[:]))
}

// Verify reports whether sig is a valid signature over cid under
// domain, for the given public key.
func Verify(c cid.CID, sig [ublerr.SignatureLen]byte, publicKey [ublerr.PublicKeyLen]byte, domain Domain) bool {
	return ed25519.Verify(publicKey[:], message(domain, c[:]), sig[:])
}

// allDomains lists every domain-separation prefix this package
// defines, so VerifyDiagnose can tell a signature produced under the
// wrong domain apart from one that is simply invalid.
var allDomains = []Domain{DomainFrame, DomainLedger, DomainProof}

// VerifyDiagnose behaves like [Verify] but, on failure, checks whether
// sig would have verified under one of this package's other domains.
// If so it returns ErrDomainMismatch rather than the plain ErrBadSignature,
// since a caller usually wants to know "wrong domain" from "wrong key or
// tampered message" as distinct failures.
func VerifyDiagnose(c cid.CID, sig [ublerr.SignatureLen]byte, publicKey [ublerr.PublicKeyLen]byte, domain Domain) error {
	if Verify(c, sig, publicKey, domain) {
		return nil
	}
	for _, other := range allDomains {
		if other == domain {
			continue
		}
		if Verify(c, sig, publicKey, other) {
			return ublerr.ErrDomainMismatch
		}
	}
	return ublerr.ErrBadSignature
}

// VerifyPair bundles a CID and a signature for [VerifyBatch].
type VerifyPair struct {
	CID       cid.CID
	Signature [ublerr.SignatureLen]byte
}

// VerifyBatch verifies every pair against the same public key and
// domain, returning the count that verified successfully. Used during
// ledger replay to check many entries signed by the same key.
func VerifyBatch(pairs []VerifyPair, publicKey [ublerr.PublicKeyLen]byte, domain Domain) int {
	count := 0
	for _, p := range pairs {
		if Verify(p.CID, p.Signature, publicKey, domain) {
			count++
		}
	}
	return count
}
