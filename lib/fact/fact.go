// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fact

import (
	"bytes"
	"fmt"

	"github.com/atomicledger/ledger/lib/canon"
	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/codec"
	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/sign"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// CanonVer is the canonical-form version this package publishes on
// every SignedFact it seals. VerifySeal refuses facts bearing an
// unrecognized version.
const CanonVer = 1

// SignedFact is a canonicalized value bundled with its content
// identifier, an Ed25519 signature over that CID, and the metadata
// needed to verify the signature in isolation. A SignedFact owns its
// canonical byte buffer exclusively — no other type retains or mutates
// it.
type SignedFact struct {
	CanonicalBytes []byte
	CID            cid.CID
	Signature      [ublerr.SignatureLen]byte
	PublicKey      [ublerr.PublicKeyLen]byte
	HashAlg        string
	SigAlg         string
	CanonVer       int
	FormatID       string
}

// wireFact mirrors SignedFact's exported shape for CBOR encoding,
// using fixed-size byte slices instead of arrays so fxamacker/cbor
// round-trips them without reflection surprises.
type wireFact struct {
	CanonicalBytes []byte `cbor:"1,keyasint"`
	CID            []byte `cbor:"2,keyasint"`
	Signature      []byte `cbor:"3,keyasint"`
	PublicKey      []byte `cbor:"4,keyasint"`
	HashAlg        string `cbor:"5,keyasint"`
	SigAlg         string `cbor:"6,keyasint"`
	CanonVer       int    `cbor:"7,keyasint"`
	FormatID       string `cbor:"8,keyasint"`
}

// Seal canonicalizes value, computes its CID, and signs the CID with
// signer under domain, returning the resulting envelope. cfg bounds
// canonicalization depth and size; a nil cfg uses [config.Default].
func Seal(value any, signer sign.Signer, domain sign.Domain, formatID string, cfg *config.Config) (*SignedFact, error) {
	canonicalBytes, err := canon.Canonize(value, cfg)
	if err != nil {
		return nil, err
	}

	c := cid.Of(canonicalBytes)
	sig, err := sign.Sign(signer, c, domain)
	if err != nil {
		return nil, err
	}

	return &SignedFact{
		CanonicalBytes: canonicalBytes,
		CID:            c,
		Signature:      sig,
		PublicKey:      signer.PublicKey(),
		HashAlg:        "blake3",
		SigAlg:         "ed25519",
		CanonVer:       CanonVer,
		FormatID:       formatID,
	}, nil
}

// VerifySeal recomputes the CID from f.CanonicalBytes and checks that
// it matches f.CID, then verifies f.Signature against f.PublicKey under
// domain. Returns an error describing the first check that fails.
func VerifySeal(f *SignedFact, domain sign.Domain) error {
	if f.CanonVer != CanonVer {
		return fmt.Errorf("fact: %w: unrecognized canon_ver %d", ublerr.ErrNonCanonicalizable, f.CanonVer)
	}
	if f.HashAlg != "blake3" {
		return fmt.Errorf("fact: %w: unrecognized hash_alg %q", ublerr.ErrBadHeader, f.HashAlg)
	}
	if f.SigAlg != "ed25519" {
		return fmt.Errorf("fact: %w: unrecognized sig_alg %q", ublerr.ErrBadHeader, f.SigAlg)
	}

	recomputed := cid.Of(f.CanonicalBytes)
	if recomputed != f.CID {
		return fmt.Errorf("fact: %w: recomputed cid does not match embedded cid", ublerr.ErrMerkleMismatch)
	}

	if err := sign.VerifyDiagnose(f.CID, f.Signature, f.PublicKey, domain); err != nil {
		return fmt.Errorf("fact: %w", err)
	}
	return nil
}

// ToBytes encodes f to CBOR using Core Deterministic Encoding.
func ToBytes(f *SignedFact) ([]byte, error) {
	w := wireFact{
		CanonicalBytes: f.CanonicalBytes,
		CID:            f.CID[:],
		Signature:      f.Signature[:],
		PublicKey:      f.PublicKey[:],
		HashAlg:        f.HashAlg,
		SigAlg:         f.SigAlg,
		CanonVer:       f.CanonVer,
		FormatID:       f.FormatID,
	}
	return codec.Marshal(w)
}

// FromBytes decodes a SignedFact previously produced by [ToBytes].
func FromBytes(data []byte) (*SignedFact, error) {
	var w wireFact
	if err := codec.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("fact: %w: %v", ublerr.ErrTruncatedFrame, err)
	}
	if len(w.CID) != ublerr.CIDLen {
		return nil, fmt.Errorf("fact: %w: cid has wrong length %d", ublerr.ErrBadKeyLength, len(w.CID))
	}
	if len(w.Signature) != ublerr.SignatureLen {
		return nil, fmt.Errorf("fact: %w: signature has wrong length %d", ublerr.ErrBadKeyLength, len(w.Signature))
	}
	if len(w.PublicKey) != ublerr.PublicKeyLen {
		return nil, fmt.Errorf("fact: %w: public key has wrong length %d", ublerr.ErrBadKeyLength, len(w.PublicKey))
	}

	f := &SignedFact{
		CanonicalBytes: w.CanonicalBytes,
		HashAlg:        w.HashAlg,
		SigAlg:         w.SigAlg,
		CanonVer:       w.CanonVer,
		FormatID:       w.FormatID,
	}
	copy(f.CID[:], w.CID)
	copy(f.Signature[:], w.Signature)
	copy(f.PublicKey[:], w.PublicKey)
	return f, nil
}

// Equal reports whether two SignedFacts are field-for-field identical.
func Equal(a, b *SignedFact) bool {
	return bytes.Equal(a.CanonicalBytes, b.CanonicalBytes) &&
		a.CID == b.CID &&
		a.Signature == b.Signature &&
		a.PublicKey == b.PublicKey &&
		a.HashAlg == b.HashAlg &&
		a.SigAlg == b.SigAlg &&
		a.CanonVer == b.CanonVer &&
		a.FormatID == b.FormatID
}
