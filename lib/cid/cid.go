// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cid

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/atomicledger/ledger/lib/ublerr"
)

// CID is a 32-byte content identifier: the unkeyed BLAKE3 hash of a
// canonical byte sequence.
type CID [ublerr.CIDLen]byte

// Of hashes data with unkeyed BLAKE3 and returns the resulting CID.
func Of(data []byte) CID {
	sum := blake3.Sum256(data)
	return CID(sum)
}

// String returns the lowercase hex encoding of the CID.
func (c CID) String() string {
	return hex.EncodeToString(c[:])
}

// IsZero reports whether c is the all-zero CID.
func (c CID) IsZero() bool {
	return c == CID{}
}

// Parse decodes a lowercase or mixed-case hex string into a CID. It
// requires exactly 64 hex characters (32 bytes); anything else returns
// ErrHexMalformed.
func Parse(s string) (CID, error) {
	var out CID
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return out, ublerr.ErrHexMalformed
	}
	if len(decoded) != ublerr.CIDLen {
		return out, ublerr.ErrHexMalformed
	}
	copy(out[:], decoded)
	return out, nil
}

// Hasher streams BLAKE3 over chunks written to it, matching the
// behavior of Of called on the concatenation of every chunk. Useful
// for hashing large or incrementally produced payloads without
// buffering the whole value.
type Hasher struct {
	h *blake3.Hasher
}

// NewIncremental returns a Hasher ready to accept chunks via Write.
func NewIncremental() *Hasher {
	return &Hasher{h: blake3.New()}
}

// Write appends a chunk to the hash state. Never returns an error;
// satisfies io.Writer.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum finalizes the hash and returns the CID. The Hasher may continue
// to be written to and summed again, matching hash.Hash semantics.
func (h *Hasher) Sum() CID {
	var out CID
	sum := h.h.Sum(nil)
	copy(out[:], sum)
	return out
}
