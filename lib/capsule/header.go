// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capsule

import (
	"encoding/binary"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Flags is the bitset carried in the capsule header's FLAGS byte.
type Flags uint8

const (
	// FlagEncrypted marks the payload as nonce || ciphertext under
	// ChaCha20-Poly1305.
	FlagEncrypted Flags = 1 << 0

	// FlagReceiptRequired marks that the emitter expects a receipt
	// from whatever ledger shard the capsule eventually lands in.
	FlagReceiptRequired Flags = 1 << 1
)

const (
	// Magic is the fixed 2-byte prefix identifying a capsule frame.
	Magic uint16 = 0x5199

	// Version is the only header version this package produces or
	// accepts.
	Version byte = 1

	// NonceSize is the ChaCha20-Poly1305 nonce length used for
	// FlagEncrypted payloads.
	NonceSize = 12

	// headerWithoutSigSize is MAGIC+VER+FLAGS+TS+CID+DIM+LEN.
	headerWithoutSigSize = 2 + 1 + 1 + 8 + ublerr.CIDLen + 2 + 4

	// HeaderSize is the full fixed header including SIG, before the
	// payload.
	HeaderSize = headerWithoutSigSize + ublerr.SignatureLen
)

// Capsule is a parsed or freshly created capsule frame. Payload holds
// exactly what the wire format's LEN bytes held — ciphertext (with its
// leading nonce) when FlagEncrypted is set, plaintext otherwise.
type Capsule struct {
	Version   byte
	Flags     Flags
	Ts        int64
	CID       cid.CID
	Dim       uint16
	Payload   []byte
	Signature [ublerr.SignatureLen]byte
}

// encodeHeaderWithoutSig renders every header field up to (not
// including) SIG, in wire order.
func encodeHeaderWithoutSig(c *Capsule) []byte {
	out := make([]byte, headerWithoutSigSize)
	binary.BigEndian.PutUint16(out[0:2], Magic)
	out[2] = c.Version
	out[3] = byte(c.Flags)
	binary.BigEndian.PutUint64(out[4:12], uint64(c.Ts))
	copy(out[12:12+ublerr.CIDLen], c.CID[:])
	offset := 12 + ublerr.CIDLen
	binary.BigEndian.PutUint16(out[offset:offset+2], c.Dim)
	binary.BigEndian.PutUint32(out[offset+2:offset+6], uint32(len(c.Payload)))
	return out
}
