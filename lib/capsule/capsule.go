// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capsule

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/sign"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Create builds and signs a new capsule. When flags has FlagEncrypted
// set, plaintext is sealed under ChaCha20-Poly1305 (see [Encrypt])
// using encKey and vectorID before being embedded as the wire payload;
// vectorID is otherwise unused. clk supplies the header's TS field (as
// Unix seconds).
func Create(dim uint16, plaintext []byte, flags Flags, vectorID string, signer sign.Signer, clk clock.Clock, encKey *secret.Buffer) (*Capsule, error) {
	payload := plaintext
	if flags&FlagEncrypted != 0 {
		encrypted, err := Encrypt(plaintext, vectorID, encKey)
		if err != nil {
			return nil, err
		}
		payload = encrypted
	}

	c := &Capsule{
		Version: Version,
		Flags:   flags,
		Ts:      clk.Now().Unix(),
		CID:     cid.Of(payload),
		Dim:     dim,
		Payload: payload,
	}

	sig, err := signer.Sign(signMessage(c))
	if err != nil {
		return nil, err
	}
	c.Signature = sig
	return c, nil
}

// signMessage builds the message a capsule's SIG is computed over:
// the frame domain prefix, followed by every header field up to SIG,
// followed by the payload.
func signMessage(c *Capsule) []byte {
	header := encodeHeaderWithoutSig(c)
	message := make([]byte, 0, len(sign.DomainFrame)+len(header)+len(c.Payload))
	message = append(message, sign.DomainFrame...)
	message = append(message, header...)
	message = append(message, c.Payload...)
	return message
}

// ToBytes serializes c to its wire form.
func ToBytes(c *Capsule) []byte {
	out := make([]byte, 0, HeaderSize+len(c.Payload))
	out = append(out, encodeHeaderWithoutSig(c)...)
	out = append(out, c.Signature[:]...)
	out = append(out, c.Payload...)
	return out
}

// FromBytes parses a capsule frame. It validates the magic, version,
// and that LEN agrees with the bytes actually present, but does not
// verify CID or SIG — call [VerifyCID] or [VerifyWith] before trusting
// the parsed fields.
func FromBytes(data []byte) (*Capsule, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("capsule: %w: have %d bytes, need at least %d", ublerr.ErrTruncatedFrame, len(data), HeaderSize)
	}

	magic := binary.BigEndian.Uint16(data[0:2])
	if magic != Magic {
		return nil, fmt.Errorf("capsule: %w: magic %#x does not match %#x", ublerr.ErrBadHeader, magic, Magic)
	}
	version := data[2]
	if version != Version {
		return nil, fmt.Errorf("capsule: %w: unsupported version %d", ublerr.ErrBadHeader, version)
	}

	flags := Flags(data[3])
	if flags&^(FlagEncrypted|FlagReceiptRequired) != 0 {
		return nil, fmt.Errorf("capsule: %w: reserved flag bits set: %#x", ublerr.ErrBadHeader, flags)
	}

	c := &Capsule{
		Version: version,
		Flags:   flags,
		Ts:      int64(binary.BigEndian.Uint64(data[4:12])),
	}
	copy(c.CID[:], data[12:12+ublerr.CIDLen])
	offset := 12 + ublerr.CIDLen
	c.Dim = binary.BigEndian.Uint16(data[offset : offset+2])
	length := binary.BigEndian.Uint32(data[offset+2 : offset+6])
	copy(c.Signature[:], data[headerWithoutSigSize:HeaderSize])

	remaining := data[HeaderSize:]
	if uint32(len(remaining)) != length {
		return nil, fmt.Errorf("capsule: %w: declared length %d, have %d", ublerr.ErrTruncatedFrame, length, len(remaining))
	}
	c.Payload = remaining
	return c, nil
}

// VerifyCID recomputes BLAKE3(c.Payload) and checks it against c.CID.
func VerifyCID(c *Capsule) error {
	recomputed := cid.Of(c.Payload)
	if recomputed != c.CID {
		return fmt.Errorf("capsule: %w: payload does not hash to embedded cid", ublerr.ErrMerkleMismatch)
	}
	return nil
}

// VerifyWith checks VerifyCID, then verifies SIG against publicKey.
// Per the edge-case policy, SIG must verify before the CID (and thus
// the payload) can be trusted.
func VerifyWith(c *Capsule, publicKey [ublerr.PublicKeyLen]byte) error {
	if err := VerifyCID(c); err != nil {
		return err
	}
	if !ed25519.Verify(publicKey[:], signMessage(c), c.Signature[:]) {
		return ublerr.ErrBadSignature
	}
	return nil
}
