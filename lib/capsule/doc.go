// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package capsule implements the fixed binary header container that
// carries a single content-addressed payload: a CID, a signature over
// the header and payload, and an optional AEAD envelope.
//
// Wire layout (all multi-byte integers big-endian):
//
//	MAGIC:u16 | VER:u8 | FLAGS:u8 | TS:u64 | CID:[32]byte | DIM:u16 | LEN:u32 | SIG:[64]byte
//
// followed by LEN bytes of payload. CID is BLAKE3(payload). SIG is an
// Ed25519 signature over DomainFrame || header_without_sig || payload
// — domain-separated the same way every other signed message in this
// module is, even though the wire format itself does not reserve space
// for the domain prefix.
//
// When FlagEncrypted is set, payload is nonce(12B) || ciphertext under
// ChaCha20-Poly1305. The additional authenticated data binds the
// ciphertext to a vector identifier supplied out of band (see
// [Encrypt]'s doc comment for why the AAD's content identifier
// component is the plaintext's CID, not the capsule's own header CID).
package capsule
