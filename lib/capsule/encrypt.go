// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capsule

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/text/unicode/norm"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/secret"
)

// hkdfInfoCapsuleKey domain-separates capsule encryption keys derived
// from a signer's seed from any other HKDF derivation path that might
// share the same master key.
var hkdfInfoCapsuleKey = []byte("atomicledger.capsule.encrypt.v1")

// Encrypt seals plaintext under ChaCha20-Poly1305, returning
// nonce(12B) || ciphertext for embedding as a capsule's wire payload.
//
// The additional authenticated data is vectorID (NFC-normalized UTF-8,
// no trailing NUL) followed by BLAKE3(plaintext). The capsule's own
// header CID is computed over the *encrypted* payload (per the wire
// format), so it cannot also be the AAD's content-identifier component
// without making encryption depend on its own output; binding the AAD
// to the plaintext's CID instead is the implementable reading of "AAD
// = vector_id || CID" and still prevents a ciphertext minted for one
// vector_id/plaintext pair from being swapped onto another.
func Encrypt(plaintext []byte, vectorID string, key *secret.Buffer) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("capsule: constructing AEAD cipher: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("capsule: generating nonce: %w", err)
	}

	aad := buildAAD(vectorID, plaintext)

	out := make([]byte, 0, NonceSize+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, aad)
	return out, nil
}

// DecryptWithCID opens a payload produced by [Encrypt], given the
// plaintext's CID as computed at encryption time (the decryptor must
// already hold this out of band, since it is what the AAD is bound
// to). Returns an AEAD error (wrapped) if the key, vectorID, or
// plaintextCID do not match what the ciphertext was sealed under.
func DecryptWithCID(payload []byte, vectorID string, plaintextCID cid.CID, key *secret.Buffer) ([]byte, error) {
	if len(payload) < NonceSize {
		return nil, fmt.Errorf("capsule: encrypted payload shorter than nonce size")
	}
	aead, err := chacha20poly1305.New(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("capsule: constructing AEAD cipher: %w", err)
	}

	nonce := payload[:NonceSize]
	ciphertext := payload[NonceSize:]
	aad := buildAADFromCID(vectorID, plaintextCID)

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("capsule: AEAD decryption failed: %w", err)
	}
	return plaintext, nil
}

func buildAAD(vectorID string, plaintext []byte) []byte {
	return buildAADFromCID(vectorID, cid.Of(plaintext))
}

func buildAADFromCID(vectorID string, plaintextCID cid.CID) []byte {
	idBytes := []byte(norm.NFC.String(vectorID))
	aad := make([]byte, 0, len(idBytes)+len(plaintextCID))
	aad = append(aad, idBytes...)
	aad = append(aad, plaintextCID[:]...)
	return aad
}

// DeriveKey derives a 32-byte ChaCha20-Poly1305 key from a signer's
// seed, for callers that want per-capsule encryption keys without
// managing a separate key hierarchy. The derivation is deterministic
// in vectorID, so the same vector always encrypts under the same key
// from the same seed.
func DeriveKey(seed *secret.Buffer, vectorID string) (*secret.Buffer, error) {
	info := append(append([]byte{}, hkdfInfoCapsuleKey...), []byte(norm.NFC.String(vectorID))...)
	reader := hkdf.New(sha256.New, seed.Bytes(), nil, info)
	derived := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("capsule: deriving encryption key: %w", err)
	}
	return secret.NewFromBytes(derived)
}
