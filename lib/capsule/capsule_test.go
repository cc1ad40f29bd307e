// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capsule

import (
	"testing"
	"time"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/sign"
)

func fixedSigner(t *testing.T) *sign.Ed25519Signer {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 7
	}
	buf, err := secret.NewFromBytes(seed)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	signer, err := sign.NewEd25519Signer(buf)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	return signer
}

func TestCreate_ToBytes_FromBytes_RoundTrip(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(1700000000, 0))

	c, err := Create(3, []byte("vector payload"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	encoded := ToBytes(c)
	parsed, err := FromBytes(encoded)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	if parsed.Version != c.Version || parsed.Flags != c.Flags || parsed.Ts != c.Ts ||
		parsed.CID != c.CID || parsed.Dim != c.Dim || parsed.Signature != c.Signature {
		t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, c)
	}
	if string(parsed.Payload) != string(c.Payload) {
		t.Fatalf("payload mismatch: got %q, want %q", parsed.Payload, c.Payload)
	}

	if err := VerifyWith(parsed, signer.PublicKey()); err != nil {
		t.Fatalf("VerifyWith: %v", err)
	}
}

func TestFromBytes_TruncatedLength(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))
	c, err := Create(1, []byte("hello"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	encoded := ToBytes(c)
	truncated := encoded[:len(encoded)-1]
	if _, err := FromBytes(truncated); err == nil {
		t.Fatal("FromBytes should reject a truncated frame")
	}
}

func TestFromBytes_BadMagic(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))
	c, err := Create(1, []byte("hello"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	encoded := ToBytes(c)
	encoded[0] ^= 0xFF
	if _, err := FromBytes(encoded); err == nil {
		t.Fatal("FromBytes should reject a bad magic")
	}
}

func TestFromBytes_RejectsReservedFlagBits(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))
	c, err := Create(1, []byte("hello"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	encoded := ToBytes(c)
	encoded[3] |= 1 << 7
	if _, err := FromBytes(encoded); err == nil {
		t.Fatal("FromBytes should reject a reserved flag bit")
	}
}

func TestVerifyCID_FailsOnTamperedPayload(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))
	c, err := Create(1, []byte("hello"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c.Payload = []byte("tampered")
	if err := VerifyCID(c); err == nil {
		t.Fatal("VerifyCID should fail after the payload is tampered with")
	}
}

func TestVerifyWith_FailsOnFlippedSignatureByte(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))
	c, err := Create(1, []byte("hello"), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c.Signature[0] ^= 0xFF
	if err := VerifyWith(c, signer.PublicKey()); err == nil {
		t.Fatal("VerifyWith should fail after a signature byte is flipped")
	}
}

func TestS6_EncryptedCapsule(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(1700000000, 0))

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 9
	}
	seedBuf, err := secret.NewFromBytes(seed)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	key, err := DeriveKey(seedBuf, "vec-a")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	plaintext := []byte("secret vector contents")
	c, err := Create(4, plaintext, FlagEncrypted, "vec-a", signer, clk, key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if string(c.Payload) == string(plaintext) {
		t.Fatal("encrypted capsule's payload should differ from the plaintext")
	}

	// Signature covers the ciphertext and still verifies.
	if err := VerifyWith(c, signer.PublicKey()); err != nil {
		t.Fatalf("VerifyWith: %v", err)
	}

	plaintextCID := cid.Of(plaintext)
	decrypted, err := DecryptWithCID(c.Payload, "vec-a", plaintextCID, key)
	if err != nil {
		t.Fatalf("DecryptWithCID: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Fatalf("decrypted = %q, want %q", decrypted, plaintext)
	}

	// Wrong vector id (hence wrong AAD) fails to open.
	if _, err := DecryptWithCID(c.Payload, "vec-b", plaintextCID, key); err == nil {
		t.Fatal("DecryptWithCID should fail with the wrong vector id")
	}
}

func TestFromBytes_TooShort(t *testing.T) {
	if _, err := FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("FromBytes should reject data shorter than the fixed header")
	}
}

func TestFlags_Bits(t *testing.T) {
	f := FlagEncrypted | FlagReceiptRequired
	if f&FlagEncrypted == 0 || f&FlagReceiptRequired == 0 {
		t.Fatal("Flags bitwise composition should preserve both bits")
	}
}
