// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"encoding/binary"
	"math"
	"testing"

	"time"

	"github.com/atomicledger/ledger/lib/capsule"
	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/sign"
)

func clockTime() time.Time {
	return time.Unix(1700000000, 0)
}

func vecPayload(t *testing.T, v []float32) []byte {
	t.Helper()
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(f))
	}
	return out
}

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

func buildSamplePack(t *testing.T) *Pack {
	t.Helper()
	signer := fixedSigner(t)
	clk := clock.Fake(clockTime())

	b := NewBuilder(2)
	vectors := map[string][]float32{
		"a": {1, 0},
		"b": {0.9, 0.436},
		"c": {0, 1},
	}
	for _, id := range []string{"a", "b", "c"} {
		cap, err := capsule.Create(2, vecPayload(t, vectors[id]), 0, "", signer, clk, nil)
		if err != nil {
			t.Fatalf("capsule.Create(%s): %v", id, err)
		}
		if err := b.Add(id, cap); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	pack, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return pack
}

func TestS5_QueryTopK(t *testing.T) {
	pack := buildSamplePack(t)

	results, err := pack.Query(QueryRequest{Vec: []float32{1, 0}}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Query returned %d results, want 2", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Fatalf("Query ids = [%s, %s], want [a, b]", results[0].ID, results[1].ID)
	}
}

func TestS5_EvidenceVerifiesOffline(t *testing.T) {
	pack := buildSamplePack(t)
	results, err := pack.Query(QueryRequest{Vec: []float32{1, 0}}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	for _, r := range results {
		leaf, err := cid.Parse(r.LeafHex)
		if err != nil {
			t.Fatalf("cid.Parse: %v", err)
		}
		if err := VerifyPath(leaf, r.Path, pack.CID); err != nil {
			t.Errorf("VerifyPath(%s): %v", r.ID, err)
		}
	}
}

func TestS5_FlippedSiblingSideFailsVerify(t *testing.T) {
	pack := buildSamplePack(t)
	results, err := pack.Query(QueryRequest{Vec: []float32{1, 0}}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	r := results[0]
	leaf, err := cid.Parse(r.LeafHex)
	if err != nil {
		t.Fatalf("cid.Parse: %v", err)
	}

	tampered := make([]ProofStep, len(r.Path))
	copy(tampered, r.Path)
	if len(tampered) == 0 {
		t.Fatal("expected at least one proof step for a 3-leaf tree")
	}
	tampered[0].SiblingIsRight = !tampered[0].SiblingIsRight

	if err := VerifyPath(leaf, tampered, pack.CID); err == nil {
		t.Fatal("VerifyPath should fail after flipping sibling_is_right")
	}
}

func TestBuild_EmptyPackHasEmptyRoot(t *testing.T) {
	pack, err := NewBuilder(2).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pack.CID != emptyRoot() {
		t.Error("empty pack CID should equal the empty-tree root")
	}

	results, err := pack.Query(QueryRequest{Vec: []float32{1, 0}}, 5)
	if err != nil {
		t.Fatalf("Query on empty pack: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Query on empty pack returned %d results, want 0", len(results))
	}
}

func TestStore_CompressDocumentsRoundTrip(t *testing.T) {
	pack := buildSamplePack(t)
	store, err := NewStore(1 << 20)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	compressed := pack.CompressDocuments(store)
	if len(compressed) != 3 {
		t.Fatalf("CompressDocuments returned %d documents, want 3", len(compressed))
	}

	for i, c := range compressed {
		doc, err := store.Decompress(c)
		if err != nil {
			t.Fatalf("Decompress(%d): %v", i, err)
		}
		if string(doc) != string(pack.Document(i)) {
			t.Errorf("Decompress(%d) mismatch", i)
		}
	}

	root := merkleRoot(pack.leaves)
	if root != pack.CID {
		t.Error("compressing documents should not change the pack's Merkle root")
	}
}

func TestAdd_RejectsDimMismatch(t *testing.T) {
	signer := fixedSigner(t)
	clk := clock.Fake(clockTime())
	cap, err := capsule.Create(3, vecPayload(t, []float32{1, 0, 0}), 0, "", signer, clk, nil)
	if err != nil {
		t.Fatalf("capsule.Create: %v", err)
	}

	b := NewBuilder(2)
	if err := b.Add("x", cap); err == nil {
		t.Fatal("Add should reject a capsule whose dim disagrees with the builder")
	}
}
