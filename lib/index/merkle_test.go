// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"testing"

	"github.com/atomicledger/ledger/lib/cid"
)

func testLeaf(data string) cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("leaf"))
	h.Write([]byte(data))
	return h.Sum()
}

func TestMerkle_OneLeaf(t *testing.T) {
	leaf := testLeaf("A")
	root := merkleRoot([]cid.CID{leaf})
	if root != leaf {
		t.Error("single-leaf root should equal the leaf itself")
	}

	path, err := proveLeaf([]cid.CID{leaf}, 0)
	if err != nil {
		t.Fatalf("proveLeaf: %v", err)
	}
	if err := VerifyPath(leaf, path, root); err != nil {
		t.Fatalf("VerifyPath: %v", err)
	}
}

func TestMerkle_ThreeLeavesDuplicateSemantics(t *testing.T) {
	leaves := []cid.CID{testLeaf("A"), testLeaf("B"), testLeaf("C")}
	root := merkleRoot(leaves)

	for i, leaf := range leaves {
		path, err := proveLeaf(leaves, i)
		if err != nil {
			t.Fatalf("proveLeaf(%d): %v", i, err)
		}
		if err := VerifyPath(leaf, path, root); err != nil {
			t.Errorf("VerifyPath(%d): %v", i, err)
		}
	}
}

func TestMerkle_TamperDetection(t *testing.T) {
	leaves := []cid.CID{testLeaf("A"), testLeaf("B")}
	root := merkleRoot(leaves)

	path, err := proveLeaf(leaves, 0)
	if err != nil {
		t.Fatalf("proveLeaf: %v", err)
	}
	path[0].Sibling[0] ^= 0xFF

	if err := VerifyPath(leaves[0], path, root); err == nil {
		t.Fatal("VerifyPath should reject a corrupted sibling hash")
	}
}

func TestMerkle_EmptyTreeRoot(t *testing.T) {
	if merkleRoot(nil) != emptyRoot() {
		t.Error("merkleRoot(nil) should equal emptyRoot()")
	}
}
