// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// ProofStep is one level of a Merkle path: the sibling hash at that
// level and whether the sibling sits to the right of the node being
// proven (so the caller knows which side to hash on).
type ProofStep struct {
	Sibling        cid.CID
	SiblingIsRight bool
}

// emptyRoot is the Merkle root of a pack with no documents.
func emptyRoot() cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("empty"))
	return h.Sum()
}

// leafHashDoc computes H("leaf" || id || payloadCID).
func leafHashDoc(id string, payloadCID cid.CID) cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("leaf"))
	h.Write([]byte(id))
	h.Write(payloadCID[:])
	return h.Sum()
}

// nodeHash computes H("node" || left || right).
func nodeHash(left, right cid.CID) cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("node"))
	h.Write(left[:])
	h.Write(right[:])
	return h.Sum()
}

// buildLevels reduces leaves to the root, keeping every intermediate
// level so callers can derive a proof for any leaf index. The lone
// child of an odd-sized level is duplicated rather than promoted.
func buildLevels(leaves []cid.CID) [][]cid.CID {
	levels := [][]cid.CID{leaves}
	for len(levels[len(levels)-1]) > 1 {
		cur := levels[len(levels)-1]
		next := make([]cid.CID, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			left := cur[i]
			right := left
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			next = append(next, nodeHash(left, right))
		}
		levels = append(levels, next)
	}
	return levels
}

// merkleRoot returns the root of leaves, or the empty-tree root if
// leaves is empty.
func merkleRoot(leaves []cid.CID) cid.CID {
	if len(leaves) == 0 {
		return emptyRoot()
	}
	levels := buildLevels(leaves)
	return levels[len(levels)-1][0]
}

// proveLeaf builds the Merkle path for leaves[idx], from the leaf
// level up to (not including) the root.
func proveLeaf(leaves []cid.CID, idx int) ([]ProofStep, error) {
	if idx < 0 || idx >= len(leaves) {
		return nil, fmt.Errorf("index: leaf index %d out of range", idx)
	}
	levels := buildLevels(leaves)

	var path []ProofStep
	for level := 0; level < len(levels)-1; level++ {
		cur := levels[level]
		isLeft := idx%2 == 0
		var sibling cid.CID
		if isLeft {
			if idx+1 < len(cur) {
				sibling = cur[idx+1]
			} else {
				sibling = cur[idx]
			}
		} else {
			sibling = cur[idx-1]
		}
		path = append(path, ProofStep{Sibling: sibling, SiblingIsRight: isLeft})
		idx /= 2
	}
	return path, nil
}

// VerifyPath recomputes root from leaf by walking path bottom-up and
// compares it against expectedRoot. Returns ublerr.ErrMerkleMismatch
// on disagreement.
func VerifyPath(leaf cid.CID, path []ProofStep, expectedRoot cid.CID) error {
	cur := leaf
	for _, step := range path {
		if step.SiblingIsRight {
			cur = nodeHash(cur, step.Sibling)
		} else {
			cur = nodeHash(step.Sibling, cur)
		}
	}
	if cur != expectedRoot {
		return ublerr.ErrMerkleMismatch
	}
	return nil
}
