// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"fmt"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/index"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Evidence is the §6.4 wire envelope a query response carries: the
// pack's own claimed CID, the vector dimension, and one scored result
// per document with its Merkle path.
type Evidence struct {
	IndexPackCID string         `json:"index_pack_cid"`
	Dim          uint16         `json:"dim"`
	Results      []index.Result `json:"results"`
}

// Verify checks that ev.IndexPackCID agrees with packCID and that
// every result's Merkle path recomputes to packCID from its own leaf.
// It consults nothing beyond packCID and ev: no pack, no server, no
// network. Strict hex parsing; a malformed hash anywhere in ev fails
// closed.
func Verify(packCID cid.CID, ev Evidence) error {
	claimed, err := cid.Parse(ev.IndexPackCID)
	if err != nil {
		return err
	}
	if claimed != packCID {
		return fmt.Errorf("evidence: %w: evidence claims a different pack cid", ublerr.ErrMerkleMismatch)
	}

	for _, r := range ev.Results {
		leaf, err := cid.Parse(r.LeafHex)
		if err != nil {
			return err
		}
		if err := index.VerifyPath(leaf, r.Path, packCID); err != nil {
			return fmt.Errorf("evidence: result %q: %w", r.ID, err)
		}
	}
	return nil
}
