// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import "github.com/atomicledger/ledger/lib/atom"

// GhostRecord is what an abandoned Atom becomes: the atom itself (with
// Status set to Ghost), the reason it was abandoned, and the moment it
// happened. GhostTs is not part of the original-source ghost record —
// it is added here because a ghost with no timestamp cannot be ordered
// against the shard it was abandoned from.
type GhostRecord struct {
	Atom    *atom.Atom
	Reason  string
	GhostTs int64
}
